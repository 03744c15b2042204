package tui

import (
	"time"

	"github.com/andrewpaige1/flashlearn/models"
)

// DataLoadedMsg carries the sets and progress read from storage.
type DataLoadedMsg struct {
	Sets     []models.FlashcardSet
	Progress models.UserProgress
}

// QuizTickMsg fires once a second while a quiz question is open. Gen ties
// the tick to the quiz run that scheduled it.
type QuizTickMsg struct {
	Time time.Time
	Gen  int
}

// ClearTransientErrorMsg clears an error shown in the status line.
type ClearTransientErrorMsg struct{}
