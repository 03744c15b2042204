package models

import (
	"time"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is one of the known difficulty levels.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Flashcard represents an individual flashcard
type Flashcard struct {
	ID         string     `json:"id"`
	Front      string     `json:"front"`
	Back       string     `json:"back"`
	Category   string     `json:"category"`
	Difficulty Difficulty `json:"difficulty"`
	CreatedAt  time.Time  `json:"createdAt"`

	// Review tracking
	LastReviewed *time.Time `json:"lastReviewed,omitempty"`
	ReviewCount  int        `json:"reviewCount"`
	CorrectCount int        `json:"correctCount"`

	Tags []string `json:"tags"`
}
