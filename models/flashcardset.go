package models

import (
	"time"
)

// FlashcardSet represents a collection of flashcards
type FlashcardSet struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Cards       []Flashcard `json:"cards"`
	CreatedAt   time.Time   `json:"createdAt"`

	LastStudied    *time.Time `json:"lastStudied,omitempty"`
	TotalStudyTime int        `json:"totalStudyTime"` // minutes
}

// CardIndex returns the position of the card with the given id, or -1.
func (s *FlashcardSet) CardIndex(cardID string) int {
	for i := range s.Cards {
		if s.Cards[i].ID == cardID {
			return i
		}
	}
	return -1
}
