// Package quiz builds multiple-choice questions from a set's cards and runs a
// timed quiz over them.
package quiz

import (
	"math/rand"

	"github.com/andrewpaige1/flashlearn/models"
)

// MaxDistractors is how many wrong options a question gets when the set is
// large enough.
const MaxDistractors = 3

// Question is one multiple-choice prompt for a card.
type Question struct {
	Card          models.Flashcard `json:"card"`
	Options       []string         `json:"options"`
	CorrectAnswer string           `json:"correctAnswer"`
	UserAnswer    string           `json:"userAnswer,omitempty"`
	Answered      bool             `json:"answered"`
	TimeSpent     int              `json:"timeSpent"` // seconds
	IsCorrect     bool             `json:"isCorrect"`
}

// Generate returns one question per card in random order. Each question's
// options are the card's back plus up to MaxDistractors backs of other cards,
// shuffled. Backs are not deduplicated, so cards sharing a back can yield
// options that read the same.
func Generate(cards []models.Flashcard, rnd *rand.Rand) []Question {
	order := rnd.Perm(len(cards))
	questions := make([]Question, 0, len(cards))

	for _, i := range order {
		card := cards[i]

		others := make([]int, 0, len(cards)-1)
		for j := range cards {
			if j != i {
				others = append(others, j)
			}
		}
		rnd.Shuffle(len(others), func(a, b int) {
			others[a], others[b] = others[b], others[a]
		})
		if len(others) > MaxDistractors {
			others = others[:MaxDistractors]
		}

		options := make([]string, 0, len(others)+1)
		options = append(options, card.Back)
		for _, j := range others {
			options = append(options, cards[j].Back)
		}
		rnd.Shuffle(len(options), func(a, b int) {
			options[a], options[b] = options[b], options[a]
		})

		questions = append(questions, Question{
			Card:          card,
			Options:       options,
			CorrectAnswer: card.Back,
		})
	}
	return questions
}
