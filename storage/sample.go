package storage

import (
	"context"

	"github.com/andrewpaige1/flashlearn/models"
)

var sampleCards = []NewCard{
	{Front: "Hello", Back: "Hola", Category: "Greetings", Difficulty: models.DifficultyEasy, Tags: []string{"basic", "greeting"}},
	{Front: "Goodbye", Back: "Adiós", Category: "Greetings", Difficulty: models.DifficultyEasy, Tags: []string{"basic", "greeting"}},
	{Front: "Thank you", Back: "Gracias", Category: "Politeness", Difficulty: models.DifficultyEasy, Tags: []string{"basic", "polite"}},
	{Front: "Please", Back: "Por favor", Category: "Politeness", Difficulty: models.DifficultyEasy, Tags: []string{"basic", "polite"}},
	{Front: "How are you?", Back: "¿Cómo estás?", Category: "Questions", Difficulty: models.DifficultyMedium, Tags: []string{"question", "conversation"}},
	{Front: "I am fine", Back: "Estoy bien", Category: "Responses", Difficulty: models.DifficultyMedium, Tags: []string{"response", "conversation"}},
	{Front: "What is your name?", Back: "¿Cómo te llamas?", Category: "Questions", Difficulty: models.DifficultyMedium, Tags: []string{"question", "introduction"}},
	{Front: "My name is...", Back: "Me llamo...", Category: "Responses", Difficulty: models.DifficultyMedium, Tags: []string{"response", "introduction"}},
}

// InitializeSampleData seeds a starter set when the store holds no sets yet.
func (r *Repository) InitializeSampleData(ctx context.Context) error {
	if len(r.FlashcardSets(ctx)) > 0 {
		return nil
	}
	set, err := r.CreateFlashcardSet(ctx, "Spanish Basics", "Essential Spanish vocabulary for beginners")
	if err != nil {
		return err
	}
	for _, c := range sampleCards {
		c.Tags = append([]string(nil), c.Tags...)
		if _, err := r.AddFlashcard(ctx, set.ID, c); err != nil {
			return err
		}
	}
	r.log.Info("seeded sample data", "set_id", set.ID, "cards", len(sampleCards))
	return nil
}
