package handlers

import (
	"net/http"

	"github.com/andrewpaige1/flashlearn/quiz"
)

type quizQuestion struct {
	CardID        string   `json:"cardId"`
	Front         string   `json:"front"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
}

type quizResponse struct {
	SetID            string         `json:"setId"`
	Available        bool           `json:"available"`
	Message          string         `json:"message,omitempty"`
	TimeLimitSeconds int            `json:"timeLimitSeconds"`
	Questions        []quizQuestion `json:"questions"`
}

// GET /api/sets/{setID}/quiz

// GetQuiz generates a fresh question list. A missing or empty set gets an
// empty-state payload rather than an error.
func (h *Handler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	setID := r.PathValue("setID")
	resp := quizResponse{
		SetID:            setID,
		TimeLimitSeconds: int(h.quizTimeLimit().Seconds()),
		Questions:        []quizQuestion{},
	}

	set, ok := h.Repo.FlashcardSet(r.Context(), setID)
	if !ok || len(set.Cards) == 0 {
		resp.Message = "No cards available"
		writeJSON(w, http.StatusOK, resp)
		return
	}

	resp.Available = true
	for _, q := range quiz.Generate(set.Cards, h.newRand()) {
		resp.Questions = append(resp.Questions, quizQuestion{
			CardID:        q.Card.ID,
			Front:         q.Card.Front,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
