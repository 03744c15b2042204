package handlers

import (
	"net/http"

	"github.com/andrewpaige1/flashlearn/storage"
)

// POST /api/sets/{setID}/flashcards

func (h *Handler) CreateFlashCard(w http.ResponseWriter, r *http.Request) {
	var req storage.NewCard
	if err := decodeJSON(r, &req, false); err != nil {
		http.Error(w, "Could not decode request", http.StatusBadRequest)
		return
	}

	card, err := h.Repo.AddFlashcard(r.Context(), r.PathValue("setID"), req)
	if err != nil {
		h.writeError(w, "CreateFlashCard", err)
		return
	}
	writeJSON(w, http.StatusCreated, card)
}

// PUT /api/sets/{setID}/flashcards/{flashcardID}

func (h *Handler) UpdateFlashCardByID(w http.ResponseWriter, r *http.Request) {
	var patch storage.CardPatch
	if err := decodeJSON(r, &patch, false); err != nil {
		http.Error(w, "Could not decode request", http.StatusBadRequest)
		return
	}

	card, err := h.Repo.UpdateFlashcard(r.Context(), r.PathValue("setID"), r.PathValue("flashcardID"), patch)
	if err != nil {
		h.writeError(w, "UpdateFlashCardByID", err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

// DELETE /api/sets/{setID}/flashcards/{flashcardID}

func (h *Handler) DeleteFlashCardByID(w http.ResponseWriter, r *http.Request) {
	if err := h.Repo.DeleteFlashcard(r.Context(), r.PathValue("setID"), r.PathValue("flashcardID")); err != nil {
		h.writeError(w, "DeleteFlashCardByID", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /api/sets/{setID}/flashcards/{flashcardID}/review

func (h *Handler) ReviewFlashCard(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Correct *bool `json:"correct"`
	}
	if err := decodeJSON(r, &req, false); err != nil || req.Correct == nil {
		http.Error(w, "Request must include correct", http.StatusBadRequest)
		return
	}

	card, err := h.Repo.RecordReview(r.Context(), r.PathValue("setID"), r.PathValue("flashcardID"), *req.Correct, h.now())
	if err != nil {
		h.writeError(w, "ReviewFlashCard", err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}
