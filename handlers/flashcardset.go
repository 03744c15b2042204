package handlers

import "net/http"

// GET /api/sets

func (h *Handler) GetSets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Repo.FlashcardSets(r.Context()))
}

// POST /api/sets

func (h *Handler) CreateFlashCardSet(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := decodeJSON(r, &req, false); err != nil {
		http.Error(w, "Could not decode request", http.StatusBadRequest)
		return
	}

	set, err := h.Repo.CreateFlashcardSet(r.Context(), req.Name, req.Description)
	if err != nil {
		h.writeError(w, "CreateFlashCardSet", err)
		return
	}
	writeJSON(w, http.StatusCreated, set)
}

// GET /api/sets/{setID}

func (h *Handler) GetSetByID(w http.ResponseWriter, r *http.Request) {
	setID := r.PathValue("setID")
	set, ok := h.Repo.FlashcardSet(r.Context(), setID)
	if !ok {
		h.Log.Debug("GetSetByID: set not found", "set_id", setID)
		http.Error(w, "Set not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, set)
}
