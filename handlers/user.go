package handlers

import (
	"fmt"
	"net/http"

	"github.com/andrewpaige1/flashlearn/models"
	"github.com/andrewpaige1/flashlearn/storage"
	"github.com/andrewpaige1/flashlearn/utils"
)

// GET /api/sessions

func (h *Handler) GetSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Repo.StudySessions(r.Context()))
}

// POST /api/sessions

// CompleteSession records a finished study or quiz run and returns the
// updated progress. A missing end time is stamped with the current time.
func (h *Handler) CompleteSession(w http.ResponseWriter, r *http.Request) {
	var session models.StudySession
	if err := decodeJSON(r, &session, false); err != nil {
		http.Error(w, "Could not decode request", http.StatusBadRequest)
		return
	}
	if session.SetID == "" {
		h.writeError(w, "CompleteSession", fmt.Errorf("%w: setId is required", storage.ErrInvalidInput))
		return
	}
	if session.Mode != models.ModeStudy && session.Mode != models.ModeQuiz {
		h.writeError(w, "CompleteSession", fmt.Errorf("%w: unknown mode %q", storage.ErrInvalidInput, session.Mode))
		return
	}
	if session.ID == "" {
		session.ID = utils.NewUUID()
	}
	if session.EndTime == nil {
		end := h.now()
		session.EndTime = &end
	}
	if session.StartTime.IsZero() {
		session.StartTime = *session.EndTime
	}

	p, err := h.Recorder.Complete(r.Context(), session)
	if err != nil {
		h.writeError(w, "CompleteSession", err)
		return
	}
	writeJSON(w, http.StatusCreated, struct {
		Session  models.StudySession `json:"session"`
		Progress models.UserProgress `json:"progress"`
	}{session, p})
}

// GET /api/progress

func (h *Handler) GetProgress(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Repo.UserProgress(r.Context()))
}
