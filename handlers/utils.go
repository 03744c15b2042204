package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"math/rand"
	"net/http"
	"time"

	"github.com/andrewpaige1/flashlearn/logger"
	"github.com/andrewpaige1/flashlearn/offline"
	"github.com/andrewpaige1/flashlearn/progress"
	"github.com/andrewpaige1/flashlearn/quiz"
	"github.com/andrewpaige1/flashlearn/storage"
)

// Handler serves the JSON API over the local repository.
type Handler struct {
	Repo     *storage.Repository
	Recorder *progress.Recorder
	Queue    *offline.Queue
	Sync     *offline.BackgroundSync
	Log      *logger.Logger

	QuizTimeLimit time.Duration
	NewRand       func() *rand.Rand
	Now           func() time.Time
}

// Register mounts every API route on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	// Set
	mux.HandleFunc("GET /api/sets", h.GetSets)
	mux.HandleFunc("POST /api/sets", h.CreateFlashCardSet)
	mux.HandleFunc("GET /api/sets/{setID}", h.GetSetByID)
	mux.HandleFunc("GET /api/sets/{setID}/quiz", h.GetQuiz)

	// Flashcard
	mux.HandleFunc("POST /api/sets/{setID}/flashcards", h.CreateFlashCard)
	mux.HandleFunc("PUT /api/sets/{setID}/flashcards/{flashcardID}", h.UpdateFlashCardByID)
	mux.HandleFunc("DELETE /api/sets/{setID}/flashcards/{flashcardID}", h.DeleteFlashCardByID)
	mux.HandleFunc("POST /api/sets/{setID}/flashcards/{flashcardID}/review", h.ReviewFlashCard)

	// Sessions and progress
	mux.HandleFunc("GET /api/sessions", h.GetSessions)
	mux.HandleFunc("POST /api/sessions", h.CompleteSession)
	mux.HandleFunc("GET /api/progress", h.GetProgress)

	// Offline queue
	mux.HandleFunc("GET /api/offline/actions", h.GetOfflineActions)
	mux.HandleFunc("POST /api/offline/actions", h.QueueOfflineAction)
	mux.HandleFunc("DELETE /api/offline/actions", h.ClearOfflineActions)
	mux.HandleFunc("POST /api/sync", h.TriggerSync)

	mux.HandleFunc("GET /healthz", h.Health)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h *Handler) newRand() *rand.Rand {
	if h.NewRand != nil {
		return h.NewRand()
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

func (h *Handler) quizTimeLimit() time.Duration {
	if h.QuizTimeLimit > 0 {
		return h.QuizTimeLimit
	}
	return quiz.DefaultTimeLimit
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// decodeJSON decodes the request body into dst, rejecting unknown fields. An
// empty body leaves dst untouched when allowEmpty is set.
func decodeJSON(r *http.Request, dst interface{}, allowEmpty bool) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	err := decoder.Decode(dst)
	if allowEmpty && errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// writeError maps storage and queue errors to a status and plain-text body.
func (h *Handler) writeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, storage.ErrSetNotFound):
		http.Error(w, "Set not found", http.StatusNotFound)
	case errors.Is(err, storage.ErrCardNotFound):
		http.Error(w, "Flashcard not found", http.StatusNotFound)
	case errors.Is(err, storage.ErrInvalidInput), errors.Is(err, offline.ErrUnknownTag):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.Log.Error(op+": request failed", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
