// Package replay applies actions queued while offline to local storage.
package replay

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/andrewpaige1/flashlearn/logger"
	"github.com/andrewpaige1/flashlearn/models"
	"github.com/andrewpaige1/flashlearn/offline"
	"github.com/andrewpaige1/flashlearn/storage"
)

// Action types understood by the handlers.
const (
	CreateFlashcardSet = "CREATE_FLASHCARD_SET"
	UpdateFlashcard    = "UPDATE_FLASHCARD"
	StudySession       = "STUDY_SESSION"
)

// CreateSetPayload is the data of a CREATE_FLASHCARD_SET action.
type CreateSetPayload struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Cards       []storage.NewCard `json:"cards"`
}

// UpdateCardPayload is the data of an UPDATE_FLASHCARD action.
type UpdateCardPayload struct {
	SetID       string            `json:"setId"`
	FlashcardID string            `json:"flashcardId"`
	Updates     storage.CardPatch `json:"updates"`
}

type Repository interface {
	CreateFlashcardSet(ctx context.Context, name, description string) (models.FlashcardSet, error)
	AddFlashcard(ctx context.Context, setID string, in storage.NewCard) (models.Flashcard, error)
	UpdateFlashcard(ctx context.Context, setID, cardID string, patch storage.CardPatch) (models.Flashcard, error)
	SaveStudySession(ctx context.Context, session models.StudySession) error
}

type Completer interface {
	Complete(ctx context.Context, session models.StudySession) (models.UserProgress, error)
}

type Handlers struct {
	repo      Repository
	completer Completer
	log       *logger.Logger
}

func NewHandlers(repo Repository, completer Completer, log *logger.Logger) *Handlers {
	return &Handlers{repo: repo, completer: completer, log: log.With("service", "Replay")}
}

// CreateSet creates the set and adds its cards in order. Cards that fail
// validation are skipped.
func (h *Handlers) CreateSet(ctx context.Context, action models.OfflineAction) error {
	var p CreateSetPayload
	if err := decode(action, &p); err != nil {
		return err
	}
	set, err := h.repo.CreateFlashcardSet(ctx, p.Name, p.Description)
	if err != nil {
		return fmt.Errorf("replay %s: %w", action.ID, err)
	}
	for i, card := range p.Cards {
		if _, err := h.repo.AddFlashcard(ctx, set.ID, card); err != nil {
			h.log.Warn("skipping queued card", "action_id", action.ID, "index", i, "error", err)
		}
	}
	h.log.Debug("replayed set creation", "set_id", set.ID, "cards", len(p.Cards))
	return nil
}

func (h *Handlers) UpdateCard(ctx context.Context, action models.OfflineAction) error {
	var p UpdateCardPayload
	if err := decode(action, &p); err != nil {
		return err
	}
	if strings.TrimSpace(p.SetID) == "" || strings.TrimSpace(p.FlashcardID) == "" {
		return fmt.Errorf("replay %s: %w: setId and flashcardId are required", action.ID, storage.ErrInvalidInput)
	}
	if _, err := h.repo.UpdateFlashcard(ctx, p.SetID, p.FlashcardID, p.Updates); err != nil {
		return fmt.Errorf("replay %s: %w", action.ID, err)
	}
	return nil
}

// RecordSession completes a finished session, or just logs an unfinished one.
func (h *Handlers) RecordSession(ctx context.Context, action models.OfflineAction) error {
	var s models.StudySession
	if err := decode(action, &s); err != nil {
		return err
	}
	if s.ID == "" || s.SetID == "" {
		return fmt.Errorf("replay %s: %w: session id and setId are required", action.ID, storage.ErrInvalidInput)
	}
	if s.EndTime == nil {
		return h.repo.SaveStudySession(ctx, s)
	}
	if _, err := h.completer.Complete(ctx, s); err != nil {
		return fmt.Errorf("replay %s: %w", action.ID, err)
	}
	return nil
}

// Register installs every handler on d.
func (h *Handlers) Register(d *offline.Dispatcher) {
	d.Register(CreateFlashcardSet, h.CreateSet)
	d.Register(UpdateFlashcard, h.UpdateCard)
	d.Register(StudySession, h.RecordSession)
}

func decode(action models.OfflineAction, dst interface{}) error {
	if err := json.Unmarshal(action.Data, dst); err != nil {
		return fmt.Errorf("replay %s: decode %s: %w", action.ID, action.Type, err)
	}
	return nil
}
