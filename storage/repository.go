package storage

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/andrewpaige1/flashlearn/logger"
	"github.com/andrewpaige1/flashlearn/models"
	"github.com/andrewpaige1/flashlearn/utils"
)

// Repository reads and writes the sets, sessions and progress collections.
//
// Reads never fail: a missing or unreadable collection reads as empty. Writes
// rewrite the whole collection. Mutations are serialized inside one process;
// separate processes sharing a store race and the last write wins.
type Repository struct {
	store Store
	log   *logger.Logger
	now   func() time.Time
	newID func() (string, error)

	mu sync.Mutex
}

type Option func(*Repository)

// WithClock overrides the time source used for createdAt stamps.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

// WithIDGenerator overrides how set and card ids are produced.
func WithIDGenerator(fn func() (string, error)) Option {
	return func(r *Repository) { r.newID = fn }
}

func NewRepository(store Store, log *logger.Logger, opts ...Option) *Repository {
	r := &Repository{
		store: store,
		log:   log.With("service", "Repository"),
		now:   time.Now,
		newID: utils.NewID,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Store exposes the underlying key-value store.
func (r *Repository) Store() Store {
	return r.store
}

// FlashcardSets returns every set, or an empty slice when none can be read.
func (r *Repository) FlashcardSets(ctx context.Context) []models.FlashcardSet {
	var sets []models.FlashcardSet
	if !ReadJSON(ctx, r.store, r.log, KeyFlashcardSets, &sets) || sets == nil {
		return []models.FlashcardSet{}
	}
	for i := range sets {
		if sets[i].Cards == nil {
			sets[i].Cards = []models.Flashcard{}
		}
		for j := range sets[i].Cards {
			if sets[i].Cards[j].Tags == nil {
				sets[i].Cards[j].Tags = []string{}
			}
		}
	}
	return sets
}

// FlashcardSet looks a set up by id.
func (r *Repository) FlashcardSet(ctx context.Context, id string) (models.FlashcardSet, bool) {
	for _, s := range r.FlashcardSets(ctx) {
		if s.ID == id {
			return s, true
		}
	}
	return models.FlashcardSet{}, false
}

func (r *Repository) SaveFlashcardSets(ctx context.Context, sets []models.FlashcardSet) error {
	return WriteJSON(ctx, r.store, KeyFlashcardSets, sets)
}

func (r *Repository) CreateFlashcardSet(ctx context.Context, name, description string) (models.FlashcardSet, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.FlashcardSet{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	id, err := r.newID()
	if err != nil {
		return models.FlashcardSet{}, fmt.Errorf("generate set id: %w", err)
	}
	set := models.FlashcardSet{
		ID:          id,
		Name:        name,
		Description: strings.TrimSpace(description),
		Cards:       []models.Flashcard{},
		CreatedAt:   r.now(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	sets := r.FlashcardSets(ctx)
	sets = append(sets, set)
	if err := r.SaveFlashcardSets(ctx, sets); err != nil {
		return models.FlashcardSet{}, err
	}
	r.log.Debug("created flashcard set", "set_id", set.ID, "name", set.Name)
	return set, nil
}

func (r *Repository) AddFlashcard(ctx context.Context, setID string, in NewCard) (models.Flashcard, error) {
	if err := in.normalize(); err != nil {
		return models.Flashcard{}, err
	}
	id, err := r.newID()
	if err != nil {
		return models.Flashcard{}, fmt.Errorf("generate card id: %w", err)
	}
	card := models.Flashcard{
		ID:         id,
		Front:      in.Front,
		Back:       in.Back,
		Category:   in.Category,
		Difficulty: in.Difficulty,
		CreatedAt:  r.now(),
		Tags:       in.Tags,
	}

	err = r.mutateSet(ctx, setID, func(set *models.FlashcardSet) error {
		set.Cards = append(set.Cards, card)
		return nil
	})
	if err != nil {
		return models.Flashcard{}, err
	}
	return card, nil
}

func (r *Repository) UpdateFlashcard(ctx context.Context, setID, cardID string, patch CardPatch) (models.Flashcard, error) {
	if err := patch.normalize(); err != nil {
		return models.Flashcard{}, err
	}
	var updated models.Flashcard
	err := r.mutateCard(ctx, setID, cardID, func(c *models.Flashcard) {
		patch.apply(c)
		updated = *c
	})
	return updated, err
}

// RecordReview counts one review of a card and stamps when it happened.
func (r *Repository) RecordReview(ctx context.Context, setID, cardID string, correct bool, at time.Time) (models.Flashcard, error) {
	var updated models.Flashcard
	err := r.mutateCard(ctx, setID, cardID, func(c *models.Flashcard) {
		c.ReviewCount++
		if correct {
			c.CorrectCount++
		}
		c.LastReviewed = &at
		updated = *c
	})
	return updated, err
}

func (r *Repository) DeleteFlashcard(ctx context.Context, setID, cardID string) error {
	return r.mutateSet(ctx, setID, func(set *models.FlashcardSet) error {
		i := set.CardIndex(cardID)
		if i < 0 {
			return ErrCardNotFound
		}
		set.Cards = append(set.Cards[:i], set.Cards[i+1:]...)
		return nil
	})
}

// MarkStudied stamps the set's last study time and adds to its study total.
func (r *Repository) MarkStudied(ctx context.Context, setID string, at time.Time, minutes int) error {
	return r.mutateSet(ctx, setID, func(set *models.FlashcardSet) error {
		set.LastStudied = &at
		set.TotalStudyTime += minutes
		return nil
	})
}

func (r *Repository) mutateCard(ctx context.Context, setID, cardID string, fn func(*models.Flashcard)) error {
	return r.mutateSet(ctx, setID, func(set *models.FlashcardSet) error {
		i := set.CardIndex(cardID)
		if i < 0 {
			return ErrCardNotFound
		}
		fn(&set.Cards[i])
		return nil
	})
}

func (r *Repository) mutateSet(ctx context.Context, setID string, fn func(*models.FlashcardSet) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sets := r.FlashcardSets(ctx)
	for i := range sets {
		if sets[i].ID != setID {
			continue
		}
		if err := fn(&sets[i]); err != nil {
			return err
		}
		return r.SaveFlashcardSets(ctx, sets)
	}
	return ErrSetNotFound
}

// StudySessions returns the session log, or an empty slice.
func (r *Repository) StudySessions(ctx context.Context) []models.StudySession {
	var sessions []models.StudySession
	if !ReadJSON(ctx, r.store, r.log, KeyStudySessions, &sessions) || sessions == nil {
		return []models.StudySession{}
	}
	return sessions
}

// SaveStudySession replaces the session with the same id or appends it.
func (r *Repository) SaveStudySession(ctx context.Context, session models.StudySession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sessions := r.StudySessions(ctx)
	replaced := false
	for i := range sessions {
		if sessions[i].ID == session.ID {
			sessions[i] = session
			replaced = true
			break
		}
	}
	if !replaced {
		sessions = append(sessions, session)
	}
	return WriteJSON(ctx, r.store, KeyStudySessions, sessions)
}

// UserProgress returns the progress record, or the default one.
func (r *Repository) UserProgress(ctx context.Context) models.UserProgress {
	var p models.UserProgress
	if !ReadJSON(ctx, r.store, r.log, KeyUserProgress, &p) {
		return models.DefaultUserProgress()
	}
	if p.Achievements == nil {
		p.Achievements = []string{}
	}
	return p
}

// UpdateUserProgress merges patch into the stored record and overwrites it.
func (r *Repository) UpdateUserProgress(ctx context.Context, patch ProgressPatch) (models.UserProgress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.UserProgress(ctx)
	patch.apply(&p)
	if err := WriteJSON(ctx, r.store, KeyUserProgress, p); err != nil {
		return models.UserProgress{}, err
	}
	return p, nil
}

// ModifyUserProgress reads the progress record, applies fn and writes the
// result, all under the repository lock.
func (r *Repository) ModifyUserProgress(ctx context.Context, fn func(models.UserProgress) models.UserProgress) (models.UserProgress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := fn(r.UserProgress(ctx))
	if err := WriteJSON(ctx, r.store, KeyUserProgress, p); err != nil {
		return models.UserProgress{}, err
	}
	return p, nil
}
