// Package progress turns finished study and quiz sessions into the persisted
// session log, progress totals, streak and achievements.
package progress

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/andrewpaige1/flashlearn/logger"
	"github.com/andrewpaige1/flashlearn/models"
	"github.com/andrewpaige1/flashlearn/storage"
)

// Achievement names.
const (
	FirstSession = "first_session"
	Cards100     = "cards_100"
	Streak3      = "streak_3"
	Streak7      = "streak_7"
)

// Store is the persistence the recorder needs. *storage.Repository satisfies it.
type Store interface {
	SaveStudySession(ctx context.Context, session models.StudySession) error
	ModifyUserProgress(ctx context.Context, fn func(models.UserProgress) models.UserProgress) (models.UserProgress, error)
	MarkStudied(ctx context.Context, setID string, at time.Time, minutes int) error
}

type Recorder struct {
	store Store
	log   *logger.Logger
	loc   *time.Location
}

// NewRecorder returns a recorder that compares study days in loc
// (time.Local when nil).
func NewRecorder(store Store, log *logger.Logger, loc *time.Location) *Recorder {
	if loc == nil {
		loc = time.Local
	}
	return &Recorder{store: store, log: log.With("service", "ProgressRecorder"), loc: loc}
}

// Complete persists a finished session and folds it into the progress record.
// The session must carry its end time.
func (r *Recorder) Complete(ctx context.Context, session models.StudySession) (models.UserProgress, error) {
	if session.EndTime == nil {
		return models.UserProgress{}, fmt.Errorf("complete session %s: missing end time", session.ID)
	}
	at := *session.EndTime
	minutes := Minutes(session.StartTime, at)

	if err := r.store.SaveStudySession(ctx, session); err != nil {
		return models.UserProgress{}, fmt.Errorf("save session: %w", err)
	}

	updated, err := r.store.ModifyUserProgress(ctx, func(p models.UserProgress) models.UserProgress {
		return Apply(p, session.CardsStudied, minutes, at, r.loc)
	})
	if err != nil {
		return models.UserProgress{}, fmt.Errorf("update progress: %w", err)
	}

	if err := r.store.MarkStudied(ctx, session.SetID, at, minutes); err != nil {
		if !errors.Is(err, storage.ErrSetNotFound) {
			return updated, fmt.Errorf("mark set studied: %w", err)
		}
		r.log.Warn("session references a missing set", "set_id", session.SetID, "session_id", session.ID)
	}

	r.log.Info("session completed",
		"mode", session.Mode,
		"cards", session.CardsStudied,
		"correct", session.CorrectAnswers,
		"minutes", minutes,
		"streak_days", updated.StreakDays,
	)
	return updated, nil
}

// Apply returns p after one more session of cards studied for minutes, ending
// at. The streak grows by one when at falls on a different calendar day (in
// loc) than the last recorded study date.
func Apply(p models.UserProgress, cards, minutes int, at time.Time, loc *time.Location) models.UserProgress {
	if p.LastStudyDate == nil || !SameDay(*p.LastStudyDate, at, loc) {
		p.StreakDays++
	}
	p.TotalCardsStudied += cards
	p.TotalStudyTime += minutes
	p.LastStudyDate = &at

	earned := append([]string{}, p.Achievements...)
	add := func(name string, ok bool) {
		if ok && !p.HasAchievement(name) {
			earned = append(earned, name)
		}
	}
	add(FirstSession, true)
	add(Cards100, p.TotalCardsStudied >= 100)
	add(Streak3, p.StreakDays >= 3)
	add(Streak7, p.StreakDays >= 7)
	p.Achievements = earned
	return p
}

// SameDay reports whether a and b fall on the same calendar day in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

// Minutes is the whole number of minutes between start and end, rounded.
func Minutes(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	return int(math.Round(end.Sub(start).Minutes()))
}
