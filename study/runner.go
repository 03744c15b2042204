// Package study runs the self-paced flip-card review of a set.
package study

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/andrewpaige1/flashlearn/models"
	"github.com/andrewpaige1/flashlearn/utils"
)

var ErrEmptySet = errors.New("study: set has no cards")

// Reviewer records one self-graded review of a card.
type Reviewer interface {
	RecordReview(ctx context.Context, setID, cardID string, correct bool, at time.Time) (models.Flashcard, error)
}

// Completer persists a finished session and returns the updated progress.
type Completer interface {
	Complete(ctx context.Context, session models.StudySession) (models.UserProgress, error)
}

// Stats counts the answers given in the running session.
type Stats struct {
	Correct   int `json:"correct"`
	Incorrect int `json:"incorrect"`
}

// Answered is the number of cards graded so far.
func (s Stats) Answered() int { return s.Correct + s.Incorrect }

// Accuracy is the rounded percentage of correct answers, 0 when nothing was
// graded.
func (s Stats) Accuracy() int {
	if s.Answered() == 0 {
		return 0
	}
	return int(math.Round(float64(s.Correct) / float64(s.Answered()) * 100))
}

type Config struct {
	Now   func() time.Time
	NewID func() string
}

// Runner walks the cards of one set in order. It is not safe for concurrent
// use.
type Runner struct {
	set       models.FlashcardSet
	reviews   Reviewer
	completer Completer
	now       func() time.Time
	newID     func() string

	current  int
	flipped  bool
	stats    Stats
	complete bool
	session  models.StudySession
	progress models.UserProgress
}

func NewRunner(set models.FlashcardSet, reviews Reviewer, completer Completer, cfg Config) (*Runner, error) {
	if len(set.Cards) == 0 {
		return nil, ErrEmptySet
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.NewID == nil {
		cfg.NewID = utils.NewUUID
	}
	set.Cards = append([]models.Flashcard(nil), set.Cards...)
	r := &Runner{
		set:       set,
		reviews:   reviews,
		completer: completer,
		now:       cfg.Now,
		newID:     cfg.NewID,
	}
	r.Reset()
	return r, nil
}

// Reset starts a new session from the first card.
func (r *Runner) Reset() {
	r.current = 0
	r.flipped = false
	r.stats = Stats{}
	r.complete = false
	r.progress = models.UserProgress{}
	r.session = models.StudySession{
		ID:        r.newID(),
		SetID:     r.set.ID,
		StartTime: r.now(),
		Mode:      models.ModeStudy,
	}
}

func (r *Runner) Set() models.FlashcardSet { return r.set }
func (r *Runner) Index() int { return r.current }
func (r *Runner) Len() int { return len(r.set.Cards) }
func (r *Runner) Flipped() bool { return r.flipped }
func (r *Runner) Stats() Stats { return r.stats }
func (r *Runner) Accuracy() int { return r.stats.Accuracy() }
func (r *Runner) IsComplete() bool { return r.complete }
func (r *Runner) Session() models.StudySession { return r.session }
func (r *Runner) Progress() models.UserProgress { return r.progress }

// Current returns the card on display.
func (r *Runner) Current() models.Flashcard {
	return r.set.Cards[r.current]
}

// Flip turns the current card over.
func (r *Runner) Flip() {
	if r.complete {
		return
	}
	r.flipped = !r.flipped
}

// Answer grades the current card, records the review and moves on.
func (r *Runner) Answer(ctx context.Context, correct bool) error {
	if r.complete {
		return nil
	}
	card := r.Current()
	updated, err := r.reviews.RecordReview(ctx, r.set.ID, card.ID, correct, r.now())
	if err != nil {
		return fmt.Errorf("record review: %w", err)
	}
	r.set.Cards[r.current] = updated
	if correct {
		r.stats.Correct++
	} else {
		r.stats.Incorrect++
	}
	return r.advance(ctx)
}

// Skip moves on without grading the current card.
func (r *Runner) Skip(ctx context.Context) error {
	if r.complete {
		return nil
	}
	return r.advance(ctx)
}

func (r *Runner) advance(ctx context.Context) error {
	if r.current < len(r.set.Cards)-1 {
		r.current++
		r.flipped = false
		return nil
	}
	return r.finish(ctx)
}

func (r *Runner) finish(ctx context.Context) error {
	end := r.now()
	r.session.EndTime = &end
	r.session.CardsStudied = len(r.set.Cards)
	r.session.CorrectAnswers = r.stats.Correct
	r.complete = true

	p, err := r.completer.Complete(ctx, r.session)
	if err != nil {
		return fmt.Errorf("complete study session: %w", err)
	}
	r.progress = p
	return nil
}
