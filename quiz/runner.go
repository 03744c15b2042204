package quiz

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/andrewpaige1/flashlearn/models"
	"github.com/andrewpaige1/flashlearn/utils"
)

// DefaultTimeLimit is the time allowed per question.
const DefaultTimeLimit = 30 * time.Second

var ErrEmptySet = errors.New("quiz: set has no cards")

// Reviewer records one graded review of a card.
type Reviewer interface {
	RecordReview(ctx context.Context, setID, cardID string, correct bool, at time.Time) (models.Flashcard, error)
}

// Completer persists a finished session and returns the updated progress.
type Completer interface {
	Complete(ctx context.Context, session models.StudySession) (models.UserProgress, error)
}

type Config struct {
	TimeLimit time.Duration
	Rand      *rand.Rand
	Now       func() time.Time
	NewID     func() string
}

// Runner drives one timed quiz over a set. It is not safe for concurrent use;
// the owning view calls it from its event loop.
type Runner struct {
	set       models.FlashcardSet
	reviews   Reviewer
	completer Completer

	limit time.Duration
	rnd   *rand.Rand
	now   func() time.Time
	newID func() string

	questions     []Question
	current       int
	selected      string
	showResult    bool
	complete      bool
	questionStart time.Time
	session       models.StudySession
	progress      models.UserProgress
}

// NewRunner generates the questions and starts the quiz clock.
func NewRunner(set models.FlashcardSet, reviews Reviewer, completer Completer, cfg Config) (*Runner, error) {
	if len(set.Cards) == 0 {
		return nil, ErrEmptySet
	}
	if cfg.TimeLimit <= 0 {
		cfg.TimeLimit = DefaultTimeLimit
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.NewID == nil {
		cfg.NewID = utils.NewUUID
	}
	r := &Runner{
		set:       set,
		reviews:   reviews,
		completer: completer,
		limit:     cfg.TimeLimit,
		rnd:       cfg.Rand,
		now:       cfg.Now,
		newID:     cfg.NewID,
	}
	r.Reset()
	return r, nil
}

// Reset starts a fresh quiz with newly generated questions.
func (r *Runner) Reset() {
	start := r.now()
	r.questions = Generate(r.set.Cards, r.rnd)
	r.current = 0
	r.selected = ""
	r.showResult = false
	r.complete = false
	r.questionStart = start
	r.progress = models.UserProgress{}
	r.session = models.StudySession{
		ID:        r.newID(),
		SetID:     r.set.ID,
		StartTime: start,
		Mode:      models.ModeQuiz,
	}
}

func (r *Runner) Set() models.FlashcardSet { return r.set }
func (r *Runner) Questions() []Question { return r.questions }
func (r *Runner) Index() int { return r.current }
func (r *Runner) Len() int { return len(r.questions) }
func (r *Runner) Selected() string { return r.selected }
func (r *Runner) ShowingResult() bool { return r.showResult }
func (r *Runner) IsComplete() bool { return r.complete }
func (r *Runner) Session() models.StudySession { return r.session }

// Progress is the progress record returned when the quiz completed.
func (r *Runner) Progress() models.UserProgress { return r.progress }

// Current returns the question being asked.
func (r *Runner) Current() Question {
	return r.questions[r.current]
}

// Select marks option as the pending answer. Ignored once the question has
// been submitted.
func (r *Runner) Select(option string) {
	if r.showResult || r.complete {
		return
	}
	r.selected = option
}

// TimeLeft is the limit minus the whole seconds elapsed since the question
// started, never below zero.
func (r *Runner) TimeLeft(now time.Time) time.Duration {
	elapsed := now.Sub(r.questionStart) / time.Second
	remaining := r.limit/time.Second - elapsed
	if remaining < 0 {
		remaining = 0
	}
	return remaining * time.Second
}

// Tick submits the pending answer, possibly empty, once the question's time is
// up. It reports whether it submitted.
func (r *Runner) Tick(ctx context.Context, now time.Time) (bool, error) {
	if r.showResult || r.complete {
		return false, nil
	}
	if r.TimeLeft(now) > 0 {
		return false, nil
	}
	return true, r.Submit(ctx)
}

// Submit records a review of the card and grades the pending answer. The
// question stays open when the review cannot be recorded.
func (r *Runner) Submit(ctx context.Context) error {
	if r.showResult || r.complete {
		return nil
	}
	now := r.now()
	q := &r.questions[r.current]
	correct := r.selected == q.CorrectAnswer

	card, err := r.reviews.RecordReview(ctx, r.set.ID, q.Card.ID, correct, now)
	if err != nil {
		return fmt.Errorf("record review: %w", err)
	}
	q.Card = card
	q.UserAnswer = r.selected
	q.Answered = true
	q.TimeSpent = int(now.Sub(r.questionStart) / time.Second)
	q.IsCorrect = correct
	r.showResult = true
	return nil
}

// Next moves past a submitted question, completing the quiz after the last one.
func (r *Runner) Next(ctx context.Context) error {
	if !r.showResult || r.complete {
		return nil
	}
	if r.current < len(r.questions)-1 {
		r.current++
		r.selected = ""
		r.showResult = false
		r.questionStart = r.now()
		return nil
	}
	return r.finish(ctx)
}

func (r *Runner) finish(ctx context.Context) error {
	end := r.now()
	correct, total := r.Score()
	r.session.EndTime = &end
	r.session.CardsStudied = total
	r.session.CorrectAnswers = correct
	r.complete = true

	p, err := r.completer.Complete(ctx, r.session)
	if err != nil {
		return fmt.Errorf("complete quiz: %w", err)
	}
	r.progress = p
	return nil
}

// Score counts correct answers out of all questions.
func (r *Runner) Score() (correct, total int) {
	for _, q := range r.questions {
		if q.IsCorrect {
			correct++
		}
	}
	return correct, len(r.questions)
}

// Results lists the outcome of every answered question.
func (r *Runner) Results() []models.QuizResult {
	out := make([]models.QuizResult, 0, len(r.questions))
	for _, q := range r.questions {
		if !q.Answered {
			continue
		}
		out = append(out, models.QuizResult{
			CardID:    q.Card.ID,
			Correct:   q.IsCorrect,
			TimeSpent: q.TimeSpent,
			Attempts:  1,
		})
	}
	return out
}
