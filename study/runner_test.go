package study

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrewpaige1/flashlearn/models"
)

type review struct {
	cardID  string
	correct bool
}

type fakeStore struct {
	reviews   []review
	sessions  []models.StudySession
	reviewErr error
}

func (f *fakeStore) RecordReview(_ context.Context, _, cardID string, correct bool, at time.Time) (models.Flashcard, error) {
	if f.reviewErr != nil {
		return models.Flashcard{}, f.reviewErr
	}
	f.reviews = append(f.reviews, review{cardID, correct})
	c := models.Flashcard{ID: cardID, ReviewCount: 1, LastReviewed: &at}
	if correct {
		c.CorrectCount = 1
	}
	return c, nil
}

func (f *fakeStore) Complete(_ context.Context, s models.StudySession) (models.UserProgress, error) {
	f.sessions = append(f.sessions, s)
	return models.UserProgress{TotalCardsStudied: s.CardsStudied, StreakDays: 1}, nil
}

func deck() models.FlashcardSet {
	return models.FlashcardSet{
		ID:   "set-1",
		Name: "Spanish",
		Cards: []models.Flashcard{
			{ID: "a", Front: "Hello", Back: "Hola"},
			{ID: "b", Front: "Goodbye", Back: "Adiós"},
			{ID: "c", Front: "Thanks", Back: "Gracias"},
		},
	}
}

func newRunner(t *testing.T, f *fakeStore) *Runner {
	t.Helper()
	start := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	calls := 0
	r, err := NewRunner(deck(), f, f, Config{
		Now: func() time.Time {
			calls++
			return start.Add(time.Duration(calls) * time.Minute)
		},
		NewID: func() string { return "s1" },
	})
	require.NoError(t, err)
	return r
}

func TestNewRunnerRejectsEmptySet(t *testing.T) {
	_, err := NewRunner(models.FlashcardSet{ID: "empty"}, nil, nil, Config{})
	assert.ErrorIs(t, err, ErrEmptySet)
}

func TestAnswerRecordsReviewAndAdvances(t *testing.T) {
	f := &fakeStore{}
	r := newRunner(t, f)
	ctx := context.Background()

	r.Flip()
	assert.True(t, r.Flipped())
	require.NoError(t, r.Answer(ctx, true))

	assert.Equal(t, 1, r.Index())
	assert.False(t, r.Flipped(), "next card starts face up")
	assert.Equal(t, []review{{"a", true}}, f.reviews)
	assert.Equal(t, Stats{Correct: 1}, r.Stats())
	assert.Equal(t, 1, r.Set().Cards[0].CorrectCount)
	assert.False(t, r.IsComplete())
}

func TestSkipLeavesStatsAlone(t *testing.T) {
	f := &fakeStore{}
	r := newRunner(t, f)

	require.NoError(t, r.Skip(context.Background()))
	assert.Equal(t, 1, r.Index())
	assert.Empty(t, f.reviews)
	assert.Equal(t, Stats{}, r.Stats())
}

func TestCompletionCountsEveryCard(t *testing.T) {
	f := &fakeStore{}
	r := newRunner(t, f)
	ctx := context.Background()

	require.NoError(t, r.Answer(ctx, true))
	require.NoError(t, r.Skip(ctx))
	require.NoError(t, r.Answer(ctx, false))

	require.True(t, r.IsComplete())
	require.Len(t, f.sessions, 1)
	s := f.sessions[0]
	assert.Equal(t, "s1", s.ID)
	assert.Equal(t, "set-1", s.SetID)
	assert.Equal(t, models.ModeStudy, s.Mode)
	assert.Equal(t, 3, s.CardsStudied, "skipped cards still count as studied")
	assert.Equal(t, 1, s.CorrectAnswers)
	require.NotNil(t, s.EndTime)
	assert.True(t, s.EndTime.After(s.StartTime))
	assert.Equal(t, 3, r.Progress().TotalCardsStudied)
	assert.Equal(t, 50, r.Accuracy())

	require.NoError(t, r.Answer(ctx, true), "answers after completion are ignored")
	assert.Len(t, f.reviews, 2)
}

func TestAnswerErrorKeepsPosition(t *testing.T) {
	f := &fakeStore{reviewErr: errors.New("disk full")}
	r := newRunner(t, f)

	err := r.Answer(context.Background(), true)
	assert.ErrorContains(t, err, "disk full")
	assert.Equal(t, 0, r.Index())
	assert.Equal(t, Stats{}, r.Stats())
}

func TestResetStartsNewSession(t *testing.T) {
	f := &fakeStore{}
	r := newRunner(t, f)
	ctx := context.Background()
	for i := 0; i < r.Len(); i++ {
		require.NoError(t, r.Answer(ctx, true))
	}
	require.True(t, r.IsComplete())

	r.Reset()
	assert.False(t, r.IsComplete())
	assert.Equal(t, 0, r.Index())
	assert.Equal(t, Stats{}, r.Stats())
	assert.Nil(t, r.Session().EndTime)
}

func TestAccuracy(t *testing.T) {
	assert.Equal(t, 0, Stats{}.Accuracy())
	assert.Equal(t, 67, Stats{Correct: 2, Incorrect: 1}.Accuracy())
	assert.Equal(t, 100, Stats{Correct: 4}.Accuracy())
}
