package offline

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrewpaige1/flashlearn/logger"
	"github.com/andrewpaige1/flashlearn/models"
	"github.com/andrewpaige1/flashlearn/storage"
)

func newQueue(t *testing.T) (*Queue, *Dispatcher, storage.Store) {
	t.Helper()
	store := storage.NewMemoryStore()
	d := NewDispatcher()
	q := NewQueue(store, d, logger.Nop())
	q.now = func() time.Time { return time.UnixMilli(1717236000000) }
	return q, d, store
}

func TestEnqueuePersistsActions(t *testing.T) {
	ctx := context.Background()
	q, _, store := newQueue(t)

	a, err := q.Enqueue(ctx, "CREATE_FLASHCARD_SET", map[string]string{"name": "Verbs"})
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, int64(1717236000000), a.Timestamp)
	assert.JSONEq(t, `{"name":"Verbs"}`, string(a.Data))

	_, err = q.Enqueue(ctx, "STUDY_SESSION", map[string]int{"cards": 3})
	require.NoError(t, err)

	pending := q.Pending(ctx)
	require.Len(t, pending, 2)
	assert.Equal(t, "CREATE_FLASHCARD_SET", pending[0].Type)
	assert.Equal(t, "STUDY_SESSION", pending[1].Type)

	raw, err := store.Get(ctx, storage.KeyOfflineQueue)
	require.NoError(t, err)
	var stored []models.OfflineAction
	require.NoError(t, json.Unmarshal(raw, &stored))
	assert.Equal(t, pending, stored)
}

func TestProcessDispatchesAndClears(t *testing.T) {
	ctx := context.Background()
	q, d, _ := newQueue(t)

	var seen []string
	d.Register("CREATE_FLASHCARD_SET", func(_ context.Context, a models.OfflineAction) error {
		seen = append(seen, a.Type)
		return nil
	})
	d.Register("UPDATE_FLASHCARD", func(context.Context, models.OfflineAction) error {
		return errors.New("card gone")
	})

	for _, typ := range []string{"CREATE_FLASHCARD_SET", "UPDATE_FLASHCARD", "RENAME_EVERYTHING", "CREATE_FLASHCARD_SET"} {
		_, err := q.Enqueue(ctx, typ, struct{}{})
		require.NoError(t, err)
	}

	report, err := q.Process(ctx)
	require.NoError(t, err)
	assert.Equal(t, Report{Processed: 2, Failed: 1, Unknown: 1}, report)
	assert.Equal(t, []string{"CREATE_FLASHCARD_SET", "CREATE_FLASHCARD_SET"}, seen)
	assert.Empty(t, q.Pending(ctx), "queue is cleared even when actions fail")

	report, err = q.Process(ctx)
	require.NoError(t, err)
	assert.Equal(t, Report{}, report)
}

func TestCorruptQueueReadsEmpty(t *testing.T) {
	ctx := context.Background()
	q, _, store := newQueue(t)
	require.NoError(t, store.Set(ctx, storage.KeyOfflineQueue, []byte("not json")))

	assert.Empty(t, q.Pending(ctx))
	_, err := q.Enqueue(ctx, "STUDY_SESSION", nil)
	require.NoError(t, err)
	assert.Len(t, q.Pending(ctx), 1)
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	q, _, _ := newQueue(t)
	_, err := q.Enqueue(ctx, "STUDY_SESSION", nil)
	require.NoError(t, err)

	require.NoError(t, q.Clear(ctx))
	assert.Empty(t, q.Pending(ctx))
}

func TestEnqueueRejectsUnencodablePayload(t *testing.T) {
	q, _, _ := newQueue(t)
	_, err := q.Enqueue(context.Background(), "STUDY_SESSION", make(chan int))
	assert.Error(t, err)
}

func TestDispatchUnknownType(t *testing.T) {
	err := NewDispatcher().Dispatch(context.Background(), models.OfflineAction{Type: "NOPE"})
	assert.ErrorIs(t, err, ErrUnknownAction)
}

// ctxStore fails writes once the context is done, like the network backends.
type ctxStore struct {
	*storage.MemoryStore
}

func (s ctxStore) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.MemoryStore.Set(ctx, key, value)
}

func (s ctxStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.MemoryStore.Delete(ctx, key)
}

func TestProcessInterruptedKeepsOnlyUndispatched(t *testing.T) {
	d := NewDispatcher()
	q := NewQueue(ctxStore{storage.NewMemoryStore()}, d, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	calls := 0
	d.Register("CREATE_FLASHCARD_SET", func(context.Context, models.OfflineAction) error {
		calls++
		cancel()
		return nil
	})

	first, err := q.Enqueue(ctx, "CREATE_FLASHCARD_SET", struct{}{})
	require.NoError(t, err)
	second, err := q.Enqueue(ctx, "CREATE_FLASHCARD_SET", struct{}{})
	require.NoError(t, err)

	report, err := q.Process(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, Report{Processed: 1}, report)

	pending := q.Pending(context.Background())
	require.Len(t, pending, 1)
	assert.Equal(t, second.ID, pending[0].ID)
	assert.NotEqual(t, first.ID, pending[0].ID)

	report, err = q.Process(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Report{Processed: 1}, report)
	assert.Equal(t, 2, calls, "no action runs twice")
	assert.Empty(t, q.Pending(context.Background()))
}

func TestProcessClearsAfterDeadlineExpires(t *testing.T) {
	d := NewDispatcher()
	q := NewQueue(ctxStore{storage.NewMemoryStore()}, d, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Register("STUDY_SESSION", func(context.Context, models.OfflineAction) error {
		cancel()
		return nil
	})
	_, err := q.Enqueue(ctx, "STUDY_SESSION", struct{}{})
	require.NoError(t, err)

	report, err := q.Process(ctx)
	require.NoError(t, err, "every action was dispatched")
	assert.Equal(t, Report{Processed: 1}, report)
	assert.Empty(t, q.Pending(context.Background()))
}
