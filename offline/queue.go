package offline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/andrewpaige1/flashlearn/logger"
	"github.com/andrewpaige1/flashlearn/models"
	"github.com/andrewpaige1/flashlearn/storage"
	"github.com/andrewpaige1/flashlearn/utils"
)

var ErrUnknownAction = errors.New("offline: unknown action type")

// ActionHandler applies one queued action.
type ActionHandler func(ctx context.Context, action models.OfflineAction) error

// Dispatcher routes queued actions to the handler registered for their type.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string]ActionHandler
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[string]ActionHandler)}
}

// Register sets the handler for actionType, replacing any earlier one.
func (d *Dispatcher) Register(actionType string, h ActionHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[actionType] = h
}

func (d *Dispatcher) Dispatch(ctx context.Context, action models.OfflineAction) error {
	d.mu.RLock()
	h, ok := d.handlers[action.Type]
	d.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAction, action.Type)
	}
	return h(ctx, action)
}

// Report summarizes one drain of the queue.
type Report struct {
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
	Unknown   int `json:"unknown"`
}

// Queue is the persisted list of actions waiting to be applied.
type Queue struct {
	store      storage.Store
	dispatcher *Dispatcher
	log        *logger.Logger
	now        func() time.Time
	newID      func() string

	mu sync.Mutex
}

func NewQueue(store storage.Store, dispatcher *Dispatcher, log *logger.Logger) *Queue {
	return &Queue{
		store:      store,
		dispatcher: dispatcher,
		log:        log.With("service", "OfflineQueue"),
		now:        time.Now,
		newID:      utils.NewUUID,
	}
}

// Enqueue appends an action of the given type carrying data as its payload.
func (q *Queue) Enqueue(ctx context.Context, actionType string, data interface{}) (models.OfflineAction, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return models.OfflineAction{}, fmt.Errorf("encode %s payload: %w", actionType, err)
	}
	action := models.OfflineAction{
		ID:        q.newID(),
		Type:      actionType,
		Data:      raw,
		Timestamp: q.now().UnixMilli(),
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	pending := q.pending(ctx)
	pending = append(pending, action)
	if err := storage.WriteJSON(ctx, q.store, storage.KeyOfflineQueue, pending); err != nil {
		return models.OfflineAction{}, err
	}
	return action, nil
}

// Pending returns the queued actions, oldest first.
func (q *Queue) Pending(ctx context.Context) []models.OfflineAction {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pending(ctx)
}

func (q *Queue) pending(ctx context.Context) []models.OfflineAction {
	var actions []models.OfflineAction
	if !storage.ReadJSON(ctx, q.store, q.log, storage.KeyOfflineQueue, &actions) || actions == nil {
		return []models.OfflineAction{}
	}
	return actions
}

func (q *Queue) Clear(ctx context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.clear(ctx)
}

func (q *Queue) clear(ctx context.Context) error {
	if err := q.store.Delete(ctx, storage.KeyOfflineQueue); err != nil {
		return fmt.Errorf("clear offline queue: %w", err)
	}
	return nil
}

// Process applies every queued action once, in order, then clears the queue.
// A failing action is logged and dropped. When ctx ends mid-drain the actions
// not yet dispatched stay queued and ctx's error is returned.
func (q *Queue) Process(ctx context.Context) (Report, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var report Report
	actions := q.pending(ctx)
	if len(actions) == 0 {
		return report, nil
	}
	q.log.Info("processing offline actions", "count", len(actions))

	done := 0
	for _, action := range actions {
		if ctx.Err() != nil {
			break
		}
		err := q.dispatcher.Dispatch(ctx, action)
		done++
		switch {
		case err == nil:
			report.Processed++
		case errors.Is(err, ErrUnknownAction):
			report.Unknown++
			q.log.Warn("unknown offline action type", "type", action.Type, "id", action.ID)
		default:
			report.Failed++
			q.log.Error("failed to process offline action", "type", action.Type, "id", action.ID, "error", err)
		}
	}

	// Dispatched actions must leave the queue even if ctx has expired.
	writeCtx := context.WithoutCancel(ctx)
	if rest := actions[done:]; len(rest) > 0 {
		if err := storage.WriteJSON(writeCtx, q.store, storage.KeyOfflineQueue, rest); err != nil {
			return report, err
		}
		q.log.Warn("offline sync interrupted", "remaining", len(rest))
		return report, ctx.Err()
	}
	if err := q.clear(writeCtx); err != nil {
		return report, err
	}
	return report, nil
}
