// Package storage persists the application's collections as JSON documents in a
// key-value store. Each collection lives under one fixed key and is rewritten
// whole on every change.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/andrewpaige1/flashlearn/logger"
)

// Fixed keys of the persisted collections.
const (
	KeyFlashcardSets = "flashcard_sets"
	KeyStudySessions = "study_sessions"
	KeyUserProgress  = "user_progress"
	KeyOfflineQueue  = "offline_action_queue"
)

// ErrNotFound is returned by a Store when the key holds no value.
var ErrNotFound = errors.New("storage: key not found")

// Store is an origin-scoped persistent key-value store. Implementations must be
// safe for concurrent use; they provide no compare-and-swap.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// ReadJSON decodes the value under key into dst. It reports false, leaving dst
// untouched, when the key is missing, the backend fails or the value is not
// valid JSON. Failures other than a missing key are logged.
func ReadJSON(ctx context.Context, s Store, log *logger.Logger, key string, dst interface{}) bool {
	raw, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false
	}
	if err != nil {
		log.Warn("storage read failed", "key", key, "error", err)
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		log.Warn("discarding corrupt record", "key", key, "error", err)
		return false
	}
	return true
}

// WriteJSON serializes v and overwrites key with it.
func WriteJSON(ctx context.Context, s Store, key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
