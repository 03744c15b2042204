package models

import "encoding/json"

// OfflineAction is a mutation queued while the client had no connection.
type OfflineAction struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"` // unix milliseconds
}
