package models

import (
	"time"
)

// KVEntry is one key of the persisted key-value store when it is backed by a
// relational database.
type KVEntry struct {
	Key       string    `gorm:"column:storage_key;primaryKey;size:191"`
	Value     string    `gorm:"column:storage_value;type:text;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (KVEntry) TableName() string {
	return "kv_entries"
}
