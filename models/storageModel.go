package models

import (
	"time"

	"gorm.io/datatypes"
)

// StorageEntry is one key of the device's durable key-value store.
type StorageEntry struct {
	Key       string         `gorm:"primaryKey;size:191"`
	Value     datatypes.JSON `gorm:"not null"`
	UpdatedAt time.Time
}
