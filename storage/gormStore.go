package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Kariqs/tablefy/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore keeps entries in the storage_entries table of a gorm database
// (sqlite on a single kiosk, mysql when several terminals share one).
type GormStore struct {
	db *gorm.DB
}

// NewGormStore migrates the entries table and returns the store.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&models.StorageEntry{}); err != nil {
		return nil, fmt.Errorf("migrate storage entries: %w", err)
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) Get(key string) (string, bool, error) {
	var entry models.StorageEntry
	err := s.db.Where(&models.StorageEntry{Key: key}).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(entry.Value), true, nil
}

func (s *GormStore) Set(key, value string) error {
	if !json.Valid([]byte(value)) {
		return ErrNotJSON
	}
	entry := models.StorageEntry{Key: key, Value: datatypes.JSON(value)}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

func (s *GormStore) Remove(key string) error {
	return s.db.Delete(&models.StorageEntry{Key: key}).Error
}
