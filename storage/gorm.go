package storage

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// entry is one row of the local storage table
type entry struct {
	Key       string `gorm:"column:storage_key;primaryKey"`
	Value     string `gorm:"not null"`
	UpdatedAt time.Time
}

func (entry) TableName() string { return "local_storage" }

// GormStore persists keys in a SQL table, normally a sqlite file owned by
// one client profile.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore migrates the storage table and returns the store.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&entry{}); err != nil {
		return nil, fmt.Errorf("migrate local storage: %w", err)
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) Get(key string) (string, bool, error) {
	var e entry
	err := s.db.Where("storage_key = ?", key).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", key, err)
	}
	return e.Value, true, nil
}

func (s *GormStore) Set(key, value string) error {
	e := entry{Key: key, Value: value, UpdatedAt: time.Now()}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "storage_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&e).Error
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (s *GormStore) Remove(key string) error {
	if err := s.db.Where("storage_key = ?", key).Delete(&entry{}).Error; err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

func (s *GormStore) Versions() (map[string]int64, error) {
	var entries []entry
	if err := s.db.Select("storage_key", "updated_at").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("read versions: %w", err)
	}
	out := make(map[string]int64, len(entries))
	for _, e := range entries {
		out[e.Key] = e.UpdatedAt.UnixNano()
	}
	return out, nil
}
