// Package datastore persists detection records to a local SQLite database.
package datastore

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Ojas-Arora/SoundAware/internal/errors"
	"github.com/Ojas-Arora/SoundAware/internal/logging"
)

// Detection is the persisted record of one completed classification attempt.
type Detection struct {
	ID              string    `gorm:"primaryKey" json:"id"`
	SoundType       string    `gorm:"index" json:"soundType"`
	Confidence      float64   `json:"confidence"`
	Timestamp       time.Time `gorm:"index" json:"timestamp"`
	DurationSeconds float64   `json:"durationSeconds"`
	AudioURI        string    `json:"audioUri,omitempty"`
	Source          string    `json:"source"` // "backend" or "mock"
}

// Store wraps the SQLite database holding detection history.
type Store struct {
	DB     *gorm.DB
	logger *slog.Logger
}

// Open creates or opens the SQLite database at path and migrates the schema.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.New(err).
			Component("datastore").
			Category(errors.CategoryFileIO).
			Context("path", path).
			Build()
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("path", path).
			Build()
	}

	if err := db.AutoMigrate(&Detection{}); err != nil {
		return nil, errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "auto-migrate").
			Build()
	}

	return &Store{
		DB:     db,
		logger: logging.ForService("datastore"),
	}, nil
}

// Save inserts one detection record.
func (s *Store) Save(det *Detection) error {
	if err := s.DB.Create(det).Error; err != nil {
		return errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "save-detection").
			Build()
	}
	return nil
}

// Recent returns up to limit detections, most recent first.
func (s *Store) Recent(limit int) ([]Detection, error) {
	var detections []Detection
	err := s.DB.Order("timestamp DESC").Limit(limit).Find(&detections).Error
	if err != nil {
		return nil, errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "list-detections").
			Build()
	}
	return detections, nil
}

// Trim deletes every detection beyond the keep most recent ones.
func (s *Store) Trim(keep int) error {
	sub := s.DB.Model(&Detection{}).Select("id").Order("timestamp DESC").Limit(keep)
	err := s.DB.Where("id NOT IN (?)", sub).Delete(&Detection{}).Error
	if err != nil {
		return errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "trim-detections").
			Build()
	}
	return nil
}

// DeleteAll removes every detection record.
func (s *Store) DeleteAll() error {
	if err := s.DB.Where("1 = 1").Delete(&Detection{}).Error; err != nil {
		return errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "clear-detections").
			Build()
	}
	return nil
}

// Count returns the number of stored detections.
func (s *Store) Count() (int64, error) {
	var count int64
	if err := s.DB.Model(&Detection{}).Count(&count).Error; err != nil {
		return 0, errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "count-detections").
			Build()
	}
	return count, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
