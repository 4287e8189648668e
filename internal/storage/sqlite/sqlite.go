package sqlite

import (
	"fmt"

	"gamelogger/internal/config"
	"gamelogger/internal/models"
	"gamelogger/internal/watch"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Storage is the embedded record store. Every committed write notifies the
// hub so observable queries can push a fresh snapshot.
type Storage struct {
	DB  *gorm.DB
	hub *watch.Hub
}

func New(cfg config.Database) (*Storage, error) {
	const op = "storage.sqlite.New"

	db, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// Single writer: also keeps every query on the same connection, which
	// an in-memory database depends on.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	sqlDB.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if err := db.Exec(pragma).Error; err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	return &Storage{DB: db, hub: watch.NewHub()}, nil
}

// NewMemory opens an in-memory store for tests.
func NewMemory() (*Storage, error) {
	return New(config.Database{Path: ":memory:"})
}

// NewWithDB wraps an already-open gorm handle, for tests that mock the
// underlying connection.
func NewWithDB(db *gorm.DB) *Storage {
	return &Storage{DB: db, hub: watch.NewHub()}
}

func (s *Storage) Migrate() error {
	const op = "storage.sqlite.Migrate"

	if err := s.DB.AutoMigrate(&models.GameLog{}, &models.Setting{}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Storage) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Hub exposes the notifier for packages layering their own watches on top.
func (s *Storage) Hub() *watch.Hub {
	return s.hub
}
