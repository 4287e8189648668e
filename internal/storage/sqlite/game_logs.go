package sqlite

import (
	"errors"
	"fmt"

	"gamelogger/internal/models"
	"gamelogger/internal/storage"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UpsertLog writes the record, fully replacing an existing row with the
// same game id.
func (s *Storage) UpsertLog(l *models.GameLog) error {
	const op = "storage.sqlite.UpsertLog"

	err := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "game_id"}},
		UpdateAll: true,
	}).Create(l).Error
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.hub.Notify()
	return nil
}

// InsertLogIfAbsent writes the record only when no row with its game id
// exists yet; an existing row is left untouched.
func (s *Storage) InsertLogIfAbsent(l *models.GameLog) error {
	const op = "storage.sqlite.InsertLogIfAbsent"

	tx := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "game_id"}},
		DoNothing: true,
	}).Create(l)
	if tx.Error != nil {
		return fmt.Errorf("%s: %w", op, tx.Error)
	}

	if tx.RowsAffected > 0 {
		s.hub.Notify()
	}
	return nil
}

// UpdateLog rewrites every column of an existing row, including the ones
// set back to NULL (a stopped timer clears timer_start_time).
func (s *Storage) UpdateLog(l *models.GameLog) error {
	const op = "storage.sqlite.UpdateLog"

	tx := s.DB.Model(&models.GameLog{}).
		Where("game_id = ?", l.GameID).
		Select("*").
		Updates(l)
	if tx.Error != nil {
		return fmt.Errorf("%s: %w", op, tx.Error)
	}
	if tx.RowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	s.hub.Notify()
	return nil
}

func (s *Storage) GetLog(gameID string) (*models.GameLog, error) {
	const op = "storage.sqlite.GetLog"

	var l models.GameLog
	err := s.DB.Where("game_id = ?", gameID).First(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &l, nil
}

func (s *Storage) GetAllLogs() ([]models.GameLog, error) {
	const op = "storage.sqlite.GetAllLogs"

	var logs []models.GameLog
	if err := s.DB.Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return logs, nil
}

// GetLogsWithPhoto returns the entries carrying a photo; NULL and empty
// photo_uri both count as "no photo".
func (s *Storage) GetLogsWithPhoto() ([]models.GameLog, error) {
	const op = "storage.sqlite.GetLogsWithPhoto"

	var logs []models.GameLog
	err := s.DB.
		Where("photo_uri IS NOT NULL AND photo_uri <> ''").
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return logs, nil
}

func (s *Storage) DeleteLog(gameID string) error {
	const op = "storage.sqlite.DeleteLog"

	tx := s.DB.Where("game_id = ?", gameID).Delete(&models.GameLog{})
	if tx.Error != nil {
		return fmt.Errorf("%s: %w", op, tx.Error)
	}
	if tx.RowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	s.hub.Notify()
	return nil
}

func (s *Storage) DeleteAllLogs() error {
	const op = "storage.sqlite.DeleteAllLogs"

	tx := s.DB.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.GameLog{})
	if tx.Error != nil {
		return fmt.Errorf("%s: %w", op, tx.Error)
	}

	if tx.RowsAffected > 0 {
		s.hub.Notify()
	}
	return nil
}
