package sqlite

import (
	"errors"
	"fmt"

	"gamelogger/internal/models"
	"gamelogger/internal/storage"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (s *Storage) GetSetting(key string) (string, error) {
	const op = "storage.sqlite.GetSetting"

	var setting models.Setting
	err := s.DB.Where("key = ?", key).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return setting.Value, nil
}

func (s *Storage) PutSetting(key, value string) error {
	const op = "storage.sqlite.PutSetting"

	err := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&models.Setting{Key: key, Value: value}).Error
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
