package services

import (
	"errors"
	"fmt"
	"log/slog"

	"gamelogger/internal/models"
	"gamelogger/internal/storage"
	"gamelogger/internal/storage/sqlite"
)

const themeKey = "app_theme"

type SettingsService struct {
	storage *sqlite.Storage
	log     *slog.Logger
}

func NewSettingsService(s *sqlite.Storage, log *slog.Logger) *SettingsService {
	return &SettingsService{storage: s, log: log}
}

// Theme returns the stored preference, defaulting to system when nothing
// has been saved yet or the stored value is unknown.
func (s *SettingsService) Theme() (models.Theme, error) {
	const op = "services.settings.Theme"

	value, err := s.storage.GetSetting(themeKey)
	if errors.Is(err, storage.ErrNotFound) {
		return models.ThemeSystem, nil
	}
	if err != nil {
		return models.ThemeSystem, fmt.Errorf("%s: %w", op, err)
	}

	theme := models.Theme(value)
	if !theme.Valid() {
		return models.ThemeSystem, nil
	}
	return theme, nil
}

func (s *SettingsService) SetTheme(theme models.Theme) error {
	const op = "services.settings.SetTheme"

	if !theme.Valid() {
		return fmt.Errorf("%s: invalid theme %q", op, theme)
	}

	if err := s.storage.PutSetting(themeKey, string(theme)); err != nil {
		s.log.Error("failed to save theme",
			slog.String("operation", op),
			slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
