package controllers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"gamelogger/internal/models"
)

type SettingsServicer interface {
	Theme() (models.Theme, error)
	SetTheme(theme models.Theme) error
}

type ThemeResponse struct {
	Theme models.Theme `json:"theme"`
}

type SettingsController struct {
	service SettingsServicer
	log     *slog.Logger
}

func NewSettingsController(s SettingsServicer, log *slog.Logger) *SettingsController {
	return &SettingsController{service: s, log: log}
}

func (c *SettingsController) GetTheme(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.settings.GetTheme"

	theme, err := c.service.Theme()
	if err != nil {
		c.log.Error(ErrGetTheme.Error(),
			slog.String("operation", op),
			slog.String("error", err.Error()))
		http.Error(w, ErrGetTheme.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, c.log, ThemeResponse{Theme: theme})
}

func (c *SettingsController) SetTheme(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.settings.SetTheme"

	var req ThemeResponse
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, ErrBadRequest.Error(), http.StatusBadRequest)
		return
	}
	if !req.Theme.Valid() {
		http.Error(w, ErrBadRequest.Error(), http.StatusBadRequest)
		return
	}

	if err := c.service.SetTheme(req.Theme); err != nil {
		c.log.Error(ErrSaveTheme.Error(),
			slog.String("operation", op),
			slog.String("error", err.Error()))
		http.Error(w, ErrSaveTheme.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, c.log, req)
}
