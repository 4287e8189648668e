package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"gamelogger/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type TimerServicer interface {
	Toggle(ctx context.Context, gameID string, details *models.Game) (*models.GameLog, error)
	SetManualPlaytime(ctx context.Context, gameID string, details *models.Game, hours, minutes int) (*models.GameLog, error)
	WatchElapsed(ctx context.Context, gameID string) <-chan int64
}

// ToggleRequest optionally carries the catalog details needed to create the
// entry on a first-ever timer start.
type ToggleRequest struct {
	Game *models.Game `json:"game"`
}

type PlaytimeRequest struct {
	Game    *models.Game `json:"game"`
	Hours   int          `json:"hours" validate:"gte=0"`
	Minutes int          `json:"minutes" validate:"gte=0,lte=59"`
}

type elapsedEvent struct {
	ElapsedSeconds int64 `json:"elapsed_seconds"`
}

type TimerController struct {
	service  TimerServicer
	log      *slog.Logger
	validate *validator.Validate
}

func NewTimerController(s TimerServicer, log *slog.Logger) *TimerController {
	return &TimerController{
		service:  s,
		log:      log,
		validate: validator.New(),
	}
}

func (c *TimerController) Toggle(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.timer.Toggle"

	gameID := chi.URLParam(r, "id")

	var req ToggleRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, ErrBadRequest.Error(), http.StatusBadRequest)
			return
		}
	}

	entry, err := c.service.Toggle(r.Context(), gameID, req.Game)
	if err != nil {
		c.log.Error(ErrTimer.Error(),
			slog.String("operation", op),
			slog.String("game_id", gameID),
			slog.String("error", err.Error()))
		http.Error(w, ErrTimer.Error(), http.StatusInternalServerError)
		return
	}
	if entry == nil {
		// No entry and no details to create one from.
		http.Error(w, ErrNotFound.Error(), http.StatusNotFound)
		return
	}

	writeJSON(w, c.log, entry)
}

func (c *TimerController) SetPlaytime(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.timer.SetPlaytime"

	gameID := chi.URLParam(r, "id")

	var req PlaytimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, ErrBadRequest.Error(), http.StatusBadRequest)
		return
	}
	if err := c.validate.Struct(req); err != nil {
		http.Error(w, ErrBadRequest.Error(), http.StatusBadRequest)
		return
	}

	entry, err := c.service.SetManualPlaytime(r.Context(), gameID, req.Game, req.Hours, req.Minutes)
	if err != nil {
		c.log.Error(ErrPlaytime.Error(),
			slog.String("operation", op),
			slog.String("game_id", gameID),
			slog.String("error", err.Error()))
		http.Error(w, ErrPlaytime.Error(), http.StatusInternalServerError)
		return
	}
	if entry == nil {
		http.Error(w, ErrNotFound.Error(), http.StatusNotFound)
		return
	}

	writeJSON(w, c.log, entry)
}

// Elapsed streams the displayed playtime over SSE, ticking once per second
// while the game's session timer is running.
func (c *TimerController) Elapsed(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.timer.Elapsed"

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, ErrStreaming.Error(), http.StatusInternalServerError)
		return
	}

	gameID := chi.URLParam(r, "id")
	values := c.service.WatchElapsed(r.Context(), gameID)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	for v := range values {
		data, err := json.Marshal(elapsedEvent{ElapsedSeconds: v})
		if err != nil {
			c.log.Error(ErrEncoding.Error(),
				slog.String("operation", op),
				slog.String("error", err.Error()))
			return
		}
		fmt.Fprintf(w, "data: %s\n\n", data)
		flusher.Flush()
	}
}
