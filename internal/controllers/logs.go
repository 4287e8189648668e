package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"gamelogger/internal/models"
	"gamelogger/internal/services"
	"gamelogger/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type LogServicer interface {
	Get(gameID string) (*models.GameLog, error)
	GetAll(status *models.GameStatus) ([]models.GameLog, error)
	WithPhoto() ([]models.GameLog, error)
	SaveLog(ctx context.Context, gameID string, p services.SaveLogParams) (*models.GameLog, error)
	UpdateReview(ctx context.Context, gameID, review string) (*models.GameLog, error)
	Delete(gameID string) error
	DeleteAll() error
	WatchAll(ctx context.Context) <-chan []models.GameLog
	WatchWithPhoto(ctx context.Context) <-chan []models.GameLog
}

type SaveLogRequest struct {
	Status       models.GameStatus `json:"status" validate:"required,oneof=played playing backlogged dropped on_hold"`
	PlayTime     int64             `json:"play_time" validate:"gte=0"`
	UserRating   *float64          `json:"user_rating" validate:"omitempty,gte=0.5,lte=5"`
	Review       *string           `json:"review"`
	Latitude     *float64          `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude    *float64          `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	LocationName *string           `json:"location_name"`
	PhotoURI     *string           `json:"photo_uri"`
}

type UpdateReviewRequest struct {
	Review string `json:"review" validate:"required,max=5000"`
}

type LogController struct {
	service  LogServicer
	log      *slog.Logger
	validate *validator.Validate
}

func NewLogController(s LogServicer, log *slog.Logger) *LogController {
	return &LogController{
		service:  s,
		log:      log,
		validate: validator.New(),
	}
}

func (c *LogController) GetAll(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.logs.GetAll"

	var status *models.GameStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		st := models.GameStatus(raw)
		if !st.Valid() {
			http.Error(w, ErrBadRequest.Error(), http.StatusBadRequest)
			return
		}
		status = &st
	}

	logs, err := c.service.GetAll(status)
	if err != nil {
		c.log.Error(ErrGetLogs.Error(),
			slog.String("operation", op),
			slog.String("error", err.Error()))
		http.Error(w, ErrGetLogs.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, c.log, logs)
}

func (c *LogController) GetPhotos(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.logs.GetPhotos"

	logs, err := c.service.WithPhoto()
	if err != nil {
		c.log.Error(ErrGetLogs.Error(),
			slog.String("operation", op),
			slog.String("error", err.Error()))
		http.Error(w, ErrGetLogs.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, c.log, logs)
}

func (c *LogController) GetByID(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.logs.GetByID"

	gameID := chi.URLParam(r, "id")

	entry, err := c.service.Get(gameID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, ErrNotFound.Error(), http.StatusNotFound)
			return
		}
		c.log.Error(ErrGetLog.Error(),
			slog.String("operation", op),
			slog.String("game_id", gameID),
			slog.String("error", err.Error()))
		http.Error(w, ErrGetLog.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, c.log, entry)
}

func (c *LogController) Save(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.logs.Save"

	gameID := chi.URLParam(r, "id")

	var req SaveLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, ErrBadRequest.Error(), http.StatusBadRequest)
		return
	}
	if err := c.validate.Struct(req); err != nil {
		http.Error(w, ErrBadRequest.Error(), http.StatusBadRequest)
		return
	}

	entry, err := c.service.SaveLog(r.Context(), gameID, services.SaveLogParams{
		Status:       req.Status,
		PlayTime:     req.PlayTime,
		UserRating:   req.UserRating,
		Review:       req.Review,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		LocationName: req.LocationName,
		PhotoURI:     req.PhotoURI,
	})
	if err != nil {
		c.log.Error(ErrSaveLog.Error(),
			slog.String("operation", op),
			slog.String("game_id", gameID),
			slog.String("error", err.Error()))
		http.Error(w, ErrSaveLog.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, c.log, entry)
}

func (c *LogController) UpdateReview(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.logs.UpdateReview"

	gameID := chi.URLParam(r, "id")

	var req UpdateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, ErrBadRequest.Error(), http.StatusBadRequest)
		return
	}
	if err := c.validate.Struct(req); err != nil {
		http.Error(w, ErrBadRequest.Error(), http.StatusBadRequest)
		return
	}

	entry, err := c.service.UpdateReview(r.Context(), gameID, req.Review)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, ErrNotFound.Error(), http.StatusNotFound)
			return
		}
		c.log.Error(ErrUpdateReview.Error(),
			slog.String("operation", op),
			slog.String("game_id", gameID),
			slog.String("error", err.Error()))
		http.Error(w, ErrUpdateReview.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, c.log, entry)
}

func (c *LogController) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.logs.Delete"

	gameID := chi.URLParam(r, "id")

	if err := c.service.Delete(gameID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, ErrNotFound.Error(), http.StatusNotFound)
			return
		}
		c.log.Error(ErrDeleteLog.Error(),
			slog.String("operation", op),
			slog.String("game_id", gameID),
			slog.String("error", err.Error()))
		http.Error(w, ErrDeleteLog.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (c *LogController) DeleteAll(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.logs.DeleteAll"

	if err := c.service.DeleteAll(); err != nil {
		c.log.Error(ErrDeleteLog.Error(),
			slog.String("operation", op),
			slog.String("error", err.Error()))
		http.Error(w, ErrDeleteLog.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Watch streams diary snapshots over SSE: the current set immediately, then
// one event per committed write. ?photos=true narrows the stream to the
// photo-carrying subset.
func (c *LogController) Watch(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.logs.Watch"

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, ErrStreaming.Error(), http.StatusInternalServerError)
		return
	}

	var snapshots <-chan []models.GameLog
	if r.URL.Query().Get("photos") == "true" {
		snapshots = c.service.WatchWithPhoto(r.Context())
	} else {
		snapshots = c.service.WatchAll(r.Context())
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	for snapshot := range snapshots {
		data, err := json.Marshal(snapshot)
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

func writeJSON(w http.ResponseWriter, log *slog.Logger, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error(ErrEncoding.Error(), slog.String("error", err.Error()))
	}
}
