package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"gamelogger/internal/models"
	"gamelogger/internal/storage"
	"gamelogger/internal/storage/sqlite"
)

const (
	maxReviewLen   = 5000
	maxLocationLen = 200
)

// CatalogClient is the slice of the game catalog the diary needs: a
// best-effort details lookup used to cache title and poster on save.
type CatalogClient interface {
	GameDetails(ctx context.Context, id int) (*models.Game, error)
}

type LogService struct {
	storage *sqlite.Storage
	catalog CatalogClient
	log     *slog.Logger
	now     func() time.Time
}

func NewLogService(s *sqlite.Storage, catalog CatalogClient, log *slog.Logger) *LogService {
	return &LogService{
		storage: s,
		catalog: catalog,
		log:     log,
		now:     time.Now,
	}
}

type SaveLogParams struct {
	Status       models.GameStatus
	PlayTime     int64
	UserRating   *float64
	Review       *string
	Latitude     *float64
	Longitude    *float64
	LocationName *string
	PhotoURI     *string
}

// SaveLog creates or fully rewrites a diary entry. Title and poster are
// enriched from the catalog when it answers; any catalog failure leaves the
// previously cached values in place and never blocks the save. Timer
// accounting fields survive the rewrite untouched.
func (s *LogService) SaveLog(ctx context.Context, gameID string, p SaveLogParams) (*models.GameLog, error) {
	const op = "services.logs.SaveLog"

	rating := p.UserRating
	if rating != nil {
		clamped := clamp(*rating, 0.5, 5.0)
		rating = &clamped
	}

	playTime := p.PlayTime
	if playTime < 0 {
		playTime = 0
	}

	review := trimmed(p.Review, maxReviewLen)
	locationName := trimmed(p.LocationName, maxLocationLen)

	current, err := s.storage.GetLog(gameID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		s.log.Error("failed to read existing log",
			slog.String("operation", op),
			slog.String("game_id", gameID),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	title, poster := s.enrich(ctx, gameID, current)

	entry := &models.GameLog{
		GameID:         gameID,
		Status:         p.Status,
		PlayTime:       playTime,
		UserRating:     rating,
		Review:         review,
		LastStatusDate: s.now().UnixMilli(),
		Latitude:       p.Latitude,
		Longitude:      p.Longitude,
		LocationName:   locationName,
		Title:          title,
		PosterURL:      poster,
		PhotoURI:       p.PhotoURI,
	}
	if current != nil {
		entry.TotalSecondsPlayed = current.TotalSecondsPlayed
		entry.SessionCount = current.SessionCount
		entry.TimerStartTime = current.TimerStartTime
	}

	if err := s.storage.UpsertLog(entry); err != nil {
		s.log.Error("failed to save game log",
			slog.String("operation", op),
			slog.String("game_id", gameID),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return entry, nil
}

// enrich resolves title and poster for the entry: fresh catalog data when
// the lookup succeeds, the previously cached values otherwise.
func (s *LogService) enrich(ctx context.Context, gameID string, current *models.GameLog) (title, poster *string) {
	const op = "services.logs.enrich"

	if current != nil {
		title = current.Title
		poster = current.PosterURL
	}

	id, err := strconv.Atoi(gameID)
	if err != nil {
		s.log.Warn("game id is not a catalog id, skipping enrichment",
			slog.String("operation", op),
			slog.String("game_id", gameID))
		return title, poster
	}

	details, err := s.catalog.GameDetails(ctx, id)
	if err != nil {
		s.log.Error("catalog lookup failed, saving without enrichment",
			slog.String("operation", op),
			slog.String("game_id", gameID),
			slog.String("error", err.Error()))
		return title, poster
	}
	if details == nil {
		return title, poster
	}

	title = &details.Name
	if url := details.PosterURL(); url != "" {
		poster = &url
	}
	return title, poster
}

// UpdateReview replaces only the review text of an existing entry. Every
// other field, last_status_date included, stays exactly as it was. A missing
// entry is not created.
func (s *LogService) UpdateReview(ctx context.Context, gameID, review string) (*models.GameLog, error) {
	const op = "services.logs.UpdateReview"

	current, err := s.storage.GetLog(gameID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.log.Error("failed to read log for review update",
				slog.String("operation", op),
				slog.String("game_id", gameID),
				slog.String("error", err.Error()))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	current.Review = trimmed(&review, maxReviewLen)

	if err := s.storage.UpdateLog(current); err != nil {
		s.log.Error("failed to update review",
			slog.String("operation", op),
			slog.String("game_id", gameID),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return current, nil
}

func (s *LogService) Get(gameID string) (*models.GameLog, error) {
	const op = "services.logs.Get"

	l, err := s.storage.GetLog(gameID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return l, nil
}

// GetAll returns the diary, optionally narrowed to one status. The filter is
// applied over the full set on every call, so it always reflects the latest
// records.
func (s *LogService) GetAll(status *models.GameStatus) ([]models.GameLog, error) {
	const op = "services.logs.GetAll"

	logs, err := s.storage.GetAllLogs()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if status == nil {
		return logs, nil
	}

	filtered := make([]models.GameLog, 0, len(logs))
	for _, l := range logs {
		if l.Status == *status {
			filtered = append(filtered, l)
		}
	}
	return filtered, nil
}

func (s *LogService) WithPhoto() ([]models.GameLog, error) {
	const op = "services.logs.WithPhoto"

	logs, err := s.storage.GetLogsWithPhoto()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return logs, nil
}

func (s *LogService) Delete(gameID string) error {
	const op = "services.logs.Delete"

	if err := s.storage.DeleteLog(gameID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *LogService) DeleteAll() error {
	const op = "services.logs.DeleteAll"

	if err := s.storage.DeleteAllLogs(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *LogService) WatchAll(ctx context.Context) <-chan []models.GameLog {
	return s.storage.WatchAll(ctx)
}

func (s *LogService) WatchWithPhoto(ctx context.Context) <-chan []models.GameLog {
	return s.storage.WatchWithPhoto(ctx)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func trimmed(s *string, max int) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if len(t) > max {
		t = t[:max]
	}
	return &t
}
