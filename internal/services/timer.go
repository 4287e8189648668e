package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gamelogger/internal/models"
	"gamelogger/internal/storage"
	"gamelogger/internal/storage/sqlite"
)

// A manual playtime edit only counts as a new session when it moves the
// total by more than this many seconds in either direction.
const sessionEditThreshold = 60

type TimerService struct {
	storage *sqlite.Storage
	log     *slog.Logger
	now     func() time.Time
	tick    time.Duration
}

func NewTimerService(s *sqlite.Storage, log *slog.Logger) *TimerService {
	return &TimerService{
		storage: s,
		log:     log,
		now:     time.Now,
		tick:    time.Second,
	}
}

// Toggle flips the session timer for a game. Starting forces the status to
// playing; stopping folds the elapsed wall-clock seconds into the committed
// total and counts the session. When no entry exists yet one is created from
// details, or nothing happens if details is nil: a title-less record is
// never created.
func (s *TimerService) Toggle(ctx context.Context, gameID string, details *models.Game) (*models.GameLog, error) {
	const op = "services.timer.Toggle"

	nowMillis := s.now().UnixMilli()

	existing, err := s.storage.GetLog(gameID)
	if errors.Is(err, storage.ErrNotFound) {
		if details == nil {
			s.log.Warn("no log and no game details, ignoring toggle",
				slog.String("operation", op),
				slog.String("game_id", gameID))
			return nil, nil
		}
		entry := newLogFromDetails(gameID, details, nowMillis)
		entry.TimerStartTime = &nowMillis
		if err := s.storage.InsertLogIfAbsent(entry); err != nil {
			s.log.Error("failed to create log on timer start",
				slog.String("operation", op),
				slog.String("game_id", gameID),
				slog.String("error", err.Error()))
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return entry, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if existing.TimerStartTime == nil {
		existing.TimerStartTime = &nowMillis
		existing.Status = models.StatusPlaying
		existing.LastStatusDate = nowMillis
	} else {
		elapsed := (nowMillis - *existing.TimerStartTime) / 1000
		existing.TotalSecondsPlayed += elapsed
		existing.SessionCount++
		existing.TimerStartTime = nil
		existing.LastStatusDate = nowMillis
	}

	if err := s.storage.UpdateLog(existing); err != nil {
		s.log.Error("failed to toggle timer",
			slog.String("operation", op),
			slog.String("game_id", gameID),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return existing, nil
}

// SetManualPlaytime overwrites the committed total with hours and minutes of
// playtime. Equal targets write nothing; a move beyond the threshold counts
// as one more session. The running/idle state of the timer is left alone.
func (s *TimerService) SetManualPlaytime(ctx context.Context, gameID string, details *models.Game, hours, minutes int) (*models.GameLog, error) {
	const op = "services.timer.SetManualPlaytime"

	target := int64(hours)*3600 + int64(minutes)*60
	nowMillis := s.now().UnixMilli()

	existing, err := s.storage.GetLog(gameID)
	if errors.Is(err, storage.ErrNotFound) {
		if details == nil {
			s.log.Warn("no log and no game details, ignoring manual edit",
				slog.String("operation", op),
				slog.String("game_id", gameID))
			return nil, nil
		}
		entry := newLogFromDetails(gameID, details, nowMillis)
		entry.TotalSecondsPlayed = target
		entry.SessionCount = 1
		if err := s.storage.InsertLogIfAbsent(entry); err != nil {
			s.log.Error("failed to create log on manual edit",
				slog.String("operation", op),
				slog.String("game_id", gameID),
				slog.String("error", err.Error()))
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return entry, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if target == existing.TotalSecondsPlayed {
		return existing, nil
	}

	delta := target - existing.TotalSecondsPlayed
	if delta < 0 {
		delta = -delta
	}
	if delta > sessionEditThreshold {
		existing.SessionCount++
	}
	existing.TotalSecondsPlayed = target
	existing.LastStatusDate = nowMillis

	if err := s.storage.UpdateLog(existing); err != nil {
		s.log.Error("failed to set manual playtime",
			slog.String("operation", op),
			slog.String("game_id", gameID),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return existing, nil
}

// Elapsed is the displayed playtime: the committed total plus the in-flight
// session while the timer runs.
func (s *TimerService) Elapsed(l *models.GameLog) int64 {
	if l == nil {
		return 0
	}
	if l.TimerStartTime != nil {
		return l.TotalSecondsPlayed + (s.now().UnixMilli()-*l.TimerStartTime)/1000
	}
	return l.TotalSecondsPlayed
}

// WatchElapsed streams the displayed playtime for one game: a value on every
// record change, plus one per second while a session is running. The ticker
// exists only while the observed record is in the running state, and is torn
// down with the subscription.
func (s *TimerService) WatchElapsed(ctx context.Context, gameID string) <-chan int64 {
	out := make(chan int64, 1)
	records := s.storage.WatchLog(ctx, gameID)

	go func() {
		defer close(out)

		var current *models.GameLog
		var ticker *time.Ticker
		var tickerC <-chan time.Time

		stopTicker := func() {
			if ticker != nil {
				ticker.Stop()
				ticker = nil
				tickerC = nil
			}
		}
		defer stopTicker()

		send := func(v int64) {
			select {
			case out <- v:
			default:
				select {
				case <-out:
				default:
				}
				select {
				case out <- v:
				default:
				}
			}
		}

		for {
			select {
			case <-ctx.Done():
				return
			case l, ok := <-records:
				if !ok {
					return
				}
				current = l
				stopTicker()
				if current != nil && current.TimerRunning() {
					ticker = time.NewTicker(s.tick)
					tickerC = ticker.C
				}
				send(s.Elapsed(current))
			case <-tickerC:
				send(s.Elapsed(current))
			}
		}
	}()

	return out
}

func newLogFromDetails(gameID string, details *models.Game, nowMillis int64) *models.GameLog {
	entry := &models.GameLog{
		GameID:         gameID,
		Status:         models.StatusPlaying,
		Title:          &details.Name,
		LastStatusDate: nowMillis,
	}
	if url := details.PosterURL(); url != "" {
		entry.PosterURL = &url
	}
	return entry
}
