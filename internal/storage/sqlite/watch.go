package sqlite

import (
	"context"
	"errors"

	"gamelogger/internal/models"
	"gamelogger/internal/storage"
)

// WatchAll streams the full record set: one snapshot immediately, then a
// fresh one after every committed write. The channel closes when ctx is done.
func (s *Storage) WatchAll(ctx context.Context) <-chan []models.GameLog {
	return watchQuery(ctx, s, func() ([]models.GameLog, bool) {
		logs, err := s.GetAllLogs()
		if err != nil {
			return nil, false
		}
		return logs, true
	})
}

// WatchLog streams a single record by game id; a missing row is delivered
// as nil rather than skipped, so subscribers see deletes.
func (s *Storage) WatchLog(ctx context.Context, gameID string) <-chan *models.GameLog {
	return watchQuery(ctx, s, func() (*models.GameLog, bool) {
		l, err := s.GetLog(gameID)
		if errors.Is(err, storage.ErrNotFound) {
			return nil, true
		}
		if err != nil {
			return nil, false
		}
		return l, true
	})
}

// WatchWithPhoto streams the photo-carrying subset of the record set.
func (s *Storage) WatchWithPhoto(ctx context.Context) <-chan []models.GameLog {
	return watchQuery(ctx, s, func() ([]models.GameLog, bool) {
		logs, err := s.GetLogsWithPhoto()
		if err != nil {
			return nil, false
		}
		return logs, true
	})
}

// watchQuery re-runs query on every hub signal and pushes the result with
// latest-value semantics: a slow receiver gets the newest snapshot, not a
// backlog of stale ones.
func watchQuery[T any](ctx context.Context, s *Storage, query func() (T, bool)) <-chan T {
	out := make(chan T, 1)
	signal, cancel := s.hub.Subscribe()

	go func() {
		defer close(out)
		defer cancel()

		push := func() {
			v, ok := query()
			if !ok {
				return
			}
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

		push()

		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-signal:
				if !ok {
					return
				}
				push()
			}
		}
	}()

	return out
}
