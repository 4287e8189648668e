package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"gamelogger/internal/models"
	"gamelogger/internal/storage"
	"gamelogger/internal/storage/sqlite"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupTimerService(t *testing.T) (*TimerService, *sqlite.Storage) {
	t.Helper()

	s, err := sqlite.NewMemory()
	require.NoError(t, err)
	require.NoError(t, s.Migrate())
	t.Cleanup(func() { _ = s.Close() })

	return NewTimerService(s, newTestLogger()), s
}

func testGame() *models.Game {
	return &models.Game{
		ID:    1001,
		Name:  "Outer Wilds",
		Cover: &models.Cover{ImageID: "co1y41"},
	}
}

func TestToggle_RoundTrip(t *testing.T) {
	svc, store := setupTimerService(t)

	t0 := time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return t0 }

	require.NoError(t, store.UpsertLog(&models.GameLog{
		GameID:             "1001",
		Status:             models.StatusBacklogged,
		TotalSecondsPlayed: 300,
		SessionCount:       1,
	}))

	started, err := svc.Toggle(context.Background(), "1001", nil)
	require.NoError(t, err)
	require.NotNil(t, started.TimerStartTime)
	assert.Equal(t, t0.UnixMilli(), *started.TimerStartTime)
	assert.Equal(t, models.StatusPlaying, started.Status)
	assert.Equal(t, t0.UnixMilli(), started.LastStatusDate)
	// Starting touches neither the total nor the session count.
	assert.Equal(t, int64(300), started.TotalSecondsPlayed)
	assert.Equal(t, int64(1), started.SessionCount)

	svc.now = func() time.Time { return t0.Add(90 * time.Second) }

	stopped, err := svc.Toggle(context.Background(), "1001", nil)
	require.NoError(t, err)
	assert.Nil(t, stopped.TimerStartTime)
	assert.Equal(t, int64(390), stopped.TotalSecondsPlayed)
	assert.Equal(t, int64(2), stopped.SessionCount)

	persisted, err := store.GetLog("1001")
	require.NoError(t, err)
	assert.Equal(t, int64(390), persisted.TotalSecondsPlayed)
	assert.Nil(t, persisted.TimerStartTime)
}

func TestToggle_TruncatesSubSecondRemainder(t *testing.T) {
	svc, store := setupTimerService(t)

	t0 := time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return t0 }

	require.NoError(t, store.UpsertLog(&models.GameLog{GameID: "1001", Status: models.StatusPlaying}))

	_, err := svc.Toggle(context.Background(), "1001", nil)
	require.NoError(t, err)

	svc.now = func() time.Time { return t0.Add(4500 * time.Millisecond) }

	stopped, err := svc.Toggle(context.Background(), "1001", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stopped.TotalSecondsPlayed)
}

func TestToggle_CreatesLogFromDetails(t *testing.T) {
	svc, store := setupTimerService(t)

	t0 := time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return t0 }

	created, err := svc.Toggle(context.Background(), "1001", testGame())
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.Equal(t, models.StatusPlaying, created.Status)
	require.NotNil(t, created.TimerStartTime)
	assert.Equal(t, t0.UnixMilli(), *created.TimerStartTime)
	assert.Equal(t, int64(0), created.TotalSecondsPlayed)
	assert.Equal(t, int64(0), created.SessionCount)
	require.NotNil(t, created.Title)
	assert.Equal(t, "Outer Wilds", *created.Title)
	require.NotNil(t, created.PosterURL)

	_, err = store.GetLog("1001")
	assert.NoError(t, err)
}

func TestToggle_NoLogAndNoDetailsIsNoop(t *testing.T) {
	svc, store := setupTimerService(t)

	entry, err := svc.Toggle(context.Background(), "1001", nil)
	require.NoError(t, err)
	assert.Nil(t, entry)

	_, err = store.GetLog("1001")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSetManualPlaytime_EqualTargetWritesNothing(t *testing.T) {
	svc, store := setupTimerService(t)

	require.NoError(t, store.UpsertLog(&models.GameLog{
		GameID:             "1001",
		Status:             models.StatusPlaying,
		TotalSecondsPlayed: 3600,
		SessionCount:       2,
		LastStatusDate:     1700000000000,
	}))

	entry, err := svc.SetManualPlaytime(context.Background(), "1001", nil, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), entry.SessionCount)

	persisted, err := store.GetLog("1001")
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000000), persisted.LastStatusDate)
	assert.Equal(t, int64(2), persisted.SessionCount)
}

func TestSetManualPlaytime_SmallDeltaDoesNotCountSession(t *testing.T) {
	svc, store := setupTimerService(t)

	t0 := time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return t0 }

	require.NoError(t, store.UpsertLog(&models.GameLog{
		GameID:             "1001",
		Status:             models.StatusPlaying,
		TotalSecondsPlayed: 3600,
		SessionCount:       2,
	}))

	// 1h1m moves the total by exactly 60s, which is not beyond the
	// threshold.
	entry, err := svc.SetManualPlaytime(context.Background(), "1001", nil, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3660), entry.TotalSecondsPlayed)
	assert.Equal(t, int64(2), entry.SessionCount)
	assert.Equal(t, t0.UnixMilli(), entry.LastStatusDate)
}

func TestSetManualPlaytime_SignificantDeltaCountsSession(t *testing.T) {
	svc, store := setupTimerService(t)

	require.NoError(t, store.UpsertLog(&models.GameLog{
		GameID:             "1001",
		Status:             models.StatusPlaying,
		TotalSecondsPlayed: 3600,
		SessionCount:       2,
	}))

	entry, err := svc.SetManualPlaytime(context.Background(), "1001", nil, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3720), entry.TotalSecondsPlayed)
	assert.Equal(t, int64(3), entry.SessionCount)

	// Shrinking the total counts the same way.
	entry, err = svc.SetManualPlaytime(context.Background(), "1001", nil, 0, 30)
	require.NoError(t, err)
	assert.Equal(t, int64(1800), entry.TotalSecondsPlayed)
	assert.Equal(t, int64(4), entry.SessionCount)
}

func TestSetManualPlaytime_DoesNotTouchRunningTimer(t *testing.T) {
	svc, store := setupTimerService(t)

	start := int64(1700000000000)
	require.NoError(t, store.UpsertLog(&models.GameLog{
		GameID:         "1001",
		Status:         models.StatusPlaying,
		TimerStartTime: &start,
	}))

	entry, err := svc.SetManualPlaytime(context.Background(), "1001", nil, 2, 0)
	require.NoError(t, err)
	require.NotNil(t, entry.TimerStartTime)
	assert.Equal(t, start, *entry.TimerStartTime)
}

func TestSetManualPlaytime_CreatesLogAsFirstSession(t *testing.T) {
	svc, _ := setupTimerService(t)

	entry, err := svc.SetManualPlaytime(context.Background(), "1001", testGame(), 2, 30)
	require.NoError(t, err)
	require.NotNil(t, entry)

	assert.Equal(t, int64(9000), entry.TotalSecondsPlayed)
	assert.Equal(t, int64(1), entry.SessionCount)
	assert.Equal(t, models.StatusPlaying, entry.Status)
	assert.Nil(t, entry.TimerStartTime)
}

func TestSetManualPlaytime_NoLogAndNoDetailsIsNoop(t *testing.T) {
	svc, store := setupTimerService(t)

	entry, err := svc.SetManualPlaytime(context.Background(), "1001", nil, 1, 0)
	require.NoError(t, err)
	assert.Nil(t, entry)

	_, err = store.GetLog("1001")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestElapsed(t *testing.T) {
	svc, _ := setupTimerService(t)

	t0 := time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return t0 }

	assert.Equal(t, int64(0), svc.Elapsed(nil))

	idle := &models.GameLog{TotalSecondsPlayed: 500}
	assert.Equal(t, int64(500), svc.Elapsed(idle))

	start := t0.Add(-42 * time.Second).UnixMilli()
	running := &models.GameLog{TotalSecondsPlayed: 500, TimerStartTime: &start}
	assert.Equal(t, int64(542), svc.Elapsed(running))
}

func awaitElapsed(t *testing.T, ch <-chan int64, pred func(int64) bool) int64 {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case v, ok := <-ch:
			if !ok {
				t.Fatal("elapsed channel closed early")
			}
			if pred(v) {
				return v
			}
		case <-deadline:
			t.Fatal("timed out waiting for elapsed value")
		}
	}
}

func TestWatchElapsed_IdleShowsCommittedTotal(t *testing.T) {
	svc, store := setupTimerService(t)

	require.NoError(t, store.UpsertLog(&models.GameLog{
		GameID:             "1001",
		Status:             models.StatusPlayed,
		TotalSecondsPlayed: 100,
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := svc.WatchElapsed(ctx, "1001")
	awaitElapsed(t, ch, func(v int64) bool { return v == 100 })
}

func TestWatchElapsed_ManualEditReflectsImmediately(t *testing.T) {
	svc, store := setupTimerService(t)

	require.NoError(t, store.UpsertLog(&models.GameLog{
		GameID:             "1001",
		Status:             models.StatusPlayed,
		TotalSecondsPlayed: 100,
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := svc.WatchElapsed(ctx, "1001")
	awaitElapsed(t, ch, func(v int64) bool { return v == 100 })

	// The record is idle, so no ticker exists; the new value must arrive
	// through the store notification alone.
	_, err := svc.SetManualPlaytime(context.Background(), "1001", nil, 0, 30)
	require.NoError(t, err)

	awaitElapsed(t, ch, func(v int64) bool { return v == 1800 })
}

func TestWatchElapsed_TicksWhileRunning(t *testing.T) {
	svc, store := setupTimerService(t)
	svc.tick = 5 * time.Millisecond

	start := time.Now().Add(-10 * time.Second).UnixMilli()
	require.NoError(t, store.UpsertLog(&models.GameLog{
		GameID:             "1001",
		Status:             models.StatusPlaying,
		TotalSecondsPlayed: 50,
		TimerStartTime:     &start,
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := svc.WatchElapsed(ctx, "1001")

	// Committed total plus the ~10s already elapsed in the running session.
	awaitElapsed(t, ch, func(v int64) bool { return v >= 59 })
}

func TestWatchElapsed_CancelClosesChannel(t *testing.T) {
	svc, store := setupTimerService(t)

	require.NoError(t, store.UpsertLog(&models.GameLog{GameID: "1001", Status: models.StatusPlayed}))

	ctx, cancel := context.WithCancel(context.Background())
	ch := svc.WatchElapsed(ctx, "1001")

	awaitElapsed(t, ch, func(v int64) bool { return true })
	cancel()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("elapsed channel did not close after cancel")
		}
	}
}
