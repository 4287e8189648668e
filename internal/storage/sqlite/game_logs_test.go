package sqlite

import (
	"errors"
	"fmt"
	"testing"

	"gamelogger/internal/models"
	"gamelogger/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStorage(t *testing.T) *Storage {
	t.Helper()

	s, err := NewMemory()
	require.NoError(t, err)
	require.NoError(t, s.Migrate())
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func strPtr(s string) *string { return &s }

func TestUpsertLog_Idempotent(t *testing.T) {
	s := setupStorage(t)

	entry := &models.GameLog{
		GameID:         "1001",
		Status:         models.StatusPlayed,
		PlayTime:       10,
		LastStatusDate: 1700000000000,
	}
	require.NoError(t, s.UpsertLog(entry))

	before, err := s.GetLog("1001")
	require.NoError(t, err)

	require.NoError(t, s.UpsertLog(entry))

	after, err := s.GetLog("1001")
	require.NoError(t, err)
	assert.Equal(t, before, after)

	all, err := s.GetAllLogs()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestUpsertLog_ReplacesExistingRow(t *testing.T) {
	s := setupStorage(t)

	require.NoError(t, s.UpsertLog(&models.GameLog{
		GameID:   "1001",
		Status:   models.StatusBacklogged,
		PlayTime: 5,
		Review:   strPtr("early impressions"),
	}))

	require.NoError(t, s.UpsertLog(&models.GameLog{
		GameID:   "1001",
		Status:   models.StatusPlayed,
		PlayTime: 40,
	}))

	got, err := s.GetLog("1001")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPlayed, got.Status)
	assert.Equal(t, int64(40), got.PlayTime)
	assert.Nil(t, got.Review)
}

func TestInsertLogIfAbsent_PreservesOriginal(t *testing.T) {
	s := setupStorage(t)

	require.NoError(t, s.UpsertLog(&models.GameLog{
		GameID:   "conflict",
		Status:   models.StatusPlayed,
		PlayTime: 10,
	}))

	require.NoError(t, s.InsertLogIfAbsent(&models.GameLog{
		GameID:   "conflict",
		Status:   models.StatusBacklogged,
		PlayTime: 0,
	}))

	got, err := s.GetLog("conflict")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPlayed, got.Status)
	assert.Equal(t, int64(10), got.PlayTime)
}

func TestInsertLogIfAbsent_CreatesWhenMissing(t *testing.T) {
	s := setupStorage(t)

	require.NoError(t, s.InsertLogIfAbsent(&models.GameLog{
		GameID: "fresh",
		Status: models.StatusPlaying,
	}))

	got, err := s.GetLog("fresh")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPlaying, got.Status)
}

func TestUpdateLog_NotFound(t *testing.T) {
	s := setupStorage(t)

	err := s.UpdateLog(&models.GameLog{GameID: "ghost", Status: models.StatusPlayed})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUpdateLog_ClearsNulledColumns(t *testing.T) {
	s := setupStorage(t)

	start := int64(1700000000000)
	require.NoError(t, s.UpsertLog(&models.GameLog{
		GameID:             "1001",
		Status:             models.StatusPlaying,
		TimerStartTime:     &start,
		TotalSecondsPlayed: 120,
	}))

	got, err := s.GetLog("1001")
	require.NoError(t, err)
	require.NotNil(t, got.TimerStartTime)

	got.TimerStartTime = nil
	got.TotalSecondsPlayed = 150
	require.NoError(t, s.UpdateLog(got))

	got, err = s.GetLog("1001")
	require.NoError(t, err)
	assert.Nil(t, got.TimerStartTime)
	assert.Equal(t, int64(150), got.TotalSecondsPlayed)
}

func TestGetLog_NotFound(t *testing.T) {
	s := setupStorage(t)

	_, err := s.GetLog("missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestGetLogsWithPhoto(t *testing.T) {
	s := setupStorage(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, s.UpsertLog(&models.GameLog{
			GameID:   fmt.Sprintf("photo-%d", i),
			Status:   models.StatusPlayed,
			PhotoURI: strPtr(fmt.Sprintf("/photos/%d.jpg", i)),
		}))
	}
	require.NoError(t, s.UpsertLog(&models.GameLog{GameID: "bare-1", Status: models.StatusPlayed}))
	require.NoError(t, s.UpsertLog(&models.GameLog{GameID: "bare-2", Status: models.StatusDropped}))
	require.NoError(t, s.UpsertLog(&models.GameLog{
		GameID:   "bare-3",
		Status:   models.StatusPlaying,
		PhotoURI: strPtr(""),
	}))

	logs, err := s.GetLogsWithPhoto()
	require.NoError(t, err)
	assert.Len(t, logs, 5)

	// Clearing one photo drops the view to 4.
	got, err := s.GetLog("photo-0")
	require.NoError(t, err)
	got.PhotoURI = nil
	require.NoError(t, s.UpdateLog(got))

	logs, err = s.GetLogsWithPhoto()
	require.NoError(t, err)
	assert.Len(t, logs, 4)
}

func TestDeleteLog(t *testing.T) {
	s := setupStorage(t)

	require.NoError(t, s.UpsertLog(&models.GameLog{GameID: "1001", Status: models.StatusPlayed}))
	require.NoError(t, s.UpsertLog(&models.GameLog{GameID: "1002", Status: models.StatusPlaying}))

	require.NoError(t, s.DeleteLog("1001"))

	_, err := s.GetLog("1001")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	all, err := s.GetAllLogs()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "1002", all[0].GameID)

	assert.True(t, errors.Is(s.DeleteLog("1001"), storage.ErrNotFound))
}

func TestDeleteAllLogs(t *testing.T) {
	s := setupStorage(t)

	require.NoError(t, s.UpsertLog(&models.GameLog{GameID: "1001", Status: models.StatusPlayed}))
	require.NoError(t, s.UpsertLog(&models.GameLog{GameID: "1002", Status: models.StatusDropped}))

	require.NoError(t, s.DeleteAllLogs())

	all, err := s.GetAllLogs()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSettings(t *testing.T) {
	s := setupStorage(t)

	_, err := s.GetSetting("app_theme")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, s.PutSetting("app_theme", "dark"))

	value, err := s.GetSetting("app_theme")
	require.NoError(t, err)
	assert.Equal(t, "dark", value)

	require.NoError(t, s.PutSetting("app_theme", "light"))

	value, err = s.GetSetting("app_theme")
	require.NoError(t, err)
	assert.Equal(t, "light", value)
}
