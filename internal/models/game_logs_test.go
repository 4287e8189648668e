package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGameStatus_Valid(t *testing.T) {
	for _, s := range []GameStatus{StatusPlayed, StatusPlaying, StatusBacklogged, StatusDropped, StatusOnHold} {
		assert.True(t, s.Valid(), "status %q", s)
	}

	assert.False(t, GameStatus("finished").Valid())
	assert.False(t, GameStatus("").Valid())
	assert.False(t, GameStatus("Played").Valid())
}

func TestGameLog_HasPhoto(t *testing.T) {
	empty := ""
	uri := "/photos/a.jpg"

	assert.False(t, (&GameLog{}).HasPhoto())
	assert.False(t, (&GameLog{PhotoURI: &empty}).HasPhoto())
	assert.True(t, (&GameLog{PhotoURI: &uri}).HasPhoto())
}

func TestGameLog_TimerRunning(t *testing.T) {
	start := int64(1700000000000)

	assert.False(t, (&GameLog{}).TimerRunning())
	assert.True(t, (&GameLog{TimerStartTime: &start}).TimerRunning())
}

func TestTheme_Valid(t *testing.T) {
	for _, th := range []Theme{ThemeSystem, ThemeLight, ThemeDark} {
		assert.True(t, th.Valid(), "theme %q", th)
	}
	assert.False(t, Theme("sepia").Valid())
}

func TestGame_PosterURL(t *testing.T) {
	assert.Equal(t, "", (&Game{}).PosterURL())

	g := &Game{Cover: &Cover{ImageID: "co1y41"}}
	assert.Equal(t, "https://images.igdb.com/igdb/image/upload/t_cover_big/co1y41.jpg", g.PosterURL())
}
