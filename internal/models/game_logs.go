package models

type GameStatus string

const (
	StatusPlayed     GameStatus = "played"
	StatusPlaying    GameStatus = "playing"
	StatusBacklogged GameStatus = "backlogged"
	StatusDropped    GameStatus = "dropped"
	StatusOnHold     GameStatus = "on_hold"
)

func (s GameStatus) Valid() bool {
	switch s {
	case StatusPlayed, StatusPlaying, StatusBacklogged, StatusDropped, StatusOnHold:
		return true
	}
	return false
}

// GameLog is one diary entry, keyed by the external catalog game id.
// TimerStartTime is non-nil exactly while a play session is running;
// TotalSecondsPlayed holds only committed time and never includes the
// in-flight session.
type GameLog struct {
	GameID             string     `json:"game_id" gorm:"primaryKey"`
	Status             GameStatus `json:"status" gorm:"type:varchar(20);not null"`
	PlayTime           int64      `json:"play_time" gorm:"not null;default:0"`
	UserRating         *float64   `json:"user_rating,omitempty"`
	Review             *string    `json:"review,omitempty"`
	LastStatusDate     int64      `json:"last_status_date"`
	Latitude           *float64   `json:"latitude,omitempty"`
	Longitude          *float64   `json:"longitude,omitempty"`
	LocationName       *string    `json:"location_name,omitempty"`
	Title              *string    `json:"title,omitempty"`
	PosterURL          *string    `json:"poster_url,omitempty"`
	PhotoURI           *string    `json:"photo_uri,omitempty"`
	TotalSecondsPlayed int64      `json:"total_seconds_played" gorm:"not null;default:0"`
	SessionCount       int64      `json:"session_count" gorm:"not null;default:0"`
	TimerStartTime     *int64     `json:"timer_start_time,omitempty"`
}

func (GameLog) TableName() string {
	return "game_logs"
}

func (l *GameLog) TimerRunning() bool {
	return l.TimerStartTime != nil
}

// HasPhoto treats nil and empty string the same way: no photo.
func (l *GameLog) HasPhoto() bool {
	return l.PhotoURI != nil && *l.PhotoURI != ""
}
