package models

import "fmt"

const igdbImageBase = "https://images.igdb.com/igdb/image/upload"

// Game is a catalog entry as returned by the IGDB games endpoint.
type Game struct {
	ID               int       `json:"id"`
	Name             string    `json:"name"`
	Cover            *Cover    `json:"cover,omitempty"`
	Artworks         []Artwork `json:"artworks,omitempty"`
	Genres           []Genre   `json:"genres,omitempty"`
	Summary          string    `json:"summary,omitempty"`
	FirstReleaseDate int64     `json:"first_release_date,omitempty"`
	TotalRating      float64   `json:"total_rating,omitempty"`
	TotalRatingCount int       `json:"total_rating_count,omitempty"`
}

type Cover struct {
	ImageID string `json:"image_id"`
}

func (c Cover) SmallURL() string {
	return fmt.Sprintf("%s/t_cover_small/%s.jpg", igdbImageBase, c.ImageID)
}

func (c Cover) BigURL() string {
	return fmt.Sprintf("%s/t_cover_big/%s.jpg", igdbImageBase, c.ImageID)
}

type Artwork struct {
	ImageID string `json:"image_id"`
}

func (a Artwork) URL() string {
	return fmt.Sprintf("%s/t_1080p/%s.jpg", igdbImageBase, a.ImageID)
}

type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// PosterURL picks the big cover, or empty when the catalog has none.
func (g *Game) PosterURL() string {
	if g.Cover == nil {
		return ""
	}
	return g.Cover.BigURL()
}
