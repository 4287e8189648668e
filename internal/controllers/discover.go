package controllers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"gamelogger/internal/models"

	"github.com/go-chi/chi/v5"
)

type Discoverer interface {
	Trending(ctx context.Context) ([]models.Game, error)
	Search(ctx context.Context, query string) ([]models.Game, error)
	GameDetails(ctx context.Context, id int) (*models.Game, error)
	Random(ctx context.Context) (*models.Game, error)
}

// DiscoverController serves the catalog browsing surface. Catalog outages
// degrade to empty results; they are never an error to the caller.
type DiscoverController struct {
	catalog Discoverer
	log     *slog.Logger
}

func NewDiscoverController(catalog Discoverer, log *slog.Logger) *DiscoverController {
	return &DiscoverController{catalog: catalog, log: log}
}

func (c *DiscoverController) Trending(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.discover.Trending"

	games, err := c.catalog.Trending(r.Context())
	if err != nil {
		c.log.Error(ErrDiscover.Error(),
			slog.String("operation", op),
			slog.String("error", err.Error()))
		games = nil
	}
	if games == nil {
		games = []models.Game{}
	}

	writeJSON(w, c.log, games)
}

func (c *DiscoverController) Search(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.discover.Search"

	games, err := c.catalog.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		c.log.Error(ErrDiscover.Error(),
			slog.String("operation", op),
			slog.String("error", err.Error()))
		games = nil
	}
	if games == nil {
		games = []models.Game{}
	}

	writeJSON(w, c.log, games)
}

func (c *DiscoverController) Random(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.discover.Random"

	game, err := c.catalog.Random(r.Context())
	if err != nil {
		c.log.Error(ErrDiscover.Error(),
			slog.String("operation", op),
			slog.String("error", err.Error()))
	}
	if game == nil {
		http.Error(w, ErrNotFound.Error(), http.StatusNotFound)
		return
	}

	writeJSON(w, c.log, game)
}

func (c *DiscoverController) Details(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.discover.Details"

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, ErrBadRequest.Error(), http.StatusBadRequest)
		return
	}

	game, err := c.catalog.GameDetails(r.Context(), id)
	if err != nil {
		c.log.Error(ErrDiscover.Error(),
			slog.String("operation", op),
			slog.Int("game_id", id),
			slog.String("error", err.Error()))
		http.Error(w, ErrDiscover.Error(), http.StatusBadGateway)
		return
	}
	if game == nil {
		http.Error(w, ErrNotFound.Error(), http.StatusNotFound)
		return
	}

	writeJSON(w, c.log, game)
}
