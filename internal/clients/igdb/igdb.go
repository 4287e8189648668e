// Package igdb talks to the IGDB game catalog. Authentication goes through
// Twitch client credentials; the token is reused until shortly before it
// expires and refreshes are deduplicated across concurrent callers.
package igdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"gamelogger/internal/models"

	cache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

const (
	defaultAPIURL  = "https://api.igdb.com/v4"
	defaultAuthURL = "https://id.twitch.tv/oauth2/token"

	// Refresh the token this long before it actually expires.
	tokenExpiryBuffer = 5 * time.Minute

	maxQueryLen = 100
	minQueryLen = 2

	// Random() picks a release date within roughly the last ten years.
	randomWindowSeconds = 315_569_260
)

type Client struct {
	log          *slog.Logger
	httpClient   *http.Client
	clientID     string
	clientSecret string

	// Overridable so tests can point the client at a local server.
	APIURL  string
	AuthURL string

	group singleflight.Group
	cache *cache.Cache

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

func New(log *slog.Logger, clientID, clientSecret string, timeout time.Duration) *Client {
	return &Client{
		log:          log,
		httpClient:   &http.Client{Timeout: timeout},
		clientID:     clientID,
		clientSecret: clientSecret,
		APIURL:       defaultAPIURL,
		AuthURL:      defaultAuthURL,
		cache:        cache.New(5*time.Minute, 10*time.Minute),
	}
}

type authResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

func (c *Client) getToken(ctx context.Context) (string, error) {
	const op = "clients.igdb.getToken"

	c.mu.Lock()
	if c.token != "" && time.Now().Before(c.tokenExpiry.Add(-tokenExpiryBuffer)) {
		token := c.token
		c.mu.Unlock()
		return token, nil
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do("token", func() (interface{}, error) {
		params := url.Values{}
		params.Set("client_id", c.clientID)
		params.Set("client_secret", c.clientSecret)
		params.Set("grant_type", "client_credentials")

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.AuthURL+"?"+params.Encode(), nil)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return nil, fmt.Errorf("%s: auth server returned %d: %s", op, resp.StatusCode, body)
		}

		var auth authResponse
		if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		c.mu.Lock()
		c.token = auth.AccessToken
		c.tokenExpiry = time.Now().Add(time.Duration(auth.ExpiresIn) * time.Second)
		c.mu.Unlock()

		return auth.AccessToken, nil
	})
	if err != nil {
		return "", err
	}

	return v.(string), nil
}

// query posts an Apicalypse body to the games endpoint and decodes the
// JSON response into out.
func (c *Client) query(ctx context.Context, body string, out interface{}) error {
	const op = "clients.igdb.query"

	token, err := c.getToken(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIURL+"/games", strings.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Client-ID", c.clientID)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s: catalog returned %d: %s", op, resp.StatusCode, respBody)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// GameDetails fetches a single game by catalog id. A game unknown to the
// catalog yields (nil, nil).
func (c *Client) GameDetails(ctx context.Context, id int) (*models.Game, error) {
	const op = "clients.igdb.GameDetails"

	key := fmt.Sprintf("details:%d", id)
	if v, ok := c.cache.Get(key); ok {
		return v.(*models.Game), nil
	}

	body := fmt.Sprintf(
		"fields id, name, cover.image_id, artworks.image_id, genres.name, summary, first_release_date; "+
			"where id = %d; limit 1;", id)

	var games []models.Game
	if err := c.query(ctx, body, &games); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(games) == 0 {
		return nil, nil
	}

	game := &games[0]
	c.cache.SetDefault(key, game)
	return game, nil
}

// Search runs a free-text catalog search. Queries that are too short after
// sanitization never reach the API.
func (c *Client) Search(ctx context.Context, query string) ([]models.Game, error) {
	const op = "clients.igdb.Search"

	sanitized := sanitizeQuery(query)
	if len(sanitized) < minQueryLen {
		c.log.Warn("search query too short after sanitization",
			slog.String("operation", op),
			slog.String("query", query))
		return nil, nil
	}

	key := "search:" + sanitized
	if v, ok := c.cache.Get(key); ok {
		return v.([]models.Game), nil
	}

	body := fmt.Sprintf("search \"%s\"; fields id, name, cover.image_id; limit 20;", sanitized)

	var games []models.Game
	if err := c.query(ctx, body, &games); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	c.cache.SetDefault(key, games)
	return games, nil
}

// Trending returns the 20 most-rated games released in the last two years.
func (c *Client) Trending(ctx context.Context) ([]models.Game, error) {
	const op = "clients.igdb.Trending"

	if v, ok := c.cache.Get("trending"); ok {
		return v.([]models.Game), nil
	}

	twoYearsAgo := time.Now().AddDate(-2, 0, 0).Unix()
	body := fmt.Sprintf(
		"fields id, name, cover.image_id, first_release_date, total_rating, total_rating_count; "+
			"where first_release_date > %d & total_rating_count > 25; "+
			"sort total_rating_count desc; limit 20;", twoYearsAgo)

	var games []models.Game
	if err := c.query(ctx, body, &games); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	c.cache.SetDefault("trending", games)
	return games, nil
}

// Random picks a random release date within the last ten years and returns
// the newest game released before it. Falls back to a random trending game
// when the dated query fails or comes back empty.
func (c *Client) Random(ctx context.Context) (*models.Game, error) {
	const op = "clients.igdb.Random"

	randomDate := time.Now().Unix() - rand.Int63n(randomWindowSeconds)
	body := fmt.Sprintf(
		"fields id, name, cover.image_id, total_rating, total_rating_count, first_release_date; "+
			"where first_release_date < %d & total_rating_count > 5; "+
			"sort first_release_date desc; limit 1;", randomDate)

	var games []models.Game
	if err := c.query(ctx, body, &games); err != nil {
		c.log.Error("random game query failed, falling back to trending",
			slog.String("operation", op),
			slog.String("error", err.Error()))
	} else if len(games) > 0 {
		return &games[0], nil
	}

	trending, err := c.Trending(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(trending) == 0 {
		return nil, nil
	}

	return &trending[rand.Intn(len(trending))], nil
}

// sanitizeQuery strips the characters that would break out of the quoted
// Apicalypse search clause and caps the length.
func sanitizeQuery(q string) string {
	q = strings.TrimSpace(q)
	replacer := strings.NewReplacer(`"`, "", ";", "", `\`, "", "'", "")
	q = strings.TrimSpace(replacer.Replace(q))
	if len(q) > maxQueryLen {
		q = q[:maxQueryLen]
	}
	return q
}
