// Tagwise - Game Discovery and Recommendation Service
// Copyright 2026 D. Marceau (dmarceau)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dmarceau/tagwise

/*
client.go - RAWG REST API client

Implements the catalog boundary: paginated game lookups by tag filter,
name search, single-game lookup, and popular games. Every entity leaving
this boundary has already passed the content filter and had its tags
cleaned, so disallowed games are never surfaced anywhere downstream.

API reference: https://api.rawg.io/docs/
*/

package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/dmarceau/tagwise/internal/config"
	"github.com/dmarceau/tagwise/internal/filter"
	"github.com/dmarceau/tagwise/internal/metrics"
	"github.com/dmarceau/tagwise/internal/models"
)

// ErrNotFound is returned by GetGameByID when the game does not exist
// or is disallowed by the content filter.
var ErrNotFound = errors.New("catalog: game not found")

// Client defines the catalog operations consumed by the recommendation
// engine and the API handlers. Abstracting the concrete REST client
// behind this interface lets tests substitute a double without a live
// network dependency.
type Client interface {
	// GetGamesByTags returns one page of games matching the given tag
	// IDs, filtered and cleaned.
	GetGamesByTags(ctx context.Context, tagIDs []int, pageSize, page int) ([]models.Game, error)

	// SearchGames returns games matching a free-text query, filtered
	// and cleaned.
	SearchGames(ctx context.Context, query string, pageSize int) ([]models.Game, error)

	// GetGameByID returns a single game with full details, or
	// ErrNotFound when absent or disallowed.
	GetGameByID(ctx context.Context, id int) (*models.Game, error)

	// GetPopularGames returns the highest-rated games, filtered and
	// cleaned.
	GetPopularGames(ctx context.Context, pageSize int) ([]models.Game, error)
}

// Ensure RAWGClient implements Client.
var _ Client = (*RAWGClient)(nil)

// RAWGClient provides access to the RAWG REST API.
type RAWGClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewRAWGClient creates a catalog client from configuration. The
// courtesy rate limiter is disabled when RequestsPerSecond is zero.
func NewRAWGClient(cfg *config.CatalogConfig) *RAWGClient {
	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &RAWGClient{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    limiter,
	}
}

// GetGamesByTags retrieves one page of games matching any of the given
// tag IDs. The RAWG API takes the tag filter as a comma-separated list.
func (c *RAWGClient) GetGamesByTags(ctx context.Context, tagIDs []int, pageSize, page int) ([]models.Game, error) {
	query := url.Values{}
	query.Set("tags", joinIDs(tagIDs))
	query.Set("page_size", strconv.Itoa(pageSize))
	query.Set("page", strconv.Itoa(page))

	pageResp, err := c.getGamesPage(ctx, "/games", query)
	if err != nil {
		return nil, fmt.Errorf("games by tags (page %d): %w", page, err)
	}

	return filter.FilterAndClean(pageResp.Results), nil
}

// SearchGames retrieves games matching a free-text query.
func (c *RAWGClient) SearchGames(ctx context.Context, query string, pageSize int) ([]models.Game, error) {
	q := url.Values{}
	q.Set("search", query)
	q.Set("page_size", strconv.Itoa(pageSize))

	pageResp, err := c.getGamesPage(ctx, "/games", q)
	if err != nil {
		return nil, fmt.Errorf("search games: %w", err)
	}

	return filter.FilterAndClean(pageResp.Results), nil
}

// GetPopularGames retrieves the highest-rated games.
func (c *RAWGClient) GetPopularGames(ctx context.Context, pageSize int) ([]models.Game, error) {
	q := url.Values{}
	q.Set("ordering", "-rating")
	q.Set("page_size", strconv.Itoa(pageSize))

	pageResp, err := c.getGamesPage(ctx, "/games", q)
	if err != nil {
		return nil, fmt.Errorf("popular games: %w", err)
	}

	return filter.FilterAndClean(pageResp.Results), nil
}

// GetGameByID retrieves full details for a single game. Disallowed
// games are reported as ErrNotFound so they are never surfaced.
func (c *RAWGClient) GetGameByID(ctx context.Context, id int) (*models.Game, error) {
	resp, err := c.doRequest(ctx, "/games/"+strconv.Itoa(id), url.Values{})
	if err != nil {
		return nil, fmt.Errorf("game by id %d: %w", id, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return nil, fmt.Errorf("game by id %d returned status %d (failed to read body)", id, resp.StatusCode)
		}
		return nil, fmt.Errorf("game by id %d returned status %d: %s", id, resp.StatusCode, string(body))
	}

	var game models.Game
	if err := json.NewDecoder(resp.Body).Decode(&game); err != nil {
		return nil, fmt.Errorf("failed to decode game %d: %w", id, err)
	}

	if filter.IsDisallowed(&game) {
		return nil, ErrNotFound
	}

	cleaned := filter.FilterAndClean([]models.Game{game})
	if len(cleaned) == 0 {
		return nil, ErrNotFound
	}
	return &cleaned[0], nil
}

// getGamesPage performs a request returning the paginated games
// envelope and decodes it.
func (c *RAWGClient) getGamesPage(ctx context.Context, endpoint string, query url.Values) (*models.GamesPage, error) {
	resp, err := c.doRequest(ctx, endpoint, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return nil, fmt.Errorf("catalog returned status %d (failed to read body)", resp.StatusCode)
		}
		return nil, fmt.Errorf("catalog returned status %d: %s", resp.StatusCode, string(body))
	}

	var page models.GamesPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("failed to decode games page: %w", err)
	}

	return &page, nil
}

// doRequest issues a GET request against the catalog, applying the
// courtesy rate limiter and recording metrics.
func (c *RAWGClient) doRequest(ctx context.Context, endpoint string, query url.Values) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	query.Set("key", c.apiKey)
	reqURL := c.baseURL + endpoint + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		metrics.RecordCatalogRequest(endpoint, 0, duration)
		return nil, err
	}

	metrics.RecordCatalogRequest(endpoint, resp.StatusCode, duration)
	return resp, nil
}

// joinIDs renders tag IDs as the comma-separated list the API expects.
func joinIDs(ids []int) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.Itoa(id))
	}
	return strings.Join(parts, ",")
}
