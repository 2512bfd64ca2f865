// Tagwise - Game Discovery and Recommendation Service
// Copyright 2026 D. Marceau (dmarceau)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dmarceau/tagwise

package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmarceau/tagwise/internal/catalog"
	"github.com/dmarceau/tagwise/internal/config"
	"github.com/dmarceau/tagwise/internal/logging"
	"github.com/dmarceau/tagwise/internal/models"
	"github.com/dmarceau/tagwise/internal/recommend"
)

// Recommender is the engine surface the handlers depend on. The concrete
// implementation is recommend.Engine; tests substitute a double.
type Recommender interface {
	GetRecommendations(ctx context.Context, source *models.Game, maxResults int) ([]recommend.Recommendation, error)
}

// Handler serves the Tagwise HTTP API.
type Handler struct {
	catalog     catalog.Client
	recommender Recommender
	cfg         *config.Config
}

// NewHandler creates the API handler.
func NewHandler(catalogClient catalog.Client, recommender Recommender, cfg *config.Config) *Handler {
	return &Handler{
		catalog:     catalogClient,
		recommender: recommender,
		cfg:         cfg,
	}
}

// SearchGames handles GET /api/v1/games/search?q=<query>.
//
// A catalog outage degrades to an empty list rather than an error; the
// search box staying usable matters more than surfacing upstream state.
func (h *Handler) SearchGames(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "query parameter 'q' is required")
		return
	}

	pageSize := intQueryParam(r, "page_size", h.cfg.Catalog.DefaultPageSize, 40)

	games, err := h.catalog.SearchGames(r.Context(), query, pageSize)
	if err != nil {
		logging.Warn().Err(err).Str("query", query).Msg("Game search failed, returning empty list")
		games = []models.Game{}
	}

	respondJSON(w, r, http.StatusOK, games, start)
}

// PopularGames handles GET /api/v1/games/popular.
func (h *Handler) PopularGames(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	pageSize := intQueryParam(r, "page_size", h.cfg.Catalog.DefaultPageSize, 40)

	games, err := h.catalog.GetPopularGames(r.Context(), pageSize)
	if err != nil {
		logging.Warn().Err(err).Msg("Popular games lookup failed, returning empty list")
		games = []models.Game{}
	}

	respondJSON(w, r, http.StatusOK, games, start)
}

// GetGame handles GET /api/v1/games/{gameID}.
func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	gameID, ok := gameIDParam(w, r)
	if !ok {
		return
	}

	game, err := h.catalog.GetGameByID(r.Context(), gameID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "game not found")
			return
		}
		logging.Error().Err(err).Int("game_id", gameID).Msg("Game lookup failed")
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "catalog unavailable")
		return
	}

	respondJSON(w, r, http.StatusOK, game, start)
}

// GetRecommendations handles GET /api/v1/games/{gameID}/recommendations.
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	gameID, ok := gameIDParam(w, r)
	if !ok {
		return
	}

	maxResults := intQueryParam(r, "max", h.cfg.Recommend.MaxResults, h.cfg.Recommend.MaxResults)

	source, err := h.catalog.GetGameByID(r.Context(), gameID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "game not found")
			return
		}
		logging.Error().Err(err).Int("game_id", gameID).Msg("Source game lookup failed")
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "catalog unavailable")
		return
	}

	recs, err := h.recommender.GetRecommendations(r.Context(), source, maxResults)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			// Client went away; any response is discarded.
			return
		}
		logging.Error().Err(err).Int("game_id", gameID).Msg("Recommendation pipeline failed")
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "recommendations unavailable")
		return
	}

	respondJSON(w, r, http.StatusOK, recs, start)
}

// Healthz handles GET /healthz.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	respondJSON(w, r, http.StatusOK, map[string]string{"status": "ok"}, start)
}

// gameIDParam parses the {gameID} URL parameter, writing a 400 response
// on failure.
func gameIDParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "gameID")
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "gameID must be a positive integer")
		return 0, false
	}
	return id, true
}

// intQueryParam parses an optional positive integer query parameter,
// clamped to ceiling, defaulting when absent or invalid.
func intQueryParam(r *http.Request, name string, fallback, ceiling int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	if v > ceiling {
		return ceiling
	}
	return v
}
