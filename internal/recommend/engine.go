// Tagwise - Game Discovery and Recommendation Service
// Copyright 2026 D. Marceau (dmarceau)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dmarceau/tagwise

package recommend

import (
	"context"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dmarceau/tagwise/internal/cache"
	"github.com/dmarceau/tagwise/internal/config"
	"github.com/dmarceau/tagwise/internal/logging"
	"github.com/dmarceau/tagwise/internal/metrics"
	"github.com/dmarceau/tagwise/internal/models"
)

// Engine computes and memoizes recommendation lists. A full pipeline run
// (25 paginated catalog fetches plus scoring) is expensive, so ranked
// lists are cached per source game and concurrent misses for the same
// game are collapsed into a single pipeline execution.
type Engine struct {
	fetcher *Fetcher
	cache   *cache.Cache

	minMatchingTags int
	maxResults      int

	inflight singleflight.Group
}

// NewEngine creates a recommendation engine. The cache is owned by the
// caller; stopping it is the caller's responsibility.
func NewEngine(fetcher *Fetcher, c *cache.Cache, cfg *config.RecommendConfig) *Engine {
	return &Engine{
		fetcher:         fetcher,
		cache:           c,
		minMatchingTags: cfg.MinMatchingTags,
		maxResults:      cfg.MaxResults,
	}
}

// cacheKey builds the memoization key for a source game.
func cacheKey(gameID int) string {
	return "recs_" + strconv.Itoa(gameID)
}

// GetRecommendations returns the ranked recommendation list for the
// source game, at most maxResults long. A maxResults of zero or less
// falls back to the configured default.
//
// The full ranked list is cached per source game for the configured TTL
// and truncated per call, so callers asking for different lengths share
// one pipeline run. Failed or canceled runs are never cached. A source
// game without tags yields an empty list without touching the catalog.
func (e *Engine) GetRecommendations(ctx context.Context, source *models.Game, maxResults int) ([]Recommendation, error) {
	if maxResults <= 0 || maxResults > e.maxResults {
		maxResults = e.maxResults
	}

	if source == nil || len(source.Tags) == 0 {
		return []Recommendation{}, nil
	}

	key := cacheKey(source.ID)

	if cached, ok := e.cache.Get(key); ok {
		metrics.RecommendationCacheHits.Inc()
		return truncate(cached.([]Recommendation), maxResults), nil
	}
	metrics.RecommendationCacheMisses.Inc()

	// Collapse concurrent misses for the same game into one pipeline
	// run. The winner's result is shared with all waiters.
	result, err, _ := e.inflight.Do(key, func() (interface{}, error) {
		// A waiter may arrive after the winner already populated the
		// cache; the double-check avoids a redundant run.
		if cached, ok := e.cache.Get(key); ok {
			return cached.([]Recommendation), nil
		}
		return e.runPipeline(ctx, source, key)
	})
	if err != nil {
		return nil, err
	}

	return truncate(result.([]Recommendation), maxResults), nil
}

// runPipeline executes one full fetch-and-score pass and caches the
// ranked list on success.
func (e *Engine) runPipeline(ctx context.Context, source *models.Game, key string) ([]Recommendation, error) {
	start := time.Now()

	candidates, err := e.fetcher.FetchCandidates(ctx, source.TagIDs())
	if err != nil {
		return nil, err
	}

	recs := Score(source, candidates, e.minMatchingTags, e.maxResults)

	duration := time.Since(start)
	metrics.PipelineDuration.Observe(duration.Seconds())
	logging.Info().
		Int("game_id", source.ID).
		Str("game", source.Name).
		Int("candidates", len(candidates)).
		Int("recommendations", len(recs)).
		Dur("duration", duration).
		Msg("Recommendation pipeline completed")

	e.cache.Set(key, recs)
	return recs, nil
}

// Invalidate drops the cached list for a source game, forcing the next
// request to recompute.
func (e *Engine) Invalidate(gameID int) {
	e.cache.Delete(cacheKey(gameID))
}

// CacheStats exposes the underlying cache counters for diagnostics.
func (e *Engine) CacheStats() cache.Stats {
	return e.cache.GetStats()
}

func truncate(recs []Recommendation, maxResults int) []Recommendation {
	if len(recs) > maxResults {
		return recs[:maxResults]
	}
	return recs
}
