// Tagwise - Game Discovery and Recommendation Service
// Copyright 2026 D. Marceau (dmarceau)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dmarceau/tagwise

package recommend

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmarceau/tagwise/internal/catalog"
	"github.com/dmarceau/tagwise/internal/config"
	"github.com/dmarceau/tagwise/internal/filter"
	"github.com/dmarceau/tagwise/internal/logging"
	"github.com/dmarceau/tagwise/internal/metrics"
	"github.com/dmarceau/tagwise/internal/models"
)

// Fetcher assembles the candidate pool for a source game by paging
// through the catalog's tag-filtered listing. Pages are fetched in
// concurrent batches with a pacing delay between batches so the catalog
// API is not hammered with the full page count at once.
type Fetcher struct {
	client catalog.Client

	totalPages int
	pageSize   int
	batchSize  int
	batchDelay time.Duration
}

// NewFetcher creates a candidate pool fetcher from configuration.
func NewFetcher(client catalog.Client, cfg *config.RecommendConfig) *Fetcher {
	return &Fetcher{
		client:     client,
		totalPages: cfg.TotalPages,
		pageSize:   cfg.PageSize,
		batchSize:  cfg.BatchSize,
		batchDelay: cfg.BatchDelay,
	}
}

// FetchCandidates returns the deduplicated, filtered candidate pool for
// the given tag IDs.
//
// Pages are fetched batchSize at a time; a page that fails contributes
// nothing and is logged, while the remaining pages still count. The only
// error returned is context cancellation. Candidates keep page order,
// and a game appearing on multiple pages keeps its first occurrence.
func (f *Fetcher) FetchCandidates(ctx context.Context, tagIDs []int) ([]models.Game, error) {
	if len(tagIDs) == 0 {
		return []models.Game{}, nil
	}

	pages := make([][]models.Game, f.totalPages)

	for batchStart := 0; batchStart < f.totalPages; batchStart += f.batchSize {
		batchEnd := batchStart + f.batchSize
		if batchEnd > f.totalPages {
			batchEnd = f.totalPages
		}

		g, gctx := errgroup.WithContext(ctx)
		for pageIdx := batchStart; pageIdx < batchEnd; pageIdx++ {
			g.Go(func() error {
				page := pageIdx + 1 // catalog pages are 1-based
				games, err := f.client.GetGamesByTags(gctx, tagIDs, f.pageSize, page)
				if err != nil {
					if gctx.Err() != nil {
						return gctx.Err()
					}
					metrics.CatalogPageErrors.Inc()
					logging.Warn().
						Err(err).
						Int("page", page).
						Msg("Candidate pool page fetch failed, continuing without it")
					return nil
				}
				pages[pageIdx] = games
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return nil, err
		}

		// Pace between batches, but never after the last one.
		if batchEnd < f.totalPages && f.batchDelay > 0 {
			timer := time.NewTimer(f.batchDelay)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			}
		}
	}

	return dedupe(pages), nil
}

// dedupe flattens pages in order, keeping the first occurrence of each
// game ID, and applies the content filter to the combined pool.
func dedupe(pages [][]models.Game) []models.Game {
	seen := make(map[int]struct{})
	var combined []models.Game

	for _, page := range pages {
		for _, game := range page {
			if _, dup := seen[game.ID]; dup {
				continue
			}
			seen[game.ID] = struct{}{}
			combined = append(combined, game)
		}
	}

	// The catalog client already filters at its boundary; filtering the
	// combined pool again is idempotent and keeps this package safe
	// against other Client implementations.
	cleaned := filter.FilterAndClean(combined)

	metrics.CandidatePoolSize.Observe(float64(len(cleaned)))
	return cleaned
}
