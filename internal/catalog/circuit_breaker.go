// Tagwise - Game Discovery and Recommendation Service
// Copyright 2026 D. Marceau (dmarceau)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dmarceau/tagwise

package catalog

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/dmarceau/tagwise/internal/logging"
	"github.com/dmarceau/tagwise/internal/metrics"
	"github.com/dmarceau/tagwise/internal/models"
)

// CircuitBreakerClient wraps a Client with the circuit breaker pattern,
// preventing cascading slowdowns when the catalog API is unavailable.
// When the circuit is open, calls fail fast without touching the
// network; the recommendation fetcher treats those failures as empty
// pages, so a catalog outage degrades to empty results rather than
// stalling request handling.
//
// The breaker uses real time for its interval and timeout bookkeeping.
// Unit tests should exercise the wrapped client directly.
type CircuitBreakerClient struct {
	client Client
	cb     *gobreaker.CircuitBreaker[interface{}]
	name   string
}

// Ensure CircuitBreakerClient implements Client.
var _ Client = (*CircuitBreakerClient)(nil)

// NewCircuitBreakerClient wraps the given client with a circuit breaker.
// Configuration:
//   - Max 3 concurrent requests in half-open state
//   - 1 minute measurement window
//   - 2 minute timeout before attempting recovery
//   - Opens after a 60% failure rate with minimum 10 requests
func NewCircuitBreakerClient(client Client) *CircuitBreakerClient {
	const cbName = "catalog-api"

	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}

			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6

			if shouldTrip {
				logging.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}

			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return &CircuitBreakerClient{
		client: client,
		cb:     cb,
		name:   cbName,
	}
}

// execute wraps a catalog call with circuit breaker protection.
func (cbc *CircuitBreakerClient) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := cbc.cb.Execute(fn)

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "rejected").Inc()
			logging.Warn().Err(err).Msg("[CIRCUIT BREAKER] Request rejected")
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "failure").Inc()
		}
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "success").Inc()
	return result, nil
}

// GetGamesByTags delegates through the circuit breaker.
func (cbc *CircuitBreakerClient) GetGamesByTags(ctx context.Context, tagIDs []int, pageSize, page int) ([]models.Game, error) {
	result, err := cbc.execute(func() (interface{}, error) {
		return cbc.client.GetGamesByTags(ctx, tagIDs, pageSize, page)
	})
	if err != nil {
		return nil, err
	}
	return result.([]models.Game), nil
}

// SearchGames delegates through the circuit breaker.
func (cbc *CircuitBreakerClient) SearchGames(ctx context.Context, query string, pageSize int) ([]models.Game, error) {
	result, err := cbc.execute(func() (interface{}, error) {
		return cbc.client.SearchGames(ctx, query, pageSize)
	})
	if err != nil {
		return nil, err
	}
	return result.([]models.Game), nil
}

// GetGameByID delegates through the circuit breaker. ErrNotFound is not
// counted as a breaker failure: a missing game is a valid response from
// a healthy API.
func (cbc *CircuitBreakerClient) GetGameByID(ctx context.Context, id int) (*models.Game, error) {
	result, err := cbc.execute(func() (interface{}, error) {
		game, err := cbc.client.GetGameByID(ctx, id)
		if errors.Is(err, ErrNotFound) {
			return (*models.Game)(nil), nil
		}
		return game, err
	})
	if err != nil {
		return nil, err
	}
	game := result.(*models.Game)
	if game == nil {
		return nil, ErrNotFound
	}
	return game, nil
}

// GetPopularGames delegates through the circuit breaker.
func (cbc *CircuitBreakerClient) GetPopularGames(ctx context.Context, pageSize int) ([]models.Game, error) {
	result, err := cbc.execute(func() (interface{}, error) {
		return cbc.client.GetPopularGames(ctx, pageSize)
	})
	if err != nil {
		return nil, err
	}
	return result.([]models.Game), nil
}

// State returns the current circuit breaker state.
func (cbc *CircuitBreakerClient) State() gobreaker.State {
	return cbc.cb.State()
}

func stateToString(s gobreaker.State) string {
	switch s {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
