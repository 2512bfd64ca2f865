// Tagwise - Game Discovery and Recommendation Service
// Copyright 2026 D. Marceau (dmarceau)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dmarceau/tagwise

// Package main is the entry point for the Tagwise server.
//
// Tagwise is a self-hosted game discovery service built on a public game
// catalog API. Given a game, it assembles a pool of candidate games that
// share its tags, scores them by tag overlap, and serves a ranked
// recommendation list over a small REST API.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: layered Koanf v2 sources (env > config file > defaults)
//  2. Logging: structured zerolog output
//  3. Catalog client: rate-limited REST client wrapped in a circuit breaker
//  4. Recommendation engine: batched fetcher, scorer, and TTL cache
//  5. HTTP server: Chi router with CORS, rate limiting, and Prometheus metrics
//
// # Configuration
//
// All settings have defaults except the catalog API key:
//
//	export TAGWISE_CATALOG_API_KEY=your-api-key
//	./tagwise
//
// A config file may be placed at ./config.yaml or /etc/tagwise/config.yaml,
// or pointed to via TAGWISE_CONFIG or the -config flag.
//
// # Signal Handling
//
// The server shuts down gracefully on SIGINT and SIGTERM: it stops
// accepting new connections, waits for in-flight requests up to the
// configured shutdown timeout, then stops the cache sweeper.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmarceau/tagwise/internal/api"
	"github.com/dmarceau/tagwise/internal/cache"
	"github.com/dmarceau/tagwise/internal/catalog"
	"github.com/dmarceau/tagwise/internal/config"
	"github.com/dmarceau/tagwise/internal/logging"
	"github.com/dmarceau/tagwise/internal/recommend"
)

func main() {
	configPath := flag.String("config", "", "path to config file (overrides default search paths)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Server exited with error")
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

func run(cfg *config.Config) error {
	// Catalog client with circuit breaker protection.
	rawgClient := catalog.NewRAWGClient(&cfg.Catalog)
	catalogClient := catalog.NewCircuitBreakerClient(rawgClient)

	// Recommendation pipeline.
	recCache := cache.New(cfg.Recommend.CacheTTL)
	defer recCache.Stop()

	fetcher := recommend.NewFetcher(catalogClient, &cfg.Recommend)
	engine := recommend.NewEngine(fetcher, recCache, &cfg.Recommend)

	// HTTP surface.
	handler := api.NewHandler(catalogClient, engine, cfg)
	router := api.NewRouter(handler, &cfg.Server)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().
			Str("addr", addr).
			Str("catalog", cfg.Catalog.BaseURL).
			Dur("cache_ttl", cfg.Recommend.CacheTTL).
			Msg("Tagwise server starting")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-stop:
		logging.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	logging.Info().Msg("Server stopped cleanly")
	return nil
}
