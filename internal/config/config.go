// Tagwise - Game Discovery and Recommendation Service
// Copyright 2026 D. Marceau (dmarceau)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dmarceau/tagwise

// Package config loads and validates the Tagwise service configuration
// using Koanf v2 with layered sources: built-in defaults, an optional
// YAML config file, and environment variables (highest priority).
package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the root configuration for the Tagwise service.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Catalog   CatalogConfig   `koanf:"catalog"`
	Recommend RecommendConfig `koanf:"recommend"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// CORSOrigins is empty by default, requiring explicit configuration.
	CORSOrigins []string `koanf:"cors_origins"`

	RateLimitRequests int           `koanf:"rate_limit_requests" validate:"min=1"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
}

// CatalogConfig configures the remote catalog API client. The core
// recommendation pipeline never reads this directly; it is consumed by
// the catalog client only.
type CatalogConfig struct {
	BaseURL string        `koanf:"base_url" validate:"required,url"`
	APIKey  string        `koanf:"api_key" validate:"required"`
	Timeout time.Duration `koanf:"timeout"`

	// RequestsPerSecond caps outbound catalog calls as a courtesy to
	// the remote API. Zero disables the limiter.
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	Burst             int     `koanf:"burst"`

	// DefaultPageSize applies to search and popular-games lookups.
	DefaultPageSize int `koanf:"default_page_size" validate:"min=1,max=40"`
}

// RecommendConfig configures the recommendation pipeline.
type RecommendConfig struct {
	// TotalPages and PageSize bound the raw candidate pool
	// (TotalPages * PageSize games before dedup and filtering).
	TotalPages int `koanf:"total_pages" validate:"min=1"`
	PageSize   int `koanf:"page_size" validate:"min=1,max=40"`

	// BatchSize is the number of page fetches issued concurrently.
	BatchSize int `koanf:"batch_size" validate:"min=1"`

	// BatchDelay is the pause between fetch batches. Zero disables
	// pacing; tests rely on that.
	BatchDelay time.Duration `koanf:"batch_delay"`

	// MinMatchingTags suppresses weak, noisy matches.
	MinMatchingTags int `koanf:"min_matching_tags" validate:"min=1"`

	// MaxResults is the default length of a recommendation list.
	MaxResults int `koanf:"max_results" validate:"min=1"`

	// CacheTTL bounds how long a computed list is reused.
	CacheTTL time.Duration `koanf:"cache_ttl"`
}

// LoggingConfig configures the zerolog-based logger.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error fatal panic disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns the built-in defaults applied before the config
// file and environment variables.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              8480,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      60 * time.Second,
			ShutdownTimeout:   10 * time.Second,
			CORSOrigins:       []string{},
			RateLimitRequests: 100,
			RateLimitWindow:   time.Minute,
		},
		Catalog: CatalogConfig{
			BaseURL:           "https://api.rawg.io/api",
			APIKey:            "",
			Timeout:           30 * time.Second,
			RequestsPerSecond: 5,
			Burst:             5,
			DefaultPageSize:   10,
		},
		Recommend: RecommendConfig{
			TotalPages:      25,
			PageSize:        40,
			BatchSize:       5,
			BatchDelay:      200 * time.Millisecond,
			MinMatchingTags: 4,
			MaxResults:      12,
			CacheTTL:        24 * time.Hour,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// validatorInstance returns the shared validator. The instance caches
// struct metadata, so it is created once.
func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks the configuration for invalid or inconsistent values.
func (c *Config) Validate() error {
	if err := validatorInstance().Struct(c); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	if c.Recommend.BatchDelay < 0 {
		return fmt.Errorf("config validation: recommend.batch_delay must not be negative")
	}
	if c.Recommend.CacheTTL <= 0 {
		return fmt.Errorf("config validation: recommend.cache_ttl must be positive")
	}
	if c.Recommend.BatchSize > c.Recommend.TotalPages {
		// Harmless but almost certainly a misconfiguration.
		return fmt.Errorf("config validation: recommend.batch_size (%d) exceeds total_pages (%d)",
			c.Recommend.BatchSize, c.Recommend.TotalPages)
	}
	if c.Catalog.Timeout <= 0 {
		return fmt.Errorf("config validation: catalog.timeout must be positive")
	}

	return nil
}
