// Tagwise - Game Discovery and Recommendation Service
// Copyright 2026 D. Marceau (dmarceau)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dmarceau/tagwise

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func validConfig() *Config {
	cfg := defaultConfig()
	cfg.Catalog.APIKey = "test-key"
	return cfg
}

func TestDefaultConfigWithKeyIsValid(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config with API key should validate, got: %v", err)
	}
}

func TestValidateRejectsBadConfigs(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing api key", func(c *Config) { c.Catalog.APIKey = "" }},
		{"bad base url", func(c *Config) { c.Catalog.BaseURL = "not a url" }},
		{"port zero", func(c *Config) { c.Server.Port = 0 }},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }},
		{"zero total pages", func(c *Config) { c.Recommend.TotalPages = 0 }},
		{"page size over catalog max", func(c *Config) { c.Recommend.PageSize = 100 }},
		{"batch larger than total pages", func(c *Config) {
			c.Recommend.TotalPages = 3
			c.Recommend.BatchSize = 5
		}},
		{"negative batch delay", func(c *Config) { c.Recommend.BatchDelay = -time.Second }},
		{"zero cache ttl", func(c *Config) { c.Recommend.CacheTTL = 0 }},
		{"unknown log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"unknown log format", func(c *Config) { c.Logging.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestEnvTransform(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"TAGWISE_CATALOG_API_KEY", "catalog.api_key"},
		{"TAGWISE_SERVER_PORT", "server.port"},
		{"TAGWISE_RECOMMEND_MIN_MATCHING_TAGS", "recommend.min_matching_tags"},
		{"TAGWISE_LOGGING_LEVEL", "logging.level"},
	}

	for _, tt := range tests {
		if got := envTransform(tt.env); got != tt.want {
			t.Errorf("envTransform(%q) = %q, want %q", tt.env, got, tt.want)
		}
	}
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	t.Setenv("TAGWISE_CATALOG_API_KEY", "env-key")
	t.Setenv("TAGWISE_SERVER_PORT", "9001")
	t.Setenv("TAGWISE_RECOMMEND_TOTAL_PAGES", "10")

	cfg, err := LoadFile("")
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.Catalog.APIKey != "env-key" {
		t.Errorf("APIKey = %q, want env-key", cfg.Catalog.APIKey)
	}
	if cfg.Server.Port != 9001 {
		t.Errorf("Port = %d, want 9001", cfg.Server.Port)
	}
	if cfg.Recommend.TotalPages != 10 {
		t.Errorf("TotalPages = %d, want 10", cfg.Recommend.TotalPages)
	}
	// Untouched values keep their defaults.
	if cfg.Recommend.MinMatchingTags != 4 {
		t.Errorf("MinMatchingTags = %d, want default 4", cfg.Recommend.MinMatchingTags)
	}
}

func TestLoadFileLayering(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("catalog:\n  api_key: file-key\nrecommend:\n  total_pages: 5\n  batch_size: 5\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}

	// Env beats file.
	t.Setenv("TAGWISE_RECOMMEND_TOTAL_PAGES", "8")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.Catalog.APIKey != "file-key" {
		t.Errorf("APIKey = %q, want file-key", cfg.Catalog.APIKey)
	}
	if cfg.Recommend.TotalPages != 8 {
		t.Errorf("TotalPages = %d, want env override 8", cfg.Recommend.TotalPages)
	}
}

func TestLoadFileMissingPath(t *testing.T) {
	if _, err := LoadFile("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing config file")
	}
}
