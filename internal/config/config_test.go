// Skilltrail - Personalized Learning Roadmaps and Progress Tracking
// Copyright 2026 Skilltrail Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/skilltrail/skilltrail

package config

import (
	"strings"
	"testing"
	"time"
)

// validConfig returns a configuration that passes validation, for tests
// to mutate one field at a time.
func validConfig() *Config {
	return defaultConfig()
}

func TestValidateDefaults(t *testing.T) {
	if err := defaultConfig().Validate(); err != nil {
		t.Fatalf("default config must validate, got: %v", err)
	}
}

func TestValidateServer(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		errContains string
	}{
		{"port zero", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"zero timeout", func(c *Config) { c.Server.Timeout = 0 }, "server.timeout"},
		{"bad environment", func(c *Config) { c.Server.Environment = "staging" }, "server.environment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.errContains)
			}
			if !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.errContains)
			}
		})
	}
}

func TestValidateLogging(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Level = "verbose"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid log level")
	}

	cfg = validConfig()
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid log format")
	}

	for _, level := range []string{"trace", "debug", "info", "warn", "error"} {
		cfg := validConfig()
		cfg.Logging.Level = level
		if err := cfg.Validate(); err != nil {
			t.Errorf("level %q should be valid: %v", level, err)
		}
	}
}

func TestValidateStore(t *testing.T) {
	cfg := validConfig()
	cfg.Store.Path = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for empty store path")
	}

	// In-memory stores need no path.
	cfg = validConfig()
	cfg.Store.Path = ""
	cfg.Store.InMemory = true
	if err := cfg.Validate(); err != nil {
		t.Errorf("in-memory store without path should validate: %v", err)
	}
}

func TestValidateGeneration(t *testing.T) {
	// Disabled generation skips all checks.
	cfg := validConfig()
	cfg.Generation.Enabled = false
	cfg.Generation.Model = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled generation should skip validation: %v", err)
	}

	tests := []struct {
		name        string
		mutate      func(*Config)
		errContains string
	}{
		{"missing api key", func(c *Config) { c.Generation.APIKey = "" }, "generation.api_key"},
		{"missing model", func(c *Config) { c.Generation.Model = "" }, "generation.model"},
		{"zero timeout", func(c *Config) { c.Generation.Timeout = 0 }, "generation.timeout"},
		{"temperature too high", func(c *Config) { c.Generation.Temperature = 3 }, "generation.temperature"},
		{"negative temperature", func(c *Config) { c.Generation.Temperature = -0.5 }, "generation.temperature"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Generation.Enabled = true
			cfg.Generation.APIKey = "sk-test"
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.errContains)
			}
			if !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.errContains)
			}
		})
	}
}

func TestValidateVideoSearch(t *testing.T) {
	cfg := validConfig()
	cfg.VideoSearch.Enabled = true
	cfg.VideoSearch.APIKey = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for enabled video search without api key")
	}

	cfg = validConfig()
	cfg.VideoSearch.Enabled = true
	cfg.VideoSearch.APIKey = "yt-key"
	cfg.VideoSearch.BaseURL = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for enabled video search without base url")
	}

	cfg = validConfig()
	cfg.VideoSearch.Enabled = true
	cfg.VideoSearch.APIKey = "yt-key"
	cfg.VideoSearch.QueriesPerSecond = -1
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for negative queries per second")
	}
}

func TestValidateRateLimits(t *testing.T) {
	cfg := validConfig()
	cfg.Security.RateLimitRequests = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero rate limit requests")
	}

	cfg = validConfig()
	cfg.Security.RateLimitWindow = 100 * time.Millisecond
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for sub-second rate limit window")
	}

	// Disabling rate limits skips both checks.
	cfg = validConfig()
	cfg.Security.RateLimitDisabled = true
	cfg.Security.RateLimitRequests = 0
	cfg.Security.RateLimitWindow = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("disabled rate limiting should skip validation: %v", err)
	}
}

func TestIsProduction(t *testing.T) {
	cfg := validConfig()
	if cfg.IsProduction() {
		t.Error("default environment should not be production")
	}
	cfg.Server.Environment = "production"
	if !cfg.IsProduction() {
		t.Error("expected IsProduction() = true")
	}
}
