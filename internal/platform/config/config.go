// Copyright (c) 2026 Authgate. All rights reserved.
// Author: minh.tran.dn@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, Throttle) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Throttle backend selectors for LOGIN_THROTTLE_BACKEND.
const (
	ThrottleBackendMemory = "memory"
	ThrottleBackendRedis  = "redis"
)

// # Configuration Schema

// Config holds all runtime configuration for the Authgate API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL) — the account directory.
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis). Only required when the throttle backend is
	// "redis"; the default in-memory backend needs no external store.
	RedisURL string `env:"REDIS_URL"`

	// Login policy. EmailOnly restricts login to email identifiers;
	// RequireConfirmed rejects accounts whose email is unconfirmed.
	EmailOnly        bool `env:"LOGIN_EMAIL_ONLY"        envDefault:"false"`
	RequireConfirmed bool `env:"LOGIN_REQUIRE_CONFIRMED" envDefault:"true"`

	// Brute-force throttle policy. Failed attempts past FreeRetries impose
	// a doubling wait window between MinWait and MaxWait. State lives in
	// process memory unless ThrottleBackend selects redis — a restart
	// resets all throttling on the memory backend.
	ThrottleBackend string        `env:"LOGIN_THROTTLE_BACKEND" envDefault:"memory"`
	FreeRetries     int           `env:"LOGIN_FREE_RETRIES"     envDefault:"5"`
	MinWait         time.Duration `env:"LOGIN_MIN_WAIT"         envDefault:"5m"`
	MaxWait         time.Duration `env:"LOGIN_MAX_WAIT"         envDefault:"1h"`
	AttemptLifetime time.Duration `env:"LOGIN_ATTEMPT_LIFETIME" envDefault:"1h"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	// Cross-field checks that struct tags cannot express.
	switch cfg.ThrottleBackend {
	case ThrottleBackendMemory:
	case ThrottleBackendRedis:
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("config: REDIS_URL is required when LOGIN_THROTTLE_BACKEND=redis")
		}
	default:
		return nil, fmt.Errorf("config: unknown LOGIN_THROTTLE_BACKEND %q", cfg.ThrottleBackend)
	}

	if cfg.FreeRetries < 0 {
		return nil, fmt.Errorf("config: LOGIN_FREE_RETRIES must not be negative")
	}

	if cfg.MinWait <= 0 || cfg.MaxWait < cfg.MinWait {
		return nil, fmt.Errorf("config: throttle waits must satisfy 0 < LOGIN_MIN_WAIT <= LOGIN_MAX_WAIT")
	}

	return cfg, nil
}

// AllowedOrigins returns the extra CORS origins configured via
// EXTRA_ORIGINS, a comma-separated list of exact origins.
func (c *Config) AllowedOrigins() []string {
	if c.ExtraOrigins == "" {
		return nil
	}

	parts := strings.Split(c.ExtraOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
