// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

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
  - DI-Friendly: Passed to core components (DB, Redis, Mail) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Score bounds enforced by the review_score_range CHECK constraint.
// MIN_SCORE and MAX_SCORE may narrow this range but never widen it.
const (
	ScoreFloor   = 1
	ScoreCeiling = 10
)

// Config holds all runtime configuration for the YaMDb API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value store (Redis). Optional: signup cooldown is disabled without it.
	RedisURL string `env:"REDIS_URL"`

	// Cryptographic keys for access token signing
	JWTPrivKeyPath string        `env:"JWT_PRIVATE_KEY_PATH,required,notEmpty"`
	JWTPubKeyPath  string        `env:"JWT_PUBLIC_KEY_PATH,required,notEmpty"`
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"24h"`

	// Confirmation code policy
	ConfirmationSingleUse bool          `env:"CONFIRMATION_SINGLE_USE" envDefault:"false"`
	SignupCooldown        time.Duration `env:"SIGNUP_COOLDOWN"         envDefault:"0s"`

	// Review score bounds (inclusive)
	MinScore int `env:"MIN_SCORE" envDefault:"1"`
	MaxScore int `env:"MAX_SCORE" envDefault:"10"`

	// Outgoing mail. Without SMTP_HOST codes are written to the log.
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT"     envDefault:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	MailFrom     string `env:"MAIL_FROM"     envDefault:"noreply@yamdb.local"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing or 'notEmpty' is blank.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks cross-field constraints that struct tags cannot express.
func (c *Config) validate() error {
	if c.MinScore < ScoreFloor || c.MaxScore > ScoreCeiling {
		return fmt.Errorf("config: score bounds %d..%d fall outside %d..%d", c.MinScore, c.MaxScore, ScoreFloor, ScoreCeiling)
	}
	if c.MinScore > c.MaxScore {
		return fmt.Errorf("config: MIN_SCORE (%d) must not exceed MAX_SCORE (%d)", c.MinScore, c.MaxScore)
	}
	if c.AccessTokenTTL <= 0 {
		return fmt.Errorf("config: ACCESS_TOKEN_TTL must be positive")
	}
	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// UseRedis reports whether a Redis connection is configured.
func (c *Config) UseRedis() bool {
	return c.RedisURL != ""
}

// UseSMTP reports whether outgoing mail goes through an SMTP relay.
func (c *Config) UseSMTP() bool {
	return c.SMTPHost != ""
}

// AllowedOrigins returns the CORS origins listed in EXTRA_ORIGINS.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.ExtraOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
