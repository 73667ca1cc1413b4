// Package config handles configuration for the server component,
// including defaults, JSON overlay, environment (.env) overlay and
// command-line flags.
package config

import (
	"time"

	"github.com/dmitrijs2005/travelwishlist/internal/common"
	"github.com/dmitrijs2005/travelwishlist/internal/dbx"
)

// MinSecretKeyLength is the minimum HMAC key size in bytes (256 bits).
const MinSecretKeyLength = 32

// Config holds runtime settings for the travel wishlist server.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the HTTP API.
//   - DatabaseDriver / DatabaseDSN: "postgres" (pgx DSN) or "sqlite" (file path).
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use the default in prod.
//   - Issuer / Audience: registered claims stamped on and required from access tokens.
//   - AccessTokenValidityDuration / RefreshTokenValidityDuration: token lifetimes.
//   - AllowedOrigins: CORS allow-list.
//   - RequestTimeout: upper bound for each request context.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	EndpointAddrHTTP             string
	DatabaseDriver               string
	DatabaseDSN                  string
	SecretKey                    string
	Issuer                       string
	Audience                     string
	AccessTokenValidityDuration  time.Duration
	RefreshTokenValidityDuration time.Duration
	AllowedOrigins               []string
	RequestTimeout               time.Duration
	LogLevel                     string
}

// LoadDefaults populates Config with development defaults.
// NOTE: the secret key is public and must be overridden outside development.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8080"
	c.DatabaseDriver = string(dbx.SQLite)
	c.DatabaseDSN = "data/travelwishlist.db"
	c.SecretKey = "a-string-secret-at-least-256-bits-long"
	c.Issuer = "travelwishlist"
	c.Audience = "travelwishlist"
	c.AccessTokenValidityDuration = 2 * time.Hour
	c.RefreshTokenValidityDuration = 7 * 24 * time.Hour
	c.AllowedOrigins = []string{"http://localhost:5173"}
	c.RequestTimeout = 10 * time.Second
	c.LogLevel = "info"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment (optionally seeded from a
// .env file) and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}

// Validate reports the first unusable setting as a *common.ConfigurationError.
func (c *Config) Validate() error {
	if len(c.SecretKey) < MinSecretKeyLength {
		return &common.ConfigurationError{Field: "secret_key", Reason: "must be at least 32 bytes"}
	}
	if c.Issuer == "" {
		return &common.ConfigurationError{Field: "issuer", Reason: "must not be empty"}
	}
	if c.Audience == "" {
		return &common.ConfigurationError{Field: "audience", Reason: "must not be empty"}
	}
	if _, err := dbx.ParseDialect(c.DatabaseDriver); err != nil {
		return &common.ConfigurationError{Field: "database_driver", Reason: err.Error()}
	}
	if c.DatabaseDSN == "" {
		return &common.ConfigurationError{Field: "database_dsn", Reason: "must not be empty"}
	}
	if c.AccessTokenValidityDuration <= 0 {
		return &common.ConfigurationError{Field: "access_token_validity_duration", Reason: "must be positive"}
	}
	if c.RefreshTokenValidityDuration <= 0 {
		return &common.ConfigurationError{Field: "refresh_token_validity_duration", Reason: "must be positive"}
	}
	return nil
}
