// Package config loads the process-wide configuration from environment
// variables.
//
// The configuration is read once at startup and never mutated afterwards.
// Every component that needs a setting (the token service, the server)
// receives it by injection; nothing in the codebase reads the environment
// after Load returns.
package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// DefaultAccessTokenExpireMinutes is used when JWT_ACCESS_TOKEN_EXPIRE_MINUTES
// is unset or not a valid integer.
const DefaultAccessTokenExpireMinutes = 15

// Config holds everything the server needs to start.
type Config struct {
	Port   int    // PORT, default 8080
	DBPath string // DB_PATH, default data/identity.db

	JWTSecret    string // JWT_SECRET_KEY, required
	JWTAlgorithm string // JWT_ALGORITHM, default HS256

	// AccessTokenExpireMinutes is the default lifetime of issued access
	// tokens. Falls back to DefaultAccessTokenExpireMinutes when the env
	// value is missing or unparseable.
	AccessTokenExpireMinutes int
}

// AccessTokenExpiry returns the default token lifetime as a duration.
func (c Config) AccessTokenExpiry() time.Duration {
	return time.Duration(c.AccessTokenExpireMinutes) * time.Minute
}

// Load reads the configuration from the environment.
//
// Only JWT_SECRET_KEY is mandatory, since tokens cannot be signed without it.
// Everything else has a sensible default.
func Load() (Config, error) {
	cfg := Config{
		Port:                     8080,
		DBPath:                   "data/identity.db",
		JWTAlgorithm:             "HS256",
		AccessTokenExpireMinutes: DefaultAccessTokenExpireMinutes,
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, errors.New("config: PORT must be an integer")
		}
		cfg.Port = port
	}

	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.DBPath = v
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET_KEY")
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("config: JWT_SECRET_KEY must be set")
	}

	if v := os.Getenv("JWT_ALGORITHM"); v != "" {
		cfg.JWTAlgorithm = v
	}

	// An unparseable expiry is not fatal; the default applies.
	if v := os.Getenv("JWT_ACCESS_TOKEN_EXPIRE_MINUTES"); v != "" {
		if minutes, err := strconv.Atoi(v); err == nil {
			cfg.AccessTokenExpireMinutes = minutes
		}
	}

	return cfg, nil
}
