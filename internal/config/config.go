// internal/config/config.go
//
// Environment-driven configuration. main calls godotenv.Load() first so a local
// .env file can supply any of these.
//
// Environment variables:
//   PORT               HTTP listen port (default 5175)
//   LOG_LEVEL          zerolog level name (default info)
//   LOG_FORMAT         "json" or "console" (default json)
//   WORDS_FILE         plain-text dictionary path
//   WORDS_DSN          SQLite dictionary path (wins over WORDS_FILE)
//   SESSION_SECRET     HS256 key for session tokens
//   SESSION_TTL_HOURS  idle session lifetime (default 24)
//   CLIENT_ORIGIN      CORS origin (default http://localhost:5173)
//   MATCH_LIMIT_MAX    cap on returned matches per request, 0 = none (default 0)

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/robalobadob/wordle/apps/filter-server/internal/words"
)

const devSecret = "dev_secret_change_me"

// Config is the resolved process configuration.
type Config struct {
	Port          string
	LogLevel      zerolog.Level
	LogConsole    bool
	Words         words.Source
	SessionSecret []byte
	SessionTTL    time.Duration
	ClientOrigin  string
	MatchLimitMax int
}

// Load reads an optional .env file (missing is fine) and then the environment.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: load env file: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (*Config, error) {
	lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("config: LOG_LEVEL: %w", err)
	}
	format := getEnv("LOG_FORMAT", "json")
	if format != "json" && format != "console" {
		return nil, fmt.Errorf("config: LOG_FORMAT must be json or console, got %q", format)
	}
	ttl, err := envInt("SESSION_TTL_HOURS", 24)
	if err != nil {
		return nil, err
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("config: SESSION_TTL_HOURS must be positive, got %d", ttl)
	}
	limit, err := envInt("MATCH_LIMIT_MAX", 0)
	if err != nil {
		return nil, err
	}
	if limit < 0 {
		return nil, fmt.Errorf("config: MATCH_LIMIT_MAX must not be negative, got %d", limit)
	}

	return &Config{
		Port:       getEnv("PORT", "5175"),
		LogLevel:   lvl,
		LogConsole: format == "console",
		Words: words.Source{
			File: os.Getenv("WORDS_FILE"),
			DSN:  os.Getenv("WORDS_DSN"),
		},
		SessionSecret: []byte(getEnv("SESSION_SECRET", devSecret)),
		SessionTTL:    time.Duration(ttl) * time.Hour,
		ClientOrigin:  getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		MatchLimitMax: limit,
	}, nil
}

// DevSecret reports whether the built-in development secret is in use.
func (c *Config) DevSecret() bool { return string(c.SessionSecret) == devSecret }

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", k, err)
	}
	return n, nil
}
