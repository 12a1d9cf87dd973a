// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing, the process exits.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the search service.
type Config struct {
	Port                 string
	DatabaseURL          string
	RedisURL             string // empty disables refresh event publishing
	GithubToken          string
	StalenessDays        int // cached candidates older than this are re-fetched
	RefreshIntervalHours int // background refresher period; 0 disables it
}

// Load reads environment variables and returns a validated Config.
// A local .env file is loaded first when present (development convenience).
func Load() (*Config, error) {
	_ = godotenv.Load()

	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("GITHUB_TOKEN is required")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	stalenessDays := 30
	if s := os.Getenv("STALENESS_DAYS"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("STALENESS_DAYS must be a positive integer, got %q", s)
		}
		stalenessDays = v
	}

	refreshInterval := 24
	if s := os.Getenv("REFRESH_INTERVAL_HOURS"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			return nil, fmt.Errorf("REFRESH_INTERVAL_HOURS must be a non-negative integer, got %q", s)
		}
		refreshInterval = v
	}

	port := os.Getenv("SEARCH_PORT")
	if port == "" {
		port = "8080"
	}

	return &Config{
		Port:                 port,
		DatabaseURL:          dbURL,
		RedisURL:             os.Getenv("REDIS_URL"),
		GithubToken:          token,
		StalenessDays:        stalenessDays,
		RefreshIntervalHours: refreshInterval,
	}, nil
}

// StaleAfter returns the staleness threshold as a duration.
func (c *Config) StaleAfter() time.Duration {
	return time.Duration(c.StalenessDays) * 24 * time.Hour
}
