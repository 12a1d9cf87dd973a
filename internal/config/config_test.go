package config_test

import (
	"testing"
	"time"

	"aihunter/search-service/internal/config"
)

// setRequired sets the two mandatory variables so individual tests can
// focus on one knob at a time.
func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("GITHUB_TOKEN", "ghp_test")
	t.Setenv("DATABASE_URL", "postgres://localhost/search")
	// Clear optional knobs that may leak in from the host environment.
	t.Setenv("REDIS_URL", "")
	t.Setenv("SEARCH_PORT", "")
	t.Setenv("STALENESS_DAYS", "")
	t.Setenv("REFRESH_INTERVAL_HOURS", "")
}

func TestLoad_MissingToken(t *testing.T) {
	setRequired(t)
	t.Setenv("GITHUB_TOKEN", "")
	if _, err := config.Load(); err == nil {
		t.Error("Load without GITHUB_TOKEN should fail")
	}
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	setRequired(t)
	t.Setenv("DATABASE_URL", "")
	if _, err := config.Load(); err == nil {
		t.Error("Load without DATABASE_URL should fail")
	}
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.StalenessDays != 30 {
		t.Errorf("StalenessDays = %d, want 30", cfg.StalenessDays)
	}
	if cfg.RefreshIntervalHours != 24 {
		t.Errorf("RefreshIntervalHours = %d, want 24", cfg.RefreshIntervalHours)
	}
	if cfg.RedisURL != "" {
		t.Errorf("RedisURL = %q, want empty (events disabled)", cfg.RedisURL)
	}
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("SEARCH_PORT", "9999")
	t.Setenv("STALENESS_DAYS", "7")
	t.Setenv("REFRESH_INTERVAL_HOURS", "0")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9999" || cfg.StalenessDays != 7 || cfg.RefreshIntervalHours != 0 {
		t.Errorf("cfg = %+v, want overridden values", cfg)
	}
	if got, want := cfg.StaleAfter(), 7*24*time.Hour; got != want {
		t.Errorf("StaleAfter() = %v, want %v", got, want)
	}
}

func TestLoad_InvalidNumbers(t *testing.T) {
	cases := []struct {
		key, val string
	}{
		{"STALENESS_DAYS", "soon"},
		{"STALENESS_DAYS", "0"},
		{"STALENESS_DAYS", "-1"},
		{"REFRESH_INTERVAL_HOURS", "daily"},
		{"REFRESH_INTERVAL_HOURS", "-6"},
	}
	for _, tc := range cases {
		setRequired(t)
		t.Setenv(tc.key, tc.val)
		if _, err := config.Load(); err == nil {
			t.Errorf("Load with %s=%q should fail", tc.key, tc.val)
		}
	}
}
