package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// AppConfig carries all runtime configuration.
type AppConfig struct {
	Port string

	// PowerBaseURL overrides the NASA POWER endpoint (useful in tests).
	PowerBaseURL string

	// HTTPTimeout bounds outbound data-feed calls so a stalled network call
	// cannot hang an interaction.
	HTTPTimeout time.Duration

	// WindowDays is the trailing observation window requested per fetch.
	WindowDays int

	// WarmInterval controls the cache warmer; <= 0 disables it.
	WarmInterval time.Duration

	// GeocoderAPIKey enables place-name scenarios.
	GeocoderAPIKey string

	// ScenarioFile optionally overrides the embedded scenario catalog.
	ScenarioFile string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		Port:           getenvDefault("PORT", "8080"),
		PowerBaseURL:   os.Getenv("POWER_BASE_URL"),
		WindowDays:     getenvInt("WINDOW_DAYS", 30),
		GeocoderAPIKey: os.Getenv("GEOCODER_API_KEY"),
		ScenarioFile:   os.Getenv("SCENARIO_FILE"),
	}

	timeout, err := getenvDuration("HTTP_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.HTTPTimeout = timeout

	warm, err := getenvDuration("WARM_INTERVAL", 0)
	if err != nil {
		return nil, err
	}
	cfg.WarmInterval = warm

	if cfg.WindowDays <= 0 {
		return nil, fmt.Errorf("WINDOW_DAYS must be positive, got %d", cfg.WindowDays)
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
