package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 30, cfg.WindowDays)
	assert.Equal(t, time.Duration(0), cfg.WarmInterval)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("HTTP_TIMEOUT", "3s")
	t.Setenv("WINDOW_DAYS", "14")
	t.Setenv("WARM_INTERVAL", "15m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 14, cfg.WindowDays)
	assert.Equal(t, 15*time.Minute, cfg.WarmInterval)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("HTTP_TIMEOUT", "soon")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsNonPositiveWindow(t *testing.T) {
	t.Setenv("WINDOW_DAYS", "-3")

	_, err := Load()
	assert.Error(t, err)
}
