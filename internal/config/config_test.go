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

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 1920.0, cfg.CanvasWidth)
	assert.Equal(t, 1080.0, cfg.CanvasHeight)
	assert.Equal(t, 100*time.Millisecond, cfg.AnchorCacheTTL)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("MIN_RADIUS", "2.5")
	t.Setenv("ANCHOR_CACHE_TTL", "250ms")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Port)
	assert.Equal(t, 2.5, cfg.MinRadius)
	assert.Equal(t, 250*time.Millisecond, cfg.AnchorCacheTTL)
}

func TestEngineMapping(t *testing.T) {
	t.Setenv("ANCHOR_SIZE", "12")
	t.Setenv("MAX_RADIUS", "500")

	cfg, err := Load()
	require.NoError(t, err)

	ec := cfg.Engine()
	assert.Equal(t, 12.0, ec.AnchorSize)
	assert.Equal(t, 500.0, ec.MaxRadius)
	// Knobs not exposed through the environment keep their defaults.
	assert.Equal(t, 20.0, ec.RotateOffset)
	assert.Equal(t, 72.0, ec.MaxFontSize)
}
