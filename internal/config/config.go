package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/wuminghaozhan/drawboard/backend-go/internal/engine"
)

type Config struct {
	Port           int    `envconfig:"PORT" default:"8080"`
	AllowedOrigins string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`

	CanvasWidth  float64 `envconfig:"CANVAS_WIDTH" default:"1920"`
	CanvasHeight float64 `envconfig:"CANVAS_HEIGHT" default:"1080"`

	AnchorSize      float64 `envconfig:"ANCHOR_SIZE" default:"8"`
	AnchorTolerance float64 `envconfig:"ANCHOR_TOLERANCE" default:"5"`
	MinRadius       float64 `envconfig:"MIN_RADIUS" default:"5"`
	MaxRadius       float64 `envconfig:"MAX_RADIUS" default:"10000"`

	PointIndexThreshold int `envconfig:"POINT_INDEX_THRESHOLD" default:"1000"`
	BoxIndexThreshold   int `envconfig:"BOX_INDEX_THRESHOLD" default:"500"`

	BoundsCacheSize int           `envconfig:"BOUNDS_CACHE_SIZE" default:"100"`
	AnchorCacheTTL  time.Duration `envconfig:"ANCHOR_CACHE_TTL" default:"100ms"`

	MinDragDistance float64 `envconfig:"MIN_DRAG_DISTANCE" default:"3"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Engine maps the environment-driven knobs onto an engine configuration,
// keeping compiled-in defaults for everything not exposed.
func (c *Config) Engine() engine.Config {
	ec := engine.DefaultConfig()
	ec.AnchorSize = c.AnchorSize
	ec.AnchorTolerance = c.AnchorTolerance
	ec.MinRadius = c.MinRadius
	ec.MaxRadius = c.MaxRadius
	ec.PointIndexThreshold = c.PointIndexThreshold
	ec.BoxIndexThreshold = c.BoxIndexThreshold
	ec.BoundsCacheSize = c.BoundsCacheSize
	ec.AnchorCacheTTL = c.AnchorCacheTTL
	ec.MinDragDistance = c.MinDragDistance
	return ec
}
