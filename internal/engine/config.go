package engine

import "time"

// Config holds the tuning knobs for one engine instance. Tests construct it
// directly; the server fills it from the environment.
type Config struct {
	// Anchor layout and hit testing.
	AnchorSize      float64 // side length of a drawn anchor square
	AnchorTolerance float64 // extra hit radius around an anchor
	RotateOffset    float64 // distance of the rotate anchor above the top edge

	// Shape constraints.
	MinRadius        float64 // circles never shrink below this
	MaxRadius        float64 // or grow beyond this
	MinTextWidth     float64
	MinFontSize      float64
	MaxFontSize      float64
	DefaultShapeSize float64 // substituted when geometry collapses to a point

	// Selection thresholds: below these the index is skipped entirely.
	PointIndexThreshold int
	BoxIndexThreshold   int

	// Quadtree shape.
	TreeCapacity int
	TreeMaxDepth int

	// Caches.
	BoundsCacheSize       int
	AnchorCacheTTL        time.Duration
	AnchorRefreshInterval time.Duration

	// Drag gating.
	MinDragDistance float64 // total movement before any transform applies
	MoveEpsilon     float64 // below this, reuse the last computed result
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		AnchorSize:            8,
		AnchorTolerance:       5,
		RotateOffset:          20,
		MinRadius:             5,
		MaxRadius:             10000,
		MinTextWidth:          20,
		MinFontSize:           8,
		MaxFontSize:           72,
		DefaultShapeSize:      10,
		PointIndexThreshold:   1000,
		BoxIndexThreshold:     500,
		TreeCapacity:          10,
		TreeMaxDepth:          5,
		BoundsCacheSize:       100,
		AnchorCacheTTL:        100 * time.Millisecond,
		AnchorRefreshInterval: 16 * time.Millisecond,
		MinDragDistance:       3,
		MoveEpsilon:           1,
	}
}
