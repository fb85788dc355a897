package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wuminghaozhan/drawboard/backend-go/internal/geom"
	"github.com/wuminghaozhan/drawboard/backend-go/internal/shape"
)

func newGenerator(cfg Config) *AnchorGenerator {
	return NewAnchorGenerator(cfg, NewHandlerRegistry(cfg), NewBoundsCalculator(cfg))
}

func TestCircleAnchors(t *testing.T) {
	cfg := DefaultConfig()
	gen := newGenerator(cfg)

	circle := shape.Shape{
		ID:     "c1",
		Type:   shape.TypeCircle,
		Points: []geom.Point{{X: 100, Y: 100}, {X: 150, Y: 100}},
	}

	set := gen.ForSelection([]shape.Shape{circle})
	require.NotNil(t, set)
	assert.Equal(t, geom.Rect{X: 50, Y: 50, Width: 100, Height: 100}, set.Bounds)

	// Four edge anchors plus the center, no rotate handle. Positions are the
	// top-left of each 8x8 anchor square.
	require.Len(t, set.Anchors, 5)

	byType := map[AnchorType]AnchorPoint{}
	for _, a := range set.Anchors {
		byType[a.Type] = a
	}

	assert.Equal(t, geom.Point{X: 96, Y: 46}, byType[AnchorTop].Position)
	assert.Equal(t, geom.Point{X: 96, Y: 146}, byType[AnchorBottom].Position)
	assert.Equal(t, geom.Point{X: 46, Y: 96}, byType[AnchorLeft].Position)
	assert.Equal(t, geom.Point{X: 146, Y: 96}, byType[AnchorRight].Position)
	assert.Equal(t, geom.Point{X: 96, Y: 96}, byType[AnchorCenter].Position)
	assert.True(t, byType[AnchorCenter].IsCenter)

	assert.Equal(t, "ns-resize", byType[AnchorTop].Cursor)
	assert.Equal(t, "ew-resize", byType[AnchorLeft].Cursor)
	assert.Equal(t, "move", byType[AnchorCenter].Cursor)
}

func TestGenericAnchors(t *testing.T) {
	cfg := DefaultConfig()
	gen := newGenerator(cfg)

	rect := shape.Shape{
		ID:   "r1",
		Type: shape.TypeRect,
		Points: []geom.Point{
			{X: 10, Y: 10}, {X: 110, Y: 10}, {X: 110, Y: 60}, {X: 10, Y: 60},
		},
	}

	set := gen.ForSelection([]shape.Shape{rect})
	require.NotNil(t, set)
	require.Len(t, set.Anchors, 10) // 4 corners + 4 edges + rotate + center

	byType := map[AnchorType]AnchorPoint{}
	for _, a := range set.Anchors {
		byType[a.Type] = a
	}

	assert.Equal(t, geom.Point{X: 6, Y: 6}, byType[AnchorTopLeft].Position)
	assert.Equal(t, geom.Point{X: 106, Y: 56}, byType[AnchorBottomRight].Position)

	// Rotate sits above the top edge midpoint by the configured offset.
	assert.Equal(t, geom.Point{X: 56, Y: -14}, byType[AnchorRotate].Position)
	assert.Equal(t, "grab", byType[AnchorRotate].Cursor)
	assert.Equal(t, "nwse-resize", byType[AnchorTopLeft].Cursor)
}

func TestTextAnchors(t *testing.T) {
	cfg := DefaultConfig()
	gen := newGenerator(cfg)

	text := shape.Shape{
		ID:       "t1",
		Type:     shape.TypeText,
		Points:   []geom.Point{{X: 0, Y: 0}},
		Text:     "hi",
		FontSize: 16,
		Width:    shape.Float64(100),
		Height:   shape.Float64(30),
	}

	set := gen.ForSelection([]shape.Shape{text})
	require.NotNil(t, set)
	// Corners, left/right mids, and center. No top/bottom handles since
	// height follows from wrapping.
	require.Len(t, set.Anchors, 7)

	types := map[AnchorType]bool{}
	for _, a := range set.Anchors {
		types[a.Type] = true
	}
	assert.False(t, types[AnchorTop])
	assert.False(t, types[AnchorBottom])
	assert.False(t, types[AnchorRotate])
	assert.True(t, types[AnchorLeft])
	assert.True(t, types[AnchorRight])
	assert.True(t, types[AnchorCenter])
}

func TestMultiSelectionAnchors(t *testing.T) {
	cfg := DefaultConfig()
	gen := newGenerator(cfg)

	a := shape.Shape{ID: "a", Type: shape.TypeRect, Points: []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 10}}}
	b := shape.Shape{ID: "b", Type: shape.TypeCircle, Points: []geom.Point{{X: 80, Y: 80}, {X: 90, Y: 80}}}

	set := gen.ForSelection([]shape.Shape{a, b})
	require.NotNil(t, set)

	// The union of both bounds drives a generic layout.
	assert.Equal(t, geom.Rect{X: 0, Y: 0, Width: 90, Height: 90}, set.Bounds)
	assert.Equal(t, set.Bounds, set.MoveRegion)
	require.Len(t, set.Anchors, 10)
	for _, anchor := range set.Anchors {
		assert.Empty(t, anchor.ShapeID)
	}
}

func TestForSelectionEmpty(t *testing.T) {
	gen := newGenerator(DefaultConfig())
	assert.Nil(t, gen.ForSelection(nil))
}

func TestHitTestCenterPriority(t *testing.T) {
	cfg := DefaultConfig()
	gen := newGenerator(cfg)

	rect := shape.Shape{
		ID:     "r1",
		Type:   shape.TypeRect,
		Points: []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}},
	}
	set := gen.ForSelection([]shape.Shape{rect})
	require.NotNil(t, set)

	// (5, 3) is closer to the top anchor at (5, 0) than to the center at
	// (5, 5), but within reach of both. Center wins.
	a, ok := gen.HitTest(set, geom.Pt(5, 3))
	require.True(t, ok)
	assert.Equal(t, AnchorCenter, a.Type)
}

func TestHitTestReach(t *testing.T) {
	cfg := DefaultConfig()
	gen := newGenerator(cfg)

	rect := shape.Shape{
		ID:     "r1",
		Type:   shape.TypeRect,
		Points: []geom.Point{{X: 100, Y: 100}, {X: 200, Y: 100}, {X: 200, Y: 200}, {X: 100, Y: 200}},
	}
	set := gen.ForSelection([]shape.Shape{rect})
	require.NotNil(t, set)

	// Reach = tolerance + half the anchor size = 9 around the top-left
	// corner at (100, 100).
	a, ok := gen.HitTest(set, geom.Pt(92, 100))
	require.True(t, ok)
	assert.Equal(t, AnchorTopLeft, a.Type)

	_, ok = gen.HitTest(set, geom.Pt(90, 100))
	assert.False(t, ok)

	_, ok = gen.HitTest(nil, geom.Pt(0, 0))
	assert.False(t, ok)
}

func TestHitMoveRegion(t *testing.T) {
	cfg := DefaultConfig()
	gen := newGenerator(cfg)

	rect := shape.Shape{
		ID:     "r1",
		Type:   shape.TypeRect,
		Points: []geom.Point{{X: 0, Y: 0}, {X: 50, Y: 0}, {X: 50, Y: 50}, {X: 0, Y: 50}},
	}
	set := gen.ForSelection([]shape.Shape{rect})

	assert.True(t, gen.HitMoveRegion(set, geom.Pt(25, 25)))
	assert.False(t, gen.HitMoveRegion(set, geom.Pt(60, 60)))
	assert.False(t, gen.HitMoveRegion(nil, geom.Pt(25, 25)))
}
