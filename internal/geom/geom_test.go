package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRectFromPoints(t *testing.T) {
	tests := []struct {
		name   string
		points []Point
		want   Rect
	}{
		{
			name:   "empty",
			points: nil,
			want:   Rect{},
		},
		{
			name:   "single point",
			points: []Point{{X: 5, Y: 7}},
			want:   Rect{X: 5, Y: 7},
		},
		{
			name:   "unordered corners",
			points: []Point{{X: 50, Y: 10}, {X: 10, Y: 60}},
			want:   Rect{X: 10, Y: 10, Width: 40, Height: 50},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RectFromPoints(tt.points))
		})
	}
}

func TestRectUnion(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	b := Rect{X: 20, Y: 20, Width: 5, Height: 5}

	u := a.Union(b)
	assert.Equal(t, Rect{X: 0, Y: 0, Width: 25, Height: 25}, u)

	// Degenerate rects do not contribute.
	assert.Equal(t, a, a.Union(Rect{}))
	assert.Equal(t, a, Rect{}.Union(a))
}

func TestRectIntersects(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}

	assert.True(t, a.Intersects(Rect{X: 5, Y: 5, Width: 10, Height: 10}))
	assert.True(t, a.Intersects(Rect{X: 10, Y: 0, Width: 5, Height: 5}), "touching edges count")
	assert.False(t, a.Intersects(Rect{X: 11, Y: 0, Width: 5, Height: 5}))
}

func TestRectContainsRect(t *testing.T) {
	outer := Rect{X: 0, Y: 0, Width: 100, Height: 100}

	assert.True(t, outer.ContainsRect(Rect{X: 10, Y: 10, Width: 20, Height: 20}))
	assert.False(t, outer.ContainsRect(Rect{X: 90, Y: 90, Width: 20, Height: 20}))
}

func TestRotateAboutRoundTrip(t *testing.T) {
	p := Point{X: 30, Y: 40}
	angle := math.Pi / 3

	rotated := RotateAbout(angle, 10, 10).Apply(p)
	restored := RotateAbout(-angle, 10, 10).Apply(rotated)

	require.InDelta(t, p.X, restored.X, 1e-9)
	require.InDelta(t, p.Y, restored.Y, 1e-9)
}

func TestRotateAboutQuarterTurn(t *testing.T) {
	// Rotating (10, 0) a quarter turn about the origin lands on (0, 10).
	got := RotateAbout(math.Pi/2, 0, 0).Apply(Point{X: 10, Y: 0})
	assert.InDelta(t, 0, got.X, 1e-9)
	assert.InDelta(t, 10, got.Y, 1e-9)
}

func TestScaleAbout(t *testing.T) {
	// Scaling about the point itself is a fixed point.
	got := ScaleAbout(2, 3, 5, 5).Apply(Point{X: 5, Y: 5})
	assert.Equal(t, Point{X: 5, Y: 5}, got)

	got = ScaleAbout(2, 2, 0, 0).Apply(Point{X: 3, Y: 4})
	assert.Equal(t, Point{X: 6, Y: 8}, got)
}

func TestMatrixMultiplyOrder(t *testing.T) {
	// Translate then rotate differs from rotate then translate.
	tr := Translate(10, 0)
	rot := Rotate(math.Pi / 2)

	p := Point{X: 1, Y: 0}

	// rot * tr applies the translation first.
	got := rot.Multiply(tr).Apply(p)
	assert.InDelta(t, 0, got.X, 1e-9)
	assert.InDelta(t, 11, got.Y, 1e-9)
}

func TestPointIsFinite(t *testing.T) {
	assert.True(t, Point{X: 1, Y: 2}.IsFinite())
	assert.False(t, Point{X: math.NaN(), Y: 2}.IsFinite())
	assert.False(t, Point{X: 1, Y: math.Inf(1)}.IsFinite())
}
