package engine

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wuminghaozhan/drawboard/backend-go/internal/geom"
	"github.com/wuminghaozhan/drawboard/backend-go/internal/shape"
)

func TestMove(t *testing.T) {
	tr := NewTransformer(DefaultConfig())

	s := shape.Shape{
		ID:     "l1",
		Type:   shape.TypeLine,
		Points: []geom.Point{{X: 10, Y: 20}, {X: 50, Y: 60}},
	}

	got, err := tr.Move(s, 10, 20, nil)
	require.NoError(t, err)
	assert.Equal(t, []geom.Point{{X: 20, Y: 40}, {X: 60, Y: 80}}, got.Points)

	// Input untouched.
	assert.Equal(t, geom.Point{X: 10, Y: 20}, s.Points[0])
}

func TestMoveClampedToCanvas(t *testing.T) {
	tr := NewTransformer(DefaultConfig())
	canvas := geom.Rect{Width: 100, Height: 100}

	s := shape.Shape{
		ID:     "l1",
		Type:   shape.TypeLine,
		Points: []geom.Point{{X: 10, Y: 20}, {X: 50, Y: 60}},
	}

	// The full delta would push the bounds past the right and bottom edges;
	// it is shrunk so the whole shape stays inside.
	got, err := tr.Move(s, 100, 200, &canvas)
	require.NoError(t, err)
	assert.Equal(t, []geom.Point{{X: 60, Y: 60}, {X: 100, Y: 100}}, got.Points)
}

func TestMoveRejectsNonFinite(t *testing.T) {
	tr := NewTransformer(DefaultConfig())
	s := shape.Shape{ID: "l1", Type: shape.TypeLine, Points: []geom.Point{{X: 0, Y: 0}, {X: 1, Y: 1}}}

	_, err := tr.Move(s, math.NaN(), 0, nil)
	require.ErrorIs(t, err, ErrNonFinite)

	var oe *OpError
	require.ErrorAs(t, err, &oe)
	assert.Equal(t, "Move", oe.Op)
	assert.Equal(t, "l1", oe.ShapeID)
}

func TestScaleRejectsInvalidFactors(t *testing.T) {
	tr := NewTransformer(DefaultConfig())
	s := shape.Shape{ID: "r1", Type: shape.TypeRect, Points: []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 10}}}

	for _, factor := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err := tr.Scale(s, factor, 1, 5, 5, nil)
		assert.ErrorIs(t, err, ErrInvalidScale, "factor %v", factor)
	}
}

func TestScaleEmptyShape(t *testing.T) {
	tr := NewTransformer(DefaultConfig())
	_, err := tr.Scale(shape.Shape{ID: "e1"}, 2, 2, 0, 0, nil)
	require.ErrorIs(t, err, ErrEmptyShape)
}

func TestScaleCircleUsesUniformFactor(t *testing.T) {
	tr := NewTransformer(DefaultConfig())

	s := shape.Shape{
		ID:     "c1",
		Type:   shape.TypeCircle,
		Points: []geom.Point{{X: 100, Y: 100}, {X: 150, Y: 100}},
	}

	// Non-uniform factors collapse to min(sx, sy); the center never moves.
	got, err := tr.Scale(s, 0.5, 2, 100, 100, nil)
	require.NoError(t, err)
	assert.Equal(t, []geom.Point{{X: 100, Y: 100}, {X: 125, Y: 100}}, got.Points)
}

func TestScaleCircleClampsRadius(t *testing.T) {
	tr := NewTransformer(DefaultConfig())

	s := shape.Shape{
		ID:     "c1",
		Type:   shape.TypeCircle,
		Points: []geom.Point{{X: 100, Y: 100}, {X: 110, Y: 100}},
	}

	got, err := tr.Scale(s, 0.1, 0.1, 100, 100, nil)
	require.NoError(t, err)
	assert.Equal(t, geom.Point{X: 105, Y: 100}, got.Points[1], "radius clamps to minimum")
}

func TestScaleTextUniform(t *testing.T) {
	tr := NewTransformer(DefaultConfig())

	s := shape.Shape{
		ID:       "t1",
		Type:     shape.TypeText,
		Points:   []geom.Point{{X: 10, Y: 10}},
		Text:     "hi",
		FontSize: 16,
		Width:    shape.Float64(100),
		Height:   shape.Float64(50),
	}

	got, err := tr.Scale(s, 2, 2, 10, 10, nil)
	require.NoError(t, err)
	assert.InDelta(t, 32, got.FontSize, 1e-9)
	require.NotNil(t, got.Width)
	require.NotNil(t, got.Height)
	assert.InDelta(t, 200, *got.Width, 1e-9)
	assert.InDelta(t, 100, *got.Height, 1e-9)
}

func TestScaleTextNonUniformDropsExplicitBox(t *testing.T) {
	tr := NewTransformer(DefaultConfig())

	s := shape.Shape{
		ID:       "t1",
		Type:     shape.TypeText,
		Points:   []geom.Point{{X: 10, Y: 10}},
		Text:     "hi",
		FontSize: 16,
		Width:    shape.Float64(100),
		Height:   shape.Float64(50),
	}

	got, err := tr.Scale(s, 2, 3, 10, 10, nil)
	require.NoError(t, err)
	assert.InDelta(t, 32, got.FontSize, 1e-9) // min(2, 3) applied
	assert.Nil(t, got.Width)
	assert.Nil(t, got.Height)
}

func TestScaleTextFontClamp(t *testing.T) {
	tr := NewTransformer(DefaultConfig())

	s := shape.Shape{
		ID:       "t1",
		Type:     shape.TypeText,
		Points:   []geom.Point{{X: 0, Y: 0}},
		FontSize: 60,
	}

	got, err := tr.Scale(s, 2, 2, 0, 0, nil)
	require.NoError(t, err)
	assert.InDelta(t, 72, got.FontSize, 1e-9)

	got, err = tr.Scale(s, 0.01, 0.01, 0, 0, nil)
	require.NoError(t, err)
	assert.InDelta(t, 8, got.FontSize, 1e-9)
}

func TestScaleKeepsShapeInsideCanvas(t *testing.T) {
	tr := NewTransformer(DefaultConfig())
	canvas := geom.Rect{Width: 100, Height: 100}

	s := shape.Shape{
		ID:     "r1",
		Type:   shape.TypeRect,
		Points: []geom.Point{{X: 80, Y: 80}, {X: 95, Y: 95}},
	}

	// Doubling about the shape center pushes it past the canvas edge; the
	// whole shape is translated back by the overhang, never clipped.
	got, err := tr.Scale(s, 2, 2, 87.5, 87.5, &canvas)
	require.NoError(t, err)
	assert.Equal(t, []geom.Point{{X: 70, Y: 70}, {X: 100, Y: 100}}, got.Points)
}

func TestRotateAccumulates(t *testing.T) {
	tr := NewTransformer(DefaultConfig())

	s := shape.Shape{
		ID:     "r1",
		Type:   shape.TypeRect,
		Points: []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}},
	}

	got, err := tr.Rotate(s, math.Pi/2, 5, 5, nil)
	require.NoError(t, err)
	assert.InDelta(t, math.Pi/2, got.Rotation, 1e-9)
	assert.InDelta(t, 10, got.Points[0].X, 1e-9)
	assert.InDelta(t, 0, got.Points[0].Y, 1e-9)

	got, err = tr.Rotate(got, math.Pi/2, 5, 5, nil)
	require.NoError(t, err)
	assert.InDelta(t, math.Pi, got.Rotation, 1e-9)
}

func TestResizeTextWidth(t *testing.T) {
	tr := NewTransformer(DefaultConfig())

	s := shape.Shape{
		ID:       "t1",
		Type:     shape.TypeText,
		Points:   []geom.Point{{X: 10, Y: 10}},
		Text:     "hi",
		FontSize: 16,
		Height:   shape.Float64(40),
	}

	got, err := tr.ResizeTextWidth(s, 120, AnchorRight, nil)
	require.NoError(t, err)
	require.NotNil(t, got.Width)
	assert.Equal(t, 120.0, *got.Width)
	assert.Nil(t, got.Height, "height is recomputed from wrapping")

	// Below the minimum the width clamps.
	got, err = tr.ResizeTextWidth(s, 5, AnchorRight, nil)
	require.NoError(t, err)
	assert.Equal(t, 20.0, *got.Width)

	// Left-side resize moves the anchor.
	x := 42.0
	got, err = tr.ResizeTextWidth(s, 120, AnchorLeft, &x)
	require.NoError(t, err)
	assert.Equal(t, geom.Point{X: 42, Y: 10}, got.Points[0])

	_, err = tr.ResizeTextWidth(shape.Shape{ID: "r1", Type: shape.TypeRect, Points: []geom.Point{{}}}, 120, AnchorRight, nil)
	require.Error(t, err)
}

func TestBatchReportsPerShapeErrors(t *testing.T) {
	tr := NewTransformer(DefaultConfig())

	good := shape.Shape{ID: "good", Type: shape.TypeRect, Points: []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 10}}}
	bad := shape.Shape{ID: "bad", Type: shape.TypeRect}

	out, errs := tr.MoveAll([]shape.Shape{good, bad}, 5, 5, nil)
	require.Len(t, errs, 1)
	assert.Equal(t, 1, errs[0].Index)
	assert.Equal(t, "bad", errs[0].ShapeID)
	assert.ErrorIs(t, errs[0].Err, ErrEmptyShape)

	// The failed shape keeps its input; the rest are transformed.
	assert.Equal(t, geom.Point{X: 5, Y: 5}, out[0].Points[0])
	assert.Equal(t, bad, out[1])
}

func TestTransformInverses(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	tr := NewTransformer(DefaultConfig())

	mkShape := func(coords []float64) shape.Shape {
		points := []geom.Point{{X: 1, Y: 2}, {X: 30, Y: 40}}
		for i := 0; i+1 < len(coords); i += 2 {
			points = append(points, geom.Point{X: coords[i], Y: coords[i+1]})
		}
		return shape.Shape{ID: "p1", Type: shape.TypePolygon, Points: points}
	}

	closeEnough := func(a, b []geom.Point) bool {
		for i := range a {
			if math.Abs(a[i].X-b[i].X) > 1e-6 || math.Abs(a[i].Y-b[i].Y) > 1e-6 {
				return false
			}
		}
		return true
	}

	properties.Property("move then inverse move restores points", prop.ForAll(
		func(coords []float64, dx, dy float64) bool {
			s := mkShape(coords)
			moved, err := tr.Move(s, dx, dy, nil)
			if err != nil {
				return false
			}
			back, err := tr.Move(moved, -dx, -dy, nil)
			if err != nil {
				return false
			}
			return closeEnough(s.Points, back.Points)
		},
		gen.SliceOf(gen.Float64Range(-500, 500)),
		gen.Float64Range(-500, 500),
		gen.Float64Range(-500, 500),
	))

	properties.Property("rotate then counter-rotate restores points", prop.ForAll(
		func(coords []float64, angle float64) bool {
			s := mkShape(coords)
			rotated, err := tr.Rotate(s, angle, 10, 10, nil)
			if err != nil {
				return false
			}
			back, err := tr.Rotate(rotated, -angle, 10, 10, nil)
			if err != nil {
				return false
			}
			return closeEnough(s.Points, back.Points) && math.Abs(back.Rotation) < 1e-9
		},
		gen.SliceOf(gen.Float64Range(-500, 500)),
		gen.Float64Range(-math.Pi, math.Pi),
	))

	properties.Property("scale then inverse scale restores points", prop.ForAll(
		func(coords []float64, factor float64) bool {
			s := mkShape(coords)
			scaled, err := tr.Scale(s, factor, factor, 10, 10, nil)
			if err != nil {
				return false
			}
			back, err := tr.Scale(scaled, 1/factor, 1/factor, 10, 10, nil)
			if err != nil {
				return false
			}
			return closeEnough(s.Points, back.Points)
		},
		gen.SliceOf(gen.Float64Range(-500, 500)),
		gen.Float64Range(0.1, 10),
	))

	properties.TestingRun(t)
}
