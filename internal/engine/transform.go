package engine

import (
	"math"

	"github.com/wuminghaozhan/drawboard/backend-go/internal/geom"
	"github.com/wuminghaozhan/drawboard/backend-go/internal/shape"
)

// Transformer implements the pure geometric operations. Every method returns
// a new shape and never mutates its input; invalid numeric input is rejected
// before anything is computed.
//
// When canvas bounds are supplied, out-of-bounds results are corrected by
// translating the whole shape back inside by the minimum offset. Clamping
// points individually would distort the shape, so it is never done.
type Transformer struct {
	cfg    Config
	bounds *BoundsCalculator
}

func NewTransformer(cfg Config) *Transformer {
	return &Transformer{cfg: cfg, bounds: NewBoundsCalculator(cfg)}
}

// Scale scales a shape about (cx, cy). Circles apply min(sx, sy) to the
// radius with a fixed center; text scales its font size by the uniform
// factor; everything else scales every point.
func (t *Transformer) Scale(s shape.Shape, sx, sy, cx, cy float64, canvas *geom.Rect) (shape.Shape, error) {
	if !isFiniteScale(sx) || !isFiniteScale(sy) {
		return s, opErr("Scale", s.ID, ErrInvalidScale)
	}
	if !isFinite(cx) || !isFinite(cy) {
		return s, opErr("Scale", s.ID, ErrNonFinite)
	}
	if len(s.Points) == 0 {
		return s, opErr("Scale", s.ID, ErrEmptyShape)
	}

	out := s.Clone()

	switch s.Type {
	case shape.TypeCircle:
		center := s.Points[0]
		r := t.bounds.Radius(s) * min(sx, sy)
		r = max(min(r, t.cfg.MaxRadius), t.cfg.MinRadius)
		out.Points = []geom.Point{center, {X: center.X + r, Y: center.Y}}

	case shape.TypeText:
		factor := min(sx, sy)
		fontSize := s.FontSize
		if fontSize <= 0 {
			fontSize = 16
		}
		out.FontSize = max(min(fontSize*factor, t.cfg.MaxFontSize), t.cfg.MinFontSize)
		m := geom.ScaleAbout(sx, sy, cx, cy)
		out.Points = m.ApplyAll(s.Points)
		if sx == sy {
			if out.Width != nil {
				out.Width = shape.Float64(max(*out.Width*sx, t.cfg.MinTextWidth))
			}
			if out.Height != nil {
				out.Height = shape.Float64(*out.Height * sy)
			}
		} else {
			// Non-uniform text scaling invalidates the explicit box;
			// the bounds calculator re-estimates from the new font size.
			out.Width = nil
			out.Height = nil
		}

	default:
		m := geom.ScaleAbout(sx, sy, cx, cy)
		out.Points = m.ApplyAll(s.Points)
	}

	return t.keepInside(out, canvas), nil
}

// Rotate rotates every point about (cx, cy) and accumulates the angle onto
// the shape's stored rotation.
func (t *Transformer) Rotate(s shape.Shape, angle, cx, cy float64, canvas *geom.Rect) (shape.Shape, error) {
	if !isFinite(angle) || !isFinite(cx) || !isFinite(cy) {
		return s, opErr("Rotate", s.ID, ErrNonFinite)
	}
	if len(s.Points) == 0 {
		return s, opErr("Rotate", s.ID, ErrEmptyShape)
	}

	out := s.Clone()
	m := geom.RotateAbout(angle, cx, cy)
	out.Points = m.ApplyAll(s.Points)
	out.Rotation = s.Rotation + angle
	return t.keepInside(out, canvas), nil
}

// Move translates the shape. With canvas bounds the delta itself is shrunk
// so the shape's bounding box stays fully inside; the points are never
// clamped after the fact.
func (t *Transformer) Move(s shape.Shape, dx, dy float64, canvas *geom.Rect) (shape.Shape, error) {
	if !isFinite(dx) || !isFinite(dy) {
		return s, opErr("Move", s.ID, ErrNonFinite)
	}
	if len(s.Points) == 0 {
		return s, opErr("Move", s.ID, ErrEmptyShape)
	}

	if canvas != nil {
		dx, dy = clampDelta(t.bounds.Bounds(s), dx, dy, *canvas)
	}

	out := s.Clone()
	for i, p := range out.Points {
		out.Points[i] = p.Add(dx, dy)
	}
	return out, nil
}

// ResizeTextWidth sets an explicit text width, adjusting the anchor point
// per the dragged side and clearing the cached height so wrapping is
// recomputed.
func (t *Transformer) ResizeTextWidth(s shape.Shape, newWidth float64, side AnchorType, newAnchorX *float64) (shape.Shape, error) {
	if s.Type != shape.TypeText {
		return s, opErr("ResizeTextWidth", s.ID, ErrUnknownAnchor)
	}
	if !isFinite(newWidth) {
		return s, opErr("ResizeTextWidth", s.ID, ErrNonFinite)
	}
	if len(s.Points) == 0 {
		return s, opErr("ResizeTextWidth", s.ID, ErrEmptyShape)
	}

	width := max(newWidth, t.cfg.MinTextWidth)
	out := s.Clone()
	out.Width = shape.Float64(width)
	out.Height = nil

	if side == AnchorLeft && newAnchorX != nil {
		out.Points[0] = geom.Point{X: *newAnchorX, Y: s.Points[0].Y}
	}
	return out, nil
}

// ScaleAll applies the same scale to every shape, reporting per-shape errors
// without aborting. Failed shapes keep their input geometry.
func (t *Transformer) ScaleAll(shapes []shape.Shape, sx, sy, cx, cy float64, canvas *geom.Rect) ([]shape.Shape, []BatchError) {
	out := make([]shape.Shape, len(shapes))
	var errs []BatchError
	for i, s := range shapes {
		res, err := t.Scale(s, sx, sy, cx, cy, canvas)
		if err != nil {
			errs = append(errs, BatchError{Index: i, ShapeID: s.ID, Err: err})
			res = s
		}
		out[i] = res
	}
	return out, errs
}

// RotateAll rotates every shape about a shared center.
func (t *Transformer) RotateAll(shapes []shape.Shape, angle, cx, cy float64, canvas *geom.Rect) ([]shape.Shape, []BatchError) {
	out := make([]shape.Shape, len(shapes))
	var errs []BatchError
	for i, s := range shapes {
		res, err := t.Rotate(s, angle, cx, cy, canvas)
		if err != nil {
			errs = append(errs, BatchError{Index: i, ShapeID: s.ID, Err: err})
			res = s
		}
		out[i] = res
	}
	return out, errs
}

// MoveAll translates every shape by the same delta.
func (t *Transformer) MoveAll(shapes []shape.Shape, dx, dy float64, canvas *geom.Rect) ([]shape.Shape, []BatchError) {
	out := make([]shape.Shape, len(shapes))
	var errs []BatchError
	for i, s := range shapes {
		res, err := t.Move(s, dx, dy, canvas)
		if err != nil {
			errs = append(errs, BatchError{Index: i, ShapeID: s.ID, Err: err})
			res = s
		}
		out[i] = res
	}
	return out, errs
}

// ClampInside translates the whole shape back inside the canvas by the
// minimum offset needed. A nil canvas is a no-op.
func (t *Transformer) ClampInside(s shape.Shape, canvas *geom.Rect) shape.Shape {
	return t.keepInside(s, canvas)
}

// keepInside translates the whole shape back inside the canvas by the
// minimum offset needed.
func (t *Transformer) keepInside(s shape.Shape, canvas *geom.Rect) shape.Shape {
	if canvas == nil {
		return s
	}

	b := t.bounds.Bounds(s)
	dx, dy := insideOffset(b, *canvas)
	if dx == 0 && dy == 0 {
		return s
	}

	for i, p := range s.Points {
		s.Points[i] = p.Add(dx, dy)
	}
	return s
}

// insideOffset returns the minimal translation that puts b inside canvas.
// If b is wider or taller than the canvas, the left/top edge wins.
func insideOffset(b, canvas geom.Rect) (float64, float64) {
	var dx, dy float64

	if b.X+b.Width > canvas.X+canvas.Width {
		dx = canvas.X + canvas.Width - (b.X + b.Width)
	}
	if b.X+dx < canvas.X {
		dx = canvas.X - b.X
	}
	if b.Y+b.Height > canvas.Y+canvas.Height {
		dy = canvas.Y + canvas.Height - (b.Y + b.Height)
	}
	if b.Y+dy < canvas.Y {
		dy = canvas.Y - b.Y
	}

	return dx, dy
}

// clampDelta shrinks a move delta so the translated bounds stay inside.
func clampDelta(b geom.Rect, dx, dy float64, canvas geom.Rect) (float64, float64) {
	moved := geom.Rect{X: b.X + dx, Y: b.Y + dy, Width: b.Width, Height: b.Height}
	ox, oy := insideOffset(moved, canvas)
	return dx + ox, dy + oy
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func isFiniteScale(v float64) bool {
	return isFinite(v) && v > 0
}
