package engine

import (
	"github.com/wuminghaozhan/drawboard/backend-go/internal/geom"
	"github.com/wuminghaozhan/drawboard/backend-go/internal/shape"
)

// BoxPredicate decides whether a shape counts as selected by a box.
// Callers supply their own when partial overlap is not enough.
type BoxPredicate func(s shape.Shape, bounds geom.Rect, box geom.Rect) bool

// IntersectsBox selects shapes whose bounds overlap the box at all.
func IntersectsBox(_ shape.Shape, bounds geom.Rect, box geom.Rect) bool {
	return box.Intersects(bounds)
}

// InsideBox selects only shapes fully contained in the box.
func InsideBox(_ shape.Shape, bounds geom.Rect, box geom.Rect) bool {
	return box.ContainsRect(bounds)
}

// Selector answers point and box selection queries. It is side-effect-free
// on the shape collection; it only returns selections.
type Selector struct {
	cfg    Config
	bounds *BoundsCalculator
}

func NewSelector(cfg Config, bounds *BoundsCalculator) *Selector {
	return &Selector{cfg: cfg, bounds: bounds}
}

// SelectAtPoint finds the topmost shape under the point. Above the index
// threshold it narrows with quadtree candidates first; small collections scan
// the whole list directly. Shapes are tested back to front so the last-drawn
// shape wins.
func (sel *Selector) SelectAtPoint(shapes []shape.Shape, index *SpatialIndex, p geom.Point, tolerance float64) (shape.Shape, bool) {
	var candidates map[string]bool
	if index != nil && len(shapes) > sel.cfg.PointIndexThreshold {
		ids := index.QueryPoint(p, tolerance)
		candidates = make(map[string]bool, len(ids))
		for _, id := range ids {
			candidates[id] = true
		}
	}

	for i := len(shapes) - 1; i >= 0; i-- {
		s := shapes[i]
		if candidates != nil && !candidates[s.ID] {
			continue
		}
		if sel.hitShape(s, p, tolerance) {
			return s, true
		}
	}
	return shape.Shape{}, false
}

// SelectInBox returns all shapes accepted by the predicate, in z-order.
func (sel *Selector) SelectInBox(shapes []shape.Shape, index *SpatialIndex, box geom.Rect, pred BoxPredicate) []shape.Shape {
	if pred == nil {
		pred = IntersectsBox
	}

	var candidates map[string]bool
	if index != nil && len(shapes) > sel.cfg.BoxIndexThreshold {
		ids := index.QueryBounds(box)
		candidates = make(map[string]bool, len(ids))
		for _, id := range ids {
			candidates[id] = true
		}
	}

	var out []shape.Shape
	for _, s := range shapes {
		if candidates != nil && !candidates[s.ID] {
			continue
		}
		if pred(s, sel.bounds.Bounds(s), box) {
			out = append(out, s)
		}
	}
	return out
}

// hitShape is the exact per-type hit test applied after candidate filtering.
func (sel *Selector) hitShape(s shape.Shape, p geom.Point, tolerance float64) bool {
	switch s.Type {
	case shape.TypeCircle:
		if len(s.Points) == 0 {
			return false
		}
		return s.Points[0].Distance(p) <= sel.bounds.Radius(s)+tolerance

	case shape.TypeLine:
		if len(s.Points) < 2 {
			return false
		}
		pad := max(s.Style.StrokeWidth/2, 1)
		return pointSegmentDistance(p, s.Points[0], s.Points[1]) <= pad+tolerance

	case shape.TypePen:
		if len(s.Points) < 2 {
			return sel.bounds.Bounds(s).Expand(tolerance).Contains(p)
		}
		pad := max(s.Style.StrokeWidth/2, 1)
		for i := 1; i < len(s.Points); i++ {
			if pointSegmentDistance(p, s.Points[i-1], s.Points[i]) <= pad+tolerance {
				return true
			}
		}
		return false

	default:
		return sel.bounds.Bounds(s).Expand(tolerance).Contains(p)
	}
}

// pointSegmentDistance returns the distance from p to the segment a-b.
func pointSegmentDistance(p, a, b geom.Point) float64 {
	ab := b.Sub(a)
	lenSq := ab.X*ab.X + ab.Y*ab.Y
	if lenSq == 0 {
		return p.Distance(a)
	}

	ap := p.Sub(a)
	t := (ap.X*ab.X + ap.Y*ab.Y) / lenSq
	t = max(0, min(1, t))

	closest := geom.Point{X: a.X + t*ab.X, Y: a.Y + t*ab.Y}
	return p.Distance(closest)
}
