package engine

import (
	"github.com/wuminghaozhan/drawboard/backend-go/internal/geom"
	"github.com/wuminghaozhan/drawboard/backend-go/internal/shape"
)

// circleHandler keeps circles circular: anchor drags ignore direction and
// only use the pointer's distance from the center, clamped to the configured
// radius range. Circles get four edge anchors plus the center; no rotate
// anchor since rotation is a no-op visually.
type circleHandler struct {
	cfg    Config
	bounds *BoundsCalculator
}

func (h *circleHandler) GenerateAnchors(s shape.Shape, bounds geom.Rect) []AnchorPoint {
	anchors := edgeAnchors(bounds, s.ID, h.cfg)
	anchors = append(anchors, anchorAt(bounds.Center(), AnchorCenter, s.ID, bounds, h.cfg))
	return anchors
}

func (h *circleHandler) HandleDrag(s shape.Shape, anchor AnchorType, start, current geom.Point, startBounds geom.Rect) (shape.Shape, error) {
	if !current.IsFinite() {
		return s, opErr("HandleDrag", s.ID, ErrNonFinite)
	}
	if len(s.Points) == 0 {
		return s, opErr("HandleDrag", s.ID, ErrEmptyShape)
	}

	center := s.Points[0]
	r := center.Distance(current)
	r = max(r, h.cfg.MinRadius)
	r = min(r, h.cfg.MaxRadius)

	out := s.Clone()
	out.Points = []geom.Point{center, {X: center.X + r, Y: center.Y}}
	return out, nil
}

func (h *circleHandler) HandleMove(s shape.Shape, dx, dy float64) shape.Shape {
	out := s.Clone()
	for i, p := range out.Points {
		out.Points[i] = p.Add(dx, dy)
	}
	return out
}

func (h *circleHandler) Center(s shape.Shape, bounds geom.Rect) geom.Point {
	if len(s.Points) > 0 {
		return s.Points[0]
	}
	return bounds.Center()
}
