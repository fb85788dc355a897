package engine

import (
	"github.com/wuminghaozhan/drawboard/backend-go/internal/geom"
	"github.com/wuminghaozhan/drawboard/backend-go/internal/shape"
)

// ShapeHandler is the per-type strategy for anchor layout and drag semantics.
// Handlers are pure: they take the drag-start snapshot and return a new shape,
// never mutating their input.
type ShapeHandler interface {
	// GenerateAnchors produces the handle layout for the shape, including
	// its center anchor.
	GenerateAnchors(s shape.Shape, bounds geom.Rect) []AnchorPoint

	// HandleDrag interprets an anchor drag. start and current are pointer
	// positions; startBounds is the shape's bounds at drag start. The handler
	// owns the anchor semantics entirely.
	HandleDrag(s shape.Shape, anchor AnchorType, start, current geom.Point, startBounds geom.Rect) (shape.Shape, error)

	// HandleMove translates the shape by a delta.
	HandleMove(s shape.Shape, dx, dy float64) shape.Shape

	// Center returns the point rotation and scaling pivot around.
	Center(s shape.Shape, bounds geom.Rect) geom.Point
}

// HandlerRegistry dispatches shape types to their handlers. Unknown types
// fall back to the generic resize handler explicitly.
type HandlerRegistry struct {
	handlers map[shape.Type]ShapeHandler
	generic  ShapeHandler
}

func NewHandlerRegistry(cfg Config) *HandlerRegistry {
	bounds := NewBoundsCalculator(cfg)
	generic := &genericHandler{cfg: cfg}
	return &HandlerRegistry{
		generic: generic,
		handlers: map[shape.Type]ShapeHandler{
			shape.TypeCircle: &circleHandler{cfg: cfg, bounds: bounds},
			shape.TypeText:   &textHandler{cfg: cfg, bounds: bounds, generic: generic},
		},
	}
}

// For returns the handler for a shape type, or the generic fallback.
func (r *HandlerRegistry) For(t shape.Type) ShapeHandler {
	if h, ok := r.handlers[t]; ok {
		return h
	}
	return r.generic
}

// genericHandler serves every shape type without bespoke semantics:
// 8 resize anchors, a rotate anchor, and a center anchor over the bounds.
// Anchor drags are reinterpreted as a bounds change, and the points are
// rescaled to map the old bounds onto the new ones.
type genericHandler struct {
	cfg Config
}

func (h *genericHandler) GenerateAnchors(s shape.Shape, bounds geom.Rect) []AnchorPoint {
	anchors := append(cornerAnchors(bounds, s.ID, h.cfg), edgeAnchors(bounds, s.ID, h.cfg)...)
	anchors = append(anchors, rotateAnchor(bounds, s.ID, h.cfg))
	anchors = append(anchors, anchorAt(bounds.Center(), AnchorCenter, s.ID, bounds, h.cfg))
	return anchors
}

func (h *genericHandler) HandleDrag(s shape.Shape, anchor AnchorType, start, current geom.Point, startBounds geom.Rect) (shape.Shape, error) {
	if !current.IsFinite() {
		return s, opErr("HandleDrag", s.ID, ErrNonFinite)
	}
	if len(s.Points) == 0 {
		return s, opErr("HandleDrag", s.ID, ErrEmptyShape)
	}

	newBounds, err := resizeBounds(startBounds, anchor, current)
	if err != nil {
		return s, opErr("HandleDrag", s.ID, err)
	}

	out := s.Clone()
	out.Points = mapBounds(s.Points, startBounds, newBounds)
	return out, nil
}

func (h *genericHandler) HandleMove(s shape.Shape, dx, dy float64) shape.Shape {
	out := s.Clone()
	for i, p := range out.Points {
		out.Points[i] = p.Add(dx, dy)
	}
	return out
}

func (h *genericHandler) Center(s shape.Shape, bounds geom.Rect) geom.Point {
	return bounds.Center()
}

// resizeBounds applies an anchor drag to a bounds rect: corner anchors move
// two edges, edge anchors move one. Width and height never drop below one
// unit so the shape stays manipulable.
func resizeBounds(b geom.Rect, anchor AnchorType, p geom.Point) (geom.Rect, error) {
	left := b.X
	top := b.Y
	right := b.X + b.Width
	bottom := b.Y + b.Height

	switch anchor {
	case AnchorTopLeft:
		left, top = p.X, p.Y
	case AnchorTopRight:
		right, top = p.X, p.Y
	case AnchorBottomRight:
		right, bottom = p.X, p.Y
	case AnchorBottomLeft:
		left, bottom = p.X, p.Y
	case AnchorTop:
		top = p.Y
	case AnchorBottom:
		bottom = p.Y
	case AnchorLeft:
		left = p.X
	case AnchorRight:
		right = p.X
	default:
		return b, ErrUnknownAnchor
	}

	if right-left < 1 {
		switch anchor {
		case AnchorLeft, AnchorTopLeft, AnchorBottomLeft:
			left = right - 1
		default:
			right = left + 1
		}
	}
	if bottom-top < 1 {
		switch anchor {
		case AnchorTop, AnchorTopLeft, AnchorTopRight:
			top = bottom - 1
		default:
			bottom = top + 1
		}
	}

	return geom.Rect{X: left, Y: top, Width: right - left, Height: bottom - top}, nil
}

// mapBounds rescales points so that the old bounds map exactly onto the new.
func mapBounds(points []geom.Point, from, to geom.Rect) []geom.Point {
	sx := 1.0
	sy := 1.0
	if from.Width > 0 {
		sx = to.Width / from.Width
	}
	if from.Height > 0 {
		sy = to.Height / from.Height
	}

	out := make([]geom.Point, len(points))
	for i, p := range points {
		out[i] = geom.Point{
			X: to.X + (p.X-from.X)*sx,
			Y: to.Y + (p.Y-from.Y)*sy,
		}
	}
	return out
}
