package engine

import (
	"github.com/wuminghaozhan/drawboard/backend-go/internal/geom"
	"github.com/wuminghaozhan/drawboard/backend-go/internal/shape"
)

// AnchorType identifies the role of a manipulation handle.
type AnchorType string

const (
	AnchorCenter      AnchorType = "center"
	AnchorTopLeft     AnchorType = "top-left"
	AnchorTop         AnchorType = "top"
	AnchorTopRight    AnchorType = "top-right"
	AnchorRight       AnchorType = "right"
	AnchorBottomRight AnchorType = "bottom-right"
	AnchorBottom      AnchorType = "bottom"
	AnchorBottomLeft  AnchorType = "bottom-left"
	AnchorLeft        AnchorType = "left"
	AnchorRotate      AnchorType = "rotate"
)

// AnchorPoint is one draggable handle. Position is the top-left of the drawn
// anchor square; the hit-test center sits half an anchor size inward.
type AnchorPoint struct {
	Position geom.Point `json:"position"`
	Type     AnchorType `json:"type"`
	Cursor   string     `json:"cursor"`
	IsCenter bool       `json:"isCenter,omitempty"`
	ShapeID  string     `json:"shapeId,omitempty"`
	Bounds   *geom.Rect `json:"bounds,omitempty"` // originating bounds, kept for drag reference
}

// AnchorSet is everything a renderer needs to draw handles for the current
// selection, plus the move region hit-tested for drag-to-move.
type AnchorSet struct {
	Anchors    []AnchorPoint `json:"anchors"`
	MoveRegion geom.Rect     `json:"moveRegion"`
	Bounds     geom.Rect     `json:"bounds"`
}

// cursorFor maps an anchor to the CSS cursor the frontend should show.
func cursorFor(t AnchorType) string {
	switch t {
	case AnchorTopLeft, AnchorBottomRight:
		return "nwse-resize"
	case AnchorTopRight, AnchorBottomLeft:
		return "nesw-resize"
	case AnchorTop, AnchorBottom:
		return "ns-resize"
	case AnchorLeft, AnchorRight:
		return "ew-resize"
	case AnchorRotate:
		return "grab"
	case AnchorCenter:
		return "move"
	default:
		return "default"
	}
}

// anchorAt builds an anchor whose square is centered on the geometric point g.
func anchorAt(g geom.Point, t AnchorType, shapeID string, bounds geom.Rect, cfg Config) AnchorPoint {
	half := cfg.AnchorSize / 2
	b := bounds
	return AnchorPoint{
		Position: geom.Point{X: g.X - half, Y: g.Y - half},
		Type:     t,
		Cursor:   cursorFor(t),
		IsCenter: t == AnchorCenter,
		ShapeID:  shapeID,
		Bounds:   &b,
	}
}

// edgeAnchors returns the four edge-midpoint anchors of a bounds rect.
func edgeAnchors(bounds geom.Rect, shapeID string, cfg Config) []AnchorPoint {
	midX := bounds.X + bounds.Width/2
	midY := bounds.Y + bounds.Height/2
	return []AnchorPoint{
		anchorAt(geom.Pt(midX, bounds.Y), AnchorTop, shapeID, bounds, cfg),
		anchorAt(geom.Pt(midX, bounds.Y+bounds.Height), AnchorBottom, shapeID, bounds, cfg),
		anchorAt(geom.Pt(bounds.X, midY), AnchorLeft, shapeID, bounds, cfg),
		anchorAt(geom.Pt(bounds.X+bounds.Width, midY), AnchorRight, shapeID, bounds, cfg),
	}
}

// cornerAnchors returns the four corner anchors of a bounds rect.
func cornerAnchors(bounds geom.Rect, shapeID string, cfg Config) []AnchorPoint {
	right := bounds.X + bounds.Width
	bottom := bounds.Y + bounds.Height
	return []AnchorPoint{
		anchorAt(geom.Pt(bounds.X, bounds.Y), AnchorTopLeft, shapeID, bounds, cfg),
		anchorAt(geom.Pt(right, bounds.Y), AnchorTopRight, shapeID, bounds, cfg),
		anchorAt(geom.Pt(right, bottom), AnchorBottomRight, shapeID, bounds, cfg),
		anchorAt(geom.Pt(bounds.X, bottom), AnchorBottomLeft, shapeID, bounds, cfg),
	}
}

// rotateAnchor sits above the top edge midpoint.
func rotateAnchor(bounds geom.Rect, shapeID string, cfg Config) AnchorPoint {
	g := geom.Pt(bounds.X+bounds.Width/2, bounds.Y-cfg.RotateOffset)
	return anchorAt(g, AnchorRotate, shapeID, bounds, cfg)
}

// AnchorGenerator lays out handles for the current selection and hit-tests
// them against pointer positions.
type AnchorGenerator struct {
	cfg      Config
	registry *HandlerRegistry
	bounds   *BoundsCalculator
}

func NewAnchorGenerator(cfg Config, registry *HandlerRegistry, bounds *BoundsCalculator) *AnchorGenerator {
	return &AnchorGenerator{cfg: cfg, registry: registry, bounds: bounds}
}

// ForSelection builds the anchor set for the selected shapes. A single shape
// dispatches to its type handler; multiple shapes always use the generic
// layout over the union bounds.
func (g *AnchorGenerator) ForSelection(selected []shape.Shape) *AnchorSet {
	if len(selected) == 0 {
		return nil
	}

	if len(selected) == 1 {
		s := selected[0]
		b := g.bounds.Bounds(s)
		return &AnchorSet{
			Anchors:    g.registry.For(s.Type).GenerateAnchors(s, b),
			MoveRegion: b,
			Bounds:     b,
		}
	}

	union := g.bounds.Union(selected)
	if union == nil {
		return nil
	}
	anchors := append(cornerAnchors(*union, "", g.cfg), edgeAnchors(*union, "", g.cfg)...)
	anchors = append(anchors, rotateAnchor(*union, "", g.cfg))
	anchors = append(anchors, anchorAt(union.Center(), AnchorCenter, "", *union, g.cfg))
	return &AnchorSet{Anchors: anchors, MoveRegion: *union, Bounds: *union}
}

// HitTest finds the anchor under the point. The center anchor has priority;
// the rest are tested in array order, first match wins. An anchor is hit when
// the Euclidean distance to its square's center is within tolerance plus half
// the anchor size.
func (g *AnchorGenerator) HitTest(set *AnchorSet, p geom.Point) (AnchorPoint, bool) {
	if set == nil {
		return AnchorPoint{}, false
	}

	reach := g.cfg.AnchorTolerance + g.cfg.AnchorSize/2
	half := g.cfg.AnchorSize / 2

	for _, a := range set.Anchors {
		if a.IsCenter && a.Position.Add(half, half).Distance(p) <= reach {
			return a, true
		}
	}
	for _, a := range set.Anchors {
		if a.IsCenter {
			continue
		}
		if a.Position.Add(half, half).Distance(p) <= reach {
			return a, true
		}
	}
	return AnchorPoint{}, false
}

// HitMoveRegion reports whether the point falls inside the move area.
func (g *AnchorGenerator) HitMoveRegion(set *AnchorSet, p geom.Point) bool {
	return set != nil && set.MoveRegion.Contains(p)
}
