package engine

import (
	"github.com/wuminghaozhan/drawboard/backend-go/internal/geom"
	"github.com/wuminghaozhan/drawboard/backend-go/internal/shape"
)

// textHandler resizes text boxes. Horizontal edge drags set an explicit
// width and are always recomputed against the drag-start box so repeated
// updates cannot drift; corner drags scale the font size uniformly. Any
// width change clears the cached height so the bounds calculator re-runs
// line wrapping.
type textHandler struct {
	cfg     Config
	bounds  *BoundsCalculator
	generic *genericHandler
}

func (h *textHandler) GenerateAnchors(s shape.Shape, bounds geom.Rect) []AnchorPoint {
	midY := bounds.Y + bounds.Height/2
	anchors := cornerAnchors(bounds, s.ID, h.cfg)
	anchors = append(anchors,
		anchorAt(geom.Pt(bounds.X, midY), AnchorLeft, s.ID, bounds, h.cfg),
		anchorAt(geom.Pt(bounds.X+bounds.Width, midY), AnchorRight, s.ID, bounds, h.cfg),
		anchorAt(bounds.Center(), AnchorCenter, s.ID, bounds, h.cfg),
	)
	return anchors
}

func (h *textHandler) HandleDrag(s shape.Shape, anchor AnchorType, start, current geom.Point, startBounds geom.Rect) (shape.Shape, error) {
	if !current.IsFinite() {
		return s, opErr("HandleDrag", s.ID, ErrNonFinite)
	}
	if len(s.Points) == 0 {
		return s, opErr("HandleDrag", s.ID, ErrEmptyShape)
	}

	switch anchor {
	case AnchorRight:
		// Left edge stays fixed; the width follows the pointer.
		width := max(current.X-startBounds.X, h.cfg.MinTextWidth)
		out := s.Clone()
		out.Points[0] = geom.Point{X: startBounds.X, Y: startBounds.Y}
		out.Width = shape.Float64(width)
		out.Height = nil
		return out, nil

	case AnchorLeft:
		// Right edge stays fixed; the anchor point moves with the pointer.
		right := startBounds.X + startBounds.Width
		width := max(right-current.X, h.cfg.MinTextWidth)
		out := s.Clone()
		out.Points[0] = geom.Point{X: right - width, Y: startBounds.Y}
		out.Width = shape.Float64(width)
		out.Height = nil
		return out, nil

	case AnchorTopLeft, AnchorTopRight, AnchorBottomRight, AnchorBottomLeft:
		return h.scaleByCorner(s, anchor, current, startBounds)

	default:
		return s, opErr("HandleDrag", s.ID, ErrUnknownAnchor)
	}
}

// scaleByCorner derives a uniform factor from the bounds change and applies
// it to the font size, clamped to the configured range.
func (h *textHandler) scaleByCorner(s shape.Shape, anchor AnchorType, current geom.Point, startBounds geom.Rect) (shape.Shape, error) {
	newBounds, err := resizeBounds(startBounds, anchor, current)
	if err != nil {
		return s, opErr("HandleDrag", s.ID, err)
	}

	sx := 1.0
	sy := 1.0
	if startBounds.Width > 0 {
		sx = newBounds.Width / startBounds.Width
	}
	if startBounds.Height > 0 {
		sy = newBounds.Height / startBounds.Height
	}
	factor := min(sx, sy)

	fontSize := s.FontSize
	if fontSize <= 0 {
		fontSize = 16
	}
	fontSize = max(min(fontSize*factor, h.cfg.MaxFontSize), h.cfg.MinFontSize)

	out := s.Clone()
	out.Points[0] = geom.Point{X: newBounds.X, Y: newBounds.Y}
	out.FontSize = fontSize
	if out.Width != nil {
		out.Width = shape.Float64(max(*out.Width*factor, h.cfg.MinTextWidth))
	}
	out.Height = nil
	return out, nil
}

func (h *textHandler) HandleMove(s shape.Shape, dx, dy float64) shape.Shape {
	return h.generic.HandleMove(s, dx, dy)
}

func (h *textHandler) Center(s shape.Shape, bounds geom.Rect) geom.Point {
	return bounds.Center()
}
