package engine

import (
	"math"

	"github.com/wuminghaozhan/drawboard/backend-go/internal/geom"
	"github.com/wuminghaozhan/drawboard/backend-go/internal/shape"
)

// Line height and character width factors for the text size heuristic.
// Real glyph metrics live in the renderer; the engine only needs a stable
// estimate for hit testing and anchor layout.
const (
	lineHeightFactor  = 1.2
	narrowCharFactor  = 0.6
	wideCharThreshold = 0x2E80 // CJK and other wide scripts start here
	batchEstimateLen  = 100    // past this, skip per-character wrap simulation
)

// BoundsCalculator computes axis-aligned bounds per shape type.
// Degenerate geometry is substituted with minimum-size rects so downstream
// hit testing never divides by zero.
type BoundsCalculator struct {
	cfg Config
}

func NewBoundsCalculator(cfg Config) *BoundsCalculator {
	return &BoundsCalculator{cfg: cfg}
}

// Bounds returns the bounding box of a single shape.
func (c *BoundsCalculator) Bounds(s shape.Shape) geom.Rect {
	switch s.Type {
	case shape.TypeCircle:
		return c.circleBounds(s)
	case shape.TypeRect, shape.TypePolygon, shape.TypePen:
		return c.vertexBounds(s)
	case shape.TypeLine:
		return c.lineBounds(s)
	case shape.TypeText:
		return c.textBounds(s)
	default:
		return c.fallbackBounds(s)
	}
}

// Union merges the bounds of all shapes into one enclosing rect, skipping
// degenerate entries. Returns nil for an empty input.
func (c *BoundsCalculator) Union(shapes []shape.Shape) *geom.Rect {
	var result geom.Rect
	found := false

	for _, s := range shapes {
		b := c.Bounds(s)
		if b.IsEmpty() {
			continue
		}
		if !found {
			result = b
			found = true
		} else {
			result = result.Union(b)
		}
	}

	if !found {
		return nil
	}
	return &result
}

// Radius returns the circle's radius clamped to the minimum visible size
// (half the anchor square, so the anchors never cover the whole shape).
func (c *BoundsCalculator) Radius(s shape.Shape) float64 {
	if len(s.Points) == 0 {
		return c.cfg.AnchorSize / 2
	}
	center := s.Points[0]
	edge := s.Points[len(s.Points)-1]
	return max(center.Distance(edge), c.cfg.AnchorSize/2)
}

func (c *BoundsCalculator) circleBounds(s shape.Shape) geom.Rect {
	if len(s.Points) == 0 {
		return c.fallbackBounds(s)
	}
	center := s.Points[0]
	r := c.Radius(s)
	return geom.Rect{X: center.X - r, Y: center.Y - r, Width: 2 * r, Height: 2 * r}
}

func (c *BoundsCalculator) vertexBounds(s shape.Shape) geom.Rect {
	if len(s.Points) == 0 {
		return c.fallbackBounds(s)
	}
	b := geom.RectFromPoints(s.Points)
	if b.Width <= 0 && b.Height <= 0 {
		return c.fallbackBounds(s)
	}
	return b
}

func (c *BoundsCalculator) lineBounds(s shape.Shape) geom.Rect {
	if len(s.Points) == 0 {
		return c.fallbackBounds(s)
	}
	b := geom.RectFromPoints(s.Points)
	// A horizontal or vertical segment still needs hit-testable area.
	b.Width = max(b.Width, 1)
	b.Height = max(b.Height, 1)
	return b
}

func (c *BoundsCalculator) textBounds(s shape.Shape) geom.Rect {
	if len(s.Points) == 0 {
		return c.fallbackBounds(s)
	}

	anchor := s.Points[0]
	fontSize := s.FontSize
	if fontSize <= 0 {
		fontSize = 16
	}
	lineHeight := fontSize * lineHeightFactor

	switch {
	case s.Width != nil && s.Height != nil:
		return geom.Rect{X: anchor.X, Y: anchor.Y, Width: max(*s.Width, 1), Height: max(*s.Height, 1)}

	case s.Width != nil:
		w := max(*s.Width, 1)
		lines := c.estimateLines(s.Text, fontSize, w)
		return geom.Rect{X: anchor.X, Y: anchor.Y, Width: w, Height: float64(lines) * lineHeight}

	default:
		w := max(c.estimateWidth(s.Text, fontSize), 1)
		return geom.Rect{X: anchor.X, Y: anchor.Y, Width: w, Height: lineHeight}
	}
}

func (c *BoundsCalculator) fallbackBounds(s shape.Shape) geom.Rect {
	size := c.cfg.DefaultShapeSize
	if len(s.Points) == 0 {
		return geom.Rect{Width: size, Height: size}
	}
	b := geom.RectFromPoints(s.Points)
	if b.Width <= 0 && b.Height <= 0 {
		// Collapsed to a single point: substitute a minimum rect around it.
		p := s.Points[0]
		return geom.Rect{X: p.X - size/2, Y: p.Y - size/2, Width: size, Height: size}
	}
	b.Width = max(b.Width, 1)
	b.Height = max(b.Height, 1)
	return b
}

// estimateWidth sums per-character advance widths for a single line.
func (c *BoundsCalculator) estimateWidth(text string, fontSize float64) float64 {
	var w float64
	for _, r := range text {
		w += charWidth(r, fontSize)
	}
	return w
}

// estimateLines simulates line wrapping against a width budget and returns
// the resulting line count. Long paragraphs switch to a batch estimate
// (total advance / budget) to bound the cost of rapid re-layout.
func (c *BoundsCalculator) estimateLines(text string, fontSize, maxWidth float64) int {
	if text == "" {
		return 1
	}
	if maxWidth <= 0 {
		return 1
	}

	runes := []rune(text)
	if len(runes) > batchEstimateLen {
		total := c.estimateWidth(text, fontSize)
		return max(int(math.Ceil(total/maxWidth)), 1)
	}

	lines := 1
	var lineW float64
	for _, r := range runes {
		if r == '\n' {
			lines++
			lineW = 0
			continue
		}
		w := charWidth(r, fontSize)
		if lineW+w > maxWidth && lineW > 0 {
			lines++
			lineW = w
		} else {
			lineW += w
		}
	}
	return lines
}

// charWidth approximates a character's advance: wide-script characters take
// a full em, everything else roughly 0.6em. Exact glyph metrics are a
// renderer concern.
func charWidth(r rune, fontSize float64) float64 {
	if r >= wideCharThreshold {
		return fontSize
	}
	return fontSize * narrowCharFactor
}
