package shape

import (
	"github.com/wuminghaozhan/drawboard/backend-go/internal/geom"
)

// Type tags the geometric interpretation of a shape's point list.
type Type string

const (
	TypeCircle  Type = "circle"  // points = [center, edge]
	TypeRect    Type = "rect"    // points = 4 corner vertices (supports rotation)
	TypeLine    Type = "line"    // points = [start, end]
	TypePolygon Type = "polygon" // points = closed vertex ring
	TypePen     Type = "pen"     // points = freehand path samples
	TypeText    Type = "text"    // points = [anchor] + optional explicit size
)

// Style holds the paint attributes of a shape. The engine never interprets
// these; they ride along so proposed replacements stay complete.
type Style struct {
	Stroke      string  `json:"stroke,omitempty"`
	Fill        string  `json:"fill,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`
	Opacity     float64 `json:"opacity,omitempty"`
}

// Shape is a drawable element on the board. Shapes are owned by the Store;
// the engine reads them and proposes replacements, it never mutates in place.
type Shape struct {
	ID       string       `json:"id"`
	Type     Type         `json:"type"`
	Points   []geom.Point `json:"points"`
	Style    Style        `json:"style"`
	Rotation float64      `json:"rotation,omitempty"` // cumulative, radians

	// Text-only fields. Width/Height are nil until the user has sized the
	// text box explicitly; the bounds calculator estimates otherwise.
	Text     string   `json:"text,omitempty"`
	FontSize float64  `json:"fontSize,omitempty"`
	Width    *float64 `json:"width,omitempty"`
	Height   *float64 `json:"height,omitempty"`
}

// Clone returns a deep copy of the shape.
func (s Shape) Clone() Shape {
	out := s
	out.Points = make([]geom.Point, len(s.Points))
	copy(out.Points, s.Points)
	if s.Width != nil {
		w := *s.Width
		out.Width = &w
	}
	if s.Height != nil {
		h := *s.Height
		out.Height = &h
	}
	return out
}

// CloneAll deep-copies a slice of shapes.
func CloneAll(shapes []Shape) []Shape {
	out := make([]Shape, len(shapes))
	for i, s := range shapes {
		out[i] = s.Clone()
	}
	return out
}

// Float64 returns a pointer to v, for the optional Width/Height fields.
func Float64(v float64) *float64 {
	return &v
}
