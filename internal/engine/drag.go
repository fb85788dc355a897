package engine

import (
	"math"

	"github.com/wuminghaozhan/drawboard/backend-go/internal/geom"
	"github.com/wuminghaozhan/drawboard/backend-go/internal/shape"
)

// DragState is the drag handler's machine state.
type DragState int

const (
	DragIdle DragState = iota
	DragActive
)

// DragSession is the state spanning pointer-down to pointer-up for one
// manipulation gesture. The snapshot is immutable for the whole session;
// anchor resizes are computed from it so intermediate frames cannot drift.
// Move and rotate are incremental and track the previous applied point.
type DragSession struct {
	StartPoint  geom.Point
	StartBounds geom.Rect
	Snapshot    []shape.Shape
	LastPoint   geom.Point

	current    []shape.Shape // working state for incremental updates
	lastResult []shape.Shape
	engaged    bool // the minimum drag distance has been covered
}

// DragHandler owns at most one DragSession and dispatches pointer updates
// to shape-specific or generic transform logic.
type DragHandler struct {
	cfg         Config
	registry    *HandlerRegistry
	transformer *Transformer
	canvas      *geom.Rect
	session     *DragSession
}

func NewDragHandler(cfg Config, registry *HandlerRegistry, transformer *Transformer, canvas *geom.Rect) *DragHandler {
	return &DragHandler{
		cfg:         cfg,
		registry:    registry,
		transformer: transformer,
		canvas:      canvas,
	}
}

// State returns Idle or Active.
func (d *DragHandler) State() DragState {
	if d.session == nil {
		return DragIdle
	}
	return DragActive
}

// Session exposes the active session for inspection, or nil.
func (d *DragHandler) Session() *DragSession {
	return d.session
}

// Start opens a drag session over the given snapshot. Starting while another
// session is active is a caller error.
func (d *DragHandler) Start(p geom.Point, bounds geom.Rect, snapshot []shape.Shape) error {
	if d.session != nil {
		return ErrDragActive
	}
	if !p.IsFinite() {
		return opErr("StartDrag", "", ErrNonFinite)
	}

	d.session = &DragSession{
		StartPoint:  p,
		StartBounds: bounds,
		Snapshot:    shape.CloneAll(snapshot),
		LastPoint:   p,
		current:     shape.CloneAll(snapshot),
	}
	return nil
}

// UpdateAnchor applies an anchor resize at the current pointer position.
// A single-shape session delegates to the shape's handler; multiple shapes
// get the bounds-derived scale about the union center. Returns (nil, nil)
// when the update is a no-op (gated or sub-unit movement with no prior
// result).
func (d *DragHandler) UpdateAnchor(anchor AnchorType, p geom.Point) ([]shape.Shape, error) {
	sess, reuse, err := d.gate(p)
	if sess == nil || err != nil {
		return reuse, err
	}

	var result []shape.Shape
	if len(sess.Snapshot) == 1 {
		s := sess.Snapshot[0]
		handler := d.registry.For(s.Type)
		res, err := handler.HandleDrag(s, anchor, sess.StartPoint, p, sess.StartBounds)
		if err != nil {
			return nil, err
		}
		result = []shape.Shape{d.transformer.ClampInside(res, d.canvas)}
	} else {
		newBounds, err := resizeBounds(sess.StartBounds, anchor, p)
		if err != nil {
			return nil, opErr("UpdateAnchor", "", err)
		}

		sx := 1.0
		sy := 1.0
		if sess.StartBounds.Width > 0 {
			sx = newBounds.Width / sess.StartBounds.Width
		}
		if sess.StartBounds.Height > 0 {
			sy = newBounds.Height / sess.StartBounds.Height
		}

		center := sess.StartBounds.Center()
		result, _ = d.transformer.ScaleAll(sess.Snapshot, sx, sy, center.X, center.Y, d.canvas)
	}

	d.commitFrame(sess, p, result)
	return result, nil
}

// UpdateMove translates the session's shapes by the pointer delta since the
// previous applied frame. Using the incremental delta instead of the drag
// start avoids applying the same offset twice.
func (d *DragHandler) UpdateMove(p geom.Point) ([]shape.Shape, error) {
	sess, reuse, err := d.gate(p)
	if sess == nil || err != nil {
		return reuse, err
	}

	delta := p.Sub(sess.LastPoint)
	result, _ := d.transformer.MoveAll(sess.current, delta.X, delta.Y, d.canvas)

	d.commitFrame(sess, p, result)
	return result, nil
}

// UpdateRotate rotates the session's shapes about the drag-start bounds
// center by the angle swept since the previous applied frame, accumulating
// onto each shape's stored rotation.
func (d *DragHandler) UpdateRotate(p geom.Point) ([]shape.Shape, error) {
	sess, reuse, err := d.gate(p)
	if sess == nil || err != nil {
		return reuse, err
	}

	center := sess.StartBounds.Center()
	prev := math.Atan2(sess.LastPoint.Y-center.Y, sess.LastPoint.X-center.X)
	curr := math.Atan2(p.Y-center.Y, p.X-center.X)
	delta := curr - prev

	result, _ := d.transformer.RotateAll(sess.current, delta, center.X, center.Y, d.canvas)

	d.commitFrame(sess, p, result)
	return result, nil
}

// End closes the session and returns the last computed result, or nil when
// nothing was ever applied.
func (d *DragHandler) End() []shape.Shape {
	if d.session == nil {
		return nil
	}
	result := d.session.lastResult
	d.session = nil
	return result
}

// Cancel discards all in-progress mutations and returns the drag-start
// snapshot for the caller to re-apply.
func (d *DragHandler) Cancel() []shape.Shape {
	if d.session == nil {
		return nil
	}
	snapshot := d.session.Snapshot
	d.session = nil
	return snapshot
}

// gate enforces the session preconditions shared by all update variants:
// no session means ErrNoDrag; movement below the engagement threshold is a
// no-op; near-identical pointer positions short-circuit to the last result.
// It returns (nil, reuse, err) when the caller should return early.
func (d *DragHandler) gate(p geom.Point) (*DragSession, []shape.Shape, error) {
	sess := d.session
	if sess == nil {
		return nil, nil, ErrNoDrag
	}
	if !p.IsFinite() {
		return nil, nil, opErr("UpdateDrag", "", ErrNonFinite)
	}

	if !sess.engaged {
		if p.Distance(sess.StartPoint) < d.cfg.MinDragDistance {
			return nil, nil, nil
		}
		sess.engaged = true
	}

	if sess.lastResult != nil && p.Distance(sess.LastPoint) < d.cfg.MoveEpsilon {
		return nil, sess.lastResult, nil
	}
	return sess, nil, nil
}

func (d *DragHandler) commitFrame(sess *DragSession, p geom.Point, result []shape.Shape) {
	sess.LastPoint = p
	sess.current = result
	sess.lastResult = result
}
