package engine

import (
	"errors"
	"log/slog"

	"github.com/wuminghaozhan/drawboard/backend-go/internal/geom"
	"github.com/wuminghaozhan/drawboard/backend-go/internal/shape"
)

type dragMode int

const (
	modeNone dragMode = iota
	modeAnchor
	modeMove
	modeRotate
	modeBox
)

// Frame is what the engine hands the renderer after each pointer event:
// the selection, its handles, and any proposed shape replacements from an
// in-progress or completed drag.
type Frame struct {
	Selection  []string      `json:"selection"`
	Anchors    []AnchorPoint `json:"anchors,omitempty"`
	MoveRegion *geom.Rect    `json:"moveRegion,omitempty"`
	Proposed   []shape.Shape `json:"proposed,omitempty"`
	Committed  bool          `json:"committed,omitempty"`
	Box        *geom.Rect    `json:"box,omitempty"`
}

// Engine owns the spatial index, both caches, and the drag session for one
// board. It is single-threaded by design: the caller serializes all pointer
// events and store mutations onto one goroutine.
type Engine struct {
	cfg    Config
	store  *shape.Store
	canvas geom.Rect

	bounds      *BoundsCalculator
	registry    *HandlerRegistry
	transformer *Transformer
	selector    *Selector
	generator   *AnchorGenerator
	drag        *DragHandler

	index      *SpatialIndex
	indexRev   uint64
	indexDirty bool

	anchorCache *AnchorCache
	boundsCache *BoundsCache

	selection    []string
	mode         dragMode
	activeAnchor AnchorType
	boxStart     geom.Point
}

// New creates an engine over the given store and canvas dimensions.
// A degenerate canvas disables the spatial index; selection transparently
// falls back to linear scanning.
func New(cfg Config, store *shape.Store, canvasWidth, canvasHeight float64) *Engine {
	canvas := geom.Rect{Width: canvasWidth, Height: canvasHeight}

	bounds := NewBoundsCalculator(cfg)
	registry := NewHandlerRegistry(cfg)
	transformer := NewTransformer(cfg)

	e := &Engine{
		cfg:         cfg,
		store:       store,
		canvas:      canvas,
		bounds:      bounds,
		registry:    registry,
		transformer: transformer,
		selector:    NewSelector(cfg, bounds),
		generator:   NewAnchorGenerator(cfg, registry, bounds),
		anchorCache: NewAnchorCache(cfg.AnchorCacheTTL, cfg.AnchorRefreshInterval),
		boundsCache: NewBoundsCache(cfg.BoundsCacheSize),
		indexDirty:  true,
	}
	e.drag = NewDragHandler(cfg, registry, transformer, &e.canvas)

	index, err := NewSpatialIndex(canvas, cfg.TreeCapacity, cfg.TreeMaxDepth)
	if err != nil {
		slog.Warn("spatial index unavailable, using linear scan", "error", err,
			"width", canvasWidth, "height", canvasHeight)
	} else {
		e.index = index
	}

	return e
}

// Canvas returns the engine's canvas bounds.
func (e *Engine) Canvas() geom.Rect {
	return e.canvas
}

// Selection returns the currently selected shape ids.
func (e *Engine) Selection() []string {
	return e.selection
}

// SetSelection replaces the selection, e.g. for a select-all action.
func (e *Engine) SetSelection(ids []string) {
	e.selection = ids
	e.anchorCache.Invalidate()
}

// PointerDown routes a press to an anchor drag, a move drag, a fresh
// selection, or the start of a box selection, in that priority order.
func (e *Engine) PointerDown(p geom.Point) Frame {
	e.syncIndex()

	if e.drag.State() == DragActive {
		slog.Warn("pointer down during active drag, ignoring")
		return e.currentFrame()
	}

	if set := e.anchorSet(); set != nil {
		if a, ok := e.generator.HitTest(set, p); ok {
			switch {
			case a.Type == AnchorRotate:
				e.mode = modeRotate
			case a.IsCenter:
				e.mode = modeMove
			default:
				e.mode = modeAnchor
				e.activeAnchor = a.Type
			}
			e.startDrag(p, set.Bounds)
			return e.currentFrame()
		}

		if e.generator.HitMoveRegion(set, p) {
			e.mode = modeMove
			e.startDrag(p, set.Bounds)
			return e.currentFrame()
		}
	}

	shapes := e.store.List()
	if s, ok := e.selector.SelectAtPoint(shapes, e.index, p, e.cfg.AnchorTolerance); ok {
		e.selection = []string{s.ID}
		e.anchorCache.Invalidate()
		e.mode = modeMove
		e.startDrag(p, e.bounds.Bounds(s))
		return e.currentFrame()
	}

	e.selection = nil
	e.anchorCache.Clear()
	e.mode = modeBox
	e.boxStart = p
	return e.currentFrame()
}

// PointerMove advances the active gesture and returns the proposed shapes.
func (e *Engine) PointerMove(p geom.Point) Frame {
	switch e.mode {
	case modeAnchor:
		return e.updateDrag(func() ([]shape.Shape, error) {
			return e.drag.UpdateAnchor(e.activeAnchor, p)
		})
	case modeMove:
		return e.updateDrag(func() ([]shape.Shape, error) {
			return e.drag.UpdateMove(p)
		})
	case modeRotate:
		return e.updateDrag(func() ([]shape.Shape, error) {
			return e.drag.UpdateRotate(p)
		})
	case modeBox:
		box := rectBetween(e.boxStart, p)
		frame := e.currentFrame()
		frame.Box = &box
		return frame
	default:
		return e.currentFrame()
	}
}

// PointerUp completes the gesture: box selections resolve against the index,
// drags commit their last result to the shape store.
func (e *Engine) PointerUp(p geom.Point) Frame {
	defer func() { e.mode = modeNone }()

	if e.mode == modeBox {
		box := rectBetween(e.boxStart, p)
		if box.Width >= 1 || box.Height >= 1 {
			e.syncIndex()
			hits := e.selector.SelectInBox(e.store.List(), e.index, box, IntersectsBox)
			ids := make([]string, len(hits))
			for i, s := range hits {
				ids[i] = s.ID
			}
			e.selection = ids
			e.anchorCache.Invalidate()
		}
		return e.currentFrame()
	}

	result := e.drag.End()
	if result == nil {
		return e.currentFrame()
	}

	for _, s := range result {
		if err := e.store.Update(s); err != nil {
			slog.Warn("commit drag result", "shape", s.ID, "error", err)
			continue
		}
		e.boundsCache.Invalidate(s.ID)
	}
	e.anchorCache.Invalidate()

	frame := e.currentFrame()
	frame.Proposed = result
	frame.Committed = true
	return frame
}

// PointerCancel discards the gesture. A cancelled drag restores the
// drag-start snapshot; nothing was written to the store mid-drag, so the
// snapshot is returned for the renderer to redraw.
func (e *Engine) PointerCancel() Frame {
	e.mode = modeNone
	snapshot := e.drag.Cancel()
	frame := e.currentFrame()
	frame.Proposed = snapshot
	return frame
}

// ShapeAdded and ShapeRemoved signal structural shape-set changes made
// outside a drag; both caches are cleared and the index rebuilt lazily.
func (e *Engine) ShapeAdded(string) {
	e.invalidateAll()
}

func (e *Engine) ShapeRemoved(id string) {
	e.selection = removeID(e.selection, id)
	e.invalidateAll()
}

// ShapeUpdated invalidates selectively for a single-shape mutation.
func (e *Engine) ShapeUpdated(id string) {
	e.boundsCache.Invalidate(id)
	e.anchorCache.Invalidate()
	e.indexDirty = true
}

func (e *Engine) invalidateAll() {
	e.anchorCache.Clear()
	e.boundsCache.Clear()
	e.indexDirty = true
}

// AnchorSetForSelection exposes the current handle layout, served from the
// anchor cache when permitted.
func (e *Engine) AnchorSetForSelection() *AnchorSet {
	return e.anchorSet()
}

func (e *Engine) startDrag(p geom.Point, bounds geom.Rect) {
	if err := e.drag.Start(p, bounds, e.selectedShapes()); err != nil {
		slog.Warn("start drag", "error", err)
		e.mode = modeNone
	}
}

func (e *Engine) updateDrag(update func() ([]shape.Shape, error)) Frame {
	proposed, err := update()
	if err != nil {
		if !errors.Is(err, ErrNoDrag) {
			slog.Warn("update drag", "error", err)
		}
		return e.currentFrame()
	}
	if proposed == nil {
		// Gated: not enough movement yet.
		return e.currentFrame()
	}

	// Anchors track the in-progress geometry, bypassing the cache.
	frame := Frame{Selection: e.selection, Proposed: proposed}
	if set := e.generator.ForSelection(proposed); set != nil {
		frame.Anchors = set.Anchors
		frame.MoveRegion = &set.MoveRegion
	}
	return frame
}

func (e *Engine) currentFrame() Frame {
	frame := Frame{Selection: e.selection}
	if set := e.anchorSet(); set != nil {
		frame.Anchors = set.Anchors
		frame.MoveRegion = &set.MoveRegion
	}
	return frame
}

// anchorSet returns the selection's handles, consulting the anchor cache.
func (e *Engine) anchorSet() *AnchorSet {
	selected := e.selectedShapes()
	if len(selected) == 0 {
		return nil
	}

	key := Fingerprint(selected)
	dragging := e.drag.State() == DragActive
	if set, ok := e.anchorCache.Get(key, dragging); ok {
		return set
	}

	set := e.generator.ForSelection(selected)
	if set != nil && !dragging {
		e.anchorCache.Put(key, set)
	}
	return set
}

func (e *Engine) selectedShapes() []shape.Shape {
	out := make([]shape.Shape, 0, len(e.selection))
	for _, id := range e.selection {
		if s, ok := e.store.Get(id); ok {
			out = append(out, s)
		}
	}
	return out
}

// boundsOf computes a shape's bounds through the bounds cache.
func (e *Engine) boundsOf(s shape.Shape) geom.Rect {
	key := fingerprintOne(s)
	if b, ok := e.boundsCache.Get(key); ok {
		return b
	}
	b := e.bounds.Bounds(s)
	e.boundsCache.Put(key, b)
	return b
}

// syncIndex rebuilds the quadtree if the store has changed since the last
// build. All mutation happens before the queries that depend on it.
func (e *Engine) syncIndex() {
	if e.index == nil {
		return
	}
	rev := e.store.Rev()
	if !e.indexDirty && rev == e.indexRev {
		return
	}
	e.index.Build(e.store.List(), e.boundsOf)
	e.indexRev = rev
	e.indexDirty = false
}

func rectBetween(a, b geom.Point) geom.Rect {
	return geom.Rect{
		X:      min(a.X, b.X),
		Y:      min(a.Y, b.Y),
		Width:  max(a.X, b.X) - min(a.X, b.X),
		Height: max(a.Y, b.Y) - min(a.Y, b.Y),
	}
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
