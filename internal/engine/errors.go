package engine

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced by engine operations. Callers are expected to
// recover from all of them by retrying or treating the call as a no-op.
var (
	ErrInvalidScale   = errors.New("invalid scale factor")
	ErrNonFinite      = errors.New("non-finite coordinate")
	ErrEmptyShape     = errors.New("shape has no points")
	ErrDragActive     = errors.New("drag session already active")
	ErrNoDrag         = errors.New("no active drag session")
	ErrIndexUnusable  = errors.New("spatial index unusable")
	ErrUnknownAnchor  = errors.New("unknown anchor type")
	ErrShapeConflict  = errors.New("shape id conflict")
	ErrCanvasTooSmall = errors.New("canvas area is zero")
)

// OpError carries the failing operation and shape for diagnostics.
type OpError struct {
	Op      string // e.g. "Scale", "Rotate", "HandleDrag"
	ShapeID string
	Cause   error
}

func (e *OpError) Error() string {
	if e.ShapeID != "" {
		return fmt.Sprintf("%s shape %s: %v", e.Op, e.ShapeID, e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

func (e *OpError) Unwrap() error {
	return e.Cause
}

func opErr(op, shapeID string, cause error) error {
	return &OpError{Op: op, ShapeID: shapeID, Cause: cause}
}

// BatchError records a per-shape failure inside a batched transform.
// A batch never aborts; failed shapes keep their input geometry.
type BatchError struct {
	Index   int
	ShapeID string
	Err     error
}

func (e BatchError) Error() string {
	return fmt.Sprintf("shape %s (index %d): %v", e.ShapeID, e.Index, e.Err)
}
