package board

import (
	"encoding/json"

	"github.com/wuminghaozhan/drawboard/backend-go/internal/engine"
	"github.com/wuminghaozhan/drawboard/backend-go/internal/geom"
	"github.com/wuminghaozhan/drawboard/backend-go/internal/shape"
)

// Message is the envelope for everything on a board websocket.
type Message struct {
	Type     string          `json:"type"`
	BoardID  string          `json:"boardId,omitempty"`
	ClientID string          `json:"clientId,omitempty"`
	Seq      int64           `json:"seq,omitempty"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

const (
	// Connection
	TypeWelcome = "welcome"
	TypeError   = "error"

	// Pointer stream (frontend → backend)
	TypePointer = "pointer"

	// Shape mutations (frontend → backend, echoed to the room)
	TypeShapeAdd    = "shape.add"
	TypeShapeUpdate = "shape.update"
	TypeShapeRemove = "shape.remove"

	// Engine output (backend → frontend)
	TypeFrame = "frame"
)

// Pointer phases.
const (
	PhaseDown   = "down"
	PhaseMove   = "move"
	PhaseUp     = "up"
	PhaseCancel = "cancel"
)

// PointerPayload is one normalized pointer event, already in board
// coordinate space.
type PointerPayload struct {
	Phase string  `json:"phase"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// WelcomePayload is sent once after a client connects.
type WelcomePayload struct {
	BoardID  string        `json:"boardId"`
	ClientID string        `json:"clientId"`
	Canvas   geom.Rect     `json:"canvas"`
	Shapes   []shape.Shape `json:"shapes"`
}

// FramePayload carries the engine's output for the renderer.
type FramePayload struct {
	Frame engine.Frame `json:"frame"`
}

// ShapePayload carries a full shape for add/update messages.
type ShapePayload struct {
	Shape shape.Shape `json:"shape"`
}

// ShapeRemovePayload identifies a shape to delete.
type ShapeRemovePayload struct {
	ID string `json:"id"`
}

// ErrorPayload reports a rejected message.
type ErrorPayload struct {
	Message string `json:"message"`
}
