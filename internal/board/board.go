package board

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/wuminghaozhan/drawboard/backend-go/internal/engine"
	"github.com/wuminghaozhan/drawboard/backend-go/internal/geom"
	"github.com/wuminghaozhan/drawboard/backend-go/internal/shape"
	"github.com/wuminghaozhan/drawboard/backend-go/internal/typeid"
)

// inbound pairs a parsed message with its sender.
type inbound struct {
	client *Client
	msg    *Message
}

// Board owns one shape store and one engine. A single goroutine consumes
// the inbox, so the engine stays single-threaded as designed.
type Board struct {
	ID     string
	Store  *shape.Store
	Engine *engine.Engine

	clients    map[string]*Client
	inbox      chan inbound
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	serverSeq int64
}

func newBoard(id string, cfg engine.Config, canvasWidth, canvasHeight float64) *Board {
	store := shape.NewStore()
	return &Board{
		ID:         id,
		Store:      store,
		Engine:     engine.New(cfg, store, canvasWidth, canvasHeight),
		clients:    make(map[string]*Client),
		inbox:      make(chan inbound, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

func (b *Board) run() {
	for {
		select {
		case client := <-b.register:
			b.addClient(client)
		case client := <-b.unregister:
			b.removeClient(client)
		case in := <-b.inbox:
			b.handleMessage(in.client, in.msg)
		case <-b.done:
			for _, c := range b.clients {
				close(c.send)
			}
			return
		}
	}
}

func (b *Board) addClient(client *Client) {
	b.clients[client.ClientID] = client

	payload, _ := json.Marshal(WelcomePayload{
		BoardID:  b.ID,
		ClientID: client.ClientID,
		Canvas:   b.Engine.Canvas(),
		Shapes:   b.Store.List(),
	})
	client.Send(&Message{Type: TypeWelcome, BoardID: b.ID, Payload: payload})

	slog.Info("client joined", "client", client.ClientID, "board", b.ID)
}

func (b *Board) removeClient(client *Client) {
	if _, ok := b.clients[client.ClientID]; !ok {
		return
	}
	delete(b.clients, client.ClientID)
	close(client.send)
	slog.Info("client left", "client", client.ClientID, "board", b.ID)
}

func (b *Board) handleMessage(sender *Client, msg *Message) {
	switch msg.Type {
	case TypePointer:
		b.handlePointer(sender, msg)
	case TypeShapeAdd:
		b.handleShapeAdd(sender, msg)
	case TypeShapeUpdate:
		b.handleShapeUpdate(sender, msg)
	case TypeShapeRemove:
		b.handleShapeRemove(sender, msg)
	default:
		slog.Warn("unknown message type", "type", msg.Type, "client", sender.ClientID)
		b.sendError(sender, "unknown message type: "+msg.Type)
	}
}

func (b *Board) handlePointer(sender *Client, msg *Message) {
	var p PointerPayload
	if err := json.Unmarshal(msg.Payload, &p); err != nil {
		b.sendError(sender, "invalid pointer payload")
		return
	}

	pt := geom.Pt(p.X, p.Y)
	var frame engine.Frame
	switch p.Phase {
	case PhaseDown:
		frame = b.Engine.PointerDown(pt)
	case PhaseMove:
		frame = b.Engine.PointerMove(pt)
	case PhaseUp:
		frame = b.Engine.PointerUp(pt)
	case PhaseCancel:
		frame = b.Engine.PointerCancel()
	default:
		b.sendError(sender, "unknown pointer phase: "+p.Phase)
		return
	}

	payload, _ := json.Marshal(FramePayload{Frame: frame})
	sender.Send(&Message{Type: TypeFrame, BoardID: b.ID, Payload: payload})

	// A committed drag changed the store; let everyone else redraw.
	if frame.Committed {
		for _, s := range frame.Proposed {
			b.broadcastShape(TypeShapeUpdate, s, sender.ClientID)
		}
	}
}

func (b *Board) handleShapeAdd(sender *Client, msg *Message) {
	var p ShapePayload
	if err := json.Unmarshal(msg.Payload, &p); err != nil {
		b.sendError(sender, "invalid shape payload")
		return
	}

	if p.Shape.ID == "" {
		p.Shape.ID = typeid.NewShapeID()
	}
	if err := b.Store.Add(p.Shape); err != nil {
		b.sendError(sender, err.Error())
		return
	}
	b.Engine.ShapeAdded(p.Shape.ID)
	b.broadcastShape(TypeShapeAdd, p.Shape, "")
}

func (b *Board) handleShapeUpdate(sender *Client, msg *Message) {
	var p ShapePayload
	if err := json.Unmarshal(msg.Payload, &p); err != nil {
		b.sendError(sender, "invalid shape payload")
		return
	}

	if err := b.Store.Update(p.Shape); err != nil {
		b.sendError(sender, err.Error())
		return
	}
	b.Engine.ShapeUpdated(p.Shape.ID)
	b.broadcastShape(TypeShapeUpdate, p.Shape, sender.ClientID)
}

func (b *Board) handleShapeRemove(sender *Client, msg *Message) {
	var p ShapeRemovePayload
	if err := json.Unmarshal(msg.Payload, &p); err != nil {
		b.sendError(sender, "invalid remove payload")
		return
	}

	if err := b.Store.Remove(p.ID); err != nil {
		b.sendError(sender, err.Error())
		return
	}
	b.Engine.ShapeRemoved(p.ID)

	payload, _ := json.Marshal(ShapeRemovePayload{ID: p.ID})
	b.broadcast(&Message{Type: TypeShapeRemove, BoardID: b.ID, Payload: payload}, "")
}

func (b *Board) broadcastShape(msgType string, s shape.Shape, excludeClientID string) {
	payload, _ := json.Marshal(ShapePayload{Shape: s})
	b.broadcast(&Message{Type: msgType, BoardID: b.ID, Payload: payload}, excludeClientID)
}

func (b *Board) broadcast(msg *Message, excludeClientID string) {
	b.serverSeq++
	msg.Seq = b.serverSeq
	for _, c := range b.clients {
		if c.ClientID != excludeClientID {
			c.Send(msg)
		}
	}
}

func (b *Board) sendError(client *Client, message string) {
	payload, _ := json.Marshal(ErrorPayload{Message: message})
	client.Send(&Message{Type: TypeError, BoardID: b.ID, Payload: payload})
}

// Hub tracks the live boards and hands out their session goroutines.
type Hub struct {
	mu     sync.RWMutex
	boards map[string]*Board

	engineCfg    engine.Config
	canvasWidth  float64
	canvasHeight float64
}

func NewHub(engineCfg engine.Config, canvasWidth, canvasHeight float64) *Hub {
	return &Hub{
		boards:       make(map[string]*Board),
		engineCfg:    engineCfg,
		canvasWidth:  canvasWidth,
		canvasHeight: canvasHeight,
	}
}

// GetOrCreate returns the board with the given id, starting its goroutine
// on first use.
func (h *Hub) GetOrCreate(boardID string) *Board {
	h.mu.Lock()
	defer h.mu.Unlock()

	if b, ok := h.boards[boardID]; ok {
		return b
	}

	b := newBoard(boardID, h.engineCfg, h.canvasWidth, h.canvasHeight)
	h.boards[boardID] = b
	go b.run()

	slog.Info("board created", "board", boardID)
	return b
}

// Get returns an existing board, or nil.
func (h *Hub) Get(boardID string) *Board {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.boards[boardID]
}

// Register attaches a client to the board's session goroutine.
func (h *Hub) Register(b *Board, client *Client) {
	b.register <- client
}

// Stop shuts down every board goroutine.
func (h *Hub) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, b := range h.boards {
		close(b.done)
		delete(h.boards, id)
	}
}
