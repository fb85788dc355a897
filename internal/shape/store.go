package shape

import (
	"fmt"
	"sync"
)

// Store holds the authoritative shape collection for one board.
// Shapes keep insertion order; later shapes draw on top of earlier ones,
// so hit testing walks the list back to front.
type Store struct {
	mu     sync.RWMutex
	shapes map[string]Shape
	order  []string
	rev    uint64 // bumped on every mutation so callers can detect staleness
}

// NewStore creates an empty shape store.
func NewStore() *Store {
	return &Store{
		shapes: make(map[string]Shape),
	}
}

// Add appends a shape on top of the stack.
func (st *Store) Add(s Shape) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if s.ID == "" {
		return fmt.Errorf("add shape: missing id")
	}
	if _, ok := st.shapes[s.ID]; ok {
		return fmt.Errorf("add shape: duplicate id %s", s.ID)
	}

	st.shapes[s.ID] = s.Clone()
	st.order = append(st.order, s.ID)
	st.rev++
	return nil
}

// Update replaces an existing shape, keeping its z-order position.
func (st *Store) Update(s Shape) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, ok := st.shapes[s.ID]; !ok {
		return fmt.Errorf("update shape: not found: %s", s.ID)
	}

	st.shapes[s.ID] = s.Clone()
	st.rev++
	return nil
}

// Remove deletes a shape by id.
func (st *Store) Remove(id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, ok := st.shapes[id]; !ok {
		return fmt.Errorf("remove shape: not found: %s", id)
	}

	delete(st.shapes, id)
	for i, oid := range st.order {
		if oid == id {
			st.order = append(st.order[:i], st.order[i+1:]...)
			break
		}
	}
	st.rev++
	return nil
}

// Get returns a copy of the shape with the given id.
func (st *Store) Get(id string) (Shape, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	s, ok := st.shapes[id]
	if !ok {
		return Shape{}, false
	}
	return s.Clone(), true
}

// List returns copies of all shapes in z-order (bottom first).
func (st *Store) List() []Shape {
	st.mu.RLock()
	defer st.mu.RUnlock()

	out := make([]Shape, 0, len(st.order))
	for _, id := range st.order {
		out = append(out, st.shapes[id].Clone())
	}
	return out
}

// Len returns the shape count.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.order)
}

// Rev returns the mutation revision. It changes on every Add/Update/Remove,
// letting the engine decide when its spatial index is stale.
func (st *Store) Rev() uint64 {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.rev
}
