package engine

import (
	"github.com/wuminghaozhan/drawboard/backend-go/internal/geom"
	"github.com/wuminghaozhan/drawboard/backend-go/internal/shape"
)

// indexItem is one indexed shape: its id and the bounds it was inserted with.
type indexItem struct {
	id     string
	bounds geom.Rect
}

// treeNode is one quadtree cell. Items that straddle a quadrant boundary
// stay at the parent; everything else sinks into a child once the node splits.
type treeNode struct {
	region   geom.Rect
	items    []indexItem
	children *[4]*treeNode
	depth    int
}

// SpatialIndex is a quadtree over shape bounding boxes. Queries return
// candidates only; callers must re-test with exact shape geometry.
// The index is rebuilt from scratch after any shape-set mutation.
type SpatialIndex struct {
	root     *treeNode
	capacity int
	maxDepth int
	size     int
}

// NewSpatialIndex creates an index covering the given region.
// A zero-area region is unusable; callers fall back to linear scanning.
func NewSpatialIndex(region geom.Rect, capacity, maxDepth int) (*SpatialIndex, error) {
	if region.IsEmpty() {
		return nil, ErrCanvasTooSmall
	}
	if capacity <= 0 {
		capacity = 10
	}
	if maxDepth <= 0 {
		maxDepth = 5
	}
	return &SpatialIndex{
		root:     &treeNode{region: region},
		capacity: capacity,
		maxDepth: maxDepth,
	}, nil
}

// Build rebuilds the index from scratch over the given shapes.
func (x *SpatialIndex) Build(shapes []shape.Shape, boundsOf func(shape.Shape) geom.Rect) {
	x.Clear()
	for _, s := range shapes {
		x.Insert(s.ID, boundsOf(s))
	}
}

// Insert adds one shape's bounds. Shapes outside the indexed region are
// kept at the root so no exact hit is ever missed.
func (x *SpatialIndex) Insert(id string, bounds geom.Rect) {
	item := indexItem{id: id, bounds: bounds}
	if !x.root.region.Intersects(bounds) {
		x.root.items = append(x.root.items, item)
	} else {
		x.root.insert(item, x.capacity, x.maxDepth)
	}
	x.size++
}

// QueryPoint returns ids of all shapes whose bounds intersect a
// tolerance-sized square around the point.
func (x *SpatialIndex) QueryPoint(p geom.Point, tolerance float64) []string {
	probe := geom.Rect{
		X:      p.X - tolerance,
		Y:      p.Y - tolerance,
		Width:  2 * tolerance,
		Height: 2 * tolerance,
	}
	return x.QueryBounds(probe)
}

// QueryBounds returns ids of all shapes whose bounds intersect the rect.
func (x *SpatialIndex) QueryBounds(r geom.Rect) []string {
	var found []string
	x.root.query(r, &found)
	return found
}

// Clear drops all indexed items, keeping the region.
func (x *SpatialIndex) Clear() {
	x.root = &treeNode{region: x.root.region}
	x.size = 0
}

// Len returns the number of indexed items.
func (x *SpatialIndex) Len() int {
	return x.size
}

func (n *treeNode) insert(item indexItem, capacity, maxDepth int) {
	if n.children != nil {
		for _, child := range n.children {
			if child.region.ContainsRect(item.bounds) {
				child.insert(item, capacity, maxDepth)
				return
			}
		}
		// Straddles a boundary: belongs to this node.
		n.items = append(n.items, item)
		return
	}

	n.items = append(n.items, item)
	if len(n.items) > capacity && n.depth < maxDepth {
		n.subdivide()
		items := n.items
		n.items = nil
		for _, it := range items {
			n.insert(it, capacity, maxDepth)
		}
	}
}

func (n *treeNode) subdivide() {
	midX := n.region.X + n.region.Width/2
	midY := n.region.Y + n.region.Height/2
	halfW := n.region.Width / 2
	halfH := n.region.Height / 2

	n.children = &[4]*treeNode{
		{region: geom.Rect{X: n.region.X, Y: n.region.Y, Width: halfW, Height: halfH}, depth: n.depth + 1},
		{region: geom.Rect{X: midX, Y: n.region.Y, Width: halfW, Height: halfH}, depth: n.depth + 1},
		{region: geom.Rect{X: n.region.X, Y: midY, Width: halfW, Height: halfH}, depth: n.depth + 1},
		{region: geom.Rect{X: midX, Y: midY, Width: halfW, Height: halfH}, depth: n.depth + 1},
	}
}

func (n *treeNode) query(r geom.Rect, found *[]string) {
	for _, it := range n.items {
		if it.bounds.Intersects(r) {
			*found = append(*found, it.id)
		}
	}

	if n.children == nil {
		return
	}
	for _, child := range n.children {
		if child.region.Intersects(r) {
			child.query(r, found)
		}
	}
}
