package engine

import (
	"container/list"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/wuminghaozhan/drawboard/backend-go/internal/geom"
	"github.com/wuminghaozhan/drawboard/backend-go/internal/shape"
)

// Fingerprint derives a cache key from a set of shapes: sorted ids plus
// rounded first/last point coordinates and the point count. Rounding keeps
// floating noise from defeating the cache; the count catches structural
// edits between the endpoints.
func Fingerprint(shapes []shape.Shape) string {
	parts := make([]string, len(shapes))
	for i, s := range shapes {
		parts[i] = fingerprintOne(s)
	}
	sort.Strings(parts)
	return strings.Join(parts, "|")
}

func fingerprintOne(s shape.Shape) string {
	var b strings.Builder
	b.WriteString(s.ID)
	b.WriteByte(':')
	if n := len(s.Points); n > 0 {
		first := s.Points[0]
		last := s.Points[n-1]
		b.WriteString(strconv.Itoa(int(math.Round(first.X))))
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(int(math.Round(first.Y))))
		b.WriteByte(';')
		b.WriteString(strconv.Itoa(int(math.Round(last.X))))
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(int(math.Round(last.Y))))
		b.WriteByte('#')
		b.WriteString(strconv.Itoa(n))
	}
	if s.Width != nil {
		b.WriteString(":w")
		b.WriteString(strconv.Itoa(int(math.Round(*s.Width))))
	}
	if s.Height != nil {
		b.WriteString(":h")
		b.WriteString(strconv.Itoa(int(math.Round(*s.Height))))
	}
	return b.String()
}

// BoundsCache memoizes computed bounds keyed by shape fingerprint. Capacity
// is bounded; the oldest-inserted entry is evicted first.
type BoundsCache struct {
	capacity int
	entries  map[string]*list.Element
	order    *list.List // front = oldest inserted
	hits     uint64
	misses   uint64
}

type boundsEntry struct {
	key    string
	bounds geom.Rect
}

func NewBoundsCache(capacity int) *BoundsCache {
	if capacity <= 0 {
		capacity = 100
	}
	return &BoundsCache{
		capacity: capacity,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
	}
}

func (c *BoundsCache) Get(key string) (geom.Rect, bool) {
	el, ok := c.entries[key]
	if !ok {
		c.misses++
		return geom.Rect{}, false
	}
	c.hits++
	return el.Value.(*boundsEntry).bounds, true
}

func (c *BoundsCache) Put(key string, bounds geom.Rect) {
	if el, ok := c.entries[key]; ok {
		el.Value.(*boundsEntry).bounds = bounds
		return
	}

	if c.order.Len() >= c.capacity {
		oldest := c.order.Front()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*boundsEntry).key)
		}
	}
	c.entries[key] = c.order.PushBack(&boundsEntry{key: key, bounds: bounds})
}

// Invalidate drops any entry whose key starts with the shape id.
func (c *BoundsCache) Invalidate(shapeID string) {
	for el := c.order.Front(); el != nil; {
		next := el.Next()
		entry := el.Value.(*boundsEntry)
		if strings.HasPrefix(entry.key, shapeID+":") {
			c.order.Remove(el)
			delete(c.entries, entry.key)
		}
		el = next
	}
}

func (c *BoundsCache) Clear() {
	c.entries = make(map[string]*list.Element)
	c.order.Init()
}

func (c *BoundsCache) Len() int {
	return c.order.Len()
}

// Stats returns hit/miss counters.
func (c *BoundsCache) Stats() (hits, misses uint64) {
	return c.hits, c.misses
}

// AnchorCache memoizes the current selection's anchor set. A hit requires a
// key match, freshness within the TTL window, a clean dirty flag, and no
// active drag (dragging always bypasses the cache). Once stale, the cached
// set is still served until the per-frame refresh interval has elapsed, so
// rapid pointer movement recomputes at most roughly once per frame.
type AnchorCache struct {
	ttl             time.Duration
	refreshInterval time.Duration

	key         string
	set         *AnchorSet
	at          time.Time
	lastCompute time.Time
	dirty       bool

	now func() time.Time // injectable for tests
}

func NewAnchorCache(ttl, refreshInterval time.Duration) *AnchorCache {
	return &AnchorCache{
		ttl:             ttl,
		refreshInterval: refreshInterval,
		now:             time.Now,
	}
}

// Get returns the cached anchor set if it may be served for the key.
func (c *AnchorCache) Get(key string, dragging bool) (*AnchorSet, bool) {
	if dragging || c.set == nil || c.key != key {
		return nil, false
	}

	now := c.now()
	if !c.dirty && now.Sub(c.at) <= c.ttl {
		return c.set, true
	}

	// Stale, but throttled: keep serving until a recomputation is due.
	if now.Sub(c.lastCompute) < c.refreshInterval {
		return c.set, true
	}
	return nil, false
}

// Put stores a freshly computed anchor set.
func (c *AnchorCache) Put(key string, set *AnchorSet) {
	now := c.now()
	c.key = key
	c.set = set
	c.at = now
	c.lastCompute = now
	c.dirty = false
}

// Invalidate marks the cached set as stale without dropping it; the next
// Get past the refresh interval will miss.
func (c *AnchorCache) Invalidate() {
	c.dirty = true
}

// Clear drops the cached set entirely.
func (c *AnchorCache) Clear() {
	c.key = ""
	c.set = nil
	c.dirty = false
}
