// Package quadtree is a per-tick spatial index over axis-aligned boxes.
// Nodes live in a flat arena and are addressed by index; the tree is
// cleared and refilled every tick rather than updated in place.
//
// Each item is keyed on its reference point: the box centre clamped into
// the root. The node holding an item always contains that point, so a box
// reaches at most one half-extent past its node. Query widens every node
// by the largest half-extent stored to stay exact.
package quadtree

import "terrasim/internal/core"

// EntityID identifies an indexed item. The top bit separates terrain cells
// from effects.
type EntityID uint64

const effectBit EntityID = 1 << 63

// CellID tags a terrain cell index.
func CellID(idx int) EntityID { return EntityID(idx) &^ effectBit }

// EffectID tags an effect id.
func EffectID(id uint64) EntityID { return EntityID(id) | effectBit }

// IsEffect reports whether id was built with EffectID.
func (id EntityID) IsEffect() bool { return id&effectBit != 0 }

// Cell returns the cell index of a CellID.
func (id EntityID) Cell() int { return int(id &^ effectBit) }

// Effect returns the effect id of an EffectID.
func (id EntityID) Effect() uint64 { return uint64(id &^ effectBit) }

// Item is one stored entry.
type Item struct {
	ID  EntityID
	Box core.Rect
}

const noChildren = -1

// Children are ordered NW, NE, SW, SE.
const (
	nw = iota
	ne
	sw
	se
)

type node struct {
	bounds core.Rect
	depth  int
	first  int // index of the NW child, noChildren for leaves
	items  []Item
}

const (
	DefaultCapacity = 8
	DefaultMaxDepth = 10
)

// Tree is a point-region quadtree keyed on box centres.
type Tree struct {
	bounds   core.Rect
	capacity int
	maxDepth int
	nodes    []node
	count    int

	// largest half-width and half-height of any stored box
	reachX, reachY float64
}

// New returns an empty tree covering bounds.
func New(bounds core.Rect, capacity, maxDepth int) *Tree {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	t := &Tree{bounds: bounds, capacity: capacity, maxDepth: maxDepth}
	t.Reset()
	return t
}

// Bounds returns the root boundary.
func (t *Tree) Bounds() core.Rect { return t.bounds }

// Capacity returns the per-leaf item limit.
func (t *Tree) Capacity() int { return t.capacity }

// Len returns the number of stored items.
func (t *Tree) Len() int { return t.count }

// Reset empties the tree, keeping the allocated node and item storage.
func (t *Tree) Reset() {
	for i := range t.nodes {
		t.nodes[i].items = t.nodes[i].items[:0]
	}
	if cap(t.nodes) == 0 {
		t.nodes = make([]node, 0, 1)
	}
	t.nodes = t.nodes[:1]
	t.nodes[0].bounds = t.bounds
	t.nodes[0].depth = 0
	t.nodes[0].first = noChildren
	t.count = 0
	t.reachX, t.reachY = 0, 0
}

// Insert stores id under box and reports whether it was kept. Boxes that do
// not intersect the root boundary are dropped.
func (t *Tree) Insert(id EntityID, box core.Rect) bool {
	if box.Empty() || !box.Intersects(t.bounds) {
		return false
	}
	c := t.ref(box)
	n := 0
	for t.nodes[n].first != noChildren {
		n = t.nodes[n].first + t.quadrant(n, c)
	}
	t.nodes[n].items = append(t.nodes[n].items, Item{ID: id, Box: box})
	t.count++
	t.reachX = max(t.reachX, box.W()*0.5)
	t.reachY = max(t.reachY, box.H()*0.5)
	t.split(n)
	return true
}

// split subdivides n while it, or any child it spills into, holds more than
// capacity items.
func (t *Tree) split(n int) {
	work := []int{n}
	for len(work) > 0 {
		n := work[len(work)-1]
		work = work[:len(work)-1]
		nd := &t.nodes[n]
		if len(nd.items) <= t.capacity || nd.first != noChildren || nd.depth >= t.maxDepth {
			continue
		}
		t.subdivide(n)
		first := t.nodes[n].first
		work = append(work, first, first+1, first+2, first+3)
	}
}

// ref returns the point box is keyed on.
func (t *Tree) ref(box core.Rect) core.Vec2 {
	return t.bounds.Clamp(box.Center(), 0)
}

// quadrant picks the child of n holding point c. Points on a midline go to
// the east or south side so that every point has exactly one home.
func (t *Tree) quadrant(n int, c core.Vec2) int {
	mid := t.nodes[n].bounds.Center()
	q := nw
	if c.X >= mid.X {
		q++
	}
	if c.Y >= mid.Y {
		q += 2
	}
	return q
}

func (t *Tree) subdivide(n int) {
	b := t.nodes[n].bounds
	mid := b.Center()
	depth := t.nodes[n].depth + 1
	first := len(t.nodes)
	quads := [4]core.Rect{
		nw: {MinX: b.MinX, MinY: b.MinY, MaxX: mid.X, MaxY: mid.Y},
		ne: {MinX: mid.X, MinY: b.MinY, MaxX: b.MaxX, MaxY: mid.Y},
		sw: {MinX: b.MinX, MinY: mid.Y, MaxX: mid.X, MaxY: b.MaxY},
		se: {MinX: mid.X, MinY: mid.Y, MaxX: b.MaxX, MaxY: b.MaxY},
	}
	for _, q := range quads {
		if len(t.nodes) < cap(t.nodes) {
			// Reuse the item slice left over from a previous tick.
			t.nodes = t.nodes[:len(t.nodes)+1]
			nd := &t.nodes[len(t.nodes)-1]
			nd.bounds, nd.depth, nd.first = q, depth, noChildren
			nd.items = nd.items[:0]
			continue
		}
		t.nodes = append(t.nodes, node{bounds: q, depth: depth, first: noChildren})
	}
	t.nodes[n].first = first

	for _, it := range t.nodes[n].items {
		child := first + t.quadrant(n, t.ref(it.Box))
		t.nodes[child].items = append(t.nodes[child].items, it)
	}
	t.nodes[n].items = t.nodes[n].items[:0]
}

// Query appends to out the ids of every item whose box intersects r. The
// traversal uses an explicit work list; order is unspecified. Query does not
// modify the tree and may run concurrently with other queries.
func (t *Tree) Query(r core.Rect, out []EntityID) []EntityID {
	if r.Empty() || t.count == 0 {
		return out
	}
	var buf [64]int
	stack := append(buf[:0], 0)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		nd := &t.nodes[n]
		reach := core.Rect{
			MinX: nd.bounds.MinX - t.reachX,
			MinY: nd.bounds.MinY - t.reachY,
			MaxX: nd.bounds.MaxX + t.reachX,
			MaxY: nd.bounds.MaxY + t.reachY,
		}
		if !reach.Intersects(r) {
			continue
		}
		for _, it := range nd.items {
			if it.Box.Intersects(r) {
				out = append(out, it.ID)
			}
		}
		if nd.first != noChildren {
			stack = append(stack, nd.first, nd.first+1, nd.first+2, nd.first+3)
		}
	}
	return out
}

// Stats describes the tree shape.
type Stats struct {
	Nodes    int
	Leaves   int
	MaxDepth int
	MaxItems int // largest item count in any leaf
}

// Stats walks the tree and reports its shape.
func (t *Tree) Stats() Stats {
	var s Stats
	s.Nodes = len(t.nodes)
	for _, nd := range t.nodes {
		if nd.depth > s.MaxDepth {
			s.MaxDepth = nd.depth
		}
		if nd.first == noChildren {
			s.Leaves++
			s.MaxItems = max(s.MaxItems, len(nd.items))
		}
	}
	return s
}
