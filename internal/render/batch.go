// Package render holds the draw-primitive batches handed to rendering
// backends once per tick.
package render

import (
	"image/color"

	"terrasim/internal/core"
)

// Shape selects how a primitive is rasterized.
type Shape uint8

const (
	ShapeRect Shape = iota
	ShapeCircle
)

// Primitive is one filled shape. Circles are inscribed in Bounds; rects are
// rotated by Rotation radians around their centre.
type Primitive struct {
	Shape    Shape
	Bounds   core.Rect
	Rotation float64
	Color    color.RGBA
}

// Backend receives the batches for one frame. Implementations must not
// retain the effect slice beyond the call.
type Backend interface {
	SubmitBatch(terrain *TerrainBatch, effects []Primitive)
}

// TerrainBatch caches one primitive per terrain cell. Entries change only
// through Set, which records the index in a change log so each backend can
// repaint just the cells it has not seen yet.
type TerrainBatch struct {
	entries    []Primitive
	changes    []int
	generation uint64
}

// NewTerrainBatch allocates a batch for n cells.
func NewTerrainBatch(n int) *TerrainBatch {
	if n < 0 {
		n = 0
	}
	return &TerrainBatch{entries: make([]Primitive, n)}
}

// Len returns the number of cells in the batch.
func (b *TerrainBatch) Len() int { return len(b.entries) }

// At returns the cached primitive of cell i.
func (b *TerrainBatch) At(i int) Primitive { return b.entries[i] }

// Entries exposes the cached primitives in cell order. Callers must not modify it.
func (b *TerrainBatch) Entries() []Primitive { return b.entries }

// Set replaces the primitive of cell i and records the change.
func (b *TerrainBatch) Set(i int, p Primitive) {
	if i < 0 || i >= len(b.entries) {
		return
	}
	b.entries[i] = p
	b.changes = append(b.changes, i)
}

// Reset starts a new generation: the change log is discarded and every
// backend must repaint the whole batch.
func (b *TerrainBatch) Reset() {
	b.changes = b.changes[:0]
	b.generation++
}

// Generation identifies the current full build of the batch.
func (b *TerrainBatch) Generation() uint64 { return b.generation }

// Cursor is a backend's read position in the change log.
type Cursor struct {
	Generation uint64
	Offset     int
}

// ChangesSince returns cell indices changed after c and the advanced cursor.
// full is true when c belongs to an older generation and the whole batch
// must be repainted instead.
func (b *TerrainBatch) ChangesSince(c Cursor) (changed []int, next Cursor, full bool) {
	next = Cursor{Generation: b.generation, Offset: len(b.changes)}
	if c.Generation != b.generation || c.Offset > len(b.changes) {
		return nil, next, true
	}
	return b.changes[c.Offset:], next, false
}

// Cache is the per-frame effect batch. It is rebuilt from scratch every tick.
type Cache struct {
	effects []Primitive
}

// Begin clears the effect batch, keeping its capacity.
func (c *Cache) Begin() { c.effects = c.effects[:0] }

// Add appends one effect primitive.
func (c *Cache) Add(p Primitive) { c.effects = append(c.effects, p) }

// Effects returns the primitives added since Begin.
func (c *Cache) Effects() []Primitive { return c.effects }

// Multi fans a submission out to several backends in order.
type Multi []Backend

// SubmitBatch implements Backend.
func (m Multi) SubmitBatch(terrain *TerrainBatch, effects []Primitive) {
	for _, b := range m {
		if b != nil {
			b.SubmitBatch(terrain, effects)
		}
	}
}

// Recorder is a Backend that keeps the most recent submission.
type Recorder struct {
	Frames  int
	Terrain *TerrainBatch
	Effects []Primitive
}

// SubmitBatch implements Backend.
func (r *Recorder) SubmitBatch(terrain *TerrainBatch, effects []Primitive) {
	r.Frames++
	r.Terrain = terrain
	r.Effects = append(r.Effects[:0], effects...)
}

// Discard is a Backend that ignores every submission.
type Discard struct{}

// SubmitBatch implements Backend.
func (Discard) SubmitBatch(*TerrainBatch, []Primitive) {}
