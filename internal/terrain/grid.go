// Package terrain owns the destructible cell grid and its cached render batch.
package terrain

import (
	"terrasim/internal/audio"
	"terrasim/internal/core"
	"terrasim/internal/noise"
	"terrasim/internal/render"
)

// DefaultSoundChance is the probability that a destruction plays a sound.
const DefaultSoundChance = 0.1

// Cell is one fixed-position terrain unit.
type Cell struct {
	Material Material
	Alive    bool
}

// Options controls grid behaviour.
type Options struct {
	Seed        int64
	SoundChance float64
}

// Grid stores cells in row-major order together with one render primitive
// per cell. Only Damage and Generate mutate it.
type Grid struct {
	geom  core.Grid
	opts  Options
	cells []Cell
	batch *render.TerrainBatch
	rng   *core.RNG

	alive  int
	events []audio.Event
}

// New allocates an all-air grid.
func New(geom core.Grid, opts Options) *Grid {
	g := &Grid{
		geom:  geom,
		opts:  opts,
		cells: make([]Cell, geom.Len()),
		batch: render.NewTerrainBatch(geom.Len()),
		rng:   core.NewRNG(opts.Seed),
	}
	for i := range g.cells {
		g.writeBatch(i)
	}
	g.batch.Reset()
	return g
}

// Geometry returns the grid layout.
func (g *Grid) Geometry() core.Grid { return g.geom }

// Batch exposes the cached render batch.
func (g *Grid) Batch() *render.TerrainBatch { return g.batch }

// Generate fills every cell from gen and rebuilds the render batch once.
func (g *Grid) Generate(gen noise.Generator) {
	g.alive = 0
	for row := 0; row < g.geom.Rows; row++ {
		for col := 0; col < g.geom.Cols; col++ {
			mat := MaterialFor(gen.Sample(col, row))
			idx := g.geom.Index(col, row)
			g.cells[idx] = Cell{Material: mat, Alive: mat != MaterialAir}
			if g.cells[idx].Alive {
				g.alive++
			}
			g.writeBatch(idx)
		}
	}
	g.batch.Reset()
	g.events = g.events[:0]
}

// Regenerate reseeds the grid's sound RNG and regenerates from gen.
func (g *Grid) Regenerate(seed int64, gen noise.Generator) {
	g.opts.Seed = seed
	g.rng = core.NewRNG(seed)
	g.Generate(gen)
}

// At returns the cell at (col, row). ok is false out of bounds.
func (g *Grid) At(col, row int) (Cell, bool) {
	if !g.geom.InBounds(col, row) {
		return Cell{}, false
	}
	return g.cells[g.geom.Index(col, row)], true
}

// IsSolidAt reports whether (col, row) holds a live cell.
func (g *Grid) IsSolidAt(col, row int) bool {
	if !g.geom.InBounds(col, row) {
		return false
	}
	return g.cells[g.geom.Index(col, row)].Alive
}

// CellRect returns the world rectangle of (col, row).
func (g *Grid) CellRect(col, row int) core.Rect { return g.geom.CellRect(col, row) }

// CellsInRange appends to out the coordinates of every cell overlapping r.
func (g *Grid) CellsInRange(r core.Rect, out []core.Cell) []core.Cell {
	c0, r0, c1, r1, ok := g.geom.Span(r)
	if !ok {
		return out
	}
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			out = append(out, core.Cell{Col: col, Row: row})
		}
	}
	return out
}

// Damage destroys the cell at (col, row) if it is alive and reports whether
// it did. Only that cell's batch entry is rewritten.
func (g *Grid) Damage(col, row int) bool {
	if !g.geom.InBounds(col, row) {
		return false
	}
	idx := g.geom.Index(col, row)
	c := &g.cells[idx]
	if !c.Alive {
		return false
	}
	c.Alive = false
	g.alive--
	g.writeBatch(idx)
	if g.rng.Chance(g.soundChance()) {
		g.events = append(g.events, audio.Event{Kind: c.Material.BreakSound()})
	}
	return true
}

// TakeEvents returns and clears the sound events produced by Damage.
func (g *Grid) TakeEvents() []audio.Event {
	ev := g.events
	g.events = nil
	return ev
}

// AliveCount returns how many cells are solid.
func (g *Grid) AliveCount() int { return g.alive }

// Materials returns a copy of the material layer in row-major order.
func (g *Grid) Materials() []Material {
	out := make([]Material, len(g.cells))
	for i, c := range g.cells {
		out[i] = c.Material
	}
	return out
}

// ForEachSolid calls fn for every live cell.
func (g *Grid) ForEachSolid(fn func(idx int, col, row int)) {
	for idx, c := range g.cells {
		if !c.Alive {
			continue
		}
		fn(idx, idx%g.geom.Cols, idx/g.geom.Cols)
	}
}

func (g *Grid) soundChance() float64 {
	if g.opts.SoundChance < 0 {
		return 0
	}
	return g.opts.SoundChance
}

func (g *Grid) writeBatch(idx int) {
	c := g.cells[idx]
	col := ClearedColor
	if c.Alive {
		col = c.Material.Color()
	}
	cell := g.geom.CellAt(idx)
	g.batch.Set(idx, render.Primitive{
		Shape:  render.ShapeRect,
		Bounds: g.geom.CellRect(cell.Col, cell.Row),
		Color:  col,
	})
}
