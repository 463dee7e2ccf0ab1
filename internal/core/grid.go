package core

import "math"

// Grid describes a fixed-size cell layout over world-pixel space in
// row-major order.
type Grid struct {
	Cols, Rows int
	CellSize   float64
}

// NewGrid returns a grid geometry with the given dimensions.
func NewGrid(cols, rows int, cellSize float64) Grid {
	if cols <= 0 {
		cols = 1
	}
	if rows <= 0 {
		rows = 1
	}
	if cellSize <= 0 {
		cellSize = 1
	}
	return Grid{Cols: cols, Rows: rows, CellSize: cellSize}
}

// Len returns the number of cells.
func (g Grid) Len() int { return g.Cols * g.Rows }

// Index returns the linear slice index for (col, row).
func (g Grid) Index(col, row int) int { return row*g.Cols + col }

// CellAt returns the coordinates of a linear index.
func (g Grid) CellAt(idx int) Cell { return Cell{Col: idx % g.Cols, Row: idx / g.Cols} }

// InBounds reports whether (col, row) addresses a cell.
func (g Grid) InBounds(col, row int) bool {
	return col >= 0 && row >= 0 && col < g.Cols && row < g.Rows
}

// Bounds returns the world-pixel rectangle covered by the grid.
func (g Grid) Bounds() Rect {
	return Rect{MaxX: float64(g.Cols) * g.CellSize, MaxY: float64(g.Rows) * g.CellSize}
}

// CellRect returns the world-pixel rectangle of (col, row).
func (g Grid) CellRect(col, row int) Rect {
	s := g.CellSize
	return RectXYWH(float64(col)*s, float64(row)*s, s, s)
}

// CellCenter returns the world-pixel centre of (col, row).
func (g Grid) CellCenter(col, row int) Vec2 {
	s := g.CellSize
	return Vec2{X: (float64(col) + 0.5) * s, Y: (float64(row) + 0.5) * s}
}

// CellOf returns the cell containing the world point p (possibly out of bounds).
func (g Grid) CellOf(p Vec2) Cell {
	return Cell{Col: int(math.Floor(p.X / g.CellSize)), Row: int(math.Floor(p.Y / g.CellSize))}
}

// Span returns the inclusive column and row ranges of cells overlapping r,
// clipped to the grid. ok is false when r misses the grid entirely.
func (g Grid) Span(r Rect) (c0, r0, c1, r1 int, ok bool) {
	if r.Empty() || !r.Intersects(g.Bounds()) {
		return 0, 0, 0, 0, false
	}
	s := g.CellSize
	c0 = max(int(math.Floor(r.MinX/s)), 0)
	r0 = max(int(math.Floor(r.MinY/s)), 0)
	// Max edges are exclusive: a box ending exactly on a cell edge does not
	// touch the next cell.
	c1 = min(int(math.Ceil(r.MaxX/s))-1, g.Cols-1)
	r1 = min(int(math.Ceil(r.MaxY/s))-1, g.Rows-1)
	return c0, r0, c1, r1, c0 <= c1 && r0 <= r1
}
