package effect

import (
	"math"

	"terrasim/internal/audio"
	"terrasim/internal/core"
	"terrasim/internal/quadtree"
	"terrasim/internal/terrain"
)

// World is the read-only state an effect sees while stepping.
type World struct {
	Bounds   core.Rect
	Terrain  *terrain.Grid
	Index    *quadtree.Tree // solid cells, see IndexTerrain
	DT       float64
	Profiles *Profiles
}

// Outcome buffers everything a step wants to change outside its own
// effect. Each worker owns one.
type Outcome struct {
	Damage []core.Cell
	Sounds []audio.Kind
	Spawn  []Effect

	cells []core.Cell
	ids   []quadtree.EntityID
}

// Reset empties the buffers, keeping their capacity.
func (o *Outcome) Reset() {
	o.Damage = o.Damage[:0]
	o.Sounds = o.Sounds[:0]
	o.Spawn = o.Spawn[:0]
}

// IndexTerrain refills t with the boxes of every solid cell of g.
func IndexTerrain(t *quadtree.Tree, g *terrain.Grid) {
	t.Reset()
	geom := g.Geometry()
	g.ForEachSolid(func(idx, col, row int) {
		t.Insert(quadtree.CellID(idx), geom.CellRect(col, row))
	})
}

// Step advances e by one tick.
func Step(e *Effect, w *World, rng *core.RNG, out *Outcome) {
	if !e.Alive {
		return
	}
	if e.Kind == Explosion {
		strike(e, w, out, euclidean)
		out.Sounds = append(out.Sounds, audio.SoundBlast)
		e.Alive = false
		return
	}

	e.Pos = e.Pos.Add(e.Dir.Scale(e.Speed * w.DT))
	if bounceEdges(e, w.Bounds) {
		out.Sounds = append(out.Sounds, bounceSound(e))
	}

	switch e.Kind {
	case Bubbles, MoreBubbles:
		bounceTerrain(e, w, out)
		if !e.Split {
			split(e, w, rng, out)
		}
	case Lightning:
		if touchesSolid(e, w, out) {
			strike(e, w, out, manhattan)
			out.Sounds = append(out.Sounds, audio.SoundThunder)
			e.Alive = false
			return
		}
	}

	e.Lifetime--
	if e.Lifetime <= 0 {
		e.Alive = false
	}
}

func bounceSound(e *Effect) audio.Kind {
	if e.ID%2 == 0 {
		return audio.SoundBoing
	}
	return audio.SoundBoingCrusher
}

// Axis-aligned contact normals.
var (
	normalLeft  = core.Vec2{X: -1}
	normalRight = core.Vec2{X: 1}
	normalUp    = core.Vec2{Y: -1}
	normalDown  = core.Vec2{Y: 1}
)

// reflectOff mirrors dir across the surface with unit normal n when dir
// heads into that surface, and returns it unchanged otherwise.
func reflectOff(dir, n core.Vec2) core.Vec2 {
	if dir.Dot(n) < 0 {
		return dir.Reflect(n)
	}
	return dir
}

// bounceEdges clamps e inside b and reflects its direction off every wall it
// crossed. It reports whether an edge was hit.
func bounceEdges(e *Effect, b core.Rect) bool {
	r := e.Radius
	hit := false
	switch {
	case e.Pos.X-r < b.MinX:
		e.Dir = reflectOff(e.Dir, normalRight)
		hit = true
	case e.Pos.X+r > b.MaxX:
		e.Dir = reflectOff(e.Dir, normalLeft)
		hit = true
	}
	switch {
	case e.Pos.Y-r < b.MinY:
		e.Dir = reflectOff(e.Dir, normalDown)
		hit = true
	case e.Pos.Y+r > b.MaxY:
		e.Dir = reflectOff(e.Dir, normalUp)
		hit = true
	}
	if hit {
		e.Pos = b.Clamp(e.Pos, r)
	}
	return hit
}

// bounceTerrain resolves the dominant terrain contact of e: the solid cell
// with the largest overlap area. The axis with the larger penetration is
// reflected so that e heads away from the cell, ties reflect vertically,
// and the cell is queued for damage.
func bounceTerrain(e *Effect, w *World, out *Outcome) {
	box := e.Bounds()
	out.cells = w.Terrain.CellsInRange(box, out.cells[:0])

	var (
		best    core.Cell
		bestA   float64
		bx, by  float64
		found   bool
		cellBox core.Rect
	)
	for _, c := range out.cells {
		if !w.Terrain.IsSolidAt(c.Col, c.Row) {
			continue
		}
		r := w.Terrain.CellRect(c.Col, c.Row)
		ox, oy := box.Overlap(r)
		if ox <= 0 || oy <= 0 {
			continue
		}
		if a := ox * oy; a > bestA {
			best, bestA, bx, by, found, cellBox = c, a, ox, oy, true, r
		}
	}
	if !found {
		return
	}

	center := cellBox.Center()
	var n core.Vec2
	switch {
	case bx > by && center.X >= e.Pos.X:
		n = normalLeft
	case bx > by:
		n = normalRight
	case center.Y >= e.Pos.Y:
		n = normalUp
	default:
		n = normalDown
	}
	e.Dir = reflectOff(e.Dir, n)
	out.Damage = append(out.Damage, best)
}

func touchesSolid(e *Effect, w *World, out *Outcome) bool {
	box := e.Bounds()
	out.cells = w.Terrain.CellsInRange(box, out.cells[:0])
	for _, c := range out.cells {
		if w.Terrain.IsSolidAt(c.Col, c.Row) {
			return true
		}
	}
	return false
}

type metric func(d core.Vec2) float64

func manhattan(d core.Vec2) float64 { return math.Abs(d.X) + math.Abs(d.Y) }

func euclidean(d core.Vec2) float64 { return d.Len() }

// strike queues every solid cell whose centre lies within the kind's strike
// radius of e under dist.
func strike(e *Effect, w *World, out *Outcome, dist metric) {
	radius := w.Profiles.For(e.Kind).StrikeRadius
	if radius <= 0 || w.Index == nil {
		return
	}
	geom := w.Terrain.Geometry()
	out.ids = w.Index.Query(core.RectAround(e.Pos, radius, radius), out.ids[:0])
	for _, id := range out.ids {
		if id.IsEffect() {
			continue
		}
		c := geom.CellAt(id.Cell())
		center := geom.CellCenter(c.Col, c.Row)
		if dist(center.Add(e.Pos.Scale(-1))) <= radius {
			out.Damage = append(out.Damage, c)
		}
	}
}

// split spawns children from a bubble effect. Children inherit position,
// fan out around the parent's heading and never split again.
func split(e *Effect, w *World, rng *core.RNG, out *Outcome) {
	p := w.Profiles.For(e.Kind)
	if p.SplitCount <= 0 || !rng.Chance(p.SplitChance) {
		return
	}
	e.Split = true
	heading := e.Dir.Angle()
	spawn := func(angle float64) {
		child := New(0, e.Kind, e.Pos, angle, p)
		child.Split = true
		out.Spawn = append(out.Spawn, child)
	}
	if e.Kind == Bubbles {
		off := rng.Range(-p.SplitSpread, p.SplitSpread)
		spawn(heading + off)
		spawn(heading - off)
		return
	}
	for i := 0; i < p.SplitCount; i++ {
		spawn(heading + rng.Range(-p.SplitSpread, p.SplitSpread))
	}
}
