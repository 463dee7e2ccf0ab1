// Package effect implements the moving effects that carve the terrain.
// Every kind shares one Effect struct and one Step function that switches
// on Kind, so the pool stays a flat slice the simulation can split across
// workers.
package effect

import (
	"terrasim/internal/core"
	"terrasim/internal/render"
)

// Effect is one live particle.
type Effect struct {
	ID       uint64
	Kind     Kind
	Pos      core.Vec2
	Dir      core.Vec2 // unit vector
	Speed    float64
	Lifetime int // remaining ticks
	Radius   float64
	HalfW    float64
	HalfH    float64
	Alive    bool
	// Split is set once the effect has spawned children, and on children
	// themselves, so nothing splits twice.
	Split bool
}

// New builds an effect of kind k heading along angle.
func New(id uint64, k Kind, pos core.Vec2, angle float64, p Profile) Effect {
	return Effect{
		ID:       id,
		Kind:     k,
		Pos:      pos,
		Dir:      core.FromAngle(angle),
		Speed:    p.Speed,
		Lifetime: p.Lifetime,
		Radius:   p.Radius,
		HalfW:    p.HalfW,
		HalfH:    p.HalfH,
		Alive:    p.Lifetime > 0,
	}
}

// Bounds returns the collision box.
func (e *Effect) Bounds() core.Rect { return core.RectAround(e.Pos, e.Radius, e.Radius) }

// Primitive returns the draw primitive for e.
func (e *Effect) Primitive(p Profile) render.Primitive {
	if e.Kind == Lightning && e.HalfW > 0 && e.HalfH > 0 {
		return render.Primitive{
			Shape:    render.ShapeRect,
			Bounds:   core.RectAround(e.Pos, e.HalfW, e.HalfH),
			Rotation: e.Dir.Angle(),
			Color:    p.Color,
		}
	}
	return render.Primitive{Shape: render.ShapeCircle, Bounds: e.Bounds(), Color: p.Color}
}
