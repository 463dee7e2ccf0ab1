package core

import "math"

// Size describes the dimensions of a grid in cells or a world in pixels.
type Size struct {
	W int
	H int
}

// Cell addresses one terrain cell by column and row.
type Cell struct {
	Col int
	Row int
}

// Vec2 is a 2D vector in world-pixel space.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{X: v.X + o.X, Y: v.Y + o.Y} }

// Scale returns v * s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{X: v.X * s, Y: v.Y * s} }

// Dot returns the dot product of v and o.
func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }

// Len returns the euclidean length of v.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// Reflect mirrors v across the plane with normal n (n must be unit length).
func (v Vec2) Reflect(n Vec2) Vec2 {
	d := 2 * v.Dot(n)
	return Vec2{X: v.X - d*n.X, Y: v.Y - d*n.Y}
}

// FromAngle builds a unit vector from an angle in radians.
func FromAngle(rad float64) Vec2 {
	return Vec2{X: math.Cos(rad), Y: math.Sin(rad)}
}

// Angle returns the direction of v in radians.
func (v Vec2) Angle() float64 { return math.Atan2(v.Y, v.X) }

// Rect is an axis-aligned box. Min is inclusive, Max is exclusive for
// containment tests on grid boundaries.
type Rect struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// RectXYWH builds a Rect from an origin and extent.
func RectXYWH(x, y, w, h float64) Rect {
	return Rect{MinX: x, MinY: y, MaxX: x + w, MaxY: y + h}
}

// RectAround builds a Rect centred on c with the given half extents.
func RectAround(c Vec2, hw, hh float64) Rect {
	return Rect{MinX: c.X - hw, MinY: c.Y - hh, MaxX: c.X + hw, MaxY: c.Y + hh}
}

// W returns the width of r.
func (r Rect) W() float64 { return r.MaxX - r.MinX }

// H returns the height of r.
func (r Rect) H() float64 { return r.MaxY - r.MinY }

// Empty reports whether r has no area.
func (r Rect) Empty() bool { return r.MaxX <= r.MinX || r.MaxY <= r.MinY }

// Center returns the midpoint of r.
func (r Rect) Center() Vec2 {
	return Vec2{X: (r.MinX + r.MaxX) * 0.5, Y: (r.MinY + r.MaxY) * 0.5}
}

// Intersects reports whether r and o share a region of positive area.
func (r Rect) Intersects(o Rect) bool {
	return r.MinX < o.MaxX && r.MaxX > o.MinX && r.MinY < o.MaxY && r.MaxY > o.MinY
}

// ContainsPoint reports whether p lies inside r (max edges inclusive).
func (r Rect) ContainsPoint(p Vec2) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

// Overlap returns the penetration depth of r into o along each axis. Both
// values are zero or negative when the boxes do not touch.
func (r Rect) Overlap(o Rect) (float64, float64) {
	ox := math.Min(r.MaxX, o.MaxX) - math.Max(r.MinX, o.MinX)
	oy := math.Min(r.MaxY, o.MaxY) - math.Max(r.MinY, o.MinY)
	return ox, oy
}

// Clamp returns p moved to the nearest point inside r shrunk by margin.
func (r Rect) Clamp(p Vec2, margin float64) Vec2 {
	return Vec2{
		X: clampF(p.X, r.MinX+margin, r.MaxX-margin),
		Y: clampF(p.Y, r.MinY+margin, r.MaxY-margin),
	}
}

func clampF(v, lo, hi float64) float64 {
	if hi < lo {
		return (lo + hi) * 0.5
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
