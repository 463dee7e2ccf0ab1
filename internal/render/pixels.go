package render

import (
	"image"
	"image/color"
	"math"
)

// fillRectRGBA paints r into an RGBA buffer of width w and height h,
// clipping to the buffer.
func fillRectRGBA(buf []byte, w, h int, r image.Rectangle, c color.RGBA) {
	r = r.Intersect(image.Rect(0, 0, w, h))
	if r.Empty() {
		return
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := y * w * 4
		for x := r.Min.X; x < r.Max.X; x++ {
			base := row + x*4
			buf[base+0] = c.R
			buf[base+1] = c.G
			buf[base+2] = c.B
			buf[base+3] = c.A
		}
	}
}

// pixelRect snaps a primitive's bounds to whole pixels.
func pixelRect(p Primitive) image.Rectangle {
	return image.Rect(
		int(math.Floor(p.Bounds.MinX)),
		int(math.Floor(p.Bounds.MinY)),
		int(math.Ceil(p.Bounds.MaxX)),
		int(math.Ceil(p.Bounds.MaxY)),
	)
}

// PaintTerrain writes cells of the batch into buf (RGBA, w*h*4 bytes). When
// indices is nil every cell is painted.
func PaintTerrain(buf []byte, w, h int, batch *TerrainBatch, indices []int) {
	if batch == nil || len(buf) < w*h*4 {
		return
	}
	if indices == nil {
		for _, p := range batch.Entries() {
			fillRectRGBA(buf, w, h, pixelRect(p), p.Color)
		}
		return
	}
	for _, i := range indices {
		if i < 0 || i >= batch.Len() {
			continue
		}
		p := batch.At(i)
		fillRectRGBA(buf, w, h, pixelRect(p), p.Color)
	}
}

// SampleColor returns the colour of the last primitive covering (x, y) in
// world space, or bg when none does. Circles test against their inscribed
// disc; rotated rects against their rotated extent.
func SampleColor(prims []Primitive, x, y float64, bg color.RGBA) color.RGBA {
	out := bg
	for _, p := range prims {
		if covers(p, x, y) {
			out = p.Color
		}
	}
	return out
}

func covers(p Primitive, x, y float64) bool {
	c := p.Bounds.Center()
	dx, dy := x-c.X, y-c.Y
	switch p.Shape {
	case ShapeCircle:
		r := math.Min(p.Bounds.W(), p.Bounds.H()) * 0.5
		return dx*dx+dy*dy <= r*r
	default:
		if p.Rotation != 0 {
			s, co := math.Sincos(-p.Rotation)
			dx, dy = dx*co-dy*s, dx*s+dy*co
		}
		return math.Abs(dx) <= p.Bounds.W()*0.5 && math.Abs(dy) <= p.Bounds.H()*0.5
	}
}
