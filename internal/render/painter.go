//go:build ebiten

package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// TerrainPainter keeps an image of the terrain batch in sync by repainting
// only the cells changed since its last sync.
type TerrainPainter struct {
	w, h   int
	img    *ebiten.Image
	buf    []byte
	cursor Cursor
	pixel  *ebiten.Image
}

// NewTerrainPainter allocates a painter for a w*h pixel world.
func NewTerrainPainter(w, h int) *TerrainPainter {
	tp := &TerrainPainter{w: w, h: h, buf: make([]byte, 4*w*h)}
	tp.img = ebiten.NewImage(w, h)
	tp.pixel = ebiten.NewImage(1, 1)
	tp.pixel.Fill(color.White)
	return tp
}

// Sync uploads the cells of batch that changed since the previous call.
func (tp *TerrainPainter) Sync(batch *TerrainBatch) {
	if batch == nil {
		return
	}
	changed, next, full := batch.ChangesSince(tp.cursor)
	tp.cursor = next
	switch {
	case full:
		PaintTerrain(tp.buf, tp.w, tp.h, batch, nil)
	case len(changed) > 0:
		PaintTerrain(tp.buf, tp.w, tp.h, batch, changed)
	default:
		return
	}
	tp.img.WritePixels(tp.buf)
}

// Draw blits the terrain image onto dst.
func (tp *TerrainPainter) Draw(dst *ebiten.Image) {
	dst.DrawImage(tp.img, &ebiten.DrawImageOptions{})
}

// DrawEffects draws effect primitives onto dst.
func (tp *TerrainPainter) DrawEffects(dst *ebiten.Image, prims []Primitive) {
	for _, p := range prims {
		c := p.Bounds.Center()
		switch p.Shape {
		case ShapeCircle:
			r := float32(min(p.Bounds.W(), p.Bounds.H()) * 0.5)
			vector.DrawFilledCircle(dst, float32(c.X), float32(c.Y), r, p.Color, true)
		default:
			w, h := p.Bounds.W(), p.Bounds.H()
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Scale(w, h)
			op.GeoM.Translate(-w/2, -h/2)
			op.GeoM.Rotate(p.Rotation)
			op.GeoM.Translate(c.X, c.Y)
			op.ColorScale.ScaleWithColor(p.Color)
			dst.DrawImage(tp.pixel, op)
		}
	}
}
