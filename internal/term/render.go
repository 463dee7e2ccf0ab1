// Package term is a terminal frontend drawing the simulation with tcell.
package term

import (
	"image/color"
	"sync"

	"github.com/gdamore/tcell/v2"

	"terrasim/internal/core"
	"terrasim/internal/render"
	"terrasim/internal/terrain"
)

const effectRune = '●'

// Renderer samples the world onto character cells. The last screen row is
// reserved for the status line.
type Renderer struct {
	screen tcell.Screen
	geom   core.Grid

	mu      sync.Mutex
	terrain *render.TerrainBatch
	effects []render.Primitive
}

// NewRenderer draws a world laid out as geom onto screen.
func NewRenderer(screen tcell.Screen, geom core.Grid) *Renderer {
	return &Renderer{screen: screen, geom: geom}
}

// SubmitBatch implements render.Backend.
func (r *Renderer) SubmitBatch(batch *render.TerrainBatch, effects []render.Primitive) {
	r.mu.Lock()
	r.terrain = batch
	r.effects = append(r.effects[:0], effects...)
	r.mu.Unlock()
}

// viewport returns the drawable size in character cells.
func (r *Renderer) viewport() (int, int) {
	w, h := r.screen.Size()
	return w, max(h-1, 1)
}

// ToWorld maps the centre of screen cell (x, y) into world pixels.
func (r *Renderer) ToWorld(x, y int) core.Vec2 {
	w, h := r.viewport()
	b := r.geom.Bounds()
	return core.Vec2{
		X: (float64(x) + 0.5) * b.W() / float64(w),
		Y: (float64(y) + 0.5) * b.H() / float64(h),
	}
}

// Draw paints the latest frame, then panel lines from the top row down and
// the status on the last row, then shows the screen.
func (r *Renderer) Draw(status string, panel []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, h := r.viewport()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := r.ToWorld(x, y)
			bg := terrain.ClearedColor
			if r.terrain != nil {
				c := r.geom.CellOf(p)
				if r.geom.InBounds(c.Col, c.Row) {
					bg = r.terrain.At(r.geom.Index(c.Col, c.Row)).Color
				}
			}
			style := tcell.StyleDefault.Background(tcellColor(bg))
			ch := ' '
			if fg := render.SampleColor(r.effects, p.X, p.Y, bg); fg != bg {
				style = style.Foreground(tcellColor(fg))
				ch = effectRune
			}
			r.screen.SetContent(x, y, ch, nil, style)
		}
	}

	panelStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	for y, line := range panel {
		if y >= h {
			break
		}
		r.drawRow(y, line, panelStyle)
	}
	_, sh := r.screen.Size()
	r.drawRow(sh-1, status, tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite))
	r.screen.Show()
}

func (r *Renderer) drawRow(y int, line string, style tcell.Style) {
	sw, _ := r.screen.Size()
	runes := []rune(line)
	for x := 0; x < sw; x++ {
		ch := ' '
		if x < len(runes) {
			ch = runes[x]
		}
		r.screen.SetContent(x, y, ch, nil, style)
	}
}

func tcellColor(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
