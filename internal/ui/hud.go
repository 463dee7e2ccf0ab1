//go:build ebiten

package ui

import (
	"image"
	"image/color"

	"terrasim/internal/core"
	"terrasim/internal/effect"
	"terrasim/internal/sim"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

type statsProvider interface {
	Stats() sim.Stats
}

type parameterProvider interface {
	Parameters() core.ParameterSnapshot
}

// HUD draws the toolbar, the status line and, when toggled, the parameter
// panel over the terrain.
type HUD struct {
	toolbar    *Toolbar
	source     statsProvider
	status     string
	showParams bool
	params     []string

	pixel *ebiten.Image
}

// NewHUD constructs a HUD for the provided toolbar and stats source.
func NewHUD(toolbar *Toolbar, source statsProvider) *HUD {
	h := &HUD{toolbar: toolbar, source: source}
	h.pixel = ebiten.NewImage(1, 1)
	h.pixel.Fill(color.White)
	return h
}

// ToggleParameters shows or hides the parameter panel.
func (h *HUD) ToggleParameters() {
	if h != nil {
		h.showParams = !h.showParams
	}
}

// Update refreshes the cached status line and parameter panel.
func (h *HUD) Update() {
	if h == nil || h.source == nil {
		return
	}
	h.status = StatusLine(h.source.Stats())
	h.params = h.params[:0]
	if provider, ok := h.source.(parameterProvider); ok && h.showParams {
		h.params = ParameterLines(provider.Parameters())
	}
}

// Draw paints the toolbar with the selected kind highlighted.
func (h *HUD) Draw(screen *ebiten.Image, selected effect.Kind) {
	if h == nil {
		return
	}
	for _, b := range h.toolbar.Buttons {
		h.drawButton(screen, b.Rect, b.Label, ButtonColor(b, selected))
	}
	if h.status != "" {
		y := h.toolbar.Bottom() + statusBaseline
		h.fill(screen, image.Rect(0, y-statusBaseline+4, screen.Bounds().Dx(), y+4), color.RGBA{R: 255, G: 255, B: 255, A: 200})
		text.Draw(screen, h.status, basicfont.Face7x13, toolbarLeft, y, color.Black)
	}
	if len(h.params) > 0 {
		top := h.toolbar.Bottom() + statusBaseline + 8
		bottom := top + len(h.params)*statusBaseline + 4
		h.fill(screen, image.Rect(0, top, screen.Bounds().Dx(), bottom), color.RGBA{R: 30, G: 30, B: 40, A: 200})
		for i, line := range h.params {
			text.Draw(screen, line, basicfont.Face7x13, toolbarLeft, top+(i+1)*statusBaseline, color.White)
		}
	}
}

func (h *HUD) fill(dst *ebiten.Image, rect image.Rectangle, c color.RGBA) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(rect.Dx()), float64(rect.Dy()))
	op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
	op.ColorScale.ScaleWithColor(c)
	dst.DrawImage(h.pixel, op)
}

func (h *HUD) drawButton(dst *ebiten.Image, rect image.Rectangle, label string, bg color.RGBA) {
	h.fill(dst, rect, bg)

	face := basicfont.Face7x13
	bounds := text.BoundString(face, label)
	textWidth := bounds.Dx()
	textHeight := bounds.Dy()
	x := rect.Min.X + (rect.Dx()-textWidth)/2
	y := rect.Min.Y + (rect.Dy()-textHeight)/2 + textHeight
	text.Draw(dst, label, face, x, y, color.Black)
}

const statusBaseline = 16
