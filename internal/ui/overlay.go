//go:build ebiten

package ui

import (
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// Overlay draws the intro title until its countdown ends.
type Overlay struct {
	intro *Intro
}

// NewOverlay constructs an overlay showing the intro.
func NewOverlay() *Overlay {
	return &Overlay{intro: NewIntro()}
}

// Update advances the intro by dt and reports whether it is still showing.
func (o *Overlay) Update(dt time.Duration) bool {
	return o.intro.Advance(dt)
}

// Skip dismisses the intro.
func (o *Overlay) Skip() { o.intro.Skip() }

// Active reports whether the intro covers the screen.
func (o *Overlay) Active() bool { return o.intro.Active() }

// Draw paints the intro title centred on a white screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	if !o.intro.Active() {
		return
	}
	screen.Fill(color.White)
	face := basicfont.Face7x13
	b := text.BoundString(face, IntroText)
	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	text.Draw(screen, IntroText, face, (sw-b.Dx())/2, (sh+b.Dy())/2, color.Black)
}
