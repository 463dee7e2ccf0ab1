//go:build !ebiten

package ui

import "time"

// Overlay tracks the intro countdown without drawing it.
type Overlay struct {
	intro *Intro
}

// NewOverlay constructs a stub overlay.
func NewOverlay() *Overlay { return &Overlay{intro: NewIntro()} }

// Update advances the intro countdown.
func (o *Overlay) Update(dt time.Duration) bool { return o.intro.Advance(dt) }

// Skip dismisses the intro.
func (o *Overlay) Skip() { o.intro.Skip() }

// Active reports whether the intro is showing.
func (o *Overlay) Active() bool { return o.intro.Active() }

// Draw is a no-op placeholder.
func (o *Overlay) Draw(any) {}
