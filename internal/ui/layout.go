package ui

import (
	"image"
	"image/color"
	"time"

	"terrasim/internal/core"
	"terrasim/internal/effect"
	"terrasim/internal/input"
)

// Intro screen shown before the simulation starts.
const (
	IntroText     = "Destroy the terrain!"
	IntroDuration = 3 * time.Second
)

const (
	buttonWidth   = 100
	buttonHeight  = 40
	buttonSpacing = 10
	toolbarLeft   = 10
	toolbarTop    = 10
)

// Button is one toolbar entry. Buttons with Select set choose an effect
// kind; the others reset the terrain.
type Button struct {
	Label  string
	Rect   image.Rectangle
	Kind   effect.Kind
	Select bool
}

// Toolbar is the fixed row of buttons along the top of the window.
type Toolbar struct {
	Buttons []Button
}

// NewToolbar lays out Reset followed by one button per effect kind.
func NewToolbar() *Toolbar {
	labels := []string{"Bubbles", "MoreBubbles", "Lightning", "Explosion"}
	tb := &Toolbar{}
	add := func(b Button) {
		x := toolbarLeft + len(tb.Buttons)*(buttonWidth+buttonSpacing)
		b.Rect = image.Rect(x, toolbarTop, x+buttonWidth, toolbarTop+buttonHeight)
		tb.Buttons = append(tb.Buttons, b)
	}
	add(Button{Label: "Reset"})
	for i, k := range effect.Kinds() {
		add(Button{Label: labels[i], Kind: k, Select: true})
	}
	return tb
}

// Bottom returns the first y coordinate below the toolbar.
func (t *Toolbar) Bottom() int { return toolbarTop + buttonHeight }

// Hit returns the button under (x, y).
func (t *Toolbar) Hit(x, y int) (Button, bool) {
	for _, b := range t.Buttons {
		if pointInRect(x, y, b.Rect) {
			return b, true
		}
	}
	return Button{}, false
}

// Click translates a left click at (x, y) into an input event: buttons
// select or reset, clicks below the toolbar spawn the selected kind.
func (t *Toolbar) Click(x, y int, selected effect.Kind) (input.Event, bool) {
	if b, ok := t.Hit(x, y); ok {
		if b.Select {
			return input.Event{Type: input.Select, Kind: b.Kind}, true
		}
		return input.Event{Type: input.Reset}, true
	}
	if y <= t.Bottom() {
		return input.Event{}, false
	}
	return input.Event{Type: input.Spawn, Kind: selected, Pos: core.Vec2{X: float64(x), Y: float64(y)}}, true
}

// ButtonColor returns the fill of b given the selected kind.
func ButtonColor(b Button, selected effect.Kind) color.RGBA {
	if b.Select && b.Kind == selected {
		return color.RGBA{R: 150, G: 150, B: 255, A: 255}
	}
	return color.RGBA{R: 100, G: 100, B: 200, A: 255}
}

func pointInRect(x, y int, rect image.Rectangle) bool {
	return x >= rect.Min.X && x < rect.Max.X && y >= rect.Min.Y && y < rect.Max.Y
}
