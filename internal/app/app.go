//go:build ebiten

package app

import (
	"time"

	"terrasim/internal/effect"
	"terrasim/internal/input"
	"terrasim/internal/render"
	"terrasim/internal/sim"
	"terrasim/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Game adapts the simulation to the ebiten.Game interface. It is also the
// simulation's render backend: SubmitBatch stores the frame that Draw
// paints.
type Game struct {
	sim     *sim.Sim
	queue   *input.Queue
	painter *render.TerrainPainter
	toolbar *ui.Toolbar
	hud     *ui.HUD
	overlay *ui.Overlay

	terrain *render.TerrainBatch
	effects []render.Primitive

	w, h int
	tick time.Duration
}

// New constructs a Game for a world of the configured size. Events are
// pushed to queue, which the simulation must drain.
func New(cfg sim.Config, queue *input.Queue) *Game {
	tb := ui.NewToolbar()
	return &Game{
		queue:   queue,
		painter: render.NewTerrainPainter(cfg.Width, cfg.Height),
		toolbar: tb,
		overlay: ui.NewOverlay(),
		w:       cfg.Width,
		h:       cfg.Height,
		tick:    time.Second / time.Duration(cfg.TPS),
	}
}

// Attach binds the simulation driven by Update.
func (g *Game) Attach(s *sim.Sim) {
	g.sim = s
	g.hud = ui.NewHUD(g.toolbar, s)
}

// SubmitBatch implements render.Backend.
func (g *Game) SubmitBatch(terrain *render.TerrainBatch, effects []render.Primitive) {
	g.terrain = terrain
	g.effects = append(g.effects[:0], effects...)
}

// Update handles per-frame logic and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if g.overlay.Active() {
		if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
			g.overlay.Skip()
		}
		g.overlay.Update(g.tick)
		return nil
	}

	kinds := effect.Kinds()
	for i, key := range []ebiten.Key{ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3, ebiten.KeyDigit4} {
		if inpututil.IsKeyJustPressed(key) {
			g.queue.Push(input.Event{Type: input.Select, Kind: kinds[i]})
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.queue.Push(input.Event{Type: input.Pause})
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.queue.Push(input.Event{Type: input.StepOnce})
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.hud.ToggleParameters()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.queue.Push(input.Event{Type: input.Reset})
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		if ev, ok := g.toolbar.Click(mx, my, g.sim.Selected()); ok {
			g.queue.Push(ev)
		}
	}

	g.sim.Tick()
	g.hud.Update()
	return nil
}

// Draw renders the current simulation state.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.overlay.Active() {
		g.overlay.Draw(screen)
		return
	}
	g.painter.Sync(g.terrain)
	g.painter.Draw(screen)
	g.painter.DrawEffects(screen, g.effects)
	g.hud.Draw(screen, g.sim.Selected())
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.w, g.h
}
