package term

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"

	"terrasim/internal/core"
	"terrasim/internal/effect"
	"terrasim/internal/input"
	"terrasim/internal/sim"
	"terrasim/internal/ui"
)

// Runner drives a simulation from terminal input at a fixed tick rate.
type Runner struct {
	screen   tcell.Screen
	sim      *sim.Sim
	queue    *input.Queue
	renderer *Renderer
	step     *core.FixedStep
	intro    *ui.Intro

	buttons    tcell.ButtonMask
	showParams bool
}

// NewRunner wires a runner. The simulation must drain queue and render to
// renderer.
func NewRunner(screen tcell.Screen, s *sim.Sim, queue *input.Queue, renderer *Renderer) *Runner {
	return &Runner{
		screen:   screen,
		sim:      s,
		queue:    queue,
		renderer: renderer,
		step:     core.NewFixedStep(s.Config().TPS),
		intro:    ui.NewIntro(),
	}
}

// HandleEvent translates one terminal event and reports whether the loop
// should keep running.
func (r *Runner) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if r.intro.Active() {
			r.intro.Skip()
			return ev.Key() != tcell.KeyEscape
		}
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyRune:
			return r.handleRune(ev.Rune())
		}
	case *tcell.EventMouse:
		pressed := ev.Buttons() & tcell.Button1
		fresh := pressed != 0 && r.buttons&tcell.Button1 == 0
		r.buttons = ev.Buttons()
		if fresh && !r.intro.Active() {
			x, y := ev.Position()
			if _, h := r.renderer.viewport(); y < h {
				r.queue.SpawnAt(r.sim.Selected(), r.renderer.ToWorld(x, y))
			}
		}
	case *tcell.EventResize:
		r.screen.Sync()
	}
	return true
}

func (r *Runner) handleRune(ch rune) bool {
	kinds := effect.Kinds()
	switch {
	case ch == 'q' || ch == 'Q':
		return false
	case ch >= '1' && int(ch-'1') < len(kinds):
		r.queue.Push(input.Event{Type: input.Select, Kind: kinds[ch-'1']})
	case ch == 'r' || ch == 'R':
		r.queue.Push(input.Event{Type: input.Reset})
	case ch == ' ':
		r.queue.Push(input.Event{Type: input.Pause})
	case ch == 'n' || ch == 'N':
		r.queue.Push(input.Event{Type: input.StepOnce})
	case ch == 'p' || ch == 'P':
		r.showParams = !r.showParams
	}
	return true
}

// Frame runs the ticks that are due and redraws.
func (r *Runner) Frame() {
	due := r.step.Due()
	if r.intro.Active() {
		r.intro.Advance(time.Duration(due) * r.step.Step())
		r.drawIntro()
		return
	}
	for i := 0; i < due; i++ {
		r.sim.Tick()
	}
	var panel []string
	if r.showParams {
		panel = ui.ParameterLines(r.sim.Parameters())
	}
	r.renderer.Draw(ui.StatusLine(r.sim.Stats()), panel)
}

func (r *Runner) drawIntro() {
	r.screen.Clear()
	w, h := r.screen.Size()
	text := []rune(ui.IntroText)
	x0 := max((w-len(text))/2, 0)
	for i, ch := range text {
		r.screen.SetContent(x0+i, h/2, ch, nil, tcell.StyleDefault.Bold(true))
	}
	r.screen.Show()
}

// Run polls input and ticks until the user quits or ctx ends.
func (r *Runner) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 100)
	quit := make(chan struct{})
	defer close(quit)
	go r.screen.ChannelEvents(events, quit)

	ticker := time.NewTicker(r.step.Step())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok || !r.HandleEvent(ev) {
				return nil
			}
		case <-ticker.C:
			r.Frame()
		}
	}
}
