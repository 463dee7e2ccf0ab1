package ui

import (
	"fmt"
	"strings"
	"time"

	"terrasim/internal/core"
	"terrasim/internal/sim"
)

// Intro counts down the title screen.
type Intro struct {
	remaining time.Duration
}

// NewIntro starts a countdown of IntroDuration.
func NewIntro() *Intro { return &Intro{remaining: IntroDuration} }

// Advance consumes dt and reports whether the intro is still showing.
func (i *Intro) Advance(dt time.Duration) bool {
	if i.remaining > 0 {
		i.remaining -= dt
	}
	return i.Active()
}

// Active reports whether the intro is showing.
func (i *Intro) Active() bool { return i.remaining > 0 }

// Skip ends the intro immediately.
func (i *Intro) Skip() { i.remaining = 0 }

// StatusLine formats the one-line summary shown under the toolbar.
func StatusLine(st sim.Stats) string {
	line := fmt.Sprintf("%s | tick %d | effects %d | cells %d | destroyed %d | sounds %d | seed %d",
		st.Selected, st.Tick, st.Effects, st.AliveCells, st.Destroyed, st.Sounds, st.Seed)
	if st.Paused {
		line += " | paused"
	}
	return line
}

// ParameterLines formats a parameter snapshot as one line per group.
func ParameterLines(snap core.ParameterSnapshot) []string {
	lines := make([]string, 0, len(snap.Groups))
	for _, g := range snap.Groups {
		var b strings.Builder
		b.WriteString(g.Name)
		for _, p := range g.Params {
			fmt.Fprintf(&b, " | %s %s", p.Label, p.Value)
		}
		lines = append(lines, b.String())
	}
	return lines
}
