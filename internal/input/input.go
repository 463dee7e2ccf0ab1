// Package input carries frontend requests into the simulation.
package input

import (
	"sync"

	"terrasim/internal/core"
	"terrasim/internal/effect"
)

// Type discriminates events.
type Type uint8

const (
	// Spawn places an effect of Kind at Pos.
	Spawn Type = iota
	// Select changes the kind spawned by frontends that click.
	Select
	// Reset regenerates the terrain. Seed replaces the configured one when
	// HasSeed is set.
	Reset
	// Pause toggles the simulation clock.
	Pause
	// StepOnce advances one tick while paused.
	StepOnce
)

// Event is one request.
type Event struct {
	Type Type
	Pos  core.Vec2
	Kind effect.Kind

	Seed    int64
	HasSeed bool
}

// Source is drained once per tick.
type Source interface {
	Drain() []Event
}

// Queue is a FIFO safe for producers on other goroutines.
type Queue struct {
	mu      sync.Mutex
	pending []Event
	spare   []Event
}

// Push appends ev.
func (q *Queue) Push(ev Event) {
	q.mu.Lock()
	q.pending = append(q.pending, ev)
	q.mu.Unlock()
}

// SpawnAt is shorthand for pushing a Spawn event.
func (q *Queue) SpawnAt(kind effect.Kind, pos core.Vec2) {
	q.Push(Event{Type: Spawn, Kind: kind, Pos: pos})
}

// Drain returns exactly the events pushed since the previous Drain. The
// returned slice is valid until the next call.
func (q *Queue) Drain() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.pending
	q.pending = q.spare[:0]
	q.spare = out
	return out
}

// Len reports how many events are pending.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// None is a Source with no events.
type None struct{}

// Drain implements Source.
func (None) Drain() []Event { return nil }
