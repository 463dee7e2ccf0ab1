package input

import (
	"sync"
	"testing"

	"terrasim/internal/core"
	"terrasim/internal/effect"
)

func TestQueueDrainsExactlyPending(t *testing.T) {
	var q Queue
	q.SpawnAt(effect.Lightning, core.Vec2{X: 1, Y: 2})
	q.Push(Event{Type: Reset, Seed: 9, HasSeed: true})

	got := q.Drain()
	if len(got) != 2 || got[0].Kind != effect.Lightning || got[1].Seed != 9 {
		t.Fatalf("drained %+v", got)
	}
	if q.Len() != 0 || len(q.Drain()) != 0 {
		t.Fatal("events delivered twice")
	}
}

func TestQueueConcurrentPush(t *testing.T) {
	var q Queue
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				q.Push(Event{Type: Spawn})
			}
		}()
	}
	wg.Wait()
	if n := len(q.Drain()); n != 800 {
		t.Fatalf("drained %d events, want 800", n)
	}
}
