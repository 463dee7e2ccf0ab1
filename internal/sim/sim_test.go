package sim

import (
	"errors"
	"io"
	"log"
	"slices"
	"testing"

	"terrasim/internal/audio"
	"terrasim/internal/core"
	"terrasim/internal/effect"
	"terrasim/internal/input"
	"terrasim/internal/noise"
	"terrasim/internal/render"
	"terrasim/internal/terrain"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 200, 150
	cfg.Seed = 11
	cfg.Workers = 4
	return cfg
}

func newSim(t *testing.T, cfg Config, deps Deps) *Sim {
	t.Helper()
	if deps.Logger == nil {
		deps.Logger = log.New(io.Discard, "", 0)
	}
	s, err := New(cfg, deps)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestBubbleExpiresAfterLifetime(t *testing.T) {
	cfg := testConfig()
	cfg.Profiles[effect.Bubbles].Speed = 0
	cfg.Profiles[effect.Bubbles].Lifetime = 3
	cfg.Profiles[effect.Bubbles].SplitChance = 0

	var q input.Queue
	rec := &render.Recorder{}
	s := newSim(t, cfg, Deps{Input: &q, Renderer: rec, Noise: noise.Constant(-1)})
	q.SpawnAt(effect.Bubbles, core.Vec2{X: 10, Y: 10})

	s.Tick()
	if len(s.Effects()) != 1 || len(rec.Effects) != 1 {
		t.Fatalf("after one tick: %d effects, %d drawn", len(s.Effects()), len(rec.Effects))
	}
	if p := s.Effects()[0].Pos; p != (core.Vec2{X: 10, Y: 10}) {
		t.Fatalf("zero-speed bubble moved to %v", p)
	}
	s.Tick()
	s.Tick()
	if n := len(s.Effects()); n != 0 {
		t.Fatalf("%d effects alive after 3 ticks", n)
	}
	if st := s.Stats(); st.Destroyed != 0 || st.Tick != 3 {
		t.Fatalf("stats = %+v", st)
	}
	if rec.Frames != 3 || len(rec.Effects) != 0 {
		t.Fatalf("frames=%d effects drawn=%d", rec.Frames, len(rec.Effects))
	}
}

func runScripted(t *testing.T, workers int) *Sim {
	t.Helper()
	cfg := testConfig()
	cfg.Workers = workers
	var q input.Queue
	s := newSim(t, cfg, Deps{Input: &q})
	kinds := effect.Kinds()
	for i := 0; i < 24; i++ {
		q.SpawnAt(kinds[i%len(kinds)], core.Vec2{X: float64(8 * i), Y: float64(6 * i)})
	}
	for i := 0; i < 40; i++ {
		s.Tick()
	}
	return s
}

func TestTickIndependentOfWorkerCount(t *testing.T) {
	base := runScripted(t, 1)
	for _, w := range []int{2, 3, 8} {
		other := runScripted(t, w)
		if !slices.Equal(base.Effects(), other.Effects()) {
			t.Fatalf("workers=%d: effect pools differ", w)
		}
		if !slices.Equal(base.Terrain().Batch().Entries(), other.Terrain().Batch().Entries()) {
			t.Fatalf("workers=%d: terrain differs", w)
		}
		if base.Stats().Destroyed != other.Stats().Destroyed {
			t.Fatalf("workers=%d: destroyed %d vs %d", w, other.Stats().Destroyed, base.Stats().Destroyed)
		}
	}
	if base.Stats().Destroyed == 0 {
		t.Fatal("scripted run destroyed nothing")
	}
}

func TestSpawnedChildrenAreCapped(t *testing.T) {
	cfg := testConfig()
	cfg.Profiles[effect.MoreBubbles].SplitChance = 1

	var q input.Queue
	s := newSim(t, cfg, Deps{Input: &q, Noise: noise.Constant(-1)})
	for i := 0; i < 3; i++ {
		q.SpawnAt(effect.MoreBubbles, core.Vec2{X: 100, Y: 75})
	}
	s.Tick()
	if n := len(s.Effects()); n != 3+cfg.MaxSpawnPerTick {
		t.Fatalf("%d effects, want %d", n, 3+cfg.MaxSpawnPerTick)
	}
	seen := map[uint64]bool{}
	for _, e := range s.Effects() {
		if seen[e.ID] {
			t.Fatalf("duplicate effect id %d", e.ID)
		}
		seen[e.ID] = true
	}
}

func TestExplosionDamagesTerrainAndRepaintsBatch(t *testing.T) {
	var q input.Queue
	rec := &render.Recorder{}
	s := newSim(t, testConfig(), Deps{Input: &q, Renderer: rec, Noise: noise.Constant(0.5)})
	before := s.Terrain().AliveCount()

	_, start, _ := s.Terrain().Batch().ChangesSince(render.Cursor{})
	q.SpawnAt(effect.Explosion, core.Vec2{X: 100, Y: 75})
	s.Tick()

	destroyed := s.Stats().Destroyed
	if destroyed == 0 || s.Terrain().AliveCount() != before-destroyed {
		t.Fatalf("destroyed %d, alive %d of %d", destroyed, s.Terrain().AliveCount(), before)
	}
	changed, _, full := rec.Terrain.ChangesSince(start)
	if full || len(changed) != destroyed {
		t.Fatalf("%d batch changes (full %v), want %d", len(changed), full, destroyed)
	}
	for _, i := range changed {
		if rec.Terrain.At(i).Color != terrain.ClearedColor {
			t.Fatalf("cell %d not cleared", i)
		}
	}
	if len(s.Effects()) != 0 {
		t.Fatal("explosion outlived its blast")
	}
}

type countingAudio struct {
	next     audio.Handle
	played   []audio.Kind
	finished map[audio.Handle]bool
}

func (c *countingAudio) Play(k audio.Kind) audio.Handle {
	c.next++
	c.played = append(c.played, k)
	return c.next
}

func (c *countingAudio) IsFinished(h audio.Handle) bool { return c.finished[h] }

func TestSoundsTrackedUntilFinished(t *testing.T) {
	var q input.Queue
	a := &countingAudio{finished: map[audio.Handle]bool{}}
	s := newSim(t, testConfig(), Deps{Input: &q, Audio: a, Noise: noise.Constant(-1)})

	q.Push(input.Event{Type: input.Select, Kind: effect.Lightning})
	s.Tick()
	if s.Selected() != effect.Lightning {
		t.Fatalf("selected = %s", s.Selected())
	}
	if !slices.Equal(a.played, []audio.Kind{audio.SoundClick}) || s.Stats().Sounds != 1 {
		t.Fatalf("played %v, tracking %d", a.played, s.Stats().Sounds)
	}
	s.Tick()
	if s.Stats().Sounds != 1 {
		t.Fatal("unfinished sound pruned")
	}
	a.finished[1] = true
	s.Tick()
	if s.Stats().Sounds != 0 {
		t.Fatal("finished sound still tracked")
	}
}

func TestResetRegeneratesWithSeed(t *testing.T) {
	var q input.Queue
	s := newSim(t, testConfig(), Deps{Input: &q})
	gen := s.Terrain().Batch().Generation()
	q.SpawnAt(effect.Bubbles, core.Vec2{X: 50, Y: 50})
	s.Tick()

	q.Push(input.Event{Type: input.Reset, Seed: 99, HasSeed: true})
	s.Tick()
	if s.Stats().Seed != 99 {
		t.Fatalf("seed = %d", s.Stats().Seed)
	}
	if len(s.Effects()) != 0 {
		t.Fatal("reset kept effects")
	}
	if s.Terrain().Batch().Generation() == gen {
		t.Fatal("reset did not rebuild the batch")
	}
	if v, ok := paramValue(s.Parameters(), "seed"); !ok || v != "99" {
		t.Fatalf("seed parameter = %q", v)
	}
}

func TestPauseFreezesTicks(t *testing.T) {
	var q input.Queue
	s := newSim(t, testConfig(), Deps{Input: &q})
	q.Push(input.Event{Type: input.Pause})
	s.Tick()
	s.Tick()
	if s.Stats().Tick != 0 || !s.Paused() {
		t.Fatalf("paused sim advanced to tick %d", s.Stats().Tick)
	}
	q.Push(input.Event{Type: input.StepOnce})
	s.Tick()
	if s.Stats().Tick != 1 {
		t.Fatalf("single step reached tick %d", s.Stats().Tick)
	}
}

func TestValidateRejectsBadConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Noise = "worley"
	if _, err := New(cfg, Deps{}); !errors.Is(err, noise.ErrUnknownKind) {
		t.Fatalf("err = %v, want ErrUnknownKind", err)
	}
	cfg = testConfig()
	cfg.Width = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("zero width accepted")
	}
	cfg = testConfig()
	cfg.TPS = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("negative tps accepted")
	}
}

func paramValue(snap core.ParameterSnapshot, key string) (string, bool) {
	for _, g := range snap.Groups {
		for _, p := range g.Params {
			if p.Key == key {
				return p.Value, true
			}
		}
	}
	return "", false
}

func TestResetHonoursSeedZero(t *testing.T) {
	cfg := testConfig()
	cfg.Seed = 5
	cfg.RandomReset = true
	var q input.Queue
	s := newSim(t, cfg, Deps{Input: &q})

	q.Push(input.Event{Type: input.Reset, HasSeed: true})
	s.Tick()
	if got := s.Stats().Seed; got != 0 {
		t.Fatalf("seed after reset = %d, want 0", got)
	}

	q.Push(input.Event{Type: input.Reset})
	s.Tick()
	if got := s.Stats().Seed; got == 0 {
		t.Fatal("reset without a seed reused the requested one")
	}
}

func TestSoundsPrunedWhilePaused(t *testing.T) {
	var q input.Queue
	a := &countingAudio{finished: map[audio.Handle]bool{}}
	s := newSim(t, testConfig(), Deps{Input: &q, Audio: a, Noise: noise.Constant(-1)})

	q.Push(input.Event{Type: input.Pause})
	q.Push(input.Event{Type: input.Select, Kind: effect.Bubbles})
	s.Tick()
	if !s.Paused() || s.Stats().Sounds != 1 {
		t.Fatalf("paused=%v tracking %d", s.Paused(), s.Stats().Sounds)
	}
	a.finished[1] = true
	s.Tick()
	if s.Stats().Sounds != 0 {
		t.Fatal("finished sound still tracked while paused")
	}
	if s.Stats().Tick != 0 {
		t.Fatalf("tick advanced to %d while paused", s.Stats().Tick)
	}
}
