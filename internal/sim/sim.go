// Package sim runs the per-tick effect and terrain update.
package sim

import (
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"terrasim/internal/audio"
	"terrasim/internal/core"
	"terrasim/internal/effect"
	"terrasim/internal/input"
	"terrasim/internal/noise"
	"terrasim/internal/quadtree"
	"terrasim/internal/render"
	"terrasim/internal/terrain"
)

// Deps are the collaborators a simulation talks to. Nil fields fall back to
// no-op implementations.
type Deps struct {
	Renderer render.Backend
	Audio    audio.Backend
	Input    input.Source
	// Noise replaces the configured generator; it is reused on reset.
	Noise  noise.Generator
	Logger *log.Logger
}

// Stats summarises the simulation for status displays.
type Stats struct {
	Tick       uint64
	Effects    int
	AliveCells int
	Destroyed  int
	Sounds     int
	Seed       int64
	Selected   effect.Kind
	Paused     bool
	LastTick   time.Duration
}

// Sim owns the terrain, the effect pool and the per-tick pipeline.
type Sim struct {
	cfg      Config
	deps     Deps
	logger   *log.Logger
	profiles effect.Profiles

	grid  *terrain.Grid
	index *quadtree.Tree
	world effect.World

	rng      *core.RNG
	seed     int64
	effects  []effect.Effect
	outcomes []effect.Outcome
	cache    render.Cache
	sounds   audio.Tracker

	nextID    uint64
	tick      uint64
	selected  effect.Kind
	paused    bool
	stepOnce  bool
	destroyed int
	lastTick  time.Duration
}

// New validates cfg, generates the terrain and returns a ready simulation.
func New(cfg Config, deps Deps) (*Sim, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("sim: invalid config: %w", err)
	}
	if deps.Renderer == nil {
		deps.Renderer = render.Discard{}
	}
	if deps.Audio == nil {
		deps.Audio = &audio.Null{}
	}
	if deps.Input == nil {
		deps.Input = input.None{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = log.Default()
	}

	geom := cfg.Grid()
	s := &Sim{
		cfg:      cfg,
		deps:     deps,
		logger:   logger,
		profiles: cfg.Profiles,
		grid:     terrain.New(geom, terrain.Options{Seed: cfg.Seed, SoundChance: cfg.SoundChance}),
		index:    quadtree.New(geom.Bounds(), cfg.QuadCapacity, quadtree.DefaultMaxDepth),
		rng:      core.NewRNG(cfg.Seed),
		outcomes: make([]effect.Outcome, cfg.workers()),
	}
	s.world = effect.World{
		Bounds:   geom.Bounds(),
		Terrain:  s.grid,
		Index:    s.index,
		DT:       cfg.DT(),
		Profiles: &s.profiles,
	}
	if err := s.regenerate(cfg.Seed); err != nil {
		return nil, err
	}
	return s, nil
}

// Config returns the configuration the simulation was built with.
func (s *Sim) Config() Config { return s.cfg }

// Terrain exposes the grid for read-only use by frontends.
func (s *Sim) Terrain() *terrain.Grid { return s.grid }

// Effects returns the live pool. Callers must not modify it.
func (s *Sim) Effects() []effect.Effect { return s.effects }

// Selected returns the kind frontends spawn on click.
func (s *Sim) Selected() effect.Kind { return s.selected }

// Paused reports whether ticks are frozen.
func (s *Sim) Paused() bool { return s.paused }

// Tick runs one simulation step and submits the frame.
func (s *Sim) Tick() {
	start := time.Now()
	s.applyInput()
	s.sounds.Prune(s.deps.Audio)
	if !s.paused || s.stepOnce {
		s.stepOnce = false
		effect.IndexTerrain(s.index, s.grid)
		chunks := s.stepEffects()
		s.merge(chunks)
		s.compact()
		s.tick++
	}
	s.submit()
	s.lastTick = time.Since(start)
}

// Spawn adds an effect of kind k at pos heading in a random direction and
// reports whether the pool had room. Positions outside the world are
// clamped inside.
func (s *Sim) Spawn(k effect.Kind, pos core.Vec2) bool {
	if len(s.effects) >= s.cfg.MaxEffects {
		return false
	}
	p := s.profiles.For(k)
	pos = s.world.Bounds.Clamp(pos, p.Radius)
	s.nextID++
	s.effects = append(s.effects, effect.New(s.nextID, k, pos, s.rng.Angle(), p))
	return true
}

func (s *Sim) applyInput() {
	for _, ev := range s.deps.Input.Drain() {
		switch ev.Type {
		case input.Spawn:
			s.Spawn(ev.Kind, ev.Pos)
		case input.Select:
			s.selected = ev.Kind
			s.play(audio.SoundClick)
		case input.Reset:
			seed := ev.Seed
			if !ev.HasSeed {
				seed = s.cfg.Seed
				if s.cfg.RandomReset {
					seed = s.rng.Int64()
				}
			}
			if err := s.regenerate(seed); err != nil {
				s.logger.Printf("sim: reset failed: %v", err)
			}
			s.play(audio.SoundClick)
		case input.Pause:
			s.paused = !s.paused
		case input.StepOnce:
			s.stepOnce = true
		}
	}
}

func (s *Sim) regenerate(seed int64) error {
	gen := s.deps.Noise
	if gen == nil {
		var err error
		gen, err = noise.New(s.cfg.Noise, noise.DefaultOptions(seed))
		if err != nil {
			return fmt.Errorf("sim: build noise: %w", err)
		}
	}
	s.seed = seed
	s.grid.Regenerate(seed, gen)
	s.effects = s.effects[:0]
	s.destroyed = 0
	s.logger.Printf("terrain generated: %dx%d cells, seed %d, %s noise, %d solid",
		s.grid.Geometry().Cols, s.grid.Geometry().Rows, seed, s.cfg.Noise, s.grid.AliveCount())
	return nil
}

// stepEffects advances the pool in contiguous chunks, one goroutine per
// chunk. Each chunk writes only its own effects and its own outcome.
func (s *Sim) stepEffects() int {
	n := len(s.effects)
	if n == 0 {
		return 0
	}
	workers := min(len(s.outcomes), n)
	size := (n + workers - 1) / workers
	chunks := (n + size - 1) / size

	var g errgroup.Group
	g.SetLimit(workers)
	for c := 0; c < chunks; c++ {
		lo, hi := c*size, min((c+1)*size, n)
		out := &s.outcomes[c]
		out.Reset()
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				e := &s.effects[i]
				rng := core.DeriveRNG(s.seed, s.tick, e.ID)
				effect.Step(e, &s.world, rng, out)
			}
			return nil
		})
	}
	_ = g.Wait()
	return chunks
}

// merge applies the buffered outcomes in chunk order.
func (s *Sim) merge(chunks int) {
	for c := 0; c < chunks; c++ {
		for _, cell := range s.outcomes[c].Damage {
			if s.grid.Damage(cell.Col, cell.Row) {
				s.destroyed++
			}
		}
	}
	for c := 0; c < chunks; c++ {
		for _, k := range s.outcomes[c].Sounds {
			s.play(k)
		}
	}
	for _, ev := range s.grid.TakeEvents() {
		s.play(ev.Kind)
	}

	live := 0
	for i := range s.effects {
		if s.effects[i].Alive {
			live++
		}
	}
	budget := min(s.cfg.MaxSpawnPerTick, s.cfg.MaxEffects-live)
	for c := 0; c < chunks && budget > 0; c++ {
		for _, child := range s.outcomes[c].Spawn {
			if budget == 0 {
				break
			}
			s.nextID++
			child.ID = s.nextID
			s.effects = append(s.effects, child)
			budget--
		}
	}
}

func (s *Sim) play(k audio.Kind) {
	s.sounds.Add(s.deps.Audio.Play(k))
}

// compact drops dead effects, keeping the order of the survivors.
func (s *Sim) compact() {
	kept := s.effects[:0]
	for _, e := range s.effects {
		if e.Alive {
			kept = append(kept, e)
		}
	}
	clear(s.effects[len(kept):])
	s.effects = kept
}

func (s *Sim) submit() {
	s.cache.Begin()
	for i := range s.effects {
		e := &s.effects[i]
		s.cache.Add(e.Primitive(s.profiles.For(e.Kind)))
	}
	s.deps.Renderer.SubmitBatch(s.grid.Batch(), s.cache.Effects())
}

// Stats returns a snapshot for status displays.
func (s *Sim) Stats() Stats {
	return Stats{
		Tick:       s.tick,
		Effects:    len(s.effects),
		AliveCells: s.grid.AliveCount(),
		Destroyed:  s.destroyed,
		Sounds:     s.sounds.Len(),
		Seed:       s.seed,
		Selected:   s.selected,
		Paused:     s.paused,
		LastTick:   s.lastTick,
	}
}

// Parameters returns the run's settings grouped for display.
func (s *Sim) Parameters() core.ParameterSnapshot {
	geom := s.grid.Geometry()
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{Name: "World", Params: []core.Parameter{
			core.IntParam("cols", "Columns", geom.Cols),
			core.IntParam("rows", "Rows", geom.Rows),
			core.IntParam("cellsize", "Cell size", s.cfg.CellSize),
			core.Int64Param("seed", "Seed", s.seed),
			core.StringParam("noise", "Noise", s.cfg.Noise),
		}},
		{Name: "Simulation", Params: []core.Parameter{
			core.IntParam("tps", "Ticks/s", s.cfg.TPS),
			core.IntParam("workers", "Workers", s.cfg.workers()),
			core.IntParam("max_effects", "Max effects", s.cfg.MaxEffects),
			core.FloatParam("sound_chance", "Sound chance", s.cfg.SoundChance),
			core.StringParam("selected", "Selected", s.selected.String()),
		}},
	}}
}
