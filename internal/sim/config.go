package sim

import (
	"errors"
	"fmt"
	"runtime"

	"terrasim/internal/core"
	"terrasim/internal/effect"
	"terrasim/internal/noise"
	"terrasim/internal/quadtree"
	"terrasim/internal/terrain"
)

// Config is the immutable description of a run. Build it once at startup
// and pass it by value.
type Config struct {
	Width    int // world pixels, a multiple of CellSize
	Height   int
	CellSize int

	// Seed drives terrain, the spawn RNG and per-effect streams.
	Seed int64
	// RandomReset picks a fresh seed on every terrain reset instead of
	// reusing Seed.
	RandomReset bool
	Noise       string

	TPS     int
	Workers int

	MaxEffects      int
	MaxSpawnPerTick int
	SoundChance     float64
	QuadCapacity    int

	Profiles effect.Profiles
}

// DefaultConfig returns the stock 700x500 world.
func DefaultConfig() Config {
	return Config{
		Width:           700,
		Height:          500,
		CellSize:        5,
		Seed:            1,
		Noise:           "perlin",
		TPS:             15,
		Workers:         runtime.NumCPU(),
		MaxEffects:      2000,
		MaxSpawnPerTick: 10,
		SoundChance:     terrain.DefaultSoundChance,
		QuadCapacity:    quadtree.DefaultCapacity,
		Profiles:        effect.DefaultProfiles(),
	}
}

// Validate reports configuration errors that make a run impossible.
func (c Config) Validate() error {
	var errs []error
	if c.CellSize <= 0 {
		errs = append(errs, fmt.Errorf("cell size must be positive, got %d", c.CellSize))
	}
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("world size must be positive, got %dx%d", c.Width, c.Height))
	} else if c.CellSize > 0 && (c.Width < c.CellSize || c.Height < c.CellSize) {
		errs = append(errs, fmt.Errorf("world %dx%d is smaller than one %d px cell", c.Width, c.Height, c.CellSize))
	}
	if c.TPS <= 0 {
		errs = append(errs, fmt.Errorf("tps must be positive, got %d", c.TPS))
	}
	if err := noise.Lookup(c.Noise); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Grid returns the cell layout of the world.
func (c Config) Grid() core.Grid {
	return core.NewGrid(c.Width/c.CellSize, c.Height/c.CellSize, float64(c.CellSize))
}

// DT returns the tick length in seconds.
func (c Config) DT() float64 { return 1 / float64(c.TPS) }

func (c Config) workers() int {
	if c.Workers <= 0 {
		return 1
	}
	return c.Workers
}
