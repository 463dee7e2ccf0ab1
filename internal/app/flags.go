package app

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"runtime"
	"strings"
	"time"

	"terrasim/internal/noise"
	"terrasim/internal/sim"
)

// Minimum accepted values. Smaller settings are raised with a warning.
const (
	MinWidth    = 500
	MinHeight   = 300
	MinCellSize = 5
	MinTPS      = 15
)

// Config represents the command-line parameters shared by every frontend.
type Config struct {
	Width    int
	Height   int
	CellSize int
	Seed     int64
	Noise    string
	TPS      int
	Workers  int
	Listen   string
	Mute     bool
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Width:    700,
		Height:   500,
		CellSize: 5,
		Seed:     -1,
		Noise:    "perlin",
		TPS:      15,
		Workers:  runtime.NumCPU(),
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.IntVar(&c.Width, "width", c.Width, "world width in pixels")
	fs.IntVar(&c.Height, "height", c.Height, "world height in pixels")
	fs.IntVar(&c.CellSize, "cellsize", c.CellSize, "terrain cell size in pixels")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "terrain seed (-1 picks one at random)")
	fs.StringVar(&c.Noise, "noise", c.Noise, "terrain noise ("+strings.Join(noise.Kinds(), "|")+")")
	fs.IntVar(&c.TPS, "tps", c.TPS, "simulation ticks per second")
	fs.IntVar(&c.Workers, "workers", c.Workers, "parallel effect workers")
	fs.StringVar(&c.Listen, "listen", c.Listen, "spectator websocket address, empty to disable")
	fs.BoolVar(&c.Mute, "mute", c.Mute, "disable audio")
}

// SimConfig validates c and converts it into a simulation config. Values
// that cannot work are errors; values below the minimums are raised and
// logged.
func (c *Config) SimConfig() (sim.Config, error) {
	var errs []error
	if err := noise.Lookup(c.Noise); err != nil {
		errs = append(errs, err)
	}
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("world size must be positive, got %dx%d", c.Width, c.Height))
	}
	if c.CellSize <= 0 {
		errs = append(errs, fmt.Errorf("cell size must be positive, got %d", c.CellSize))
	}
	if c.TPS <= 0 {
		errs = append(errs, fmt.Errorf("tps must be positive, got %d", c.TPS))
	}
	if err := errors.Join(errs...); err != nil {
		return sim.Config{}, err
	}

	cfg := sim.DefaultConfig()
	cfg.Width = atLeast("width", c.Width, MinWidth)
	cfg.Height = atLeast("height", c.Height, MinHeight)
	cfg.CellSize = atLeast("cellsize", c.CellSize, MinCellSize)
	cfg.TPS = atLeast("tps", c.TPS, MinTPS)
	cfg.Width -= cfg.Width % cfg.CellSize
	cfg.Height -= cfg.Height % cfg.CellSize
	cfg.Noise = strings.ToLower(c.Noise)

	cfg.Seed = c.Seed
	if c.Seed == -1 {
		cfg.Seed = time.Now().UnixNano()
		cfg.RandomReset = true
	}
	cfg.Workers = c.Workers
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	cfg.Profiles = cfg.Profiles.Scale(cfg.TPS)
	return cfg, nil
}

func atLeast(name string, v, lo int) int {
	if v < lo {
		log.Printf("%s %d is below the minimum, using %d", name, v, lo)
		return lo
	}
	return v
}
