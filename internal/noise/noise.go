// Package noise wraps interchangeable coherent-noise algorithms behind a
// single sampling interface used by terrain generation.
package noise

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownKind is returned when a generator name is not registered.
var ErrUnknownKind = errors.New("unknown noise kind")

// Generator samples a deterministic scalar field at integer grid coordinates.
// Values are roughly in [-1, 1]; every input is valid.
type Generator interface {
	Sample(x, y int) float64
}

// Options controls how a generator is constructed.
type Options struct {
	Seed int64
	// Scale maps grid coordinates to noise space.
	Scale float64
	// Octaves is used by fractal variants.
	Octaves int
}

// DefaultOptions returns the scale and octave count used for terrain.
func DefaultOptions(seed int64) Options {
	return Options{Seed: seed, Scale: 0.05, Octaves: 6}
}

func (o Options) normalized() Options {
	if o.Scale <= 0 {
		o.Scale = 0.05
	}
	if o.Octaves <= 0 {
		o.Octaves = 6
	}
	return o
}

// Factory constructs a Generator.
type Factory func(opts Options) Generator

var kinds = map[string]Factory{}

// Register adds a generator factory under the provided name.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	kinds[strings.ToLower(name)] = f
}

// Kinds lists the registered generator names in sorted order.
func Kinds() []string {
	names := make([]string, 0, len(kinds))
	for name := range kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup validates a generator name without constructing it.
func Lookup(name string) error {
	if _, ok := kinds[strings.ToLower(name)]; !ok {
		return fmt.Errorf("%w %q (want one of %s)", ErrUnknownKind, name, strings.Join(Kinds(), ", "))
	}
	return nil
}

// New constructs the named generator.
func New(name string, opts Options) (Generator, error) {
	if err := Lookup(name); err != nil {
		return nil, err
	}
	return kinds[strings.ToLower(name)](opts.normalized()), nil
}

// Func adapts a plain function to Generator.
type Func func(x, y int) float64

// Sample calls f.
func (f Func) Sample(x, y int) float64 { return f(x, y) }

// Constant returns a generator that yields v everywhere.
func Constant(v float64) Generator {
	return Func(func(int, int) float64 { return v })
}
