package noise

import (
	perlin "github.com/aquilax/go-perlin"
	opensimplex "github.com/ojrac/opensimplex-go"
)

const (
	perlinAlpha = 2
	perlinBeta  = 2
)

// Perlin samples single-octave gradient noise.
type Perlin struct {
	p     *perlin.Perlin
	scale float64
}

// NewPerlin returns a single-octave Perlin generator.
func NewPerlin(opts Options) *Perlin {
	opts = opts.normalized()
	return &Perlin{p: perlin.NewPerlin(perlinAlpha, perlinBeta, 1, opts.Seed), scale: opts.Scale}
}

// Sample implements Generator.
func (g *Perlin) Sample(x, y int) float64 {
	return g.p.Noise2D(float64(x)*g.scale, float64(y)*g.scale)
}

// Fbm samples fractal Brownian motion: summed Perlin octaves with halving
// amplitude and doubling frequency.
type Fbm struct {
	p     *perlin.Perlin
	scale float64
}

// NewFbm returns a multi-octave Perlin generator.
func NewFbm(opts Options) *Fbm {
	opts = opts.normalized()
	return &Fbm{p: perlin.NewPerlin(perlinAlpha, perlinBeta, int32(opts.Octaves), opts.Seed), scale: opts.Scale}
}

// Sample implements Generator.
func (g *Fbm) Sample(x, y int) float64 {
	return g.p.Noise2D(float64(x)*g.scale, float64(y)*g.scale)
}

// Simplex samples OpenSimplex noise.
type Simplex struct {
	n     opensimplex.Noise
	scale float64
}

// NewSimplex returns an OpenSimplex generator.
func NewSimplex(opts Options) *Simplex {
	opts = opts.normalized()
	return &Simplex{n: opensimplex.New(opts.Seed), scale: opts.Scale}
}

// Sample implements Generator.
func (g *Simplex) Sample(x, y int) float64 {
	return g.n.Eval2(float64(x)*g.scale, float64(y)*g.scale)
}

func init() {
	Register("perlin", func(opts Options) Generator { return NewPerlin(opts) })
	Register("fbm", func(opts Options) Generator { return NewFbm(opts) })
	Register("simplex", func(opts Options) Generator { return NewSimplex(opts) })
}
