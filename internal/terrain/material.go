package terrain

import (
	"image/color"

	"terrasim/internal/audio"
)

// Material enumerates what a terrain cell is made of.
type Material uint8

const (
	MaterialAir Material = iota
	MaterialGrass
	MaterialRock
)

func (m Material) String() string {
	switch m {
	case MaterialAir:
		return "air"
	case MaterialGrass:
		return "grass"
	case MaterialRock:
		return "rock"
	default:
		return "unknown"
	}
}

// Noise thresholds: samples below airThreshold are air, below
// grassThreshold grass, anything higher rock.
const (
	airThreshold   = -0.2
	grassThreshold = 0.2
)

// MaterialFor maps a noise sample to a material.
func MaterialFor(v float64) Material {
	switch {
	case v < airThreshold:
		return MaterialAir
	case v < grassThreshold:
		return MaterialGrass
	default:
		return MaterialRock
	}
}

// ClearedColor is drawn for air and destroyed cells.
var ClearedColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// Color returns the fill colour of a live cell of material m.
func (m Material) Color() color.RGBA {
	switch m {
	case MaterialGrass:
		return color.RGBA{R: 111, G: 171, B: 51, A: 255}
	case MaterialRock:
		return color.RGBA{R: 123, G: 108, B: 113, A: 255}
	default:
		return ClearedColor
	}
}

// BreakSound returns the sound played when a cell of material m is destroyed.
func (m Material) BreakSound() audio.Kind {
	if m == MaterialRock {
		return audio.SoundRockBreak
	}
	return audio.SoundGrassBreak
}
