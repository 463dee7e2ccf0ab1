package effect

import (
	"fmt"
	"image/color"
	"math"
	"strings"
)

// Kind selects an effect's behaviour.
type Kind uint8

const (
	Bubbles Kind = iota
	MoreBubbles
	Lightning
	Explosion
	kindCount
)

var kindNames = [kindCount]string{
	Bubbles:     "bubbles",
	MoreBubbles: "morebubbles",
	Lightning:   "lightning",
	Explosion:   "explosion",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Kinds lists every effect kind in toolbar order.
func Kinds() []Kind {
	return []Kind{Bubbles, MoreBubbles, Lightning, Explosion}
}

// ParseKind resolves a case-insensitive kind name.
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown effect kind %q", name)
}

// Profile holds the tunables of one kind.
type Profile struct {
	Speed    float64 // px per second
	Radius   float64 // collision half extent
	HalfW    float64 // drawn half width for rect kinds
	HalfH    float64
	Lifetime int // ticks

	// StrikeRadius bounds the area damaged by lightning (Manhattan) and
	// explosions (Euclidean).
	StrikeRadius float64

	SplitChance float64 // per-tick probability of splitting
	SplitCount  int
	SplitSpread float64 // max angular offset of children, radians

	Color color.RGBA
}

// Profiles is indexed by Kind.
type Profiles [kindCount]Profile

// DefaultProfiles returns the stock tuning: 50 px/s bubbles living three
// seconds at 15 ticks per second, and a faster lightning bolt.
func DefaultProfiles() Profiles {
	var p Profiles
	p[Bubbles] = Profile{
		Speed:       50,
		Radius:      5,
		Lifetime:    45,
		SplitChance: 0.2,
		SplitCount:  2,
		SplitSpread: 0.3,
		Color:       color.RGBA{R: 255, A: 255},
	}
	p[MoreBubbles] = Profile{
		Speed:       50,
		Radius:      5,
		Lifetime:    45,
		SplitChance: 0.5,
		SplitCount:  10,
		SplitSpread: 0.5,
		Color:       color.RGBA{A: 255},
	}
	p[Lightning] = Profile{
		Speed:        200,
		Radius:       5,
		HalfW:        15,
		HalfH:        5,
		Lifetime:     45,
		StrikeRadius: 20,
		Color:        color.RGBA{R: 255, G: 255, A: 255},
	}
	p[Explosion] = Profile{
		Radius:       5,
		Lifetime:     1,
		StrikeRadius: 30,
		Color:        color.RGBA{R: 255, G: 140, A: 255},
	}
	return p
}

// For returns the profile of k, or the bubbles profile for unknown kinds.
func (p *Profiles) For(k Kind) Profile {
	if k >= kindCount {
		return p[Bubbles]
	}
	return p[k]
}

// Scale returns a copy with lifetimes rescaled from ticks at 15 per second
// to tps ticks per second.
func (p Profiles) Scale(tps int) Profiles {
	if tps <= 0 || tps == 15 {
		return p
	}
	for k := range p {
		secs := float64(p[k].Lifetime) / 15
		p[k].Lifetime = max(1, int(math.Round(secs*float64(tps))))
	}
	return p
}
