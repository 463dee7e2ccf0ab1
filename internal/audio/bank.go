package audio

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
)

// waveType defines oscillator wave shapes
type waveType int

const (
	waveSine waveType = iota
	waveSquare
	waveNoise
)

// sweep is an oscillator whose frequency glides linearly from f0 to f1 over
// its duration.
type sweep struct {
	f0, f1   float64
	phase    float64
	position int
	duration int
	wave     waveType
	rate     beep.SampleRate
	rng      *rand.Rand
}

func newSweep(f0, f1 float64, d time.Duration, wave waveType, rate beep.SampleRate, seed uint64) beep.Streamer {
	return &sweep{
		f0:       f0,
		f1:       f1,
		duration: rate.N(d),
		wave:     wave,
		rate:     rate,
		rng:      rand.New(rand.NewPCG(seed, 0x5eed)),
	}
}

func (s *sweep) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if s.position >= s.duration {
			return i, i > 0
		}
		var val float64
		switch s.wave {
		case waveSine:
			val = math.Sin(2 * math.Pi * s.phase)
		case waveSquare:
			val = 1
			if s.phase >= 0.5 {
				val = -1
			}
		case waveNoise:
			val = s.rng.Float64()*2 - 1
		}
		samples[i][0] = val
		samples[i][1] = val

		t := float64(s.position) / float64(s.duration)
		freq := s.f0 + (s.f1-s.f0)*t
		s.phase += freq / float64(s.rate)
		s.phase -= math.Floor(s.phase)
		s.position++
	}
	return len(samples), true
}

func (s *sweep) Err() error { return nil }

// decay applies a linear attack followed by an exponential release.
type decay struct {
	streamer beep.Streamer
	position int
	attack   int
	tau      float64
}

func newDecay(s beep.Streamer, attack, tau time.Duration, rate beep.SampleRate) beep.Streamer {
	return &decay{streamer: s, attack: rate.N(attack), tau: float64(rate.N(tau))}
}

func (d *decay) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = d.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		vol := 1.0
		if d.position < d.attack && d.attack > 0 {
			vol = float64(d.position) / float64(d.attack)
		} else if d.tau > 0 {
			vol = math.Exp(-float64(d.position-d.attack) / d.tau)
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		d.position++
	}
	return n, ok
}

func (d *decay) Err() error { return d.streamer.Err() }

// newVolume wraps s in a linear gain; zero or less is silent.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// BankConfig controls synthesis.
type BankConfig struct {
	SampleRate beep.SampleRate
	// Volume is the master gain applied to every sound.
	Volume float64
}

// DefaultBankConfig returns the standard synthesis settings.
func DefaultBankConfig() BankConfig {
	return BankConfig{SampleRate: beep.SampleRate(44100), Volume: 0.2}
}

// Bank builds fresh streamers for each sound kind. Streamers are stateful,
// so every Play needs its own.
type Bank struct {
	cfg   BankConfig
	plays uint64
}

// NewBank returns a synthesis bank.
func NewBank(cfg BankConfig) *Bank {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = DefaultBankConfig().SampleRate
	}
	return &Bank{cfg: cfg}
}

// SampleRate returns the rate streamers are generated at.
func (b *Bank) SampleRate() beep.SampleRate { return b.cfg.SampleRate }

// Duration returns how long the sound of kind k plays.
func (b *Bank) Duration(k Kind) time.Duration {
	switch k {
	case SoundBoing, SoundBoingCrusher:
		return 180 * time.Millisecond
	case SoundGrassBreak:
		return 90 * time.Millisecond
	case SoundRockBreak:
		return 140 * time.Millisecond
	case SoundThunder:
		return 450 * time.Millisecond
	case SoundBlast:
		return 600 * time.Millisecond
	default:
		return 40 * time.Millisecond
	}
}

// Streamer synthesizes one instance of sound k.
func (b *Bank) Streamer(k Kind) beep.Streamer {
	rate := b.cfg.SampleRate
	d := b.Duration(k)
	b.plays++
	seed := b.plays

	var s beep.Streamer
	switch k {
	case SoundBoing:
		s = newDecay(newSweep(520, 180, d, waveSine, rate, seed), 5*time.Millisecond, 60*time.Millisecond, rate)
	case SoundBoingCrusher:
		s = newDecay(newSweep(340, 90, d, waveSquare, rate, seed), 5*time.Millisecond, 70*time.Millisecond, rate)
		s = newVolume(s, 0.6)
	case SoundGrassBreak:
		s = newDecay(newSweep(0, 0, d, waveNoise, rate, seed), 2*time.Millisecond, 25*time.Millisecond, rate)
		s = newVolume(s, 0.5)
	case SoundRockBreak:
		crack := newDecay(newSweep(0, 0, d, waveNoise, rate, seed), 1*time.Millisecond, 35*time.Millisecond, rate)
		thud := newDecay(newSweep(140, 60, d, waveSine, rate, seed), 2*time.Millisecond, 50*time.Millisecond, rate)
		s = beep.Mix(newVolume(crack, 0.5), newVolume(thud, 0.7))
	case SoundThunder:
		s = newDecay(newSweep(0, 0, d, waveNoise, rate, seed), 3*time.Millisecond, 150*time.Millisecond, rate)
	case SoundBlast:
		rumble := newDecay(newSweep(90, 30, d, waveSine, rate, seed), 4*time.Millisecond, 200*time.Millisecond, rate)
		debris := newDecay(newSweep(0, 0, d, waveNoise, rate, seed), 2*time.Millisecond, 120*time.Millisecond, rate)
		s = beep.Mix(newVolume(rumble, 0.9), newVolume(debris, 0.6))
	default:
		tone, err := generators.SineTone(rate, 880)
		if err != nil {
			return beep.Silence(rate.N(d))
		}
		s = newDecay(tone, time.Millisecond, 10*time.Millisecond, rate)
	}
	return beep.Take(rate.N(d), newVolume(s, b.cfg.Volume))
}
