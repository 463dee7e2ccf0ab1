package audio

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// Player mixes synthesized sounds into the speaker. Before Start it still
// accepts sounds; they queue in the mixer and complete when the mixer is
// streamed, which lets tests drive playback without a device.
type Player struct {
	mu      sync.Mutex
	bank    *Bank
	mixer   *beep.Mixer
	started bool
	next    Handle
	playing map[Handle]*atomic.Bool
}

// NewPlayer returns a player backed by bank.
func NewPlayer(bank *Bank) *Player {
	if bank == nil {
		bank = NewBank(DefaultBankConfig())
	}
	return &Player{
		bank:    bank,
		mixer:   &beep.Mixer{},
		playing: make(map[Handle]*atomic.Bool),
	}
}

// Start opens the audio device and begins streaming the mixer.
func (p *Player) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return nil
	}
	rate := p.bank.SampleRate()
	if err := speaker.Init(rate, rate.N(50*time.Millisecond)); err != nil {
		return fmt.Errorf("audio: init speaker: %w", err)
	}
	speaker.Play(p.mixer)
	p.started = true
	return nil
}

// Play implements Backend.
func (p *Player) Play(kind Kind) Handle {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.next++
	h := p.next
	done := &atomic.Bool{}
	p.playing[h] = done

	s := beep.Seq(p.bank.Streamer(kind), beep.Callback(func() { done.Store(true) }))
	if p.started {
		speaker.Lock()
		p.mixer.Add(s)
		speaker.Unlock()
	} else {
		p.mixer.Add(s)
	}
	return h
}

// IsFinished implements Backend. Unknown handles count as finished; a
// finished handle is forgotten after it has been reported once.
func (p *Player) IsFinished(h Handle) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	done, ok := p.playing[h]
	if !ok {
		return true
	}
	if !done.Load() {
		return false
	}
	delete(p.playing, h)
	return true
}

// Playing returns how many handles have not been reported finished yet.
func (p *Player) Playing() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.playing)
}

// Close stops all sounds. Handles still playing report finished afterwards.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, done := range p.playing {
		done.Store(true)
	}
	if p.started {
		speaker.Lock()
		p.mixer.Clear()
		speaker.Unlock()
		speaker.Close()
		p.started = false
		return
	}
	p.mixer.Clear()
}
