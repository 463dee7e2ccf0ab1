// Package audio synthesizes the simulation's one-shot sounds and tracks
// their playback.
package audio

// Kind identifies a one-shot sound.
type Kind uint8

const (
	SoundBoing Kind = iota
	SoundBoingCrusher
	SoundGrassBreak
	SoundRockBreak
	SoundThunder
	SoundBlast
	SoundClick
	soundCount
)

var kindNames = [soundCount]string{
	SoundBoing:        "boing",
	SoundBoingCrusher: "boing_crusher",
	SoundGrassBreak:   "grass_break",
	SoundRockBreak:    "rock_break",
	SoundThunder:      "thunder",
	SoundBlast:        "blast",
	SoundClick:        "click",
}

func (k Kind) String() string {
	if k < soundCount {
		return kindNames[k]
	}
	return "unknown"
}

// Event is a sound whose trigger probability has already been evaluated.
type Event struct {
	Kind Kind
}

// Handle identifies one playing sound. The zero Handle is never issued.
type Handle uint64

// Backend plays sounds and reports when they are done.
type Backend interface {
	Play(kind Kind) Handle
	IsFinished(h Handle) bool
}

// Null is a Backend without a device: every sound finishes immediately.
type Null struct {
	next Handle
}

// Play implements Backend.
func (n *Null) Play(Kind) Handle {
	n.next++
	return n.next
}

// IsFinished implements Backend.
func (n *Null) IsFinished(Handle) bool { return true }

// Tracker is the list of sounds still playing. It keeps handles alive until
// the backend reports completion and is used from a single goroutine.
type Tracker struct {
	sounds []Handle
}

// Add records a playing sound.
func (t *Tracker) Add(h Handle) {
	t.sounds = append(t.sounds, h)
}

// Prune drops every sound the backend reports as finished and returns how
// many were removed.
func (t *Tracker) Prune(b Backend) int {
	kept := t.sounds[:0]
	for _, s := range t.sounds {
		if b == nil || b.IsFinished(s) {
			continue
		}
		kept = append(kept, s)
	}
	removed := len(t.sounds) - len(kept)
	t.sounds = kept
	return removed
}

// Len returns the number of tracked sounds.
func (t *Tracker) Len() int { return len(t.sounds) }
