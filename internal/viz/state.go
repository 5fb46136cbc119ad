// Package viz holds the shared visual state mutated by the audio
// pipeline and read by the renderer, plus the particle pool and the
// per-frame ring/particle drawing.
package viz

import (
	"sync"
	"time"

	"github.com/iburimskiy/pulseviz/internal/config"
)

// State is the single record shared between the signal processor and
// the renderer. The embedded mutex guards the whole record: every
// cross-goroutine access locks it, and each update or render pass
// holds it for the full pass so no torn intermediate is ever visible.
type State struct {
	sync.Mutex

	Amplitude float64   // instantaneous loudness of the last block, [0,1]
	Baseline  float64   // exponentially smoothed energy, the adaptive noise floor
	LastBeat  time.Time // clock time of the most recent beat onset
	Hue       float64   // degrees, always in [0,360)
	Particles [config.MaxParticles]Particle
}

// NewState returns a zeroed state. The zero LastBeat makes the initial
// beat age large, which only drives the ring radius negative.
func NewState() *State {
	return &State{}
}
