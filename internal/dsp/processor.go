// Package dsp turns fixed-size PCM blocks into the loudness, baseline
// and beat-onset signals that drive the visualization.
package dsp

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/iburimskiy/pulseviz/internal/config"
	"github.com/iburimskiy/pulseviz/internal/viz"
)

// Processor consumes one audio block per call and applies the full
// signal update to the shared state. It runs on the audio source's
// delivery goroutine and must stay non-blocking apart from the state
// lock, which it holds for one short pass.
type Processor struct {
	state *viz.State
	rng   *rand.Rand
	now   func() time.Time
}

func NewProcessor(state *viz.State, now func() time.Time, seed int64) *Processor {
	return &Processor{
		state: state,
		rng:   rand.New(rand.NewSource(seed)),
		now:   now,
	}
}

// ProcessBlock ingests one mono block of exactly config.BlockSize
// samples. Under a single lock hold it updates the energy baseline,
// fires a beat onset when loudness exceeds the adapted threshold
// (spawning one particle and stamping the beat time), advances the
// hue, and stores the instantaneous amplitude. A wrong block length is
// a contract violation by the caller and panics.
func (p *Processor) ProcessBlock(samples []int16) {
	if len(samples) != config.BlockSize {
		panic(fmt.Sprintf("dsp: block of %d samples, want %d", len(samples), config.BlockSize))
	}

	loudness := meanAbs(samples)

	s := p.state
	s.Lock()
	defer s.Unlock()

	s.Baseline = config.BaselineDecay*s.Baseline + (1-config.BaselineDecay)*loudness
	if loudness > s.Baseline*config.BeatThreshold {
		s.LastBeat = p.now()
		s.SpawnParticle(p.rng) // full pool drops the spawn, by contract
	}
	s.Hue = math.Mod(s.Hue+config.HueStep, 360)
	s.Amplitude = loudness
}

// meanAbs is the mean absolute sample value normalized to [0,1] by the
// int16 magnitude range. An all-zero block yields 0.
func meanAbs(samples []int16) float64 {
	var sum float64
	for _, v := range samples {
		sum += math.Abs(float64(v)) / 32768.0
	}
	return sum / float64(len(samples))
}
