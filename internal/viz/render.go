package viz

import (
	"image/color"
	"math"
	"time"

	"github.com/iburimskiy/pulseviz/internal/config"
	"github.com/iburimskiy/pulseviz/internal/hsl"
)

// Canvas is the pixel surface the renderer draws to. The surrounding
// loop owns clearing order and presentation; the renderer only plots
// colored points.
type Canvas interface {
	Clear(c color.NRGBA)
	Point(x, y float64, c color.NRGBA)
}

// Background is the clear color used before each frame.
var Background = color.NRGBA{R: 20, G: 20, B: 30, A: 255}

// Renderer draws one frame of the visualization from shared state.
type Renderer struct {
	state *State
	now   func() time.Time
}

func NewRenderer(state *State, now func() time.Time) *Renderer {
	return &Renderer{state: state, now: now}
}

// Frame clears the canvas, then under a single lock acquisition reads
// the shared state, advances the particle pool and draws the ring and
// particles. The lock is released before the caller presents.
func (r *Renderer) Frame(canvas Canvas) {
	canvas.Clear(Background)

	s := r.state
	s.Lock()
	defer s.Unlock()

	beatAge := r.now().Sub(s.LastBeat).Seconds()
	// Negative radii are fine: the ring just collapses until the next beat.
	radius := config.BaseRadius + s.Amplitude*config.AmplitudeGain - beatAge*config.BeatAgeDecay

	r.drawRing(canvas, s.Hue, radius)

	s.AdvanceParticles()
	r.drawParticles(canvas, s)
}

func (r *Renderer) drawRing(canvas Canvas, hue, radius float64) {
	cr, cg, cb := hsl.ToRGB(hue, config.RingSaturation, config.RingLightness)
	ring := color.NRGBA{R: cr, G: cg, B: cb, A: 255}

	const center = config.ScreenSize / 2
	for deg := 0; deg < 360; deg += config.RingStep {
		angle := float64(deg) * math.Pi / 180
		canvas.Point(center+math.Cos(angle)*radius, center+math.Sin(angle)*radius, ring)
	}
}

func (r *Renderer) drawParticles(canvas Canvas, s *State) {
	cr, cg, cb := hsl.ToRGB(s.Hue, config.ParticleSaturation, config.ParticleLightness)
	for i := range s.Particles {
		p := &s.Particles[i]
		if !p.Active() {
			continue
		}
		canvas.Point(p.X, p.Y, color.NRGBA{R: cr, G: cg, B: cb, A: p.Alpha})
	}
}
