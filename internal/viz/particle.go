package viz

import (
	"math"
	"math/rand"

	"github.com/iburimskiy/pulseviz/internal/config"
)

// Particle is a short-lived point emitter. Velocity is fixed at spawn;
// a slot with Lifetime <= 0 is inactive and free for reuse.
type Particle struct {
	X, Y     float64
	DX, DY   float64
	Lifetime int
	Alpha    uint8
}

// Active reports whether the particle is live.
func (p *Particle) Active() bool { return p.Lifetime > 0 }

// SpawnParticle activates the first inactive slot: centered position,
// random direction and speed, random lifetime, full opacity. It
// returns false when every slot is active, in which case the spawn is
// dropped. The pool never grows. Caller must hold s.
func (s *State) SpawnParticle(rng *rand.Rand) bool {
	for i := range s.Particles {
		if s.Particles[i].Active() {
			continue
		}
		angle := rng.Float64() * 2 * math.Pi
		speed := config.MinSpeed + rng.Float64()*(config.MaxSpeed-config.MinSpeed)
		s.Particles[i] = Particle{
			X:        config.ScreenSize / 2,
			Y:        config.ScreenSize / 2,
			DX:       math.Cos(angle) * speed,
			DY:       math.Sin(angle) * speed,
			Lifetime: config.MinLifetime + rng.Intn(config.MaxLifetime-config.MinLifetime),
			Alpha:    255,
		}
		return true
	}
	return false
}

// AdvanceParticles steps every active particle by one frame: move by
// velocity, age by one, fade by the fixed step with saturation at
// zero. Inactive slots are untouched. Caller must hold s.
func (s *State) AdvanceParticles() {
	for i := range s.Particles {
		p := &s.Particles[i]
		if !p.Active() {
			continue
		}
		p.X += p.DX
		p.Y += p.DY
		p.Lifetime--
		if p.Alpha < config.FadeStep {
			p.Alpha = 0
		} else {
			p.Alpha -= config.FadeStep
		}
	}
}
