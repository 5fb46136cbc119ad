package config

const (
	ScreenSize = 800

	// Audio capture format: mono 16-bit signed PCM
	SampleRate = 44100
	BlockSize  = 2048

	// Signal processing
	BaselineDecay = 0.9
	BeatThreshold = 1.4
	HueStep       = 0.3 // degrees of hue advance per processed block

	// Particles
	MaxParticles = 300
	FadeStep     = 8
	MinLifetime  = 20
	MaxLifetime  = 50 // exclusive; spawned lifetimes fall in [20,49]
	MinSpeed     = 1.0
	MaxSpeed     = 3.0

	// Ring rendering
	BaseRadius    = 100.0
	AmplitudeGain = 150.0
	BeatAgeDecay  = 50.0 // radius shrink per second since the last beat
	RingStep      = 2    // degrees between ring sample points

	RingSaturation     = 0.8
	RingLightness      = 0.6
	ParticleSaturation = 0.8
	ParticleLightness  = 0.7
)
