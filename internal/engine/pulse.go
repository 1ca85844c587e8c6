package engine

import "math"

// PulseTuning holds the envelope constants for one simulation. The three
// effects share one tracker implementation but keep slightly different
// attack/decay feels.
type PulseTuning struct {
	BeatDelta   float64 // intensity jump over current that registers a beat
	BeatFloor   float64 // absolute intensity below which beats are ignored
	Boost       float64 // peak = min(Cap, intensity*Boost)
	Cap         float64
	AttackRate  float64 // fraction of (peak-current) applied per attack step
	AttackSpeed float64 // attack countdown per second
	DecayRate   float64 // multiplicative decay per second
	FloorFrac   float64 // pulse never drops below intensity*FloorFrac
	FalloffRate float64 // display decay per second since the last beat
}

// DefaultPulseTuning is the canonical envelope; per-effect variants tweak a
// constant or two off this base.
var DefaultPulseTuning = PulseTuning{
	BeatDelta:   0.12,
	BeatFloor:   0.15,
	Boost:       1.5,
	Cap:         1.5,
	AttackRate:  0.4,
	AttackSpeed: 10,
	DecayRate:   3.0,
	FloorFrac:   0.6,
	FalloffRate: 2.0,
}

// PulseTracker is an asymmetric envelope follower: a sudden rise in intensity
// registers as a beat and snaps the envelope up fast; between beats it decays
// multiplicatively. Fast attack, slow release — the standard audio trick,
// repurposed so particles burst on the beat instead of breathing with RMS.
type PulseTracker struct {
	tuning   PulseTuning
	current  float64
	peak     float64
	attack   float64
	lastBeat float64
	decay    float64
	now      float64
}

// NewPulseTracker creates a tracker with the given tuning.
func NewPulseTracker(t PulseTuning) *PulseTracker {
	return &PulseTracker{tuning: t}
}

// Update advances the envelope by dt seconds given the raw global intensity
// for this frame and returns the new envelope value.
func (p *PulseTracker) Update(intensity, dt float64) float64 {
	t := &p.tuning
	p.now += dt

	if intensity > p.current+t.BeatDelta && intensity > t.BeatFloor {
		p.peak = math.Min(t.Cap, intensity*t.Boost)
		p.attack = 1
		p.lastBeat = p.now
	}

	if p.attack > 0 {
		p.current += (p.peak - p.current) * t.AttackRate
		p.attack -= dt * t.AttackSpeed
	} else {
		p.current *= 1 - dt*t.DecayRate
		if p.current < 0 {
			p.current = 0
		}
	}

	// Never fall below a fraction of the live signal, so sustained loud
	// passages keep the visuals energized between beats.
	if floor := intensity * t.FloorFrac; p.current < floor {
		p.current = floor
	}
	if p.current > t.Cap {
		p.current = t.Cap
	}

	p.decay = math.Max(0, 1-(p.now-p.lastBeat)*t.FalloffRate)
	return p.current
}

// Current returns the envelope value as of the last Update.
func (p *PulseTracker) Current() float64 { return p.current }

// Decay returns the display falloff since the last detected beat, in [0,1].
func (p *PulseTracker) Decay() float64 { return p.decay }

// Reset clears all envelope state.
func (p *PulseTracker) Reset() {
	p.current = 0
	p.peak = 0
	p.attack = 0
	p.lastBeat = 0
	p.decay = 0
	p.now = 0
}
