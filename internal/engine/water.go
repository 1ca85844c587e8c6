package engine

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

const (
	waterCapacity   = 600
	waterBaseActive = 80
	waterActiveSpan = 520

	waterBaseSpeed  = 0.06
	waterSwirlRate  = 0.35  // rad/s around the center
	waterWobbleAmp  = 0.045 // perpendicular wobble, in disk units
	waterDragFactor = 0.998 // per 60Hz frame step

	waterFadeInTime = 0.25

	waterSpawnFloor = 0.04
)

// Water is the bubble simulation: slow radial drift wrapped in a constant
// swirl around the center, with a golden-ratio-phased wobble and heavy drag
// for a floaty feel.
type Water struct {
	pool      *pool
	pulse     *PulseTracker
	accentHex string
	accent    colorful.Color
	spawnSeq  int
}

// NewWater creates a water simulation with a full but inactive pool.
func NewWater() *Water {
	tuning := DefaultPulseTuning
	tuning.AttackRate = 0.35 // bubbles respond a little softer than fire
	tuning.DecayRate = 2.6
	return &Water{
		pool:   newPool(waterCapacity),
		pulse:  NewPulseTracker(tuning),
		accent: defaultAccent,
	}
}

func (w *Water) Name() string { return "water" }

// ActiveBudget returns how many slots may be live at the given global
// intensity setting.
func (w *Water) ActiveBudget(intensity float64) int {
	n := int(waterBaseActive + clamp01(intensity)*waterActiveSpan)
	if n > w.pool.capacity() {
		n = w.pool.capacity()
	}
	return n
}

func (w *Water) Update(snap Snapshot, cfg Config, dt float64) {
	if cfg.AccentHex != w.accentHex {
		w.accentHex = cfg.AccentHex
		w.accent = ParseAccent(cfg.AccentHex)
	}

	pulse := w.pulse.Update(snap.Intensity, dt)
	budget := w.ActiveBudget(cfg.Intensity)
	w.pool.trim(budget)

	canSpawn := snap.Playing && (pulse > waterSpawnFloor || snap.Intensity > waterSpawnFloor)

	for i := 0; i < budget; i++ {
		p := &w.pool.slots[i]

		if !p.active {
			if canSpawn {
				w.spawn(p)
			}
			continue
		}

		p.life += dt
		if p.life >= p.maxLife {
			if canSpawn {
				w.spawn(p)
			} else {
				w.pool.deactivate(i)
			}
			continue
		}

		w.move(p, i, snap.Time, pulse, dt)

		ageRatio := p.life / p.maxLife
		alpha := w.alpha(p, ageRatio)
		shimmer := math.Sin(snap.Time*8+p.seed*23)*0.5 + 0.5
		c := WaterColor(w.accent, snap.Intensity, shimmer*alpha)

		// No alpha channel in the point buffers; fold the envelope into
		// brightness so fading bubbles dim instead of popping out.
		size := p.size * math.Sin(ageRatio*math.Pi) * (1 + 0.4*pulse)
		w.pool.write(i, p.x, p.y, p.z, c.R*alpha, c.G*alpha, c.B*alpha, size)
	}
}

// alpha is the bubble's fade envelope: a quick fade-in over the first
// quarter second multiplied by 1-ageRatio^2, slow at first and accelerating
// toward death.
func (w *Water) alpha(p *particle, ageRatio float64) float64 {
	fadeIn := p.life / waterFadeInTime
	if fadeIn > 1 {
		fadeIn = 1
	}
	fadeOut := 1 - ageRatio*ageRatio
	if fadeOut < 0 {
		fadeOut = 0
	}
	return fadeIn * fadeOut
}

func (w *Water) spawn(p *particle) {
	w.spawnSeq++
	seed := float64(w.spawnSeq)

	p.angle = GoldenAngleAt(w.spawnSeq, 1.3)
	r := innerRadius + GoldenRandom(seed*2.1)*0.05
	p.x = math.Cos(p.angle) * r
	p.y = math.Sin(p.angle) * r
	p.z = (GoldenRandom(seed*6.7) - 0.5) * 0.1

	speed := waterBaseSpeed * (0.5 + GoldenRandom(seed*3.3))
	p.vx = math.Cos(p.angle) * speed
	p.vy = math.Sin(p.angle) * speed

	p.life = 0
	p.maxLife = 2.5 + GoldenRandom(seed*4.9)*2.0
	p.size = 0.03 + GoldenRandom(seed*5.7)*0.04
	p.seed = seed
	p.active = true
}

// move advances one bubble: radial drift plus swirl rotation plus wobble,
// all under multiplicative drag.
func (w *Water) move(p *particle, index int, now, pulse, dt float64) {
	// Swirl: rotate the position around the center at a constant angular
	// rate, nudged by the beat envelope.
	theta := waterSwirlRate * (1 + pulse*0.4) * dt
	sin, cos := math.Sincos(theta)
	p.x, p.y = p.x*cos-p.y*sin, p.x*sin+p.y*cos

	p.x += p.vx * dt
	p.y += p.vy * dt

	// Wobble perpendicular to the travel direction, phase-shifted by the
	// golden angle per slot so the pool never wobbles in sync.
	r := math.Hypot(p.x, p.y)
	if r > 1e-6 {
		perpX, perpY := -p.y/r, p.x/r
		wobble := math.Sin(now*2+float64(index)*goldenAngle) * waterWobbleAmp
		p.x += perpX * wobble * dt
		p.y += perpY * wobble * dt
	}

	drag := math.Pow(waterDragFactor, dt*60)
	p.vx *= drag
	p.vy *= drag

	if r = math.Hypot(p.x, p.y); r > outerRadius {
		scale := outerRadius / r
		p.x *= scale
		p.y *= scale
		p.vx *= 0.5
		p.vy *= 0.5
	}
}

func (w *Water) Payload() Payload {
	return Payload{Points: &w.pool.cloud}
}
