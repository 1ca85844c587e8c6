package engine

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

const (
	fireCapacity   = 800
	fireBaseActive = 100
	fireActiveSpan = 700

	fireBaseSpeed    = 0.16
	fireAcceleration = 0.55
	fireTurbulence   = 0.18
	fireBounceDamp   = 0.3

	// Minimum energy needed to keep respawning dead slots. Below this the
	// fire burns down instead of cutting off.
	fireSpawnFloor = 0.05
)

// Fire is the ember simulation: particles ignite on an inner ring at
// golden-angle-distributed directions and accelerate outward, flickering per
// particle and bursting with the beat envelope.
type Fire struct {
	pool      *pool
	pulse     *PulseTracker
	accentHex string
	accent    colorful.Color
	spawnSeq  int
}

// NewFire creates a fire simulation with a full but inactive pool.
func NewFire() *Fire {
	tuning := DefaultPulseTuning
	tuning.DecayRate = 3.2 // embers die a touch faster than they flare
	return &Fire{
		pool:   newPool(fireCapacity),
		pulse:  NewPulseTracker(tuning),
		accent: defaultAccent,
	}
}

func (f *Fire) Name() string { return "fire" }

// ActiveBudget returns how many slots may be live at the given global
// intensity setting.
func (f *Fire) ActiveBudget(intensity float64) int {
	n := int(fireBaseActive + clamp01(intensity)*fireActiveSpan)
	if n > f.pool.capacity() {
		n = f.pool.capacity()
	}
	return n
}

func (f *Fire) Update(snap Snapshot, cfg Config, dt float64) {
	if cfg.AccentHex != f.accentHex {
		f.accentHex = cfg.AccentHex
		f.accent = ParseAccent(cfg.AccentHex)
	}

	pulse := f.pulse.Update(snap.Intensity, dt)
	budget := f.ActiveBudget(cfg.Intensity)
	f.pool.trim(budget)

	canSpawn := snap.Playing && (pulse > fireSpawnFloor || snap.Intensity > fireSpawnFloor)

	for i := 0; i < budget; i++ {
		p := &f.pool.slots[i]

		if !p.active {
			if canSpawn {
				f.spawn(p, pulse)
			}
			continue
		}

		p.life += dt
		if p.life >= p.maxLife {
			if canSpawn {
				f.spawn(p, pulse)
			} else {
				f.pool.deactivate(i)
			}
			continue
		}

		f.move(p, i, snap.Time, pulse, dt)

		age := p.life / p.maxLife
		r := math.Hypot(p.x, p.y)
		c := FireColor(f.accent, snap.Intensity, r-innerRadius, age)
		size := p.size * (1 - 0.7*age) * (1 + 0.5*pulse)
		f.pool.write(i, p.x, p.y, p.z, c.R, c.G, c.B, size)
	}
}

// spawn resets a slot into a fresh ember. Spawn directions walk the golden
// angle so consecutive ignitions never cluster.
func (f *Fire) spawn(p *particle, pulse float64) {
	f.spawnSeq++
	seed := float64(f.spawnSeq)

	p.angle = GoldenAngleAt(f.spawnSeq, 0)
	r := innerRadius + GoldenRandom(seed*1.9)*0.02
	p.x = math.Cos(p.angle) * r
	p.y = math.Sin(p.angle) * r
	p.z = (GoldenRandom(seed*5.3) - 0.5) * 0.08

	speed := (fireBaseSpeed + pulse*0.25) * (0.6 + GoldenRandom(seed*3.7)*0.8)
	p.vx = math.Cos(p.angle) * speed
	p.vy = math.Sin(p.angle) * speed

	p.life = 0
	p.maxLife = 1.2 + GoldenRandom(seed*2.3)*1.3
	p.size = 0.025 + GoldenRandom(seed*4.1)*0.03
	p.seed = seed
	p.active = true
}

// move advances one ember: outward acceleration with per-particle flicker,
// golden-ratio-phased turbulence, and an inelastic clamp at the rim.
func (f *Fire) move(p *particle, index int, now, pulse, dt float64) {
	flicker := math.Sin(now*12 + p.seed*17)
	speedMod := (1 + pulse*3) * (1 + flicker*0.3)

	r := math.Hypot(p.x, p.y)
	if r > 1e-6 {
		nx, ny := p.x/r, p.y/r
		p.vx += nx * fireAcceleration * speedMod * dt
		p.vy += ny * fireAcceleration * speedMod * dt
	}

	phase := float64(index) * goldenAngle
	p.vx += math.Sin(now*3+phase) * fireTurbulence * dt
	p.vy += math.Cos(now*2.7+phase) * fireTurbulence * dt

	p.x += p.vx * dt
	p.y += p.vy * dt

	if r = math.Hypot(p.x, p.y); r > outerRadius {
		scale := outerRadius / r
		p.x *= scale
		p.y *= scale
		p.vx *= fireBounceDamp
		p.vy *= fireBounceDamp
	}
}

func (f *Fire) Payload() Payload {
	return Payload{Points: &f.pool.cloud}
}
