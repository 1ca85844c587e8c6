package engine

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

const (
	// TendrilCount is the fixed ring of base tendril positions. The visible
	// subset is chosen from these by stride, so a tendril's identity (and
	// therefore its band, seed, and angle) is stable as the subset grows
	// and shrinks.
	TendrilCount = BandCount

	boltPointCount = 12

	tendrilWanderSpeed  = 0.7
	tendrilWanderAmount = 0.25

	boltJitterAmp = 0.09
	boltKinkAmp   = 0.12
	boltKinkOdds  = 0.05
	boltDepthAmp  = 0.02

	minVisibleTendrils = 8
)

// Plasma renders a ring of lightning tendrils, one per feature band. Bolt
// geometry is regenerated from scratch every frame as a pure function of
// (seed, time, intensity); the only persistent state is the band smoothing
// kept by the extractor and the memoized visible-index table.
type Plasma struct {
	pulse     *PulseTracker
	accentHex string
	accent    colorful.Color

	// visible is rebuilt only when the visible count changes, not per frame.
	visible      []int
	visibleCount int

	lines  []Polyline
	points [][boltPointCount]Vec3
}

// NewPlasma creates a plasma simulation.
func NewPlasma() *Plasma {
	return &Plasma{
		pulse:  NewPulseTracker(DefaultPulseTuning),
		accent: defaultAccent,
		lines:  make([]Polyline, 0, TendrilCount),
		points: make([][boltPointCount]Vec3, TendrilCount),
	}
}

func (pl *Plasma) Name() string { return "plasma" }

// VisibleCount returns how many tendrils are shown at the given global
// intensity setting.
func (pl *Plasma) VisibleCount(intensity float64) int {
	n := int(float64(TendrilCount) * intensity)
	if n < minVisibleTendrils {
		n = minVisibleTendrils
	}
	if n > TendrilCount {
		n = TendrilCount
	}
	return n
}

// refreshVisible recomputes the evenly-spaced subset of base indices.
// Memoized on the count: identity by base index must survive count changes.
func (pl *Plasma) refreshVisible(count int) {
	if count == pl.visibleCount && pl.visible != nil {
		return
	}
	pl.visibleCount = count
	pl.visible = pl.visible[:0]
	for i := 0; i < count; i++ {
		pl.visible = append(pl.visible, i*TendrilCount/count)
	}
}

func (pl *Plasma) Update(snap Snapshot, cfg Config, dt float64) {
	if cfg.AccentHex != pl.accentHex {
		pl.accentHex = cfg.AccentHex
		pl.accent = ParseAccent(cfg.AccentHex)
	}

	pulse := pl.pulse.Update(snap.Intensity, dt)
	pl.refreshVisible(pl.VisibleCount(cfg.Intensity))

	pl.lines = pl.lines[:0]
	for slot, base := range pl.visible {
		intensity := clamp01(snap.Bands[base] * (1 + 0.3*pulse))

		angle := tendrilAngle(base)
		seed := tendrilSeed(base)
		wander := math.Sin(snap.Time*tendrilWanderSpeed+seed) * tendrilWanderAmount
		length := innerRadius + intensity*(outerRadius-innerRadius)

		pts := boltPoints(pl.points[slot][:0], seed, angle+wander, length, intensity, snap.Time)

		pl.lines = append(pl.lines, Polyline{
			Points: pts,
			Color:  PlasmaColor(pl.accent, intensity),
			Width:  0.5 + intensity*2.5,
		})
	}
}

func (pl *Plasma) Payload() Payload {
	return Payload{Lines: pl.lines}
}

// tendrilAngle is the fixed ring position of a base index.
func tendrilAngle(base int) float64 {
	return float64(base) / TendrilCount * 2 * math.Pi
}

// tendrilSeed is the deterministic per-tendril shape anchor.
func tendrilSeed(base int) float64 {
	return float64(base) * 17.31
}

// boltPoints generates one lightning bolt from the origin to the tip at
// (angle, length). It is a pure function of its arguments: the same seed at
// the same time and intensity always produces the same shape. Three layered
// sine waves jitter the midsection, tapered by sin(t*pi) so the origin and
// tip stay pinned; an occasional kink snaps a point sideways; a small
// z-term gives the bolt depth.
func boltPoints(dst []Vec3, seed, angle, length, intensity, now float64) []Vec3 {
	dirX, dirY := math.Cos(angle), math.Sin(angle)
	perpX, perpY := -dirY, dirX

	// Kinks re-roll on a 100ms quantum rather than every frame, so they
	// read as discrete snaps instead of shimmer.
	quantum := math.Floor(now * 10)

	for k := 0; k < boltPointCount; k++ {
		t := float64(k) / (boltPointCount - 1)
		taper := math.Sin(t * math.Pi)

		jitter := math.Sin(now*6+seed+t*12)*0.4 +
			math.Sin(now*11+seed*1.7+t*23)*0.35 +
			math.Sin(now*17+seed*2.3+t*37)*0.25
		offset := jitter * taper * boltJitterAmp * (0.5 + intensity)

		roll := SeededRandom(seed*7.9 + float64(k)*31.7 + quantum*101.3)
		if roll < boltKinkOdds {
			kick := SeededRandom(seed*3.1+float64(k)*13.7+quantum*57.7) - 0.5
			offset += kick * boltKinkAmp * taper
		}

		along := length * t
		dst = append(dst, Vec3{
			X: dirX*along + perpX*offset,
			Y: dirY*along + perpY*offset,
			Z: math.Sin(now*4+seed+t*19) * boltDepthAmp * taper,
		})
	}
	return dst
}
