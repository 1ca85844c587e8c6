package engine

import "math"

// Golden ratio and the derived golden angle (~2.399 rad). Spawn directions
// and turbulence phases are distributed with these so no two particles ever
// line up on a visible repeating pattern.
const (
	phi         = 1.618033988749895
	goldenAngle = phi * 2 * math.Pi
)

// SeededRandom returns a deterministic pseudo-random value in [0,1) for the
// given seed, via the classic sine-fract hash. Same seed, same value — that
// is the point: per-index thresholds and kinks must be reproducible across
// frames.
func SeededRandom(seed float64) float64 {
	v := math.Sin(seed*12.9898+seed*78.233) * 43758.5453
	return v - math.Floor(v)
}

// GoldenRandom returns a deterministic pseudo-random value in [0,1) as the
// fractional part of seed*phi. Cheaper than SeededRandom and more uniformly
// spread over sequential seeds, which suits spawn parameter variation.
func GoldenRandom(seed float64) float64 {
	v := seed * phi
	return v - math.Floor(v)
}

// GoldenAngleAt returns the phyllotaxis angle for an index: index*phi*2pi
// plus offset, wrapped to [0,2pi).
func GoldenAngleAt(index int, offset float64) float64 {
	a := math.Mod(float64(index)*goldenAngle+offset, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}
