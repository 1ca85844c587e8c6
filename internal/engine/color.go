package engine

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// defaultAccent is used whenever the configured accent string fails to parse.
var defaultAccent = colorful.Color{R: 0.306, G: 0.651, B: 1.0} // #4EA6FF

// ParseAccent parses a "#RRGGBB" accent string. A malformed string is not an
// error: it falls back to the default accent so a bad settings value can
// never take the visualizer down.
func ParseAccent(hex string) colorful.Color {
	// colorful.Hex is lenient about truncated or padded input, so the
	// "#RRGGBB" shape is checked here first.
	if len(hex) != 7 || hex[0] != '#' {
		return defaultAccent
	}
	for i := 1; i < 7; i++ {
		if !isHexDigit(hex[i]) {
			return defaultAccent
		}
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return defaultAccent
	}
	return c
}

func isHexDigit(b byte) bool {
	switch {
	case b >= '0' && b <= '9':
		return true
	case b >= 'a' && b <= 'f':
		return true
	case b >= 'A' && b <= 'F':
		return true
	}
	return false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// PlasmaColor blends from white toward the accent as intensity rises, with a
// glow boost (brighter, less saturated) above 0.6 intensity so hot tendrils
// read as overdriven.
func PlasmaColor(accent colorful.Color, intensity float64) colorful.Color {
	intensity = clamp01(intensity)
	white := colorful.Color{R: 1, G: 1, B: 1}
	c := white.BlendRgb(accent, intensity)
	if intensity > 0.6 {
		boost := (intensity - 0.6) / 0.4
		h, s, l := c.Hsl()
		c = colorful.Hsl(h, s*(1-0.45*boost), math.Min(1, l+0.3*boost))
	}
	return clampColor(c)
}

// FireColor warm-shifts the accent toward orange, glows pale near the spawn
// core, and desaturates as the particle ages.
func FireColor(accent colorful.Color, intensity, dist, age float64) colorful.Color {
	intensity = clamp01(intensity)
	age = clamp01(age)

	h, s, l := accent.Hsl()
	// Pull the hue toward 30 degrees (fire) by up to half its distance.
	h = h + angleDelta(h, 30)*0.5
	s = clamp01(s*(1.1-0.5*age) + 0.2*intensity)
	l = clamp01(l + 0.15*intensity - 0.1*age)
	c := colorful.Hsl(h, s, l)

	// Pale core: the closer to the spawn radius, the whiter the particle.
	core := clamp01(1 - dist/0.35)
	if core > 0 {
		pale := colorful.Color{R: 1, G: 0.96, B: 0.88}
		c = c.BlendRgb(pale, core*0.7)
	}
	return clampColor(c)
}

// WaterColor cool-shifts the accent toward blue with a shimmer term; the
// alpha envelope is applied by the caller through the size/brightness path.
func WaterColor(accent colorful.Color, intensity, shimmer float64) colorful.Color {
	intensity = clamp01(intensity)

	h, s, l := accent.Hsl()
	h = h + angleDelta(h, 210)*0.6
	s = clamp01(s*0.85 + 0.1*intensity)
	l = clamp01(l + 0.1*intensity + 0.12*shimmer)
	return clampColor(colorful.Hsl(h, s, l))
}

// angleDelta returns the signed shortest distance from hue a to hue b in
// degrees, in (-180, 180].
func angleDelta(a, b float64) float64 {
	d := math.Mod(b-a, 360)
	if d > 180 {
		d -= 360
	}
	if d <= -180 {
		d += 360
	}
	return d
}

func clampColor(c colorful.Color) colorful.Color {
	return colorful.Color{R: clamp01(c.R), G: clamp01(c.G), B: clamp01(c.B)}
}
