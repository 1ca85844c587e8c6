package engine

import (
	"math"
	"testing"
)

func constantBins(value byte, n int) []byte {
	bins := make([]byte, n)
	for i := range bins {
		bins[i] = value
	}
	return bins
}

func playingConfig(intensity float64) Config {
	return Config{Playing: true, Intensity: intensity, AccentHex: "#FF6A00"}
}

func TestFrameWithNilBinsNeverPanics(t *testing.T) {
	e := NewExtractor()
	snap := e.Frame(nil, playingConfig(1.0), 0.5)
	if snap.Playing {
		t.Fatal("nil bins must be treated as not playing")
	}
	for i, v := range snap.Bands {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("band %d degenerate: %v", i, v)
		}
	}
}

// Constant loud bins: each band must converge to its rescaled value
// (v - threshold) / (1 - threshold) under the exponential smoothing.
func TestBandsConvergeUnderConstantSignal(t *testing.T) {
	e := NewExtractor()
	bins := constantBins(200, 1024)
	cfg := playingConfig(1.0)

	var snap Snapshot
	now := 0.0
	for i := 0; i < 120; i++ {
		now += frameDt
		snap = e.Frame(bins, cfg, now)
	}

	v := 200.0 / 255
	for i := 0; i < BandCount; i++ {
		th := 0.08 + SeededRandom(float64(i*31))*0.08
		want := (v - th) / (1 - th)
		if diff := math.Abs(snap.Bands[i] - want); diff > 0.01 {
			t.Fatalf("band %d converged to %v, want %v (threshold %v)", i, snap.Bands[i], want, th)
		}
	}
}

func TestGlobalIntensityScalesWithMultiplier(t *testing.T) {
	bins := constantBins(128, 1024)

	low := NewExtractor().Frame(bins, playingConfig(0.5), frameDt)
	high := NewExtractor().Frame(bins, playingConfig(2.0), frameDt)

	if low.Intensity <= 0 {
		t.Fatalf("expected positive intensity, got %v", low.Intensity)
	}
	ratio := high.Intensity / low.Intensity
	if math.Abs(ratio-4) > 1e-9 {
		t.Fatalf("intensity should scale linearly with the multiplier: ratio %v", ratio)
	}
}

// When playback stops the bands must settle into the idle-breathing
// oscillation: bounded, non-zero, not diverging.
func TestIdleBandsStayWithinBreathingEnvelope(t *testing.T) {
	e := NewExtractor()
	cfg := playingConfig(1.0)

	// Warm up on a loud signal, then stop playback.
	bins := constantBins(220, 1024)
	now := 0.0
	for i := 0; i < 60; i++ {
		now += frameDt
		e.Frame(bins, cfg, now)
	}

	cfg.Playing = false
	var snap Snapshot
	for i := 0; i < 120; i++ { // 2s to settle
		now += frameDt
		snap = e.Frame(bins, cfg, now)
	}

	const slack = 0.02
	lo := idleIntensity - idleAmplitude - slack
	hi := idleIntensity + idleAmplitude + slack
	for i := 0; i < 300; i++ { // sample a further 5s
		now += frameDt
		snap = e.Frame(bins, cfg, now)
		for b, v := range snap.Bands {
			if v < lo || v > hi {
				t.Fatalf("idle band %d left the breathing envelope at t=%v: %v not in [%v,%v]", b, now, v, lo, hi)
			}
		}
	}
	if snap.Playing {
		t.Fatal("snapshot should report not playing")
	}
}

func TestIdleBandsAreNotStatic(t *testing.T) {
	e := NewExtractor()
	cfg := Config{Playing: false, Intensity: 1, AccentHex: "#123456"}

	now := 0.0
	for i := 0; i < 120; i++ {
		now += frameDt
		e.Frame(nil, cfg, now)
	}

	first := e.Frame(nil, cfg, now+frameDt).Bands[0]
	var moved bool
	for i := 0; i < 60; i++ {
		now += frameDt
		snap := e.Frame(nil, cfg, now)
		if math.Abs(snap.Bands[0]-first) > 1e-4 {
			moved = true
			break
		}
	}
	if !moved {
		t.Fatal("idle bands should oscillate, not freeze")
	}
}

func TestSmallBinCountStaysInBandRange(t *testing.T) {
	e := NewExtractor()
	// 128 bins (fftSize 256): the 60-500Hz window collapses to a couple of
	// bins; indexing must stay in bounds.
	snap := e.Frame(constantBins(255, 128), playingConfig(1.0), frameDt)
	for i, v := range snap.Bands {
		if v < 0 || v > 1 {
			t.Fatalf("band %d out of [0,1]: %v", i, v)
		}
	}
}
