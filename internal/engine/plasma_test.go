package engine

import (
	"math"
	"testing"
)

func TestBoltPointsAreDeterministic(t *testing.T) {
	a := boltPoints(nil, 17.31, 1.2, 0.8, 0.7, 3.456)
	b := boltPoints(nil, 17.31, 1.2, 0.8, 0.7, 3.456)
	if len(a) != boltPointCount || len(b) != boltPointCount {
		t.Fatalf("expected %d points, got %d and %d", boltPointCount, len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("point %d differs across identical calls: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestBoltPointsDifferAcrossSeeds(t *testing.T) {
	a := boltPoints(nil, tendrilSeed(3), 1.2, 0.8, 0.7, 3.456)
	b := boltPoints(nil, tendrilSeed(4), 1.2, 0.8, 0.7, 3.456)
	same := true
	for i := range a {
		if a[i] != b[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("different seeds produced identical bolts")
	}
}

// The jitter taper is sin(t*pi), so the bolt must start at the origin and
// terminate exactly on the computed endpoint regardless of jitter and kinks.
func TestBoltEndpointsArePinned(t *testing.T) {
	const eps = 1e-9
	for _, now := range []float64{0, 0.123, 7.7, 100.05} {
		angle, length := 2.1, 0.85
		pts := boltPoints(nil, 42.5, angle, length, 0.9, now)

		origin := pts[0]
		if math.Hypot(origin.X, origin.Y) > eps || math.Abs(origin.Z) > eps {
			t.Fatalf("t=%v: bolt origin drifted: %+v", now, origin)
		}

		tip := pts[len(pts)-1]
		wantX, wantY := math.Cos(angle)*length, math.Sin(angle)*length
		if math.Abs(tip.X-wantX) > eps || math.Abs(tip.Y-wantY) > eps || math.Abs(tip.Z) > eps {
			t.Fatalf("t=%v: bolt tip off target: got %+v want (%v,%v,0)", now, tip, wantX, wantY)
		}
	}
}

func TestVisibleCountScalesWithIntensity(t *testing.T) {
	pl := NewPlasma()
	cases := []struct {
		intensity float64
		want      int
	}{
		{0, minVisibleTendrils},
		{0.05, minVisibleTendrils},
		{0.5, 36},
		{1.0, TendrilCount},
		{3.0, TendrilCount},
	}
	for _, c := range cases {
		if got := pl.VisibleCount(c.intensity); got != c.want {
			t.Fatalf("VisibleCount(%v) = %d, want %d", c.intensity, got, c.want)
		}
	}
}

// Tendril identity is by base index: growing and shrinking the visible
// subset must keep the surviving indices stable and evenly spaced.
func TestVisibleSubsetKeepsBaseIndexIdentity(t *testing.T) {
	pl := NewPlasma()

	pl.refreshVisible(36)
	for i, base := range pl.visible {
		if base != i*2 {
			t.Fatalf("visible[%d] = %d, want %d", i, base, i*2)
		}
	}

	pl.refreshVisible(TendrilCount)
	for i, base := range pl.visible {
		if base != i {
			t.Fatalf("full subset: visible[%d] = %d", i, base)
		}
	}
}

// End-to-end scenario: full intensity, loud constant signal, 72 tendrils.
func TestPlasmaFullIntensityShowsAllTendrils(t *testing.T) {
	e := NewExtractor()
	pl := NewPlasma()
	cfg := playingConfig(1.0)
	bins := constantBins(200, 1024)

	now := 0.0
	for i := 0; i < 90; i++ {
		now += frameDt
		snap := e.Frame(bins, cfg, now)
		pl.Update(snap, cfg, frameDt)
	}

	payload := pl.Payload()
	if len(payload.Lines) != TendrilCount {
		t.Fatalf("expected %d visible tendrils, got %d", TendrilCount, len(payload.Lines))
	}
	for i, line := range payload.Lines {
		if len(line.Points) != boltPointCount {
			t.Fatalf("tendril %d has %d points", i, len(line.Points))
		}
		if line.Width < 0 {
			t.Fatalf("tendril %d has negative width %v", i, line.Width)
		}
		for _, p := range line.Points {
			if math.Hypot(p.X, p.Y) > outerRadius+0.2 {
				t.Fatalf("tendril %d point outside the disk: %+v", i, p)
			}
		}
	}
}
