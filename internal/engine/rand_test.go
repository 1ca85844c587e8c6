package engine

import (
	"math"
	"testing"
)

func TestSeededRandomIsDeterministic(t *testing.T) {
	for _, seed := range []float64{0, 1, 17.31, 2231, 99999.5} {
		a := SeededRandom(seed)
		b := SeededRandom(seed)
		if a != b {
			t.Fatalf("SeededRandom(%v) not deterministic: %v vs %v", seed, a, b)
		}
	}
}

func TestSeededRandomStaysInRange(t *testing.T) {
	for i := 0; i < 10000; i++ {
		v := SeededRandom(float64(i) * 0.37)
		if v < 0 || v >= 1 {
			t.Fatalf("SeededRandom out of [0,1) at seed %d: %v", i, v)
		}
	}
}

func TestGoldenRandomIsDeterministicAndInRange(t *testing.T) {
	for i := 0; i < 10000; i++ {
		seed := float64(i) * 1.7
		v := GoldenRandom(seed)
		if v != GoldenRandom(seed) {
			t.Fatalf("GoldenRandom(%v) not deterministic", seed)
		}
		if v < 0 || v >= 1 {
			t.Fatalf("GoldenRandom out of [0,1) at seed %v: %v", seed, v)
		}
	}
}

func TestGoldenAngleWrapsToCircle(t *testing.T) {
	for i := -100; i < 1000; i++ {
		a := GoldenAngleAt(i, 0.5)
		if a < 0 || a >= 2*math.Pi {
			t.Fatalf("GoldenAngleAt(%d) out of [0,2pi): %v", i, a)
		}
	}
}

// The whole point of the golden-angle distribution is that consecutive spawn
// directions never land near each other.
func TestGoldenAngleSpreadsConsecutiveIndices(t *testing.T) {
	for i := 0; i < 500; i++ {
		a := GoldenAngleAt(i, 0)
		b := GoldenAngleAt(i+1, 0)
		d := math.Abs(a - b)
		if d > math.Pi {
			d = 2*math.Pi - d
		}
		if d < 0.5 {
			t.Fatalf("consecutive golden angles too close at index %d: %v rad apart", i, d)
		}
	}
}
