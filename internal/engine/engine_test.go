package engine

import "testing"

// fakeSource replays a fixed bin pattern, standing in for the analyser.
type fakeSource struct {
	bins []byte
}

func (s *fakeSource) FrequencyData() []byte { return s.bins }

func TestEngineRunsWithoutASource(t *testing.T) {
	e := New(nil)
	cfg := Config{Playing: true, Intensity: 1, AccentHex: "#AABBCC"}

	var payload Payload
	for i := 0; i < 60; i++ {
		payload = e.Update(cfg, frameDt)
	}
	if payload.Lines == nil {
		t.Fatal("plasma payload missing even in idle mode")
	}
	if len(payload.Lines) < minVisibleTendrils {
		t.Fatalf("expected at least %d idle tendrils, got %d", minVisibleTendrils, len(payload.Lines))
	}
}

func TestEngineCyclesThroughAllModes(t *testing.T) {
	e := New(&fakeSource{bins: constantBins(180, 1024)})
	cfg := playingConfig(1.0)

	seen := map[Mode]bool{}
	for i := 0; i < int(modeCount); i++ {
		seen[e.Mode()] = true
		payload := e.Update(cfg, frameDt)
		switch e.Mode() {
		case ModePlasma:
			if payload.Lines == nil || payload.Points != nil {
				t.Fatalf("plasma payload shape wrong: %+v", payload)
			}
		default:
			if payload.Points == nil || payload.Lines != nil {
				t.Fatalf("%s payload shape wrong", e.Mode())
			}
		}
		e.CycleMode()
	}
	if len(seen) != int(modeCount) {
		t.Fatalf("cycle visited %d modes, want %d", len(seen), modeCount)
	}
	if e.Mode() != ModePlasma {
		t.Fatalf("cycle should wrap back to plasma, got %s", e.Mode())
	}
}

// Switching modes mounts a fresh simulation: no particle state crosses over.
func TestSetModeDiscardsSimulationState(t *testing.T) {
	e := New(&fakeSource{bins: constantBins(220, 1024)})
	cfg := playingConfig(1.0)

	e.SetMode(ModeFire)
	for i := 0; i < 120; i++ {
		e.Update(cfg, frameDt)
	}
	fire := e.sim.(*Fire)
	if fire.pool.activeCount() == 0 {
		t.Fatal("expected live fire particles before the switch")
	}

	e.SetMode(ModeWater)
	e.SetMode(ModeFire)
	fresh := e.sim.(*Fire)
	if fresh == fire {
		t.Fatal("remount reused the old simulation instance")
	}
	if got := fresh.pool.activeCount(); got != 0 {
		t.Fatalf("fresh mount should start inactive, got %d live particles", got)
	}
}

func TestEngineClampsNegativeDelta(t *testing.T) {
	e := New(nil)
	e.Update(Config{}, -1)
	if e.Elapsed() != 0 {
		t.Fatalf("negative dt advanced time to %v", e.Elapsed())
	}
}

func TestModeNames(t *testing.T) {
	cases := map[Mode]string{
		ModePlasma: "plasma",
		ModeFire:   "fire",
		ModeWater:  "water",
		Mode(99):   "unknown",
	}
	for m, want := range cases {
		if got := m.String(); got != want {
			t.Fatalf("Mode(%d).String() = %q, want %q", int(m), got, want)
		}
	}
}
