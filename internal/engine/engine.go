// Package engine implements the audio-reactive animation core: it converts
// frequency-bin magnitudes into per-band intensities and a beat envelope,
// and drives three procedural simulations (plasma tendrils, fire particles,
// water bubbles) that emit renderer-agnostic geometry every frame.
//
// The engine is single-threaded and frame-driven: all state mutates inside
// Update, which the host loop calls once per frame with the measured
// delta-time. Nothing here blocks, allocates on the hot path, or talks to
// the audio device directly.
package engine

import colorful "github.com/lucasb-eyer/go-colorful"

// QualityTier selects how much non-essential work runs per frame. Low may
// skip scene-level animation on alternate frames; the audio-reactive update
// always runs, since skipping it would desynchronize audio and visuals.
type QualityTier int

const (
	QualityHigh QualityTier = iota
	QualityLow
)

// Config is the settings snapshot read at the top of every frame. It is
// plain data passed by value; there is no settings singleton.
type Config struct {
	Playing   bool
	Intensity float64 // global intensity multiplier, >= 0
	AccentHex string  // "#RRGGBB"; malformed values fall back to a default
	Quality   QualityTier
}

// Vec3 is a point in the simulation's unit-disk space. Z carries only subtle
// depth jitter.
type Vec3 struct {
	X, Y, Z float64
}

// Polyline is one plasma tendril ready for stroking.
type Polyline struct {
	Points []Vec3
	Color  colorful.Color
	Width  float64
}

// PointCloud holds fixed-length parallel buffers indexed identically to the
// particle pool. Inactive slots carry the off-screen sentinel and size 0
// rather than being compacted out, so the render buffers never resize.
type PointCloud struct {
	Positions []float64 // x,y,z per slot
	Colors    []float64 // r,g,b per slot
	Sizes     []float64 // one per slot
}

// Payload is what one simulation hands the renderer each frame. Exactly one
// of Lines or Points is populated, depending on the simulation kind.
type Payload struct {
	Lines  []Polyline
	Points *PointCloud
}

// Simulation is one visual mode. Update advances the internal state from the
// frame's audio snapshot; Payload returns geometry valid until the next
// Update.
type Simulation interface {
	Name() string
	Update(snap Snapshot, cfg Config, dt float64)
	Payload() Payload
}

// Mode identifies a simulation kind for mounting.
type Mode int

const (
	ModePlasma Mode = iota
	ModeFire
	ModeWater
	modeCount
)

func (m Mode) String() string {
	switch m {
	case ModePlasma:
		return "plasma"
	case ModeFire:
		return "fire"
	case ModeWater:
		return "water"
	}
	return "unknown"
}

// FrequencySource supplies the latest frequency-bin magnitudes. The call must
// never block; a source with no signal returns zeros or nil.
type FrequencySource interface {
	FrequencyData() []byte
}

// Engine owns the feature extractor and the currently mounted simulation.
// Simulations are independent consumers of the shared snapshot, so switching
// modes simply discards one simulation and constructs the next — there is no
// state to migrate.
type Engine struct {
	source    FrequencySource
	extractor *Extractor
	sim       Simulation
	mode      Mode
	elapsed   float64
	intensity float64
}

// New creates an engine reading from source, mounted on the plasma mode.
// A nil source is allowed and behaves as silence.
func New(source FrequencySource) *Engine {
	e := &Engine{
		source:    source,
		extractor: NewExtractor(),
	}
	e.SetMode(ModePlasma)
	return e
}

// Mode returns the currently mounted simulation mode.
func (e *Engine) Mode() Mode { return e.mode }

// SetMode mounts a fresh simulation of the given kind, discarding the old
// one's particle pools and envelope state.
func (e *Engine) SetMode(m Mode) {
	switch m {
	case ModeFire:
		e.sim = NewFire()
	case ModeWater:
		e.sim = NewWater()
	default:
		m = ModePlasma
		e.sim = NewPlasma()
	}
	e.mode = m
}

// CycleMode mounts the next simulation kind.
func (e *Engine) CycleMode() {
	e.SetMode((e.mode + 1) % modeCount)
}

// SimName returns the mounted simulation's display name.
func (e *Engine) SimName() string { return e.sim.Name() }

// Update advances the engine by dt seconds and returns the frame's payload.
// Reading the frequency source is non-blocking; an absent or silent source
// takes the idle-animation path inside the extractor.
func (e *Engine) Update(cfg Config, dt float64) Payload {
	if dt < 0 {
		dt = 0
	}
	e.elapsed += dt

	var bins []byte
	if e.source != nil {
		bins = e.source.FrequencyData()
	}
	snap := e.extractor.Frame(bins, cfg, e.elapsed)
	e.intensity = snap.Intensity

	e.sim.Update(snap, cfg, dt)
	return e.sim.Payload()
}

// Intensity returns the global intensity of the last processed frame.
func (e *Engine) Intensity() float64 { return e.intensity }

// Elapsed returns the total simulated time in seconds.
func (e *Engine) Elapsed() float64 { return e.elapsed }
