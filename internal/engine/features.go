package engine

import "math"

const (
	// BandCount is the number of logical feature bands, one per tendril.
	BandCount = 72

	// nyquistHz is the effective Nyquist frequency the band mapping assumes;
	// the analyser is configured to match.
	nyquistHz = 22050.0

	bandLowHz  = 60.0
	bandHighHz = 500.0

	lowFreqRatio = 0.25 // fraction of bins feeding the global intensity

	riseDecay = 0.5 // fast attack
	fallDecay = 0.7 // slow release

	idleIntensity = 0.06
	idleAmplitude = 0.03
	idleGlobal    = 0.05
)

// Snapshot is the per-frame audio state every simulation consumes. The slices
// are owned by the extractor and valid only for the frame in which they were
// produced; simulations are read-only consumers.
type Snapshot struct {
	Bins      []byte    // raw frequency-bin magnitudes, 0-255
	Bands     []float64 // BandCount smoothed intensities in [0,1]
	Intensity float64   // global low-frequency intensity, scaled by config
	Playing   bool
	Time      float64 // elapsed seconds
}

// Extractor turns raw frequency-bin magnitudes into the per-band and global
// intensities that drive the simulations. It keeps the smoothing state across
// frames; everything else in the snapshot is recomputed in place each frame.
type Extractor struct {
	thresholds [BandCount]float64
	bands      [BandCount]float64
	global     float64
}

// NewExtractor creates an extractor. Per-band noise thresholds are fixed,
// seeded off the band index so every run gates the same bands the same way.
func NewExtractor() *Extractor {
	e := &Extractor{}
	for i := range e.thresholds {
		e.thresholds[i] = 0.08 + SeededRandom(float64(i*31))*0.08
	}
	return e
}

// Frame computes the snapshot for one render frame. A nil or empty bin slice
// is treated the same as paused playback: the idle-breathing path, never an
// error.
func (e *Extractor) Frame(bins []byte, cfg Config, now float64) Snapshot {
	live := cfg.Playing && len(bins) > 0

	if live {
		e.global = averageMagnitude(bins, lowFreqRatio) * cfg.Intensity
	} else {
		// Paused or no analyser: settle the global toward a small idle
		// value so the scene keeps breathing instead of freezing.
		e.global = e.global*fallDecay + idleGlobal*(1-fallDecay)
	}

	binRes := nyquistHz / float64(max(1, len(bins)))
	lowBin := 0
	span := 0
	if live {
		lowBin = int(bandLowHz / binRes)
		highBin := int(bandHighHz / binRes)
		if highBin >= len(bins) {
			highBin = len(bins) - 1
		}
		if lowBin > highBin {
			lowBin = highBin
		}
		span = highBin - lowBin
	}

	for i := 0; i < BandCount; i++ {
		var target float64
		if live {
			bin := lowBin + int(float64(i)/BandCount*float64(span))
			v := float64(bins[bin]) / 255
			if th := e.thresholds[i]; v > th {
				target = (v - th) / (1 - th)
			}
		} else {
			target = idleIntensity + math.Sin(now*2+float64(i)*0.3)*idleAmplitude
		}

		d := fallDecay
		if target > e.bands[i] {
			d = riseDecay
		}
		e.bands[i] = e.bands[i]*d + target*(1-d)
	}

	return Snapshot{
		Bins:      bins,
		Bands:     e.bands[:],
		Intensity: e.global,
		Playing:   live,
		Time:      now,
	}
}

// averageMagnitude returns the mean magnitude over the lowest ratio fraction
// of bins, normalized to [0,1].
func averageMagnitude(bins []byte, ratio float64) float64 {
	n := int(float64(len(bins)) * ratio)
	if n < 1 {
		n = 1
	}
	if n > len(bins) {
		n = len(bins)
	}
	var sum float64
	for _, b := range bins[:n] {
		sum += float64(b)
	}
	return sum / float64(n) / 255
}
