// Package analyser exposes frequency-domain magnitudes of the audio being
// played, in the shape the animation engine consumes: byte-valued bins,
// 0-255, over half the FFT size. The player's sample tap feeds it raw PCM;
// the render loop polls it once per frame without ever blocking.
package analyser

import (
	"fmt"
	"math"
)

const (
	// DefaultFFTSize gives 1024 frequency bins at ~21.5 Hz resolution.
	DefaultFFTSize = 2048

	sampleRate   = 44100
	channelCount = 2
	bytesPerSamp = 2 // 16-bit PCM

	// dB window mapped onto the 0-255 byte range.
	minDecibels = -100.0
	maxDecibels = -30.0

	// Temporal smoothing over successive frames, applied to linear
	// magnitudes before the dB conversion.
	smoothingFactor = 0.8
)

// Analyser computes smoothed frequency-bin magnitudes from a rolling window
// of PCM samples. All scratch buffers are allocated once; FrequencyData does
// no allocation after construction.
type Analyser struct {
	fftSize int
	ring    *ringBuffer

	window []float64 // precomputed Hann coefficients
	real   []float64
	imag   []float64
	smooth []float64
	raw    []byte // latest PCM window
	out    []byte
}

// New creates an analyser. fftSize must be a power of two; pass 0 for the
// default.
func New(fftSize int) (*Analyser, error) {
	if fftSize == 0 {
		fftSize = DefaultFFTSize
	}
	if fftSize < 32 || fftSize&(fftSize-1) != 0 {
		return nil, fmt.Errorf("fft size must be a power of two >= 32, got %d", fftSize)
	}

	frameBytes := fftSize * channelCount * bytesPerSamp
	a := &Analyser{
		fftSize: fftSize,
		// Hold a few windows so a slow frame doesn't starve the read.
		ring:   newRingBuffer(frameBytes * 4),
		window: make([]float64, fftSize),
		real:   make([]float64, fftSize),
		imag:   make([]float64, fftSize),
		smooth: make([]float64, fftSize/2),
		raw:    make([]byte, frameBytes),
		out:    make([]byte, fftSize/2),
	}
	for i := range a.window {
		a.window[i] = 0.5 * (1.0 - math.Cos(2.0*math.Pi*float64(i)/float64(fftSize-1)))
	}
	return a, nil
}

// BinCount returns the number of frequency bins (half the FFT size).
func (a *Analyser) BinCount() int { return a.fftSize / 2 }

// Write feeds raw 16-bit LE stereo PCM from the playback path. Safe to call
// from the audio goroutine.
func (a *Analyser) Write(pcm []byte) {
	a.ring.Write(pcm)
}

// Reset drops buffered samples and decays the smoothed spectrum to zero,
// used when playback seeks or stops.
func (a *Analyser) Reset() {
	a.ring.Clear()
	for i := range a.smooth {
		a.smooth[i] = 0
	}
}

// FrequencyData returns the current byte-valued bin magnitudes. It never
// blocks: with no signal buffered the bins decay toward zero. The returned
// slice is reused across calls and valid until the next call.
func (a *Analyser) FrequencyData() []byte {
	n := a.ring.ReadInto(a.raw)
	have := n / (channelCount * bytesPerSamp)

	// Mono mix and window. Missing samples read as silence so a fresh or
	// starved analyser degrades to zeros instead of erroring.
	for i := 0; i < a.fftSize; i++ {
		var v float64
		if i < have {
			off := i * channelCount * bytesPerSamp
			l := int16(uint16(a.raw[off]) | uint16(a.raw[off+1])<<8)
			r := int16(uint16(a.raw[off+2]) | uint16(a.raw[off+3])<<8)
			v = (float64(l) + float64(r)) / 65536.0
		}
		a.real[i] = v * a.window[i]
		a.imag[i] = 0
	}

	fft(a.real, a.imag)

	norm := 2.0 / float64(a.fftSize)
	for i := range a.smooth {
		mag := math.Sqrt(a.real[i]*a.real[i]+a.imag[i]*a.imag[i]) * norm
		a.smooth[i] = a.smooth[i]*smoothingFactor + mag*(1-smoothingFactor)

		a.out[i] = scaleToByte(a.smooth[i])
	}
	return a.out
}

// scaleToByte maps a linear magnitude onto 0-255 through the analyser's dB
// window, matching what the engine's band mapping expects.
func scaleToByte(mag float64) byte {
	if mag <= 0 {
		return 0
	}
	db := 20 * math.Log10(mag)
	scaled := (db - minDecibels) / (maxDecibels - minDecibels) * 255
	if scaled < 0 {
		return 0
	}
	if scaled > 255 {
		return 255
	}
	return byte(scaled)
}
