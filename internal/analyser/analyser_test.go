package analyser

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestNewRejectsBadFFTSizes(t *testing.T) {
	for _, size := range []int{-1, 3, 100, 1000, 16} {
		if _, err := New(size); err == nil {
			t.Fatalf("New(%d) should fail", size)
		}
	}
}

func TestNewDefaultsTo2048(t *testing.T) {
	a, err := New(0)
	if err != nil {
		t.Fatalf("New(0): %v", err)
	}
	if got := a.BinCount(); got != 1024 {
		t.Fatalf("default BinCount = %d, want 1024", got)
	}
}

func TestFrequencyDataIsZeroWithoutSignal(t *testing.T) {
	a, _ := New(512)
	bins := a.FrequencyData()
	if len(bins) != 256 {
		t.Fatalf("bin count %d, want 256", len(bins))
	}
	for i, b := range bins {
		if b != 0 {
			t.Fatalf("bin %d nonzero without signal: %d", i, b)
		}
	}
}

// sinePCM renders a stereo 16-bit tone at the given frequency.
func sinePCM(freq float64, frames int) []byte {
	pcm := make([]byte, frames*4)
	for i := 0; i < frames; i++ {
		s := int16(math.Sin(2*math.Pi*freq*float64(i)/sampleRate) * 20000)
		binary.LittleEndian.PutUint16(pcm[i*4:], uint16(s))
		binary.LittleEndian.PutUint16(pcm[i*4+2:], uint16(s))
	}
	return pcm
}

func TestToneShowsUpInTheRightBin(t *testing.T) {
	a, _ := New(2048)
	freq := 440.0
	a.Write(sinePCM(freq, 4096))

	// A few reads to let the temporal smoothing settle.
	var bins []byte
	for i := 0; i < 20; i++ {
		bins = a.FrequencyData()
	}

	peak := 0
	for i := range bins {
		if bins[i] > bins[peak] {
			peak = i
		}
	}
	wantBin := int(freq / (float64(sampleRate) / 2048))
	if peak < wantBin-2 || peak > wantBin+2 {
		t.Fatalf("440Hz tone peaked at bin %d, want ~%d", peak, wantBin)
	}
	if bins[peak] == 0 {
		t.Fatal("tone produced a silent spectrum")
	}
}

func TestResetDecaysSpectrumToZero(t *testing.T) {
	a, _ := New(1024)
	a.Write(sinePCM(200, 2048))
	a.FrequencyData()

	a.Reset()
	bins := a.FrequencyData()
	for i, b := range bins {
		if b != 0 {
			t.Fatalf("bin %d survived reset: %d", i, b)
		}
	}
}

func TestRingBufferKeepsMostRecentBytes(t *testing.T) {
	rb := newRingBuffer(8)
	rb.Write([]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})

	dst := make([]byte, 4)
	n := rb.ReadInto(dst)
	if n != 4 {
		t.Fatalf("read %d bytes, want 4", n)
	}
	want := []byte{7, 8, 9, 10}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("recent window = %v, want %v", dst, want)
		}
	}
}

func TestRingBufferReadFromEmpty(t *testing.T) {
	rb := newRingBuffer(16)
	if n := rb.ReadInto(make([]byte, 8)); n != 0 {
		t.Fatalf("empty buffer returned %d bytes", n)
	}
}
