package player

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/glimmer-app/glimmer/internal/analyser"
)

const (
	sampleRate   = 44100
	channelCount = 2
	bitDepth     = 2 // 16-bit = 2 bytes
	bytesPerSec  = sampleRate * channelCount * bitDepth
)

// tapReader wraps the decoder stream, tracks the playback position, and tees
// every byte into the analyser so the visualizer sees exactly the samples
// about to be audible. Reads happen on oto's audio goroutine.
type tapReader struct {
	reader io.ReadSeeker
	tap    *analyser.Analyser
	pos    int64
	mu     sync.Mutex
}

func (tr *tapReader) Read(p []byte) (int, error) {
	n, err := tr.reader.Read(p)
	if n > 0 && tr.tap != nil {
		tr.tap.Write(p[:n])
	}
	tr.mu.Lock()
	tr.pos += int64(n)
	tr.mu.Unlock()
	return n, err
}

func (tr *tapReader) Pos() int64 {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return tr.pos
}

func (tr *tapReader) SetPos(pos int64) {
	tr.mu.Lock()
	tr.pos = pos
	tr.mu.Unlock()
}

// Player decodes a local audio file and plays it through oto.
type Player struct {
	file      *os.File
	decoder   audioDecoder
	counter   *tapReader
	analyser  *analyser.Analyser
	otoCtx    *oto.Context
	otoPlayer *oto.Player
	duration  time.Duration
	volume    float64
	paused    bool
	done      chan struct{}
	mu        sync.Mutex
	closed    bool
}

var (
	globalOtoCtx *oto.Context
	otoOnce      sync.Once
	otoInitErr   error
)

func initOto() (*oto.Context, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: channelCount,
			Format:       oto.FormatSignedInt16LE,
		}
		var ready chan struct{}
		globalOtoCtx, ready, otoInitErr = oto.NewContext(op)
		if otoInitErr == nil {
			<-ready
		}
	})
	return globalOtoCtx, otoInitErr
}

// New creates a Player for the given audio file. The analyser may be nil to
// play without feeding the visualizer.
func New(path string, an *analyser.Analyser) (*Player, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	dec, err := newDecoder(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	ctx, err := initOto()
	if err != nil {
		f.Close()
		return nil, err
	}

	dur := time.Duration(float64(dec.Length()) / float64(bytesPerSec) * float64(time.Second))
	tr := &tapReader{reader: dec, tap: an}

	p := &Player{
		file:     f,
		decoder:  dec,
		counter:  tr,
		analyser: an,
		otoCtx:   ctx,
		duration: dur,
		volume:   0.8,
		done:     make(chan struct{}),
	}

	p.otoPlayer = ctx.NewPlayer(tr)
	p.otoPlayer.SetVolume(p.volume)
	p.otoPlayer.Play()

	go p.monitor()

	return p, nil
}

func (p *Player) monitor() {
	// Poll until playback finishes or the player is closed.
	for {
		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			return
		}
		pos := p.counter.Pos()
		total := p.decoder.Length()
		paused := p.paused
		done := p.done
		p.mu.Unlock()

		if !paused && pos >= total {
			close(done)
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
}

// Done returns a channel that closes when playback finishes.
func (p *Player) Done() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

// Restart seeks to the beginning and resumes playback, resetting the done
// channel so Done can be used again.
func (p *Player) Restart() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.decoder.Seek(0, io.SeekStart)
	p.counter.SetPos(0)
	if p.analyser != nil {
		p.analyser.Reset()
	}

	p.otoPlayer.Pause()
	p.otoPlayer = p.otoCtx.NewPlayer(p.counter)
	p.otoPlayer.SetVolume(p.volume)

	p.done = make(chan struct{})
	p.paused = false
	p.otoPlayer.Play()

	go p.monitor()
}

// TogglePause toggles between play and pause. Pausing resets the analyser so
// the visualizer drops into its idle animation instead of freezing on the
// last spectrum.
func (p *Player) TogglePause() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.paused {
		p.otoPlayer.Play()
		p.paused = false
	} else {
		p.otoPlayer.Pause()
		p.paused = true
		if p.analyser != nil {
			p.analyser.Reset()
		}
	}
}

// Paused returns whether playback is paused.
func (p *Player) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// Position returns the current playback position.
func (p *Player) Position() time.Duration {
	pos := p.counter.Pos()
	secs := float64(pos) / float64(bytesPerSec)
	return time.Duration(secs * float64(time.Second))
}

// Duration returns the total duration of the track.
func (p *Player) Duration() time.Duration {
	return p.duration
}

// Seek moves playback by the given delta from the current position.
func (p *Player) Seek(delta time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	newPos := p.counter.Pos() + int64(delta.Seconds()*float64(bytesPerSec))
	if newPos < 0 {
		newPos = 0
	}
	if total := p.decoder.Length(); newPos > total {
		newPos = total
	}

	// Align to a frame boundary (2 channels * 2 bytes).
	newPos -= newPos % 4

	if _, err := p.decoder.Seek(newPos, io.SeekStart); err != nil {
		return
	}
	p.counter.SetPos(newPos)
	if p.analyser != nil {
		p.analyser.Reset()
	}

	// Recreate the oto player to flush its buffered audio.
	wasPaused := p.paused
	p.otoPlayer.Pause()
	p.otoPlayer = p.otoCtx.NewPlayer(p.counter)
	p.otoPlayer.SetVolume(p.volume)
	if !wasPaused {
		p.otoPlayer.Play()
	}
}

// Volume returns the current volume (0.0 to 1.0).
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// SetVolume sets the volume, clamped to 0.0-1.0.
func (p *Player) SetVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	p.volume = v
	p.otoPlayer.SetVolume(v)
}

// AdjustVolume adjusts the volume by delta.
func (p *Player) AdjustVolume(delta float64) {
	p.mu.Lock()
	v := p.volume + delta
	p.mu.Unlock()
	p.SetVolume(v)
}

// Close releases the audio device and clears the analyser feed.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	p.otoPlayer.Pause()
	if p.analyser != nil {
		p.analyser.Reset()
	}
	p.file.Close()
}
