package player

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"
)

// audioDecoder yields 16-bit LE stereo-interleaved PCM for any supported
// container.
type audioDecoder interface {
	io.ReadSeeker
	Length() int64
	SampleRate() int
	Channels() int
}

// newDecoder picks a decoder by file extension.
func newDecoder(f *os.File) (audioDecoder, error) {
	switch ext := strings.ToLower(filepath.Ext(f.Name())); ext {
	case ".mp3":
		return newMP3Decoder(f)
	case ".wav":
		return newWAVDecoder(f)
	case ".flac":
		return newFLACDecoder(f)
	case ".ogg":
		return newOGGDecoder(f)
	default:
		return nil, fmt.Errorf("unsupported format: %s", ext)
	}
}

// pcmStream carries the output-position bookkeeping and partial-read
// buffering shared by the converting decoders (wav/flac/ogg). The embedding
// decoder produces whole chunks of converted PCM; pcmStream doles them out
// and keeps Seek offsets consistent with the converted stream, not the
// source container.
type pcmStream struct {
	buf   []byte
	pos   int64
	total int64
}

// drain serves buffered bytes first; ok reports whether p was satisfied
// from the buffer.
func (s *pcmStream) drain(p []byte) (int, bool) {
	if len(s.buf) == 0 {
		return 0, false
	}
	n := copy(p, s.buf)
	s.buf = s.buf[n:]
	s.pos += int64(n)
	return n, true
}

// emit copies a freshly converted chunk into p, stashing any overflow.
func (s *pcmStream) emit(raw, p []byte) int {
	n := copy(p, raw)
	if n < len(raw) {
		s.buf = raw[n:]
	}
	s.pos += int64(n)
	return n
}

// target resolves a Seek request against the converted stream length.
func (s *pcmStream) target(offset int64, whence int) int64 {
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = s.pos + offset
	case io.SeekEnd:
		pos = s.total + offset
	}
	if pos < 0 {
		pos = 0
	}
	if pos > s.total {
		pos = s.total
	}
	return pos
}

// seekTo commits a resolved position after the container seek succeeded.
func (s *pcmStream) seekTo(pos int64) {
	s.buf = nil
	s.pos = pos
}

func clamp16(v int) int16 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}

// --- MP3 ---

// go-mp3 already emits 16-bit 44.1kHz stereo, so this is a thin wrapper.
type mp3Decoder struct {
	dec *mp3.Decoder
}

func newMP3Decoder(f *os.File) (*mp3Decoder, error) {
	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, err
	}
	return &mp3Decoder{dec: dec}, nil
}

func (d *mp3Decoder) Read(p []byte) (int, error) { return d.dec.Read(p) }
func (d *mp3Decoder) Seek(offset int64, whence int) (int64, error) {
	return d.dec.Seek(offset, whence)
}
func (d *mp3Decoder) Length() int64   { return d.dec.Length() }
func (d *mp3Decoder) SampleRate() int { return 44100 }
func (d *mp3Decoder) Channels() int   { return 2 }

// --- WAV ---

type wavDecoder struct {
	pcmStream
	file         *os.File
	pcmStart     int64 // file offset where PCM data begins
	sampleRate   int
	channels     int
	srcBitDepth  int
	srcFrameSize int64
}

func newWAVDecoder(f *os.File) (*wavDecoder, error) {
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file")
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("reading WAV PCM data: %w", err)
	}

	channels := int(dec.NumChans)
	bitDepth := int(dec.BitDepth)
	srcFrameSize := int64(channels) * int64(bitDepth) / 8
	sourceFrames := dec.PCMLen() / srcFrameSize

	pcmStart, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("getting PCM start position: %w", err)
	}

	d := &wavDecoder{
		file:         f,
		pcmStart:     pcmStart,
		sampleRate:   int(dec.SampleRate),
		channels:     channels,
		srcBitDepth:  bitDepth,
		srcFrameSize: srcFrameSize,
	}
	d.total = sourceFrames * int64(channels) * 2
	return d, nil
}

func (d *wavDecoder) Read(p []byte) (int, error) {
	if n, ok := d.drain(p); ok {
		return n, nil
	}

	srcBytesPerSample := d.srcBitDepth / 8
	samples := len(p) / 2
	if samples == 0 {
		samples = 1
	}
	src := make([]byte, samples*srcBytesPerSample)
	n, err := io.ReadFull(d.file, src)
	read := n / srcBytesPerSample
	if read == 0 {
		if err == nil || err == io.ErrUnexpectedEOF {
			err = io.EOF
		}
		return 0, err
	}

	raw := make([]byte, read*2)
	for i := 0; i < read; i++ {
		off := i * srcBytesPerSample
		var sample int
		switch d.srcBitDepth {
		case 8:
			// 8-bit WAV is unsigned
			sample = (int(src[off]) - 128) << 8
		case 16:
			sample = int(int16(binary.LittleEndian.Uint16(src[off:])))
		case 24:
			s := int32(src[off]) | int32(src[off+1])<<8 | int32(src[off+2])<<16
			if s&0x800000 != 0 {
				s |= ^0xFFFFFF // sign extend
			}
			sample = int(s >> 8)
		case 32:
			sample = int(int32(binary.LittleEndian.Uint32(src[off:])) >> 16)
		}
		binary.LittleEndian.PutUint16(raw[i*2:], uint16(clamp16(sample)))
	}

	if err == io.ErrUnexpectedEOF {
		err = io.EOF
	}
	return d.emit(raw, p), err
}

func (d *wavDecoder) Seek(offset int64, whence int) (int64, error) {
	pos := d.target(offset, whence)

	frame := pos / (int64(d.channels) * 2)
	if _, err := d.file.Seek(d.pcmStart+frame*d.srcFrameSize, io.SeekStart); err != nil {
		return d.pos, err
	}
	d.seekTo(pos)
	return pos, nil
}

func (d *wavDecoder) Length() int64   { return d.total }
func (d *wavDecoder) SampleRate() int { return d.sampleRate }
func (d *wavDecoder) Channels() int   { return d.channels }

// --- FLAC ---

type flacDecoder struct {
	pcmStream
	stream     *flac.Stream
	sampleRate int
	channels   int
	bps        int
}

func newFLACDecoder(f *os.File) (*flacDecoder, error) {
	stream, err := flac.NewSeek(f)
	if err != nil {
		return nil, fmt.Errorf("decoding FLAC: %w", err)
	}

	info := stream.Info
	d := &flacDecoder{
		stream:     stream,
		sampleRate: int(info.SampleRate),
		channels:   int(info.NChannels),
		bps:        int(info.BitsPerSample),
	}
	d.total = int64(info.NSamples) * int64(d.channels) * 2
	return d, nil
}

func (d *flacDecoder) Read(p []byte) (int, error) {
	if n, ok := d.drain(p); ok {
		return n, nil
	}

	frame, err := d.stream.ParseNext()
	if err != nil {
		return 0, err
	}

	nSamples := int(frame.Subframes[0].NSamples)
	raw := make([]byte, nSamples*d.channels*2)
	for i := 0; i < nSamples; i++ {
		for ch := 0; ch < d.channels; ch++ {
			sample := int(frame.Subframes[ch].Samples[i])
			switch {
			case d.bps > 16:
				sample >>= d.bps - 16
			case d.bps < 16:
				sample <<= 16 - d.bps
			}
			off := (i*d.channels + ch) * 2
			binary.LittleEndian.PutUint16(raw[off:], uint16(clamp16(sample)))
		}
	}
	return d.emit(raw, p), nil
}

func (d *flacDecoder) Seek(offset int64, whence int) (int64, error) {
	pos := d.target(offset, whence)

	sample := uint64(pos / (int64(d.channels) * 2))
	if _, err := d.stream.Seek(sample); err != nil {
		return d.pos, err
	}
	d.seekTo(pos)
	return pos, nil
}

func (d *flacDecoder) Length() int64   { return d.total }
func (d *flacDecoder) SampleRate() int { return d.sampleRate }
func (d *flacDecoder) Channels() int   { return d.channels }

// --- OGG Vorbis ---

type oggDecoder struct {
	pcmStream
	reader     *oggvorbis.Reader
	sampleRate int
	channels   int
}

func newOGGDecoder(f *os.File) (*oggDecoder, error) {
	reader, err := oggvorbis.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("decoding OGG: %w", err)
	}

	d := &oggDecoder{
		reader:     reader,
		sampleRate: reader.SampleRate(),
		channels:   reader.Channels(),
	}
	d.total = reader.Length() * int64(d.channels) * 2
	return d, nil
}

func (d *oggDecoder) Read(p []byte) (int, error) {
	if n, ok := d.drain(p); ok {
		return n, nil
	}

	samples := make([]float32, len(p)/2)
	n, err := d.reader.Read(samples)
	if n == 0 {
		if err == nil {
			err = io.EOF
		}
		return 0, err
	}

	raw := make([]byte, n*2)
	for i := 0; i < n; i++ {
		s := samples[i]
		if s > 1.0 {
			s = 1.0
		} else if s < -1.0 {
			s = -1.0
		}
		binary.LittleEndian.PutUint16(raw[i*2:], uint16(int16(s*32767)))
	}
	return d.emit(raw, p), err
}

func (d *oggDecoder) Seek(offset int64, whence int) (int64, error) {
	pos := d.target(offset, whence)

	if err := d.reader.SetPosition(pos / (int64(d.channels) * 2)); err != nil {
		return d.pos, err
	}
	d.seekTo(pos)
	return pos, nil
}

func (d *oggDecoder) Length() int64   { return d.total }
func (d *oggDecoder) SampleRate() int { return d.sampleRate }
func (d *oggDecoder) Channels() int   { return d.channels }
