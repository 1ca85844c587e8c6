package analyser

import "sync"

// ringBuffer is a thread-safe circular byte buffer. The player's sample tap
// writes raw PCM into it from the audio goroutine; the analyser reads the
// most recent window from the render loop.
type ringBuffer struct {
	buf  []byte
	size int
	w    int // write position
	len  int // current fill level
	mu   sync.Mutex
}

func newRingBuffer(size int) *ringBuffer {
	return &ringBuffer{
		buf:  make([]byte, size),
		size: size,
	}
}

// Write appends data, overwriting the oldest bytes when full.
func (rb *ringBuffer) Write(p []byte) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	for _, b := range p {
		rb.buf[rb.w] = b
		rb.w = (rb.w + 1) % rb.size
	}
	rb.len += len(p)
	if rb.len > rb.size {
		rb.len = rb.size
	}
}

// ReadInto copies up to len(dst) of the most recent bytes into dst and
// returns how many were copied.
func (rb *ringBuffer) ReadInto(dst []byte) int {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	n := len(dst)
	if n > rb.len {
		n = rb.len
	}
	if n == 0 {
		return 0
	}

	start := (rb.w - n + rb.size) % rb.size
	for i := 0; i < n; i++ {
		dst[i] = rb.buf[(start+i)%rb.size]
	}
	return n
}

// Clear resets the buffer.
func (rb *ringBuffer) Clear() {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	rb.w = 0
	rb.len = 0
}
