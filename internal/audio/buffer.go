package audio

// SlidingBuffer accumulates 16 kHz mono PCM and emits fixed-duration
// overlapping windows. It holds back until an initial stretch of context
// has arrived, then produces one window per step of new audio. All
// arithmetic is driven by buffered length, never the clock.
type SlidingBuffer struct {
	buf       []byte
	nextStart int
	started   bool

	windowBytes int
	stepBytes   int
	initBytes   int
}

// SlidingBufferConfig holds windowing parameters in seconds.
type SlidingBufferConfig struct {
	InitBuffer     float64 // context required before the first window
	WindowDuration float64 // length of each emitted window
	StepDuration   float64 // advance per window; overlap = window - step
}

// DefaultSlidingBufferConfig returns the production windowing: 2 s warm-up,
// 1 s windows, 0.7 s stride.
func DefaultSlidingBufferConfig() SlidingBufferConfig {
	return SlidingBufferConfig{
		InitBuffer:     2.0,
		WindowDuration: 1.0,
		StepDuration:   0.7,
	}
}

// NewSlidingBuffer creates a sliding window buffer for 16 kHz 16-bit mono.
func NewSlidingBuffer(cfg SlidingBufferConfig) *SlidingBuffer {
	if cfg.WindowDuration <= 0 {
		cfg = DefaultSlidingBufferConfig()
	}
	bytesPerSecond := PipelineSampleRate * 2
	return &SlidingBuffer{
		windowBytes: int(cfg.WindowDuration * float64(bytesPerSecond)),
		stepBytes:   int(cfg.StepDuration * float64(bytesPerSecond)),
		initBytes:   int(cfg.InitBuffer * float64(bytesPerSecond)),
	}
}

// Add appends PCM and returns a complete window when one is ready, or nil.
// The returned slice is a copy and safe to retain.
func (b *SlidingBuffer) Add(pcm []byte) []byte {
	if len(pcm) == 0 {
		return nil
	}

	b.buf = append(b.buf, pcm...)

	if !b.started {
		if len(b.buf) < b.initBytes {
			return nil
		}
		b.started = true
	}

	if len(b.buf)-b.nextStart < b.windowBytes {
		return nil
	}

	window := make([]byte, b.windowBytes)
	copy(window, b.buf[b.nextStart:b.nextStart+b.windowBytes])

	b.nextStart += b.stepBytes

	// Compact once the consumed prefix grows past 4 strides.
	if b.nextStart >= b.stepBytes*4 {
		b.buf = append(b.buf[:0:0], b.buf[b.nextStart:]...)
		b.nextStart = 0
	}

	return window
}

// WindowBytes returns the size of emitted windows.
func (b *SlidingBuffer) WindowBytes() int {
	return b.windowBytes
}

// BufferedBytes returns the total bytes currently held.
func (b *SlidingBuffer) BufferedBytes() int {
	return len(b.buf)
}

// PendingBytes returns bytes not yet covered by an emitted window start.
func (b *SlidingBuffer) PendingBytes() int {
	return len(b.buf) - b.nextStart
}

// Started reports whether the warm-up stretch has been satisfied.
func (b *SlidingBuffer) Started() bool {
	return b.started
}

// Reset clears all state.
func (b *SlidingBuffer) Reset() {
	b.buf = nil
	b.nextStart = 0
	b.started = false
}
