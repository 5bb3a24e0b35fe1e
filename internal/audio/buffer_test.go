package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bytesPerSecond16k = PipelineSampleRate * 2

func TestSlidingBufferWarmUp(t *testing.T) {
	b := NewSlidingBuffer(DefaultSlidingBufferConfig())

	// 1.9s of audio: still warming up, nothing emitted
	chunk := make([]byte, bytesPerSecond16k/10) // 100ms
	for i := 0; i < 19; i++ {
		assert.Nil(t, b.Add(chunk))
	}
	assert.False(t, b.Started())

	// Crossing 2.0s starts emission; 2s buffered >= 1s window
	w := b.Add(chunk)
	require.NotNil(t, w)
	assert.True(t, b.Started())
	assert.Equal(t, bytesPerSecond16k, len(w))
}

func TestSlidingBufferStride(t *testing.T) {
	b := NewSlidingBuffer(DefaultSlidingBufferConfig())

	chunk := make([]byte, bytesPerSecond16k/10)
	var windows int
	total := 0
	for i := 0; i < 60; i++ { // 6s of audio
		if w := b.Add(chunk); w != nil {
			windows++
			assert.Equal(t, b.WindowBytes(), len(w))
		}
		total += len(chunk)
	}

	// Window starts advance by 0.7s: offsets 0.0 through 4.9s all fit a
	// full 1.0s window inside 6s of audio.
	assert.Equal(t, 8, windows)
}

func TestSlidingBufferOverlap(t *testing.T) {
	cfg := DefaultSlidingBufferConfig()
	b := NewSlidingBuffer(cfg)

	// Fill with a ramp so window contents are position-identifiable.
	ramp := make([]byte, bytesPerSecond16k*4)
	for i := range ramp {
		ramp[i] = byte(i)
	}

	var wins [][]byte
	step := bytesPerSecond16k / 10
	for off := 0; off < len(ramp); off += step {
		if w := b.Add(ramp[off : off+step]); w != nil {
			wins = append(wins, w)
		}
	}
	require.GreaterOrEqual(t, len(wins), 2)

	// Consecutive windows overlap by window-step = 0.3s: the tail of the
	// first window equals the head of the second.
	overlap := int((cfg.WindowDuration - cfg.StepDuration) * bytesPerSecond16k)
	first, second := wins[0], wins[1]
	assert.Equal(t, first[len(first)-overlap:], second[:overlap])
}

func TestSlidingBufferCompaction(t *testing.T) {
	b := NewSlidingBuffer(DefaultSlidingBufferConfig())

	chunk := make([]byte, bytesPerSecond16k/10) // 100ms per add
	for i := 0; i < 300; i++ {
		b.Add(chunk)
	}

	// The consumed prefix is dropped periodically; the buffer must not
	// grow with total input.
	assert.Less(t, b.BufferedBytes(), 8*bytesPerSecond16k)
}

func TestSlidingBufferReset(t *testing.T) {
	b := NewSlidingBuffer(DefaultSlidingBufferConfig())
	b.Add(make([]byte, bytesPerSecond16k*3))
	b.Reset()

	assert.False(t, b.Started())
	assert.Equal(t, 0, b.BufferedBytes())
}

func TestSlidingBufferEmptyAdd(t *testing.T) {
	b := NewSlidingBuffer(DefaultSlidingBufferConfig())
	assert.Nil(t, b.Add(nil))
}
