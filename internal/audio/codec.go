// Package audio implements the relay's audio path: Opus transcoding,
// PCM conversion, windowing, and voice activity detection.
package audio

import (
	"errors"
	"sync"

	"github.com/rs/zerolog"
	"gopkg.in/hraban/opus.v2"
)

const (
	// OutputSampleRate is the Opus operating rate on the SFU leg.
	OutputSampleRate = 48000
	// OutputChannels is the channel count on the SFU leg.
	OutputChannels = 2
	// EncoderBitrate is the target bitrate for outbound Opus.
	EncoderBitrate = 128000

	// FrameSamples is 20 ms per channel at 48 kHz.
	FrameSamples = 960
	// FrameBytes is one 20 ms stereo frame as 16-bit PCM.
	FrameBytes = FrameSamples * OutputChannels * 2

	// Opus payload sanity bounds; RFC 6716 caps a frame at 1275 bytes.
	minOpusPayload = 3
	maxOpusPayload = 1276
)

// Errors returned by the codec cache.
var (
	ErrBadOpusPayload = errors.New("audio: opus payload size out of range")
	ErrDecodeFailed   = errors.New("audio: opus decode failed for all frame sizes")
	ErrEmptyPCM       = errors.New("audio: empty pcm input")
)

// decoder frame-size fallbacks: 20 ms first, then 10/40/60 ms.
var decodeFrameSizes = []int{960, 480, 1920, 2880}

type codecPair struct {
	decoder *opus.Decoder
	encoder *opus.Encoder
}

// CodecCache owns one lazily constructed Opus decoder/encoder pair per
// cabin. Decoders and encoders hold libopus state and must not be shared
// across cabins.
type CodecCache struct {
	mu     sync.Mutex
	pairs  map[string]*codecPair
	logger zerolog.Logger
}

// NewCodecCache creates an empty codec cache.
func NewCodecCache(logger zerolog.Logger) *CodecCache {
	return &CodecCache{
		pairs:  make(map[string]*codecPair),
		logger: logger.With().Str("component", "opus-codec").Logger(),
	}
}

func (c *CodecCache) pair(cabinKey string) (*codecPair, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if p, ok := c.pairs[cabinKey]; ok {
		return p, nil
	}

	dec, err := opus.NewDecoder(OutputSampleRate, OutputChannels)
	if err != nil {
		return nil, err
	}
	enc, err := opus.NewEncoder(OutputSampleRate, OutputChannels, opus.AppAudio)
	if err != nil {
		return nil, err
	}
	if err := enc.SetBitrate(EncoderBitrate); err != nil {
		c.logger.Warn().Err(err).Str("cabin", cabinKey).Msg("failed to set encoder bitrate")
	}

	p := &codecPair{decoder: dec, encoder: enc}
	c.pairs[cabinKey] = p
	c.logger.Debug().Str("cabin", cabinKey).Msg("created opus codec pair")
	return p, nil
}

// Decode converts an Opus payload to 48 kHz stereo 16-bit PCM. It tries
// the 20 ms frame size first and falls back to 10/40/60 ms before giving
// up on the packet.
func (c *CodecCache) Decode(cabinKey string, payload []byte) ([]byte, error) {
	if len(payload) < minOpusPayload || len(payload) > maxOpusPayload {
		return nil, ErrBadOpusPayload
	}

	p, err := c.pair(cabinKey)
	if err != nil {
		return nil, err
	}

	for _, frameSize := range decodeFrameSizes {
		pcm := make([]int16, frameSize*OutputChannels)
		n, err := p.decoder.Decode(payload, pcm)
		if err != nil {
			continue
		}
		return int16ToBytes(pcm[:n*OutputChannels]), nil
	}

	c.logger.Debug().Str("cabin", cabinKey).Int("payload", len(payload)).Msg("opus decode failed")
	return nil, ErrDecodeFailed
}

// Encode converts one 20 ms 48 kHz stereo PCM frame to an Opus payload.
// Short input is zero-padded to frame size; anything beyond the first
// frame is ignored.
func (c *CodecCache) Encode(cabinKey string, pcm []byte) ([]byte, error) {
	if len(pcm) == 0 {
		return nil, ErrEmptyPCM
	}

	p, err := c.pair(cabinKey)
	if err != nil {
		return nil, err
	}

	frame := pcm
	if len(frame) < FrameBytes {
		padded := make([]byte, FrameBytes)
		copy(padded, frame)
		frame = padded
	} else if len(frame) > FrameBytes {
		frame = frame[:FrameBytes]
	}

	samples := bytesToInt16(frame)
	buf := make([]byte, maxOpusPayload)
	n, err := p.encoder.Encode(samples, buf)
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}

// Remove drops a cabin's codec state.
func (c *CodecCache) Remove(cabinKey string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pairs, cabinKey)
}

// Len returns the number of cached codec pairs.
func (c *CodecCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pairs)
}
