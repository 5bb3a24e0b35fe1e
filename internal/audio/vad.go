package audio

import (
	"sync"
	"time"

	"github.com/maxhawkins/go-webrtcvad"
	"github.com/rs/zerolog"
)

const (
	// vadFrameBytes is one 20 ms frame at 16 kHz 16-bit mono.
	vadFrameBytes = 320 * 2
)

// FrameDetector classifies a single fixed-size PCM frame as speech or not.
// The production implementation wraps the WebRTC VAD; tests inject fakes.
type FrameDetector interface {
	IsSpeech(frame []byte, sampleRate int) (bool, error)
}

// webrtcDetector adapts the libfvad binding to FrameDetector.
type webrtcDetector struct {
	mu  sync.Mutex
	vad *webrtcvad.VAD
}

// NewWebRTCDetector creates a frame detector at the given aggressiveness
// (0 most permissive, 3 strictest).
func NewWebRTCDetector(mode int) (FrameDetector, error) {
	v, err := webrtcvad.New()
	if err != nil {
		return nil, err
	}
	if err := v.SetMode(mode); err != nil {
		return nil, err
	}
	return &webrtcDetector{vad: v}, nil
}

func (d *webrtcDetector) IsSpeech(frame []byte, sampleRate int) (bool, error) {
	// The underlying detector is stateful and not safe for concurrent use.
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.vad.Process(sampleRate, frame)
}

// DetectorConfig holds speech detection thresholds.
type DetectorConfig struct {
	// Aggressiveness of the frame detector (0-3).
	Aggressiveness int
	// EnergyThreshold is the minimum mean absolute amplitude; windows
	// quieter than this are never speech regardless of frame votes. The
	// dual gate suppresses hallucinated transcriptions on faint noise.
	EnergyThreshold float64
	// MinSpeechRatio is the minimum fraction of speech-positive frames.
	MinSpeechRatio float64
	// Hangover keeps the decision true for this long after real speech,
	// so word tails are not clipped.
	Hangover time.Duration
}

// DefaultDetectorConfig returns production thresholds.
func DefaultDetectorConfig() DetectorConfig {
	return DetectorConfig{
		Aggressiveness:  3,
		EnergyThreshold: 200,
		MinSpeechRatio:  0.3,
		Hangover:        300 * time.Millisecond,
	}
}

// Detector decides whether an audio window contains speech, combining a
// frame-level detector with an energy gate and hangover smoothing.
// One Detector serves one cabin; Detect is called from that cabin's
// worker only.
type Detector struct {
	cfg        DetectorConfig
	frames     FrameDetector
	lastSpeech time.Time
	logger     zerolog.Logger
}

// NewDetector creates a Detector using the given frame detector. A nil
// frame detector degrades to the energy-only decision.
func NewDetector(cfg DetectorConfig, frames FrameDetector, logger zerolog.Logger) *Detector {
	if cfg.EnergyThreshold == 0 {
		cfg = DefaultDetectorConfig()
	}
	return &Detector{
		cfg:    cfg,
		frames: frames,
		logger: logger.With().Str("component", "vad").Logger(),
	}
}

// Detect returns true when the window contains speech.
func (d *Detector) Detect(window []byte) bool {
	if len(window) == 0 {
		return false
	}
	// Align to whole samples.
	window = window[:len(window)/2*2]
	if len(window) == 0 {
		return false
	}

	now := time.Now()
	energy := MeanAbsAmplitude(window)

	// Sub-frame input: energy-only decision.
	if len(window) < vadFrameBytes || d.frames == nil {
		if energy > d.cfg.EnergyThreshold {
			d.lastSpeech = now
			return true
		}
		return d.inHangover(now)
	}

	totalFrames := 0
	speechFrames := 0
	usable := len(window) / vadFrameBytes * vadFrameBytes
	for off := 0; off < usable; off += vadFrameBytes {
		ok, err := d.frames.IsSpeech(window[off:off+vadFrameBytes], PipelineSampleRate)
		if err != nil {
			// Fail open: dropping real speech is worse than an extra
			// pipeline call.
			d.logger.Warn().Err(err).Msg("frame detector error")
			d.lastSpeech = now
			return true
		}
		totalFrames++
		if ok {
			speechFrames++
		}
	}

	ratio := float64(speechFrames) / float64(max(totalFrames, 1))
	hasSpeech := totalFrames > 0 &&
		ratio >= d.cfg.MinSpeechRatio &&
		energy > d.cfg.EnergyThreshold

	if hasSpeech {
		d.lastSpeech = now
		return true
	}
	return d.inHangover(now)
}

// inHangover reports whether we are still inside the grace period after
// the last asserted speech.
func (d *Detector) inHangover(now time.Time) bool {
	if d.lastSpeech.IsZero() {
		return false
	}
	return now.Sub(d.lastSpeech) < d.cfg.Hangover
}
