// Package cabin implements the per-speaker translation pipeline instance
// and its lifecycle manager.
package cabin

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/voxrelay/voxrelay/internal/audio"
	"github.com/voxrelay/voxrelay/internal/observability"
	"github.com/voxrelay/voxrelay/internal/pipeline"
	"github.com/voxrelay/voxrelay/internal/rtp"
)

// Status is a cabin's lifecycle state.
type Status string

const (
	// StatusIdle: constructed but not yet registered.
	StatusIdle Status = "idle"
	// StatusListening: receiving RTP from the SFU.
	StatusListening Status = "listening"
	// StatusTranslating: a worker is inside the ML pipeline.
	StatusTranslating Status = "translating"
	// StatusError: a fatal invariant violation; destroy is the only exit.
	StatusError Status = "error"
)

const (
	// queueCapacity bounds the ready-window FIFO; overflow drops the
	// oldest window so end-to-end latency stays bounded when the
	// pipeline runs slower than real time.
	queueCapacity = 64

	// dequeuePoll is how often the worker rechecks the running flag.
	dequeuePoll = 100 * time.Millisecond

	// workerJoinTimeout bounds how long destruction waits for the worker.
	workerJoinTimeout = 2 * time.Second

	// frameDuration paces outbound chunks.
	frameDuration = 20 * time.Millisecond

	// minPaceSleep is the smallest pacing sleep worth taking; shorter
	// waits (or a schedule that has slipped behind) proceed immediately.
	minPaceSleep = time.Millisecond

	// sendSuccessRatio is the fraction of chunks that must reach the
	// socket for an utterance to count as delivered.
	sendSuccessRatio = 0.8
)

// acceptedPayloadTypes are the Opus payload types the SFU may forward.
var acceptedPayloadTypes = map[uint8]bool{100: true, 111: true}

// ErrNotFound is returned when a cabin key is not in the registry.
var ErrNotFound = errors.New("cabin: not found")

// Key identifies a cabin: one speaker translated between one language
// pair in one room.
type Key struct {
	RoomID     string
	SpeakerID  string
	SourceLang string
	TargetLang string
}

// String renders the registry form "room_speaker_src_tgt".
func (k Key) String() string {
	return fmt.Sprintf("%s_%s_%s_%s", k.RoomID, k.SpeakerID, k.SourceLang, k.TargetLang)
}

// DeriveSSRC maps a cabin key to its synthetic RTP SSRC. FNV-1a keeps
// the value stable across restarts so the SFU can re-attach producers.
func DeriveSSRC(k Key) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(k.String()))
	return h.Sum32()
}

// Sender transmits packets to the SFU. Implemented by the socket hub.
type Sender interface {
	Send(packet []byte, host string, port int) bool
}

// Cabin owns one (room, speaker, source, target) flow: sliding buffer,
// VAD, window queue, worker goroutine, codec and RTP state, and the
// cached pipeline.
type Cabin struct {
	mu sync.Mutex

	key         Key
	ssrc        uint32
	rxPort      int
	txPort      int
	sfuSendPort int

	status  Status
	running bool

	buffer   *audio.SlidingBuffer
	vad      *audio.Detector
	queue    chan []byte
	outbound *rtp.OutboundState
	pipe     *pipeline.Pipeline

	codecs  *audio.CodecCache
	sender  Sender
	sfuHost string
	metrics *observability.Metrics
	logger  zerolog.Logger

	workerDone chan struct{}
}

// Info is the externally visible cabin state.
type Info struct {
	CabinKey    string `json:"cabin_id"`
	RTPPort     int    `json:"rtp_port"`
	SendPort    int    `json:"send_port"`
	SFUSendPort int    `json:"sfu_send_port"`
	SSRC        uint32 `json:"ssrc"`
	SourceLang  string `json:"source_language"`
	TargetLang  string `json:"target_language"`
	Status      Status `json:"status"`
	Running     bool   `json:"running"`
}

// Key returns the cabin's current key.
func (c *Cabin) Key() Key {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.key
}

// Info returns a snapshot of the cabin's state.
func (c *Cabin) Info() Info {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Info{
		CabinKey:    c.key.String(),
		RTPPort:     c.rxPort,
		SendPort:    c.txPort,
		SFUSendPort: c.sfuSendPort,
		SSRC:        c.ssrc,
		SourceLang:  c.key.SourceLang,
		TargetLang:  c.key.TargetLang,
		Status:      c.status,
		Running:     c.running,
	}
}

func (c *Cabin) setStatus(s Status) {
	c.mu.Lock()
	c.status = s
	c.mu.Unlock()
}

func (c *Cabin) isRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// HandleRTP is the hub callback: parse, decode, downmix, window, enqueue.
// It runs on the router goroutine and must stay off blocking I/O — the
// bounded work here is decode plus resample plus a buffer append.
func (c *Cabin) HandleRTP(datagram []byte) {
	if !c.isRunning() {
		return
	}

	pkt, err := rtp.Parse(datagram)
	if err != nil {
		c.countDrop("invalid")
		return
	}
	if !acceptedPayloadTypes[pkt.PayloadType] {
		c.countDrop("payload_type")
		return
	}
	if len(pkt.Payload) == 0 {
		return
	}

	pcm48kStereo, err := c.codecs.Decode(c.key.String(), pkt.Payload)
	if err != nil {
		c.countDrop("decode")
		return
	}

	pcm16kMono := audio.Downsample48kStereoTo16kMono(pcm48kStereo)
	if len(pcm16kMono) == 0 {
		return
	}

	window := c.buffer.Add(pcm16kMono)
	if window == nil {
		return
	}

	c.enqueue(window)
}

// enqueue adds a window, evicting the oldest entry when full. The router
// goroutine is the only producer, so the drop-then-push pair cannot race
// with another producer.
func (c *Cabin) enqueue(window []byte) {
	select {
	case c.queue <- window:
		if c.metrics != nil {
			c.metrics.WindowsEnqueued.Inc()
		}
		return
	default:
	}

	select {
	case <-c.queue:
		if c.metrics != nil {
			c.metrics.WindowsDropped.Inc()
		}
	default:
	}
	select {
	case c.queue <- window:
		if c.metrics != nil {
			c.metrics.WindowsEnqueued.Inc()
		}
	default:
	}
}

// worker is the cabin's single processing goroutine. Windows are handled
// strictly in queue order; one window is in flight at a time.
func (c *Cabin) worker() {
	defer close(c.workerDone)

	for {
		select {
		case window := <-c.queue:
			c.processWindow(window)
		case <-time.After(dequeuePoll):
			if !c.isRunning() {
				return
			}
		}
	}
}

// processWindow applies the VAD gate and either forwards the speaker's
// own audio (passthrough keeps the outbound stream continuous and its
// sequence numbers monotonic) or runs the translation pipeline.
func (c *Cabin) processWindow(window []byte) {
	if !c.vad.Detect(window) {
		c.countWindow("passthrough")
		c.emit(window, audio.PipelineSampleRate)
		return
	}

	c.setStatus(StatusTranslating)
	defer c.setStatus(StatusListening)

	c.mu.Lock()
	pipe := c.pipe
	c.mu.Unlock()
	if pipe == nil {
		return
	}

	outcome, err := pipe.Process(context.Background(), window)
	if err != nil {
		if errors.Is(err, pipeline.ErrNoSpeech) {
			c.countWindow("passthrough")
			c.emit(window, audio.PipelineSampleRate)
			return
		}
		c.countWindow("failed")
		c.logger.Warn().Err(err).Msg("pipeline failed, dropping utterance")
		return
	}

	c.countWindow("translated")

	// Long clause-broken utterances are re-synthesized per clause so the
	// first words reach listeners while the tail is still rendering.
	if parts := pipeline.SplitClauses(outcome.Text); parts != nil {
		streamed := false
		for _, part := range parts {
			pcm, rate, synthErr := pipe.Synthesize(context.Background(), part)
			if synthErr != nil {
				c.logger.Warn().Err(synthErr).Msg("clause synthesis failed")
				continue
			}
			c.emit(pcm, rate)
			streamed = true
		}
		if streamed {
			return
		}
	}

	c.emit(outcome.Audio, outcome.SampleRate)
}

// emit converts PCM to the outbound stream: 48 kHz stereo, noise gate,
// 20 ms Opus frames, RTP, paced sends to the SFU. Returns true when at
// least 80% of chunks were delivered to the socket.
func (c *Cabin) emit(pcm []byte, sampleRate int) bool {
	if len(pcm) == 0 {
		return false
	}

	stereo := audio.UpsampleTo48kStereo(pcm, sampleRate)
	if len(stereo) == 0 {
		return false
	}
	stereo = audio.NoiseGate(stereo)

	chunks := audio.Chunk20ms(stereo)
	if len(chunks) == 0 {
		return false
	}

	c.mu.Lock()
	host := c.sfuHost
	port := c.sfuSendPort
	if port == 0 {
		port = c.txPort
	}
	cabinKey := c.key.String()
	c.mu.Unlock()

	encoded := make([][]byte, 0, len(chunks))
	for _, chunk := range chunks {
		payload, err := c.codecs.Encode(cabinKey, chunk)
		if err != nil {
			encoded = append(encoded, nil)
			continue
		}
		encoded = append(encoded, payload)
	}

	start := time.Now()
	sent := 0
	for i, payload := range encoded {
		if payload == nil {
			continue
		}

		seq, ts := c.outbound.Next()
		packet, err := rtp.Build(payload, rtp.OutboundPayloadType, seq, ts, c.outbound.SSRC())
		if err != nil {
			continue
		}
		if c.sender.Send(packet, host, port) {
			sent++
		}

		// Sleep-until pacing: chunk i goes out at start + i*20ms; after
		// sending it, wait until the next chunk's slot. A schedule that has slipped behind proceeds immediately so
		// the stream catches up instead of drifting.
		target := start.Add(time.Duration(i+1) * frameDuration)
		if wait := time.Until(target); wait > minPaceSleep {
			time.Sleep(wait)
		}
	}

	return float64(sent) >= float64(len(chunks))*sendSuccessRatio
}

func (c *Cabin) countDrop(reason string) {
	if c.metrics != nil {
		c.metrics.PacketsDropped.WithLabelValues(reason).Inc()
	}
}

func (c *Cabin) countWindow(outcome string) {
	if c.metrics != nil {
		c.metrics.WindowsProcessed.WithLabelValues(outcome).Inc()
	}
}

// drainQueue empties pending windows during destruction.
func (c *Cabin) drainQueue() {
	for {
		select {
		case <-c.queue:
		default:
			return
		}
	}
}
