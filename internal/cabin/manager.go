package cabin

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/voxrelay/voxrelay/internal/audio"
	"github.com/voxrelay/voxrelay/internal/observability"
	"github.com/voxrelay/voxrelay/internal/pipeline"
	"github.com/voxrelay/voxrelay/internal/rtp"
	"github.com/voxrelay/voxrelay/internal/sockethub"
	"github.com/voxrelay/voxrelay/internal/voiceclone"
)

// FrameDetectorFactory builds one VAD frame detector per cabin. The
// detector carries per-stream state and must not be shared.
type FrameDetectorFactory func() (audio.FrameDetector, error)

// ManagerConfig wires the manager's collaborators.
type ManagerConfig struct {
	Hub          *sockethub.Hub
	Codecs       *audio.CodecCache
	PipelineDeps pipeline.Deps
	Voices       *voiceclone.Store
	VADFactory   FrameDetectorFactory
	VADConfig    audio.DetectorConfig
	SFUHost      string
	Metrics      *observability.Metrics
	Logger       zerolog.Logger
}

// Manager is the registry and lifecycle owner of all cabins.
type Manager struct {
	mu     sync.Mutex
	cabins map[string]*Cabin

	cfg    ManagerConfig
	logger zerolog.Logger
}

// NewManager creates an empty cabin registry.
func NewManager(cfg ManagerConfig) *Manager {
	if cfg.VADConfig.EnergyThreshold == 0 {
		cfg.VADConfig = audio.DefaultDetectorConfig()
	}
	return &Manager{
		cabins: make(map[string]*Cabin),
		cfg:    cfg,
		logger: cfg.Logger.With().Str("component", "cabin-manager").Logger(),
	}
}

// CreateCabin builds and starts a cabin for the given flow. When the key
// already exists the existing cabin's info is returned, making creation
// idempotent for retried SFU calls.
func (m *Manager) CreateCabin(roomID, speakerID, sourceLang, targetLang string, sfuSendPort int) (Info, error) {
	key := Key{RoomID: roomID, SpeakerID: speakerID, SourceLang: sourceLang, TargetLang: targetLang}
	keyStr := key.String()

	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.cabins[keyStr]; ok {
		return existing.Info(), nil
	}

	ssrc := DeriveSSRC(key)

	var frames audio.FrameDetector
	if m.cfg.VADFactory != nil {
		var err error
		frames, err = m.cfg.VADFactory()
		if err != nil {
			m.logger.Warn().Err(err).Msg("frame detector unavailable, VAD degrades to energy gate")
		}
	}

	c := &Cabin{
		key:         key,
		ssrc:        ssrc,
		sfuSendPort: sfuSendPort,
		status:      StatusIdle,
		buffer:      audio.NewSlidingBuffer(audio.DefaultSlidingBufferConfig()),
		vad:         audio.NewDetector(m.cfg.VADConfig, frames, m.cfg.Logger),
		queue:       make(chan []byte, queueCapacity),
		outbound:    rtp.NewOutboundState(ssrc),
		codecs:      m.cfg.Codecs,
		sender:      m.cfg.Hub,
		sfuHost:     m.cfg.SFUHost,
		metrics:     m.cfg.Metrics,
		logger:      m.logger.With().Str("cabin", keyStr).Logger(),
		workerDone:  make(chan struct{}),
	}
	c.pipe = pipeline.New(m.cfg.PipelineDeps, sourceLang, targetLang, speakerID, roomID)

	pair, err := m.cfg.Hub.Register(keyStr, ssrc, c.HandleRTP)
	if err != nil {
		m.logger.Error().Err(err).Str("cabin", keyStr).Msg("hub registration failed")
		return Info{}, err
	}

	c.mu.Lock()
	c.rxPort = pair.RX
	c.txPort = pair.TX
	c.running = true
	c.status = StatusListening
	c.mu.Unlock()

	m.cabins[keyStr] = c
	go c.worker()

	if m.cfg.Metrics != nil {
		m.cfg.Metrics.CabinsCreated.Inc()
		m.cfg.Metrics.CabinsActive.Set(float64(len(m.cabins)))
	}

	m.logger.Info().
		Str("cabin", keyStr).
		Uint32("ssrc", ssrc).
		Int("rtp_port", pair.RX).
		Int("send_port", pair.TX).
		Msg("cabin created")

	return c.Info(), nil
}

// FindCabinByUser returns the key of the first cabin matching room and
// speaker regardless of languages. Port allocation happens before the
// client announces its language pair, so the second call locates the
// cabin this way.
func (m *Manager) FindCabinByUser(roomID, speakerID string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for keyStr, c := range m.cabins {
		k := c.Key()
		if k.RoomID == roomID && k.SpeakerID == speakerID {
			return keyStr, true
		}
	}
	return "", false
}

// UpdateCabinLanguages mutates a cabin's language pair. An actual change
// renames the registry and hub entries and disposes the cached pipeline;
// SSRC, ports, and the worker survive. A no-change update is a no-op, and
// applying the same pair twice is idempotent.
func (m *Manager) UpdateCabinLanguages(oldKey, sourceLang, targetLang string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.cabins[oldKey]
	if !ok {
		return ErrNotFound
	}

	c.mu.Lock()
	if c.key.SourceLang == sourceLang && c.key.TargetLang == targetLang {
		c.mu.Unlock()
		return nil
	}

	c.key.SourceLang = sourceLang
	c.key.TargetLang = targetLang
	newKey := c.key.String()

	oldPipe := c.pipe
	c.pipe = pipeline.New(m.cfg.PipelineDeps, sourceLang, targetLang, c.key.SpeakerID, c.key.RoomID)
	c.mu.Unlock()

	if oldPipe != nil {
		oldPipe.Close()
	}

	// Codec state is keyed by cabin key; drop the stale entry so the new
	// key lazily gets fresh encoder/decoder instances.
	m.cfg.Codecs.Remove(oldKey)

	m.cabins[newKey] = c
	delete(m.cabins, oldKey)
	m.cfg.Hub.Rekey(oldKey, newKey)

	m.logger.Info().
		Str("old", oldKey).
		Str("new", newKey).
		Msg("cabin languages updated")
	return nil
}

// StartCabin flips a stopped cabin back to listening. Idempotent; modern
// cabins start inside CreateCabin, this remains for the two-step client
// flow.
func (m *Manager) StartCabin(keyStr string) bool {
	m.mu.Lock()
	c, ok := m.cabins[keyStr]
	m.mu.Unlock()
	if !ok {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		c.running = true
		c.status = StatusListening
	}
	return true
}

// DestroyCabin tears down a cabin and releases every resource. All paths
// are idempotent; a missing cabin returns false.
func (m *Manager) DestroyCabin(roomID, speakerID, sourceLang, targetLang string) bool {
	keyStr := Key{RoomID: roomID, SpeakerID: speakerID, SourceLang: sourceLang, TargetLang: targetLang}.String()

	m.mu.Lock()
	c, ok := m.cabins[keyStr]
	if ok {
		delete(m.cabins, keyStr)
	}
	activeCount := len(m.cabins)
	m.mu.Unlock()

	if !ok {
		m.logger.Warn().Str("cabin", keyStr).Msg("destroy requested for unknown cabin")
		return false
	}

	c.mu.Lock()
	c.running = false
	pipe := c.pipe
	c.pipe = nil
	c.mu.Unlock()

	select {
	case <-c.workerDone:
	case <-time.After(workerJoinTimeout):
		m.logger.Error().Str("cabin", keyStr).Msg("worker did not stop in time, resources freed anyway")
	}

	m.cfg.Hub.Unregister(keyStr)
	m.cfg.Codecs.Remove(keyStr)
	if pipe != nil {
		pipe.Close()
	}
	if m.cfg.Voices != nil {
		m.cfg.Voices.CleanupSpeaker(speakerID, roomID)
	}
	c.drainQueue()
	c.buffer.Reset()

	if m.cfg.Metrics != nil {
		m.cfg.Metrics.CabinsDestroyed.Inc()
		m.cfg.Metrics.CabinsActive.Set(float64(activeCount))
	}

	m.logger.Info().Str("cabin", keyStr).Msg("cabin destroyed")
	return true
}

// CabinInfo returns the state of one cabin.
func (m *Manager) CabinInfo(keyStr string) (Info, bool) {
	m.mu.Lock()
	c, ok := m.cabins[keyStr]
	m.mu.Unlock()
	if !ok {
		return Info{}, false
	}
	return c.Info(), true
}

// Infos returns a snapshot of every cabin for the admin endpoint.
func (m *Manager) Infos() []Info {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Info, 0, len(m.cabins))
	for _, c := range m.cabins {
		out = append(out, c.Info())
	}
	return out
}

// Shutdown destroys every cabin. Used during process shutdown.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	keys := make([]Key, 0, len(m.cabins))
	for _, c := range m.cabins {
		keys = append(keys, c.Key())
	}
	m.mu.Unlock()

	for _, k := range keys {
		m.DestroyCabin(k.RoomID, k.SpeakerID, k.SourceLang, k.TargetLang)
	}
}
