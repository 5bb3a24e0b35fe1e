package voiceclone

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/voxrelay/voxrelay/internal/audio"
	"github.com/voxrelay/voxrelay/internal/cache"
)

const (
	// Collection thresholds at 16 kHz 16-bit mono.
	minCloneBytes = 10 * audio.PipelineSampleRate * 2 // 10s before extraction
	maxBufferMs   = 15000                             // hard cap on buffered audio
)

// Embedder extracts a speaker embedding from WAV audio. The production
// implementation calls the external voice model service.
type Embedder interface {
	Embed(ctx context.Context, wav []byte) ([]float32, error)
}

// HTTPEmbedder is the external embedding service client.
type HTTPEmbedder struct {
	httpClient *http.Client
	apiURL     string
	apiKey     string
}

// NewHTTPEmbedder creates an embedding client.
func NewHTTPEmbedder(apiURL, apiKey string, timeout time.Duration) *HTTPEmbedder {
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &HTTPEmbedder{
		httpClient: &http.Client{Timeout: timeout},
		apiURL:     apiURL,
		apiKey:     apiKey,
	}
}

// Embed uploads WAV audio and returns the embedding vector.
func (e *HTTPEmbedder) Embed(ctx context.Context, wav []byte) ([]float32, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.apiURL, bytes.NewReader(wav))
	if err != nil {
		return nil, fmt.Errorf("embedder: create request: %w", err)
	}
	req.Header.Set("Content-Type", "audio/wav")
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedder: http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("embedder: API returned status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Embedding []float32 `json:"embedding"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("embedder: decode response: %w", err)
	}
	return result.Embedding, nil
}

// StoreConfig holds voice clone store settings.
type StoreConfig struct {
	EmbeddingsDir string
	CacheSize     int
	CacheTTL      time.Duration
}

// Stats is a snapshot of store state for the admin endpoint.
type Stats struct {
	ActiveBuffers    int    `json:"active_buffers"`
	CachedEmbeddings int    `json:"cached_embeddings"`
	StorageDirectory string `json:"storage_directory"`
}

// Store accumulates speaker audio and manages voice embeddings with an
// in-memory TTL cache over on-disk persistence. Embedding files survive
// across sessions; only buffers and cache entries are dropped on cleanup.
type Store struct {
	mu         sync.Mutex
	buffers    map[string][]byte
	quality    map[string]Quality
	processing map[string]bool

	embCache *cache.LRU
	cfg      StoreConfig
	embedder Embedder
	logger   zerolog.Logger
}

// NewStore creates a voice clone store. embedder may be nil, which
// disables embedding extraction but keeps collection and lookup working.
func NewStore(cfg StoreConfig, embedder Embedder, logger zerolog.Logger) *Store {
	if cfg.CacheSize == 0 {
		cfg.CacheSize = 50
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 30 * time.Minute
	}
	if cfg.EmbeddingsDir == "" {
		cfg.EmbeddingsDir = "voice_clones/embeddings"
	}

	s := &Store{
		buffers:    make(map[string][]byte),
		quality:    make(map[string]Quality),
		processing: make(map[string]bool),
		embCache:   cache.NewLRU(cfg.CacheSize),
		cfg:        cfg,
		embedder:   embedder,
		logger:     logger.With().Str("component", "voice-clone").Logger(),
	}

	if err := os.MkdirAll(cfg.EmbeddingsDir, 0o755); err != nil {
		s.logger.Error().Err(err).Str("dir", cfg.EmbeddingsDir).Msg("failed to create embeddings directory")
	}
	return s
}

func key(speaker, room string) string {
	return speaker + "_" + room
}

// Collect appends a 16 kHz mono PCM chunk to the speaker's buffer. Once
// ten seconds have accumulated, extraction runs in the background; the
// buffer keeps a bounded tail if it overflows first.
func (s *Store) Collect(speaker, room string, pcm16k []byte) {
	if len(pcm16k) == 0 || s.embedder == nil {
		return
	}
	k := key(speaker, room)
	maxBytes := maxBufferMs * audio.PipelineSampleRate * 2 / 1000

	s.mu.Lock()
	buf := append(s.buffers[k], pcm16k...)
	if len(buf) > maxBytes {
		buf = buf[len(buf)-maxBytes*7/10:]
	}
	s.buffers[k] = buf

	ready := len(buf) >= minCloneBytes && !s.processing[k]
	if ready {
		s.processing[k] = true
	}
	s.mu.Unlock()

	if ready {
		go s.process(k, speaker, room)
	}
}

// process runs the quality gate and embedding extraction for one buffer.
func (s *Store) process(k, speaker, room string) {
	defer func() {
		s.mu.Lock()
		delete(s.processing, k)
		delete(s.buffers, k)
		s.mu.Unlock()
	}()

	s.mu.Lock()
	buf := s.buffers[k]
	oldQuality, hasOld := s.quality[k]
	s.mu.Unlock()

	samples := make([]int16, len(buf)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(buf[i*2:]))
	}

	q := AssessQuality(samples, audio.PipelineSampleRate)
	if !UsableForClone(q) {
		s.logger.Debug().Str("key", k).Float64("quality", q.Overall).Msg("audio below clone quality bar")
		return
	}
	if hasOld && !Improves(oldQuality, q) {
		s.logger.Debug().Str("key", k).Msg("keeping existing voice embedding")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	wav := audio.WAVFromPCM(buf, audio.PipelineSampleRate, 1)
	embedding, err := s.embedder.Embed(ctx, wav)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", k).Msg("embedding extraction failed")
		return
	}
	if len(embedding) == 0 {
		return
	}

	raw := floatsToBytes(embedding)
	if err := s.persist(k, raw); err != nil {
		s.logger.Error().Err(err).Str("key", k).Msg("failed to persist embedding")
		return
	}

	s.mu.Lock()
	s.quality[k] = q
	s.mu.Unlock()
	s.embCache.Set(k, raw, s.cfg.CacheTTL)

	s.logger.Info().
		Str("speaker", speaker).
		Str("room", room).
		Int("dims", len(embedding)).
		Float64("quality", q.Overall).
		Msg("voice embedding updated")
}

// Embedding returns the raw embedding bytes for a speaker, consulting the
// cache first and lazily loading from disk. Returns nil when no embedding
// exists; the synthesizer then uses its default voice.
func (s *Store) Embedding(speaker, room string) []byte {
	k := key(speaker, room)

	if v, ok := s.embCache.Get(k); ok {
		return v.([]byte)
	}

	raw, err := os.ReadFile(s.path(k))
	if err != nil {
		return nil
	}
	// Sanity: embeddings are float32 vectors of a few hundred dims.
	if len(raw)%4 != 0 || len(raw) < 100*4 || len(raw) > 2048*4 {
		s.logger.Warn().Str("key", k).Int("bytes", len(raw)).Msg("removing malformed embedding file")
		_ = os.Remove(s.path(k))
		return nil
	}

	s.embCache.Set(k, raw, s.cfg.CacheTTL)
	return raw
}

// CleanupSpeaker drops the speaker's buffers and cache entry. The
// persisted embedding file is kept for future sessions.
func (s *Store) CleanupSpeaker(speaker, room string) {
	k := key(speaker, room)

	s.mu.Lock()
	delete(s.buffers, k)
	delete(s.quality, k)
	delete(s.processing, k)
	s.mu.Unlock()

	s.embCache.Delete(k)
	s.logger.Debug().Str("key", k).Msg("cleaned up voice data")
}

// CleanupRoom drops in-memory state for every speaker of a room.
func (s *Store) CleanupRoom(room string) {
	suffix := "_" + room

	s.mu.Lock()
	for k := range s.buffers {
		if strings.HasSuffix(k, suffix) {
			delete(s.buffers, k)
			delete(s.quality, k)
			delete(s.processing, k)
		}
	}
	s.mu.Unlock()

	s.embCache.DeleteFunc(func(k string) bool {
		return strings.HasSuffix(k, suffix)
	})
}

// Purge evicts expired cache entries and returns how many were removed.
func (s *Store) Purge() int {
	return s.embCache.Purge()
}

// Stats returns a snapshot for the admin endpoint.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		ActiveBuffers:    len(s.buffers),
		CachedEmbeddings: s.embCache.Len(),
		StorageDirectory: s.cfg.EmbeddingsDir,
	}
}

func (s *Store) path(k string) string {
	return filepath.Join(s.cfg.EmbeddingsDir, k+".npy")
}

func (s *Store) persist(k string, raw []byte) error {
	tmp := s.path(k) + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path(k))
}

func floatsToBytes(v []float32) []byte {
	out := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(f))
	}
	return out
}
