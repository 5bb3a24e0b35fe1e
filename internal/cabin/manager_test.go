package cabin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxrelay/voxrelay/internal/audio"
	"github.com/voxrelay/voxrelay/internal/pipeline"
	"github.com/voxrelay/voxrelay/internal/ports"
	"github.com/voxrelay/voxrelay/internal/sockethub"
)

// recordingSender captures emitted packets instead of hitting the network.
type recordingSender struct {
	mu      sync.Mutex
	packets [][]byte
	host    string
	port    int
}

func (r *recordingSender) Send(packet []byte, host string, port int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := make([]byte, len(packet))
	copy(p, packet)
	r.packets = append(r.packets, p)
	r.host = host
	r.port = port
	return true
}

func (r *recordingSender) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.packets)
}

// alwaysSpeech marks every VAD frame as voiced.
type alwaysSpeech struct{}

func (alwaysSpeech) IsSpeech(frame []byte, sampleRate int) (bool, error) { return true, nil }

type testEnv struct {
	manager *Manager
	hub     *sockethub.Hub
	alloc   *ports.Allocator
}

func newTestEnv(t *testing.T, deps pipeline.Deps) *testEnv {
	t.Helper()

	alloc := ports.NewAllocator(37000, 37080, zerolog.Nop())
	hub := sockethub.New(alloc, nil, zerolog.Nop())
	require.NoError(t, hub.Start(0, 0))
	t.Cleanup(hub.Stop)

	m := NewManager(ManagerConfig{
		Hub:          hub,
		Codecs:       audio.NewCodecCache(zerolog.Nop()),
		PipelineDeps: deps,
		VADFactory: func() (audio.FrameDetector, error) {
			return alwaysSpeech{}, nil
		},
		SFUHost: "127.0.0.1",
		Logger:  zerolog.Nop(),
	})
	t.Cleanup(m.Shutdown)

	return &testEnv{manager: m, hub: hub, alloc: alloc}
}

func nopDeps() pipeline.Deps {
	return pipeline.Deps{Logger: zerolog.Nop()}
}

func TestDeriveSSRCDeterministic(t *testing.T) {
	k := Key{RoomID: "R1", SpeakerID: "U1", SourceLang: "vi", TargetLang: "en"}
	assert.Equal(t, DeriveSSRC(k), DeriveSSRC(k))
	assert.NotEqual(t, DeriveSSRC(k), DeriveSSRC(Key{RoomID: "R2", SpeakerID: "U1", SourceLang: "vi", TargetLang: "en"}))
	assert.Equal(t, "R1_U1_vi_en", k.String())
}

func TestCreateCabin(t *testing.T) {
	env := newTestEnv(t, nopDeps())

	info, err := env.manager.CreateCabin("R1", "U1", "vi", "en", 5004)
	require.NoError(t, err)

	assert.Equal(t, "R1_U1_vi_en", info.CabinKey)
	assert.Equal(t, StatusListening, info.Status)
	assert.True(t, info.Running)
	assert.NotZero(t, info.RTPPort)
	assert.NotZero(t, info.SendPort)
	assert.Equal(t, DeriveSSRC(Key{"R1", "U1", "vi", "en"}), info.SSRC)

	ssrc, ok := env.hub.SSRCFor("R1_U1_vi_en")
	assert.True(t, ok)
	assert.Equal(t, info.SSRC, ssrc)
}

func TestCreateCabinIdempotent(t *testing.T) {
	env := newTestEnv(t, nopDeps())

	first, err := env.manager.CreateCabin("R1", "U1", "vi", "en", 0)
	require.NoError(t, err)
	used := env.alloc.UsedCount()

	second, err := env.manager.CreateCabin("R1", "U1", "vi", "en", 0)
	require.NoError(t, err)

	assert.Equal(t, first.RTPPort, second.RTPPort)
	assert.Equal(t, first.SSRC, second.SSRC)
	assert.Equal(t, used, env.alloc.UsedCount())
}

func TestFindCabinByUser(t *testing.T) {
	env := newTestEnv(t, nopDeps())

	_, err := env.manager.CreateCabin("R1", "U1", "vi", "en", 0)
	require.NoError(t, err)

	key, ok := env.manager.FindCabinByUser("R1", "U1")
	assert.True(t, ok)
	assert.Equal(t, "R1_U1_vi_en", key)

	_, ok = env.manager.FindCabinByUser("R1", "U9")
	assert.False(t, ok)
}

func TestUpdateCabinLanguages(t *testing.T) {
	env := newTestEnv(t, nopDeps())

	info, err := env.manager.CreateCabin("R1", "U1", "vi", "en", 0)
	require.NoError(t, err)

	require.NoError(t, env.manager.UpdateCabinLanguages("R1_U1_vi_en", "en", "vi"))

	_, ok := env.manager.CabinInfo("R1_U1_vi_en")
	assert.False(t, ok)

	updated, ok := env.manager.CabinInfo("R1_U1_en_vi")
	require.True(t, ok)

	// SSRC and ports survive the rename
	assert.Equal(t, info.SSRC, updated.SSRC)
	assert.Equal(t, info.RTPPort, updated.RTPPort)
	assert.Equal(t, info.SendPort, updated.SendPort)

	// Hub routing follows the new key
	ssrc, ok := env.hub.SSRCFor("R1_U1_en_vi")
	assert.True(t, ok)
	assert.Equal(t, info.SSRC, ssrc)
}

func TestUpdateCabinLanguagesNoChange(t *testing.T) {
	env := newTestEnv(t, nopDeps())

	_, err := env.manager.CreateCabin("R1", "U1", "vi", "en", 0)
	require.NoError(t, err)

	require.NoError(t, env.manager.UpdateCabinLanguages("R1_U1_vi_en", "vi", "en"))
	_, ok := env.manager.CabinInfo("R1_U1_vi_en")
	assert.True(t, ok)
}

func TestUpdateCabinLanguagesMissing(t *testing.T) {
	env := newTestEnv(t, nopDeps())
	assert.ErrorIs(t, env.manager.UpdateCabinLanguages("nope", "vi", "en"), ErrNotFound)
}

func TestDestroyCabinReleasesEverything(t *testing.T) {
	env := newTestEnv(t, nopDeps())

	before := env.alloc.UsedCount()
	_, err := env.manager.CreateCabin("R1", "U1", "vi", "en", 0)
	require.NoError(t, err)

	assert.True(t, env.manager.DestroyCabin("R1", "U1", "vi", "en"))
	assert.Equal(t, before, env.alloc.UsedCount())

	_, ok := env.hub.SSRCFor("R1_U1_vi_en")
	assert.False(t, ok)

	// Idempotent
	assert.False(t, env.manager.DestroyCabin("R1", "U1", "vi", "en"))
}

func TestDestroyThenRecreate(t *testing.T) {
	env := newTestEnv(t, nopDeps())

	first, err := env.manager.CreateCabin("R1", "U1", "vi", "en", 0)
	require.NoError(t, err)
	require.True(t, env.manager.DestroyCabin("R1", "U1", "vi", "en"))

	second, err := env.manager.CreateCabin("R1", "U1", "vi", "en", 0)
	require.NoError(t, err)
	assert.Equal(t, first.SSRC, second.SSRC)
	assert.True(t, second.Running)
}

func TestStartCabinIdempotent(t *testing.T) {
	env := newTestEnv(t, nopDeps())

	_, err := env.manager.CreateCabin("R1", "U1", "vi", "en", 0)
	require.NoError(t, err)

	assert.True(t, env.manager.StartCabin("R1_U1_vi_en"))
	assert.True(t, env.manager.StartCabin("R1_U1_vi_en"))
	assert.False(t, env.manager.StartCabin("missing"))
}

// --- worker path tests ---

func quietWindow() []byte {
	return make([]byte, audio.PipelineSampleRate*2) // 1s of silence
}

func loudWindow() []byte {
	raw := make([]byte, audio.PipelineSampleRate*2)
	for i := 0; i < len(raw); i += 2 {
		raw[i] = 0x48 // -3000 LE low byte
		raw[i+1] = 0xF4
	}
	return raw
}

func grabCabin(t *testing.T, m *Manager, key string) *Cabin {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.cabins[key]
	require.True(t, ok)
	return c
}

func TestPassthroughOnSilence(t *testing.T) {
	env := newTestEnv(t, nopDeps())

	_, err := env.manager.CreateCabin("R1", "U1", "vi", "en", 5004)
	require.NoError(t, err)

	c := grabCabin(t, env.manager, "R1_U1_vi_en")
	rec := &recordingSender{}
	c.sender = rec

	c.processWindow(quietWindow())

	// 1s of audio = 50 x 20ms chunks, one RTP packet each
	assert.Equal(t, 50, rec.count())
	assert.Equal(t, "127.0.0.1", rec.host)
	assert.Equal(t, 5004, rec.port)
	assert.Equal(t, StatusListening, c.Info().Status)
}

func TestTranslationHappyPath(t *testing.T) {
	ttsPCM := make([]byte, audio.TTSSampleRate*2/2) // 0.5s at 24kHz

	stt := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"text": "xin chào"})
	}))
	defer stt.Close()
	nmt := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"translated_text": "hello"})
	}))
	defer nmt.Close()
	tts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(ttsPCM)
	}))
	defer tts.Close()

	deps := pipeline.Deps{
		STT:    pipeline.NewSTTClient(pipeline.STTConfig{APIURL: stt.URL}, zerolog.Nop()),
		NMT:    pipeline.NewNMTClient(pipeline.NMTConfig{BaseURL: nmt.URL}, nil, zerolog.Nop()),
		TTS:    pipeline.NewTTSClient(pipeline.TTSConfig{APIURL: tts.URL}, zerolog.Nop()),
		Logger: zerolog.Nop(),
	}

	env := newTestEnv(t, deps)
	_, err := env.manager.CreateCabin("R1", "U1", "vi", "en", 5004)
	require.NoError(t, err)

	c := grabCabin(t, env.manager, "R1_U1_vi_en")
	rec := &recordingSender{}
	c.sender = rec

	c.processWindow(loudWindow())

	// 0.5s of synthesized audio = 25 chunks of 20ms
	assert.Equal(t, 25, rec.count())
	assert.Equal(t, StatusListening, c.Info().Status)

	// Sequence numbers are strictly monotonic across the utterance
	var lastSeq uint16
	for i, pkt := range rec.packets {
		seq := uint16(pkt[2])<<8 | uint16(pkt[3])
		if i > 0 {
			assert.Equal(t, lastSeq+1, seq)
		}
		lastSeq = seq
	}
}

func TestPipelineFailureDropsUtterance(t *testing.T) {
	stt := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model crashed", http.StatusInternalServerError)
	}))
	defer stt.Close()

	deps := nopDeps()
	deps.STT = pipeline.NewSTTClient(pipeline.STTConfig{APIURL: stt.URL}, zerolog.Nop())

	env := newTestEnv(t, deps)
	_, err := env.manager.CreateCabin("R1", "U1", "vi", "en", 0)
	require.NoError(t, err)

	c := grabCabin(t, env.manager, "R1_U1_vi_en")
	rec := &recordingSender{}
	c.sender = rec

	c.processWindow(loudWindow())

	// Translated path dropped, nothing emitted, cabin keeps listening
	assert.Zero(t, rec.count())
	assert.Equal(t, StatusListening, c.Info().Status)
}

func TestQueueDropsOldestWhenFull(t *testing.T) {
	env := newTestEnv(t, nopDeps())
	_, err := env.manager.CreateCabin("R1", "U1", "vi", "en", 0)
	require.NoError(t, err)

	c := grabCabin(t, env.manager, "R1_U1_vi_en")

	// Stop the worker so the queue fills
	require.True(t, env.manager.DestroyCabin("R1", "U1", "vi", "en"))

	c.queue = make(chan []byte, queueCapacity)
	for i := 0; i < queueCapacity; i++ {
		c.enqueue([]byte{byte(i)})
	}
	c.enqueue([]byte{0xFF})

	assert.Equal(t, queueCapacity, len(c.queue))
	first := <-c.queue
	assert.Equal(t, byte(1), first[0]) // oldest (0) was dropped
}
