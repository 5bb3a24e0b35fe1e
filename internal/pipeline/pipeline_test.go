package pipeline

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxrelay/voxrelay/internal/audio"
)

func newSTTServer(t *testing.T, text string, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			calls.Add(1)
		}
		require.NoError(t, r.ParseMultipartForm(8<<20))
		_, _, err := r.FormFile("file")
		require.NoError(t, err)
		json.NewEncoder(w).Encode(STTResult{Text: text})
	}))
}

func newNMTServer(t *testing.T, translated string, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			calls.Add(1)
		}
		assert.Equal(t, "/translate", r.URL.Path)
		var req translateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		json.NewEncoder(w).Encode(translateResponse{
			TranslatedText: translated,
			SourceLang:     req.SourceLang,
			TargetLang:     req.TargetLang,
		})
	}))
}

func newTTSServer(t *testing.T, pcm []byte, sawEmbedding *atomic.Bool) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ttsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if sawEmbedding != nil && req.SpeakerEmbedding != "" {
			sawEmbedding.Store(true)
		}
		w.Write(pcm)
	}))
}

type fakeVoices struct {
	embedding []byte
	collected atomic.Int32
}

func (f *fakeVoices) Embedding(speaker, room string) []byte { return f.embedding }
func (f *fakeVoices) Collect(speaker, room string, pcm []byte) {
	f.collected.Add(1)
}

func testDeps(t *testing.T, sttURL, nmtURL, ttsURL string, voices EmbeddingProvider) Deps {
	t.Helper()
	logger := zerolog.Nop()
	return Deps{
		STT:    NewSTTClient(STTConfig{APIURL: sttURL}, logger),
		NMT:    NewNMTClient(NMTConfig{BaseURL: nmtURL}, nil, logger),
		TTS:    NewTTSClient(TTSConfig{APIURL: ttsURL}, logger),
		Voices: voices,
		Logger: logger,
	}
}

func TestProcessHappyPath(t *testing.T) {
	ttsPCM := make([]byte, 4800) // 100ms at 24kHz

	stt := newSTTServer(t, "xin chào", nil)
	defer stt.Close()
	nmt := newNMTServer(t, "hello", nil)
	defer nmt.Close()
	tts := newTTSServer(t, ttsPCM, nil)
	defer tts.Close()

	voices := &fakeVoices{}
	p := New(testDeps(t, stt.URL, nmt.URL, tts.URL, voices), "vi", "en", "U1", "R1")

	out, err := p.Process(context.Background(), make([]byte, 32000))
	require.NoError(t, err)
	assert.Equal(t, "hello", out.Text)
	assert.Equal(t, ttsPCM, out.Audio)
	assert.Equal(t, audio.TTSSampleRate, out.SampleRate)
	assert.Equal(t, int32(1), voices.collected.Load())
}

func TestProcessEmptyTranscriptIsNoSpeech(t *testing.T) {
	stt := newSTTServer(t, "   ", nil)
	defer stt.Close()

	p := New(testDeps(t, stt.URL, "http://unused", "http://unused", nil), "vi", "en", "U1", "R1")

	_, err := p.Process(context.Background(), make([]byte, 32000))
	assert.ErrorIs(t, err, ErrNoSpeech)
}

func TestProcessUnwrapsWAVResponse(t *testing.T) {
	pcm := make([]byte, 960)
	for i := range pcm {
		pcm[i] = byte(i)
	}
	wav := audio.WAVFromPCM(pcm, 24000, 1)

	stt := newSTTServer(t, "text", nil)
	defer stt.Close()
	nmt := newNMTServer(t, "translated", nil)
	defer nmt.Close()
	tts := newTTSServer(t, wav, nil)
	defer tts.Close()

	p := New(testDeps(t, stt.URL, nmt.URL, tts.URL, nil), "vi", "en", "U1", "R1")
	out, err := p.Process(context.Background(), make([]byte, 32000))
	require.NoError(t, err)
	assert.Equal(t, pcm, out.Audio)
	assert.Equal(t, 24000, out.SampleRate)
}

func TestProcessPassesEmbeddingToTTS(t *testing.T) {
	var sawEmbedding atomic.Bool

	stt := newSTTServer(t, "text", nil)
	defer stt.Close()
	nmt := newNMTServer(t, "translated", nil)
	defer nmt.Close()
	tts := newTTSServer(t, make([]byte, 100), &sawEmbedding)
	defer tts.Close()

	voices := &fakeVoices{embedding: []byte{1, 2, 3, 4}}
	p := New(testDeps(t, stt.URL, nmt.URL, tts.URL, voices), "vi", "en", "U1", "R1")

	_, err := p.Process(context.Background(), make([]byte, 32000))
	require.NoError(t, err)
	assert.True(t, sawEmbedding.Load())
}

func TestNMTSameLanguagePassThrough(t *testing.T) {
	var calls atomic.Int32
	nmt := newNMTServer(t, "never", &calls)
	defer nmt.Close()

	c := NewNMTClient(NMTConfig{BaseURL: nmt.URL}, nil, zerolog.Nop())
	out, err := c.Translate(context.Background(), "như cũ", "vi", "vi")
	require.NoError(t, err)
	assert.Equal(t, "như cũ", out)
	assert.Zero(t, calls.Load())
}

func TestNMTCache(t *testing.T) {
	var calls atomic.Int32
	nmt := newNMTServer(t, "hello", &calls)
	defer nmt.Close()

	c := NewNMTClient(NMTConfig{BaseURL: nmt.URL}, NewLRUTextCache(16, time.Minute), zerolog.Nop())

	for i := 0; i < 3; i++ {
		out, err := c.Translate(context.Background(), "xin chào", "vi", "en")
		require.NoError(t, err)
		assert.Equal(t, "hello", out)
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestNMTCircuitBreaker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewNMTClient(NMTConfig{BaseURL: srv.URL, FailureThreshold: 2}, nil, zerolog.Nop())

	_, err := c.Translate(context.Background(), "a", "vi", "en")
	assert.Error(t, err)
	_, err = c.Translate(context.Background(), "b", "vi", "en")
	assert.Error(t, err)
	assert.True(t, c.IsCircuitOpen())

	// Open circuit fails fast without hitting the server
	_, err = c.Translate(context.Background(), "c", "vi", "en")
	assert.Error(t, err)

	c.ResetCircuit()
	assert.False(t, c.IsCircuitOpen())
}

func TestSplitClauses(t *testing.T) {
	// Short text: no split
	assert.Nil(t, SplitClauses("too short to split"))

	parts := SplitClauses("one two three four five six, seven eight nine ten eleven twelve")
	require.NotNil(t, parts)
	assert.GreaterOrEqual(t, len(parts), 2)

	// Every word appears exactly once across parts
	total := 0
	for _, p := range parts {
		total += len(strings.Fields(p))
	}
	assert.Equal(t, 12, total)
}
