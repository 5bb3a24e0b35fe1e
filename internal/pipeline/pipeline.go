package pipeline

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/voxrelay/voxrelay/internal/audio"
	"github.com/voxrelay/voxrelay/internal/observability"
)

// ErrNoSpeech reports that transcription produced no text for a window.
// The window is simply not translated; the cabin keeps listening.
var ErrNoSpeech = errors.New("pipeline: no speech recognized")

// Outcome is the result of running one audio window through the pipeline.
type Outcome struct {
	// Text is the translated text.
	Text string
	// Audio is synthesized 16-bit mono PCM.
	Audio []byte
	// SampleRate is the rate of Audio.
	SampleRate int
}

// EmbeddingProvider supplies cached voice embeddings for cloned synthesis.
// Implemented by the voice clone store; keyed only by (speaker, room) so
// the store never references cabins.
type EmbeddingProvider interface {
	Embedding(speaker, room string) []byte
	Collect(speaker, room string, pcm16k []byte)
}

// TranscriptSink receives finalized source-language transcriptions.
type TranscriptSink interface {
	SaveTranscript(ctx context.Context, roomID, speaker, text, lang string)
}

// Deps bundles the shared clients a Pipeline borrows. One Deps instance
// serves all cabins; Pipelines themselves are per-cabin.
type Deps struct {
	STT     *STTClient
	NMT     *NMTClient
	TTS     *TTSClient
	Voices  EmbeddingProvider
	Sink    TranscriptSink
	Metrics *observability.Metrics
	Logger  zerolog.Logger
}

// Pipeline runs speech-to-text, translation, and synthesis for one cabin.
// It is owned by the cabin's worker goroutine and never called
// concurrently.
type Pipeline struct {
	SourceLang string
	TargetLang string

	speaker string
	room    string
	deps    Deps
	logger  zerolog.Logger
}

// New creates a pipeline for a cabin's language pair and speaker.
func New(deps Deps, sourceLang, targetLang, speaker, room string) *Pipeline {
	return &Pipeline{
		SourceLang: sourceLang,
		TargetLang: targetLang,
		speaker:    speaker,
		room:       room,
		deps:       deps,
		logger: deps.Logger.With().
			Str("component", "pipeline").
			Str("source_lang", sourceLang).
			Str("target_lang", targetLang).
			Logger(),
	}
}

// Process runs one 16 kHz mono window through STT, translation, and TTS.
func (p *Pipeline) Process(ctx context.Context, window []byte) (*Outcome, error) {
	wav := audio.WAVFromPCM(window, audio.PipelineSampleRate, 1)

	text, err := p.transcribe(ctx, wav)
	if err != nil {
		return nil, err
	}

	// Hand the raw window to voice learning; it decides internally
	// whether the audio is worth keeping.
	if p.deps.Voices != nil {
		p.deps.Voices.Collect(p.speaker, p.room, window)
	}
	if p.deps.Sink != nil {
		p.deps.Sink.SaveTranscript(ctx, p.room, p.speaker, text, p.SourceLang)
	}

	translated, err := p.translate(ctx, text)
	if err != nil {
		return nil, err
	}

	pcm, rate, err := p.synthesize(ctx, translated)
	if err != nil {
		return nil, err
	}

	return &Outcome{Text: translated, Audio: pcm, SampleRate: rate}, nil
}

// Synthesize produces audio for one text fragment, used when an utterance
// is re-synthesized clause by clause.
func (p *Pipeline) Synthesize(ctx context.Context, text string) ([]byte, int, error) {
	return p.synthesize(ctx, text)
}

func (p *Pipeline) transcribe(ctx context.Context, wav []byte) (string, error) {
	start := time.Now()
	result, err := p.deps.STT.Transcribe(ctx, wav, p.SourceLang)
	p.observe("stt", start, err)
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(result.Text)
	if text == "" {
		return "", ErrNoSpeech
	}
	return text, nil
}

func (p *Pipeline) translate(ctx context.Context, text string) (string, error) {
	start := time.Now()
	translated, err := p.deps.NMT.Translate(ctx, text, p.SourceLang, p.TargetLang)
	p.observe("nmt", start, err)
	if err != nil {
		return "", err
	}
	return translated, nil
}

func (p *Pipeline) synthesize(ctx context.Context, text string) ([]byte, int, error) {
	var embedding []byte
	if p.deps.Voices != nil {
		embedding = p.deps.Voices.Embedding(p.speaker, p.room)
	}

	start := time.Now()
	data, err := p.deps.TTS.Synthesize(ctx, text, p.TargetLang, p.speaker, p.room, embedding)
	p.observe("tts", start, err)
	if err != nil {
		return nil, 0, err
	}

	// The synthesizer may answer with a WAV container instead of raw PCM.
	if len(data) > 12 && string(data[0:4]) == "RIFF" {
		pcm, rate, werr := audio.PCMFromWAV(data)
		if werr != nil {
			return nil, 0, werr
		}
		return pcm, rate, nil
	}
	return data, audio.TTSSampleRate, nil
}

// Close releases per-cabin pipeline state. The shared clients stay alive.
func (p *Pipeline) Close() {
	p.logger.Debug().Msg("pipeline disposed")
}

func (p *Pipeline) observe(stage string, start time.Time, err error) {
	if p.deps.Metrics == nil {
		return
	}
	p.deps.Metrics.PipelineLatency.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	if err != nil {
		p.deps.Metrics.PipelineErrors.WithLabelValues(stage).Inc()
	}
}

// SplitClauses breaks translated text into clause-sized fragments for
// incremental synthesis. Returns nil when the text is too short to be
// worth splitting or splitting would yield a single part.
func SplitClauses(text string) []string {
	words := strings.Fields(text)
	if len(words) <= 8 {
		return nil
	}

	var parts []string
	var current []string
	for _, w := range words {
		current = append(current, w)
		if len(current) >= 6 || strings.HasSuffix(w, ".") || strings.HasSuffix(w, ",") ||
			strings.HasSuffix(w, "!") || strings.HasSuffix(w, "?") {
			parts = append(parts, strings.Join(current, " "))
			current = nil
		}
	}
	if len(current) > 0 {
		parts = append(parts, strings.Join(current, " "))
	}

	if len(parts) <= 1 {
		return nil
	}
	return parts
}
