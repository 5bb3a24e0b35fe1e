package pipeline

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// TTSConfig holds configuration for the synthesis client.
type TTSConfig struct {
	APIURL  string
	APIKey  string
	Timeout time.Duration
}

// ttsRequest is the JSON request body for the synthesis API. When a
// speaker embedding is present the synthesizer clones that voice,
// otherwise it falls back to its default voice for the language.
type ttsRequest struct {
	Text             string `json:"text"`
	Language         string `json:"language"`
	Speaker          string `json:"speaker,omitempty"`
	Room             string `json:"room,omitempty"`
	SpeakerEmbedding string `json:"speaker_embedding,omitempty"` // base64 float32 LE
}

// TTSClient is an HTTP client for the speech synthesis API. Responses are
// raw 16-bit mono PCM at 24 kHz, or a WAV container which the caller
// unwraps.
type TTSClient struct {
	httpClient *http.Client
	apiURL     string
	apiKey     string
	logger     zerolog.Logger
}

// NewTTSClient creates a new synthesis client.
func NewTTSClient(cfg TTSConfig, logger zerolog.Logger) *TTSClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &TTSClient{
		httpClient: &http.Client{Timeout: timeout},
		apiURL:     cfg.APIURL,
		apiKey:     cfg.APIKey,
		logger:     logger.With().Str("component", "tts-client").Logger(),
	}
}

// Synthesize converts text to speech audio. embedding may be nil.
func (c *TTSClient) Synthesize(ctx context.Context, text, lang, speaker, room string, embedding []byte) ([]byte, error) {
	start := time.Now()

	reqBody := ttsRequest{
		Text:     text,
		Language: lang,
		Speaker:  speaker,
		Room:     room,
	}
	if len(embedding) > 0 {
		reqBody.SpeakerEmbedding = base64.StdEncoding.EncodeToString(embedding)
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("tts: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("tts: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts: http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("tts: API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	audioData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("tts: read response body: %w", err)
	}

	c.logger.Debug().
		Dur("latency", time.Since(start)).
		Str("lang", lang).
		Bool("cloned_voice", len(embedding) > 0).
		Int("text_len", len(text)).
		Int("audio_bytes", len(audioData)).
		Msg("speech synthesis completed")

	return audioData, nil
}
