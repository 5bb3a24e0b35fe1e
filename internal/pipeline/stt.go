// Package pipeline wraps the external ML collaborators (speech-to-text,
// machine translation, speech synthesis) behind one per-cabin facade.
package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// STTClient is an HTTP client for Whisper-compatible transcription APIs.
type STTClient struct {
	httpClient *http.Client
	apiURL     string
	apiKey     string
	logger     zerolog.Logger
}

// STTResult holds the transcription result.
type STTResult struct {
	Text     string `json:"text"`
	Language string `json:"language,omitempty"`
}

// STTConfig holds configuration for the STT client.
type STTConfig struct {
	APIURL  string
	APIKey  string
	Timeout time.Duration
}

// NewSTTClient creates a new Whisper-compatible STT client.
func NewSTTClient(cfg STTConfig, logger zerolog.Logger) *STTClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &STTClient{
		httpClient: &http.Client{Timeout: timeout},
		apiURL:     cfg.APIURL,
		apiKey:     cfg.APIKey,
		logger:     logger.With().Str("component", "stt-client").Logger(),
	}
}

// Transcribe sends WAV audio to the transcription API and returns the text.
func (c *STTClient) Transcribe(ctx context.Context, audioWAV []byte, lang string) (*STTResult, error) {
	start := time.Now()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", "audio.wav")
	if err != nil {
		return nil, fmt.Errorf("stt: create form file: %w", err)
	}
	if _, err := part.Write(audioWAV); err != nil {
		return nil, fmt.Errorf("stt: write audio data: %w", err)
	}
	if lang != "" {
		if err := writer.WriteField("language", lang); err != nil {
			return nil, fmt.Errorf("stt: write language field: %w", err)
		}
	}
	if err := writer.WriteField("response_format", "json"); err != nil {
		return nil, fmt.Errorf("stt: write format field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("stt: close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, &body)
	if err != nil {
		return nil, fmt.Errorf("stt: create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("stt: http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("stt: API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var result STTResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("stt: decode response: %w", err)
	}

	c.logger.Debug().
		Dur("latency", time.Since(start)).
		Str("language", lang).
		Int("audio_bytes", len(audioWAV)).
		Int("text_len", len(result.Text)).
		Msg("transcription completed")

	return &result, nil
}
