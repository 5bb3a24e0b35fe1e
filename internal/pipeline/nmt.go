package pipeline

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// circuitState represents the state of the circuit breaker.
type circuitState int

const (
	circuitClosed circuitState = iota // Normal operation
	circuitOpen                       // Requests blocked, waiting for reset
)

// translateRequest is the HTTP request body for the translation API.
type translateRequest struct {
	Text       string `json:"text"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
}

// translateResponse is the HTTP response body from the translation API.
type translateResponse struct {
	TranslatedText string `json:"translated_text"`
	SourceLang     string `json:"source_lang"`
	TargetLang     string `json:"target_lang"`
}

// TextCache caches translation results. Implemented by an in-memory LRU
// and, when configured, Redis.
type TextCache interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

// NMTConfig holds configuration for the translation client.
type NMTConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration

	// Circuit breaker: consecutive failures or over-latency responses
	// reaching FailureThreshold block further calls until reset.
	MaxLatency       time.Duration
	FailureThreshold int
}

// NMTClient is an HTTP client for the machine translation service with a
// latency circuit breaker and optional result caching.
type NMTClient struct {
	mu               sync.RWMutex
	cfg              NMTConfig
	httpClient       *http.Client
	cache            TextCache
	logger           zerolog.Logger
	consecutiveFails int
	state            circuitState
}

// NewNMTClient creates a new translation client. cache may be nil.
func NewNMTClient(cfg NMTConfig, cache TextCache, logger zerolog.Logger) *NMTClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &NMTClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		cache:      cache,
		logger:     logger.With().Str("component", "nmt-client").Logger(),
		state:      circuitClosed,
	}
}

// Translate converts text between languages. Identical source and target
// languages pass the text through untouched.
func (c *NMTClient) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	if sourceLang == targetLang {
		return text, nil
	}
	if err := c.checkCircuit(); err != nil {
		return "", err
	}

	key := cacheKey(sourceLang, targetLang, text)
	if c.cache != nil {
		if result, ok := c.cache.Get(key); ok {
			c.logger.Debug().
				Str("source_lang", sourceLang).
				Str("target_lang", targetLang).
				Msg("translation cache hit")
			return result, nil
		}
	}

	start := time.Now()

	reqBody := translateRequest{
		Text:       text,
		SourceLang: sourceLang,
		TargetLang: targetLang,
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("nmt: marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/translate", c.cfg.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("nmt: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.recordFailure()
		return "", fmt.Errorf("nmt: http request: %w", err)
	}
	defer resp.Body.Close()

	latency := time.Since(start)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.recordFailure()
		return "", fmt.Errorf("nmt: API returned status %d: %s", resp.StatusCode, string(body))
	}

	var result translateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		c.recordFailure()
		return "", fmt.Errorf("nmt: decode response: %w", err)
	}

	c.recordLatency(latency)

	if c.cache != nil {
		c.cache.Set(key, result.TranslatedText)
	}

	c.logger.Debug().
		Str("source_lang", sourceLang).
		Str("target_lang", targetLang).
		Dur("latency", latency).
		Int("text_len", len(text)).
		Msg("translation completed")

	return result.TranslatedText, nil
}

// checkCircuit returns an error if the circuit breaker is open.
func (c *NMTClient) checkCircuit() error {
	if c.cfg.FailureThreshold <= 0 {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.state == circuitOpen {
		return fmt.Errorf("nmt: circuit breaker open after %d consecutive failures", c.cfg.FailureThreshold)
	}
	return nil
}

// recordFailure increments the failure counter and may trip the breaker.
func (c *NMTClient) recordFailure() {
	if c.cfg.FailureThreshold <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.consecutiveFails++
	if c.consecutiveFails >= c.cfg.FailureThreshold {
		c.state = circuitOpen
		c.logger.Warn().
			Int("consecutive_failures", c.consecutiveFails).
			Msg("nmt circuit breaker opened")
	}
}

// recordLatency treats an over-latency success as a failure, otherwise
// resets the failure counter.
func (c *NMTClient) recordLatency(latency time.Duration) {
	if c.cfg.FailureThreshold <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfg.MaxLatency > 0 && latency > c.cfg.MaxLatency {
		c.consecutiveFails++
		if c.consecutiveFails >= c.cfg.FailureThreshold {
			c.state = circuitOpen
			c.logger.Warn().
				Dur("latency", latency).
				Int("consecutive_failures", c.consecutiveFails).
				Msg("nmt circuit breaker opened on latency")
		}
		return
	}
	c.consecutiveFails = 0
}

// ResetCircuit manually closes the circuit breaker.
func (c *NMTClient) ResetCircuit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = circuitClosed
	c.consecutiveFails = 0
}

// IsCircuitOpen reports whether the breaker is currently open.
func (c *NMTClient) IsCircuitOpen() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state == circuitOpen
}

func cacheKey(sourceLang, targetLang, text string) string {
	sum := sha256.Sum256([]byte(text))
	return sourceLang + ":" + targetLang + ":" + hex.EncodeToString(sum[:16])
}
