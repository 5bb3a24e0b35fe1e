// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config represents the complete application configuration
type Config struct {
	// Application settings
	App AppConfig

	// gRPC and admin HTTP server ports
	Server ServerConfig

	// RTP transport configuration (shared socket + port pools)
	RTP RTPConfig

	// ML pipeline endpoints (STT / NMT / TTS / embedder)
	Pipeline PipelineConfig

	// Vector store and semantic service settings
	Semantic SemanticConfig

	// Chatbot LLM settings
	Chatbot ChatbotConfig

	// Voice clone store settings
	VoiceClone VoiceCloneConfig

	// Redis cache (optional, used for translation result caching)
	Redis RedisConfig

	// Logging configuration
	Logging LoggingConfig
}

// AppConfig contains general application settings
type AppConfig struct {
	Name        string
	Environment string // dev, staging, production
}

// ServerConfig contains the gRPC listen ports and the admin HTTP port
type ServerConfig struct {
	AudioGRPCPort    int
	SemanticGRPCPort int
	ChatbotGRPCPort  int
	AdminHTTPPort    int
	ShutdownTimeout  time.Duration
}

// RTPConfig contains the shared socket and port pool settings
type RTPConfig struct {
	// Fixed port the shared receive socket binds to
	AudioRxPort int
	// Source port for the send socket; 0 = ephemeral. Bind it when the
	// SFU runs with comedia disabled and expects symmetric flows.
	TxSourcePort int

	// Primary allocator range for per-cabin virtual ports
	PortMin int
	PortMax int

	// Secondary pool reserved for plain-RTP transports
	RangeStart int
	RangeEnd   int

	// SFU destination
	SFUHost             string
	MediasoupWorkerHost string
	MediasoupWorkerPort int
}

// PipelineConfig contains the external ML collaborator endpoints
type PipelineConfig struct {
	STTURL      string
	NMTURL      string
	TTSURL      string
	EmbedderURL string
	APIKey      string
	Timeout     time.Duration

	// NMT circuit breaker
	MaxLatency       time.Duration
	FailureThreshold int

	// NMT result cache
	CacheSize int
	CacheTTL  time.Duration
}

// SemanticConfig contains vector store and semantic service settings
type SemanticConfig struct {
	ServiceHost string
	ServicePort int

	QdrantURL      string
	QdrantAPIKey   string
	CollectionName string

	MaxSearchResults int
	EncoderURL       string
}

// ChatbotConfig contains the LLM settings for the chatbot service
type ChatbotConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// VoiceCloneConfig contains voice clone store settings
type VoiceCloneConfig struct {
	EmbeddingsDir string
	CacheSize     int
	CacheTTL      time.Duration
}

// RedisConfig contains Redis cache settings
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level      string // debug, info, warn, error
	Format     string // json, console
	ToFile     bool
	Dir        string
	FilePrefix string
}

// Load builds the configuration from the environment. A .env file in the
// working directory is applied first when present; real environment
// variables always win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	cfg.loadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// loadFromEnv overrides configuration with environment variables
func (c *Config) loadFromEnv() {
	// App
	if v := os.Getenv("APP_ENV"); v != "" {
		c.App.Environment = v
	}

	// Server
	setInt(&c.Server.AudioGRPCPort, "AUDIO_GRPC_PORT")
	setInt(&c.Server.SemanticGRPCPort, "SEMANTIC_GRPC_PORT")
	setInt(&c.Server.ChatbotGRPCPort, "CHATBOT_GRPC_PORT")
	setInt(&c.Server.AdminHTTPPort, "ADMIN_HTTP_PORT")

	// RTP
	setInt(&c.RTP.AudioRxPort, "AUDIO_RX_PORT")
	setInt(&c.RTP.TxSourcePort, "AUDIO_TX_SOURCE_PORT")
	setInt(&c.RTP.PortMin, "AUDIO_PORT_MIN")
	setInt(&c.RTP.PortMax, "AUDIO_PORT_MAX")
	setInt(&c.RTP.RangeStart, "RTP_PORT_RANGE_START")
	setInt(&c.RTP.RangeEnd, "RTP_PORT_RANGE_END")
	setString(&c.RTP.SFUHost, "SFU_SERVICE_HOST")
	setString(&c.RTP.MediasoupWorkerHost, "MEDIASOUP_WORKER_HOST")
	setInt(&c.RTP.MediasoupWorkerPort, "MEDIASOUP_WORKER_PORT")

	// Pipeline
	setString(&c.Pipeline.STTURL, "STT_SERVICE_URL")
	setString(&c.Pipeline.NMTURL, "NMT_SERVICE_URL")
	setString(&c.Pipeline.TTSURL, "TTS_SERVICE_URL")
	setString(&c.Pipeline.EmbedderURL, "VOICE_EMBEDDER_URL")
	setString(&c.Pipeline.APIKey, "PIPELINE_API_KEY")

	// Semantic
	setString(&c.Semantic.ServiceHost, "SEMANTIC_SERVICE_HOST")
	setInt(&c.Semantic.ServicePort, "SEMANTIC_SERVICE_PORT")
	setString(&c.Semantic.QdrantURL, "URL_QDRANT")
	setString(&c.Semantic.QdrantAPIKey, "API_KEY_QDRANT")
	setString(&c.Semantic.CollectionName, "COLLECTION_NAME")
	setInt(&c.Semantic.MaxSearchResults, "MAX_SEARCH_RESULTS")
	setString(&c.Semantic.EncoderURL, "TEXT_ENCODER_URL")

	// Chatbot
	setString(&c.Chatbot.APIKey, "CHATBOT_API_KEY")
	setString(&c.Chatbot.BaseURL, "CHATBOT_BASE_URL")
	setString(&c.Chatbot.Model, "CHATBOT_MODEL")

	// Voice clone
	setString(&c.VoiceClone.EmbeddingsDir, "VOICE_CLONE_DIR")

	// Redis
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.Redis.Enabled = true
		c.Redis.Host = v
	}
	setInt(&c.Redis.Port, "REDIS_PORT")
	setString(&c.Redis.Password, "REDIS_PASSWORD")
	setInt(&c.Redis.DB, "REDIS_DB")

	// Logging
	setString(&c.Logging.Level, "LOG_LEVEL")
	setString(&c.Logging.Format, "LOG_FORMAT")
	if v := os.Getenv("LOG_TO_FILE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Logging.ToFile = b
		}
	}
	setString(&c.Logging.Dir, "LOG_DIR")
	setString(&c.Logging.FilePrefix, "LOG_FILE_PREFIX")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.App.Environment != "dev" && c.App.Environment != "staging" && c.App.Environment != "production" {
		return fmt.Errorf("invalid environment: %s (must be dev, staging, or production)", c.App.Environment)
	}

	for name, port := range map[string]int{
		"AUDIO_GRPC_PORT":    c.Server.AudioGRPCPort,
		"SEMANTIC_GRPC_PORT": c.Server.SemanticGRPCPort,
		"CHATBOT_GRPC_PORT":  c.Server.ChatbotGRPCPort,
		"AUDIO_RX_PORT":      c.RTP.AudioRxPort,
	} {
		if port < 1 || port > 65535 {
			return fmt.Errorf("invalid %s: %d", name, port)
		}
	}

	if c.RTP.PortMin > c.RTP.PortMax {
		return fmt.Errorf("invalid port range: %d-%d", c.RTP.PortMin, c.RTP.PortMax)
	}
	if c.RTP.RangeStart > c.RTP.RangeEnd {
		return fmt.Errorf("invalid RTP port range: %d-%d", c.RTP.RangeStart, c.RTP.RangeEnd)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true, "fatal": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	return nil
}

// GetLogLevel returns the zerolog level based on configuration
func (c *Config) GetLogLevel() zerolog.Level {
	switch c.Logging.Level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// SemanticAddr returns the host:port of the semantic gRPC service
func (c *Config) SemanticAddr() string {
	return fmt.Sprintf("%s:%d", c.Semantic.ServiceHost, c.Semantic.ServicePort)
}

// RedisAddr returns the Redis connection address
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
