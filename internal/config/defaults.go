package config

import "time"

// Default returns the default configuration. Values mirror the deployment
// the relay was built against: mediasoup SFU on localhost, rx socket on
// 35000, virtual port pool 35000-35400.
func Default() *Config {
	return &Config{
		App: AppConfig{
			Name:        "voxrelay",
			Environment: "dev",
		},
		Server: ServerConfig{
			AudioGRPCPort:    30005,
			SemanticGRPCPort: 30006,
			ChatbotGRPCPort:  30007,
			AdminHTTPPort:    9090,
			ShutdownTimeout:  15 * time.Second,
		},
		RTP: RTPConfig{
			AudioRxPort:         35000,
			TxSourcePort:        0,
			PortMin:             35000,
			PortMax:             35400,
			RangeStart:          40000,
			RangeEnd:            40400,
			SFUHost:             "localhost",
			MediasoupWorkerHost: "localhost",
			MediasoupWorkerPort: 3000,
		},
		Pipeline: PipelineConfig{
			STTURL:           "http://localhost:8001/v1/audio/transcriptions",
			NMTURL:           "http://localhost:8002",
			TTSURL:           "http://localhost:8003/v1/audio/speech",
			EmbedderURL:      "http://localhost:8003/v1/voice/embed",
			Timeout:          30 * time.Second,
			MaxLatency:       10 * time.Second,
			FailureThreshold: 5,
			CacheSize:        1024,
			CacheTTL:         10 * time.Minute,
		},
		Semantic: SemanticConfig{
			ServiceHost:      "localhost",
			ServicePort:      30006,
			QdrantURL:        "localhost:6334",
			CollectionName:   "room_transcripts",
			MaxSearchResults: 10,
			EncoderURL:       "http://localhost:8004/v1/embeddings",
		},
		Chatbot: ChatbotConfig{
			Model: "gpt-4o-mini",
		},
		VoiceClone: VoiceCloneConfig{
			EmbeddingsDir: "voice_clones/embeddings",
			CacheSize:     50,
			CacheTTL:      30 * time.Minute,
		},
		Redis: RedisConfig{
			Port: 6379,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			Dir:        "logs",
			FilePrefix: "voxrelay",
		},
	}
}
