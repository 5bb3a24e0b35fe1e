package config

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 35000, cfg.RTP.AudioRxPort)
	assert.Equal(t, 35000, cfg.RTP.PortMin)
	assert.Equal(t, 35400, cfg.RTP.PortMax)
	assert.Equal(t, 40000, cfg.RTP.RangeStart)
	assert.Equal(t, 40400, cfg.RTP.RangeEnd)
	assert.Equal(t, "room_transcripts", cfg.Semantic.CollectionName)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("AUDIO_GRPC_PORT", "31000")
	t.Setenv("AUDIO_PORT_MIN", "36000")
	t.Setenv("AUDIO_PORT_MAX", "36100")
	t.Setenv("SFU_SERVICE_HOST", "sfu.internal")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_TO_FILE", "true")
	t.Setenv("REDIS_HOST", "redis.internal")

	cfg := Default()
	cfg.loadFromEnv()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 31000, cfg.Server.AudioGRPCPort)
	assert.Equal(t, 36000, cfg.RTP.PortMin)
	assert.Equal(t, 36100, cfg.RTP.PortMax)
	assert.Equal(t, "sfu.internal", cfg.RTP.SFUHost)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.ToFile)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "redis.internal:6379", cfg.RedisAddr())
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad environment", func(c *Config) { c.App.Environment = "qa" }},
		{"bad grpc port", func(c *Config) { c.Server.AudioGRPCPort = 0 }},
		{"inverted port range", func(c *Config) { c.RTP.PortMin = 36000; c.RTP.PortMax = 35000 }},
		{"inverted rtp range", func(c *Config) { c.RTP.RangeStart = 41000; c.RTP.RangeEnd = 40000 }},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestGetLogLevel(t *testing.T) {
	cfg := Default()

	cfg.Logging.Level = "warn"
	assert.Equal(t, zerolog.WarnLevel, cfg.GetLogLevel())

	cfg.Logging.Level = "unset"
	assert.Equal(t, zerolog.InfoLevel, cfg.GetLogLevel())
}
