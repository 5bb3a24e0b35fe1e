package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerWritesStructuredJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewTestLogger(&buf)

	logger.Info().Str("cabin", "R1_U1_vi_en").Msg("cabin registered")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "cabin registered", entry["message"])
	assert.Equal(t, "R1_U1_vi_en", entry["cabin"])
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := NewNopLogger()
	assert.Equal(t, zerolog.Disabled, logger.GetLevel())
}

func TestMetricsRegisterAndCount(t *testing.T) {
	m := NewMetrics()

	m.PacketsReceived.Inc()
	m.PacketsReceived.Inc()
	m.PacketsDropped.WithLabelValues("unknown_ssrc").Inc()
	m.CabinsActive.Set(3)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.PacketsReceived))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.PacketsDropped.WithLabelValues("unknown_ssrc")))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.CabinsActive))
}

func TestHealthCheckerAggregates(t *testing.T) {
	hc := NewHealthChecker(NewNopLogger(), "test")

	hc.RegisterCheck("ok", func(ctx context.Context) error { return nil })
	health := hc.Check(context.Background())
	assert.Equal(t, HealthStatusHealthy, health.Status)

	hc.RegisterCheck("bad", func(ctx context.Context) error { return errors.New("down") })
	health = hc.Check(context.Background())
	assert.Equal(t, HealthStatusUnhealthy, health.Status)
	assert.Equal(t, "down", health.Components["bad"].Error)
	assert.Len(t, health.Components, 2)
}
