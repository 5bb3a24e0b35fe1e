package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the relay
type Metrics struct {
	// Socket hub metrics
	PacketsReceived prometheus.Counter
	PacketsRouted   prometheus.Counter
	PacketsDropped  *prometheus.CounterVec // reason: too_short, unknown_ssrc, invalid, payload_type, decode
	PacketsSent     prometheus.Counter
	SendErrors      prometheus.Counter

	// Cabin metrics
	CabinsActive     prometheus.Gauge
	CabinsCreated    prometheus.Counter
	CabinsDestroyed  prometheus.Counter
	WindowsEnqueued  prometheus.Counter
	WindowsDropped   prometheus.Counter
	WindowsProcessed *prometheus.CounterVec // outcome: passthrough, translated, failed

	// Pipeline metrics
	PipelineLatency *prometheus.HistogramVec // stage: stt, nmt, tts
	PipelineErrors  *prometheus.CounterVec   // stage: stt, nmt, tts

	// Port allocator metrics
	PortsInUse prometheus.Gauge

	// Indexer metrics
	TranscriptsSaved    prometheus.Counter
	TranscriptSearches  prometheus.Counter
	BackgroundTranslate *prometheus.CounterVec // result: ok, failed, skipped

	registry *prometheus.Registry
}

// NewMetrics creates and registers all metrics on a fresh registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		PacketsReceived: factory.NewCounter(prometheus.CounterOpts{
			Name: "voxrelay_rtp_packets_received_total",
			Help: "RTP packets received on the shared socket",
		}),
		PacketsRouted: factory.NewCounter(prometheus.CounterOpts{
			Name: "voxrelay_rtp_packets_routed_total",
			Help: "RTP packets routed to a cabin callback",
		}),
		PacketsDropped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "voxrelay_rtp_packets_dropped_total",
			Help: "RTP packets dropped before reaching a cabin",
		}, []string{"reason"}),
		PacketsSent: factory.NewCounter(prometheus.CounterOpts{
			Name: "voxrelay_rtp_packets_sent_total",
			Help: "RTP packets sent to the SFU",
		}),
		SendErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "voxrelay_rtp_send_errors_total",
			Help: "Errors sending RTP packets to the SFU",
		}),

		CabinsActive: factory.NewGauge(prometheus.GaugeOpts{
			Name: "voxrelay_cabins_active",
			Help: "Translation cabins currently registered",
		}),
		CabinsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "voxrelay_cabins_created_total",
			Help: "Translation cabins created",
		}),
		CabinsDestroyed: factory.NewCounter(prometheus.CounterOpts{
			Name: "voxrelay_cabins_destroyed_total",
			Help: "Translation cabins destroyed",
		}),
		WindowsEnqueued: factory.NewCounter(prometheus.CounterOpts{
			Name: "voxrelay_audio_windows_enqueued_total",
			Help: "Audio windows enqueued for processing",
		}),
		WindowsDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "voxrelay_audio_windows_dropped_total",
			Help: "Audio windows dropped due to queue overflow",
		}),
		WindowsProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "voxrelay_audio_windows_processed_total",
			Help: "Audio windows processed by cabin workers",
		}, []string{"outcome"}),

		PipelineLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "voxrelay_pipeline_stage_seconds",
			Help:    "Latency of pipeline stages",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		}, []string{"stage"}),
		PipelineErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "voxrelay_pipeline_errors_total",
			Help: "Pipeline stage failures",
		}, []string{"stage"}),

		PortsInUse: factory.NewGauge(prometheus.GaugeOpts{
			Name: "voxrelay_ports_in_use",
			Help: "Ports currently tracked by the allocator",
		}),

		TranscriptsSaved: factory.NewCounter(prometheus.CounterOpts{
			Name: "voxrelay_transcripts_saved_total",
			Help: "Transcripts upserted into the vector store",
		}),
		TranscriptSearches: factory.NewCounter(prometheus.CounterOpts{
			Name: "voxrelay_transcript_searches_total",
			Help: "Semantic search requests served",
		}),
		BackgroundTranslate: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "voxrelay_background_translations_total",
			Help: "Background transcript translation outcomes",
		}, []string{"result"}),

		registry: reg,
	}
}

// Registry returns the underlying Prometheus registry for HTTP exposition
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
