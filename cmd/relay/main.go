// Command relay runs the translation-cabin runtime: the shared RTP
// socket pair, the cabin manager, the audio-control gRPC service, and
// the admin HTTP endpoint.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"google.golang.org/grpc"

	"github.com/voxrelay/voxrelay/internal/api"
	"github.com/voxrelay/voxrelay/internal/audio"
	"github.com/voxrelay/voxrelay/internal/cabin"
	"github.com/voxrelay/voxrelay/internal/clients"
	"github.com/voxrelay/voxrelay/internal/config"
	"github.com/voxrelay/voxrelay/internal/observability"
	"github.com/voxrelay/voxrelay/internal/pipeline"
	"github.com/voxrelay/voxrelay/internal/ports"
	"github.com/voxrelay/voxrelay/internal/sockethub"
	"github.com/voxrelay/voxrelay/internal/voiceclone"
	"github.com/voxrelay/voxrelay/pkg/rpc/audiopb"
	"github.com/voxrelay/voxrelay/pkg/version"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(observability.LoggerConfig{
		Level:      cfg.GetLogLevel(),
		Format:     cfg.Logging.Format,
		ToFile:     cfg.Logging.ToFile,
		Dir:        cfg.Logging.Dir,
		FilePrefix: cfg.Logging.FilePrefix + "-relay",
		Service:    "voxrelay-relay",
		Version:    version.Version,
	})

	logger.Info().
		Str("version", version.Version).
		Str("platform", version.Platform).
		Msg("starting translation relay")

	metrics := observability.NewMetrics()
	health := observability.NewHealthChecker(logger, version.Version)

	// --- Shared socket infrastructure ---
	allocator := ports.NewAllocator(cfg.RTP.PortMin, cfg.RTP.PortMax, logger)
	hub := sockethub.New(allocator, metrics, logger)
	if err := hub.Start(cfg.RTP.AudioRxPort, cfg.RTP.TxSourcePort); err != nil {
		logger.Error().Err(err).Int("port", cfg.RTP.AudioRxPort).Msg("cannot bind shared receive socket")
		os.Exit(1)
	}

	codecs := audio.NewCodecCache(logger)

	// --- Voice clone store ---
	embedder := voiceclone.NewHTTPEmbedder(cfg.Pipeline.EmbedderURL, cfg.Pipeline.APIKey, cfg.Pipeline.Timeout)
	voices := voiceclone.NewStore(voiceclone.StoreConfig{
		EmbeddingsDir: cfg.VoiceClone.EmbeddingsDir,
		CacheSize:     cfg.VoiceClone.CacheSize,
		CacheTTL:      cfg.VoiceClone.CacheTTL,
	}, embedder, logger)

	// --- Translation result cache: Redis when configured, LRU otherwise ---
	var nmtCache pipeline.TextCache
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, using in-memory translation cache")
			nmtCache = pipeline.NewLRUTextCache(cfg.Pipeline.CacheSize, cfg.Pipeline.CacheTTL)
		} else {
			nmtCache = pipeline.NewRedisTextCache(redisClient, cfg.Pipeline.CacheTTL)
			health.RegisterCheck("redis", func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			})
			logger.Info().Msg("redis translation cache enabled")
		}
	} else {
		nmtCache = pipeline.NewLRUTextCache(cfg.Pipeline.CacheSize, cfg.Pipeline.CacheTTL)
	}

	// --- Optional transcript sink into the semantic service ---
	var sink pipeline.TranscriptSink
	var semanticClient *clients.SemanticClient
	if cfg.Semantic.ServiceHost != "" {
		semanticClient, err = clients.NewSemanticClient(cfg.SemanticAddr(), logger)
		if err != nil {
			logger.Warn().Err(err).Msg("semantic service unavailable, transcript indexing disabled")
		} else {
			sink = semanticClient
		}
	}

	// --- ML pipeline clients ---
	deps := pipeline.Deps{
		STT: pipeline.NewSTTClient(pipeline.STTConfig{
			APIURL:  cfg.Pipeline.STTURL,
			APIKey:  cfg.Pipeline.APIKey,
			Timeout: cfg.Pipeline.Timeout,
		}, logger),
		NMT: pipeline.NewNMTClient(pipeline.NMTConfig{
			BaseURL:          cfg.Pipeline.NMTURL,
			APIKey:           cfg.Pipeline.APIKey,
			Timeout:          cfg.Pipeline.Timeout,
			MaxLatency:       cfg.Pipeline.MaxLatency,
			FailureThreshold: cfg.Pipeline.FailureThreshold,
		}, nmtCache, logger),
		TTS: pipeline.NewTTSClient(pipeline.TTSConfig{
			APIURL:  cfg.Pipeline.TTSURL,
			APIKey:  cfg.Pipeline.APIKey,
			Timeout: cfg.Pipeline.Timeout,
		}, logger),
		Voices:  voices,
		Sink:    sink,
		Metrics: metrics,
		Logger:  logger,
	}

	// --- Cabin manager ---
	manager := cabin.NewManager(cabin.ManagerConfig{
		Hub:          hub,
		Codecs:       codecs,
		PipelineDeps: deps,
		Voices:       voices,
		VADFactory: func() (audio.FrameDetector, error) {
			return audio.NewWebRTCDetector(audio.DefaultDetectorConfig().Aggressiveness)
		},
		SFUHost: cfg.RTP.SFUHost,
		Metrics: metrics,
		Logger:  logger,
	})

	// --- gRPC server ---
	grpcAddr := fmt.Sprintf(":%d", cfg.Server.AudioGRPCPort)
	listener, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		logger.Error().Err(err).Str("addr", grpcAddr).Msg("cannot bind gRPC listener")
		os.Exit(1)
	}

	transcripts := api.NewTranscriptLog(cfg.Logging.Dir, logger)
	grpcServer := grpc.NewServer()
	audiopb.RegisterAudioServiceServer(grpcServer, api.NewAudioService(manager, deps.STT, transcripts, logger))

	// --- Admin HTTP server ---
	admin := api.NewAdminServer(cfg.Server.AdminHTTPPort, health, metrics, []api.StatsProvider{
		func() (string, interface{}) { return "socket_hub", hub.Stats() },
		func() (string, interface{}) { return "port_allocator", allocator.Stats() },
		func() (string, interface{}) { return "cabins", manager.Infos() },
		func() (string, interface{}) { return "voice_clone", voices.Stats() },
	}, logger)

	errCh := make(chan error, 2)
	go func() {
		logger.Info().Str("addr", grpcAddr).Msg("audio gRPC service listening")
		if err := grpcServer.Serve(listener); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()
	go func() {
		if err := admin.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("admin server error: %w", err)
		}
	}()

	// --- Graceful shutdown ---
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		logger.Error().Err(err).Msg("server error, initiating shutdown")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	grpcServer.GracefulStop()
	if err := admin.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("admin server shutdown error")
	}

	manager.Shutdown()
	hub.Stop()
	if semanticClient != nil {
		_ = semanticClient.Close()
	}

	logger.Info().Msg("translation relay shut down")
}
