// Command semantic runs the transcript indexer gRPC service on top of
// the vector store.
package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"

	"github.com/voxrelay/voxrelay/internal/api"
	"github.com/voxrelay/voxrelay/internal/config"
	"github.com/voxrelay/voxrelay/internal/observability"
	"github.com/voxrelay/voxrelay/internal/pipeline"
	"github.com/voxrelay/voxrelay/internal/semantic"
	"github.com/voxrelay/voxrelay/pkg/rpc/semanticpb"
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
		FilePrefix: cfg.Logging.FilePrefix + "-semantic",
		Service:    "voxrelay-semantic",
		Version:    version.Version,
	})

	logger.Info().Str("version", version.Version).Msg("starting semantic service")

	metrics := observability.NewMetrics()

	encoder := semantic.NewHTTPEncoder(cfg.Semantic.EncoderURL, cfg.Pipeline.APIKey, cfg.Pipeline.Timeout, logger)

	// Probe the encoder once to learn the vector dimension the
	// collection must be created with.
	probeCtx, probeCancel := context.WithTimeout(context.Background(), 30*time.Second)
	vectorSize := uint64(384)
	if probe, err := encoder.Encode(probeCtx, "dimension probe"); err != nil {
		logger.Warn().Err(err).Uint64("fallback", vectorSize).Msg("encoder probe failed, assuming default vector size")
	} else {
		vectorSize = uint64(len(probe))
	}
	probeCancel()

	storeCtx, storeCancel := context.WithTimeout(context.Background(), 30*time.Second)
	store, err := semantic.NewQdrantStore(storeCtx, semantic.QdrantConfig{
		URL:        cfg.Semantic.QdrantURL,
		APIKey:     cfg.Semantic.QdrantAPIKey,
		Collection: cfg.Semantic.CollectionName,
	}, vectorSize, logger)
	storeCancel()
	if err != nil {
		logger.Error().Err(err).Str("url", cfg.Semantic.QdrantURL).Msg("cannot connect to vector store")
		os.Exit(1)
	}

	translator := pipeline.NewNMTClient(pipeline.NMTConfig{
		BaseURL: cfg.Pipeline.NMTURL,
		APIKey:  cfg.Pipeline.APIKey,
		Timeout: cfg.Pipeline.Timeout,
	}, pipeline.NewLRUTextCache(cfg.Pipeline.CacheSize, cfg.Pipeline.CacheTTL), logger)

	indexer := semantic.NewIndexer(store, encoder, translator, metrics, logger)

	grpcAddr := fmt.Sprintf(":%d", cfg.Server.SemanticGRPCPort)
	listener, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		logger.Error().Err(err).Str("addr", grpcAddr).Msg("cannot bind gRPC listener")
		os.Exit(1)
	}

	grpcServer := grpc.NewServer()
	semanticpb.RegisterSemanticServiceServer(grpcServer, api.NewSemanticService(indexer, logger))

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", grpcAddr).Msg("semantic gRPC service listening")
		if err := grpcServer.Serve(listener); err != nil {
			errCh <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		logger.Error().Err(err).Msg("server error, initiating shutdown")
	}

	grpcServer.GracefulStop()

	// Let in-flight background translations land before closing the store.
	indexer.Wait()
	if err := store.Close(); err != nil {
		logger.Error().Err(err).Msg("vector store close error")
	}

	logger.Info().Msg("semantic service shut down")
}
