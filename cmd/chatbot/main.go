// Command chatbot runs the conversation Q&A gRPC service.
package main

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"google.golang.org/grpc"

	"github.com/voxrelay/voxrelay/internal/api"
	"github.com/voxrelay/voxrelay/internal/chatbot"
	"github.com/voxrelay/voxrelay/internal/clients"
	"github.com/voxrelay/voxrelay/internal/config"
	"github.com/voxrelay/voxrelay/internal/observability"
	"github.com/voxrelay/voxrelay/pkg/rpc/chatbotpb"
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
		FilePrefix: cfg.Logging.FilePrefix + "-chatbot",
		Service:    "voxrelay-chatbot",
		Version:    version.Version,
	})

	logger.Info().Str("version", version.Version).Msg("starting chatbot service")

	semanticClient, err := clients.NewSemanticClient(cfg.SemanticAddr(), logger)
	if err != nil {
		logger.Error().Err(err).Str("addr", cfg.SemanticAddr()).Msg("cannot reach semantic service")
		os.Exit(1)
	}
	defer semanticClient.Close()

	llm := chatbot.NewOpenAIClient(cfg.Chatbot.APIKey, cfg.Chatbot.BaseURL, cfg.Chatbot.Model)
	processor := chatbot.NewProcessor(semanticClient, llm, cfg.Semantic.MaxSearchResults, logger)

	grpcAddr := fmt.Sprintf(":%d", cfg.Server.ChatbotGRPCPort)
	listener, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		logger.Error().Err(err).Str("addr", grpcAddr).Msg("cannot bind gRPC listener")
		os.Exit(1)
	}

	grpcServer := grpc.NewServer()
	chatbotpb.RegisterChatbotServiceServer(grpcServer, api.NewChatbotService(processor, logger))

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", grpcAddr).Msg("chatbot gRPC service listening")
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
	logger.Info().Msg("chatbot service shut down")
}
