package api

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/voxrelay/voxrelay/internal/chatbot"
	"github.com/voxrelay/voxrelay/pkg/rpc/chatbotpb"
)

// ChatbotService implements the chatbot gRPC surface.
type ChatbotService struct {
	chatbotpb.UnimplementedChatbotServiceServer

	processor *chatbot.Processor
	logger    zerolog.Logger
}

// NewChatbotService creates the chatbot gRPC handler.
func NewChatbotService(processor *chatbot.Processor, logger zerolog.Logger) *ChatbotService {
	return &ChatbotService{
		processor: processor,
		logger:    logger.With().Str("component", "chatbot-service").Logger(),
	}
}

// AskChatBot answers one question about a room's conversation.
func (s *ChatbotService) AskChatBot(ctx context.Context, req *chatbotpb.AskChatBotRequest) (*chatbotpb.AskChatBotResponse, error) {
	answer, err := s.processor.Ask(ctx, req.GetQuestion(), req.GetRoomId(), req.GetOrganizationId())
	if err != nil {
		s.logger.Error().Err(err).Str("room_id", req.GetRoomId()).Msg("chatbot request failed")
		return &chatbotpb.AskChatBotResponse{Answer: "Error processing request"}, nil
	}
	return &chatbotpb.AskChatBotResponse{Answer: answer}, nil
}
