package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/voxrelay/voxrelay/internal/semantic"
	"github.com/voxrelay/voxrelay/pkg/rpc/semanticpb"
)

// SemanticService implements the transcript indexing gRPC surface.
type SemanticService struct {
	semanticpb.UnimplementedSemanticServiceServer

	indexer *semantic.Indexer
	logger  zerolog.Logger
}

// NewSemanticService creates the semantic gRPC handler.
func NewSemanticService(indexer *semantic.Indexer, logger zerolog.Logger) *SemanticService {
	return &SemanticService{
		indexer: indexer,
		logger:  logger.With().Str("component", "semantic-service").Logger(),
	}
}

// SaveTranscript indexes one utterance. A missing or malformed room_key
// fails before any store access.
func (s *SemanticService) SaveTranscript(ctx context.Context, req *semanticpb.SaveTranscriptRequest) (*semanticpb.SaveTranscriptResponse, error) {
	err := s.indexer.Save(ctx, semantic.SaveParams{
		RoomID:         req.GetRoomId(),
		Speaker:        req.GetSpeaker(),
		Text:           req.GetText(),
		Language:       req.GetLanguage(),
		Timestamp:      req.GetTimestamp(),
		OrganizationID: req.GetOrganizationId(),
		RoomKey:        req.GetRoomKey(),
	})
	if err != nil {
		if errors.Is(err, semantic.ErrRoomKeyRequired) || errors.Is(err, semantic.ErrRoomKeyFormat) {
			return &semanticpb.SaveTranscriptResponse{Success: false, Message: err.Error()}, nil
		}
		s.logger.Error().Err(err).Str("room_id", req.GetRoomId()).Msg("save transcript failed")
		return &semanticpb.SaveTranscriptResponse{
			Success: false,
			Message: fmt.Sprintf("failed to save transcript: %v", err),
		}, nil
	}

	return &semanticpb.SaveTranscriptResponse{Success: true, Message: "transcript saved"}, nil
}

// SearchTranscripts serves semantic search. Queries asking for a summary
// scroll the whole room instead of running similarity search.
func (s *SemanticService) SearchTranscripts(ctx context.Context, req *semanticpb.SearchTranscriptsRequest) (*semanticpb.SearchTranscriptsResponse, error) {
	resp := &semanticpb.SearchTranscriptsResponse{}

	if semantic.IsSummaryQuery(req.GetQuery()) {
		lines, err := s.indexer.GetAll(ctx, req.GetRoomKey(), req.GetOrganizationId())
		if err != nil {
			return nil, err
		}
		for _, line := range lines {
			resp.Results = append(resp.Results, &semanticpb.SearchResult{
				RoomId:    req.GetRoomId(),
				Text:      line.Text,
				Timestamp: line.Timestamp,
			})
		}
		return resp, nil
	}

	results, err := s.indexer.Search(ctx, req.GetQuery(), req.GetRoomKey(), int(req.GetLimit()), req.GetOrganizationId())
	if err != nil {
		return nil, err
	}
	for _, r := range results {
		resp.Results = append(resp.Results, &semanticpb.SearchResult{
			RoomId:    r.RoomID,
			Text:      r.Text,
			Timestamp: r.Timestamp,
			Score:     r.Score,
		})
	}
	return resp, nil
}
