// Package clients holds gRPC client wrappers for the sibling services.
package clients

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/voxrelay/voxrelay/internal/semantic"
	"github.com/voxrelay/voxrelay/pkg/rpc/semanticpb"
)

// SemanticClient wraps the semantic service gRPC API. It implements the
// pipeline's transcript sink and the chatbot's retriever.
type SemanticClient struct {
	conn   *grpc.ClientConn
	client semanticpb.SemanticServiceClient
	logger zerolog.Logger
}

// NewSemanticClient dials the semantic service.
func NewSemanticClient(addr string, logger zerolog.Logger) (*SemanticClient, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("clients: dial semantic service: %w", err)
	}
	return &SemanticClient{
		conn:   conn,
		client: semanticpb.NewSemanticServiceClient(conn),
		logger: logger.With().Str("component", "semantic-client").Logger(),
	}, nil
}

// Close releases the connection.
func (c *SemanticClient) Close() error {
	return c.conn.Close()
}

// SaveTranscript ships one finalized utterance to the indexer. The call
// runs detached: transcript indexing must never delay the audio path.
func (c *SemanticClient) SaveTranscript(ctx context.Context, roomID, speaker, text, lang string) {
	go func() {
		callCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		resp, err := c.client.SaveTranscript(callCtx, &semanticpb.SaveTranscriptRequest{
			RoomId:    roomID,
			Speaker:   speaker,
			Text:      text,
			Language:  lang,
			Timestamp: time.Now().Unix(),
			RoomKey:   semantic.RoomKeyFor(roomID),
		})
		if err != nil {
			c.logger.Warn().Err(err).Str("room_id", roomID).Msg("transcript save failed")
			return
		}
		if !resp.GetSuccess() {
			c.logger.Warn().Str("room_id", roomID).Str("message", resp.GetMessage()).Msg("transcript save rejected")
		}
	}()
}

// Retrieve fetches transcript lines relevant to a query for the chatbot.
func (c *SemanticClient) Retrieve(ctx context.Context, query, roomID, organizationID string, limit int) ([]string, error) {
	resp, err := c.client.SearchTranscripts(ctx, &semanticpb.SearchTranscriptsRequest{
		Query:          query,
		RoomId:         roomID,
		Limit:          int32(limit),
		OrganizationId: organizationID,
		RoomKey:        semantic.RoomKeyFor(roomID),
	})
	if err != nil {
		return nil, fmt.Errorf("clients: search transcripts: %w", err)
	}

	lines := make([]string, 0, len(resp.GetResults()))
	for _, r := range resp.GetResults() {
		lines = append(lines, r.GetText())
	}
	return lines, nil
}
