package semantic

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/qdrant/go-client/qdrant"
	"github.com/rs/zerolog"
)

// QdrantConfig holds connection settings for the vector store.
type QdrantConfig struct {
	// URL is "host:port" of the Qdrant gRPC endpoint, optionally prefixed
	// with a scheme; https implies TLS.
	URL        string
	APIKey     string
	Collection string
}

// QdrantStore implements VectorStore on the Qdrant gRPC client.
type QdrantStore struct {
	client     *qdrant.Client
	collection string
	logger     zerolog.Logger
}

// NewQdrantStore connects to Qdrant and ensures the collection exists.
func NewQdrantStore(ctx context.Context, cfg QdrantConfig, vectorSize uint64, logger zerolog.Logger) (*QdrantStore, error) {
	host, port, useTLS, err := parseQdrantURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: cfg.APIKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("semantic: qdrant connect: %w", err)
	}

	s := &QdrantStore{
		client:     client,
		collection: cfg.Collection,
		logger:     logger.With().Str("component", "qdrant-store").Logger(),
	}

	exists, err := client.CollectionExists(ctx, cfg.Collection)
	if err != nil {
		return nil, fmt.Errorf("semantic: check collection: %w", err)
	}
	if !exists {
		err = client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: cfg.Collection,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     vectorSize,
				Distance: qdrant.Distance_Cosine,
			}),
		})
		if err != nil {
			return nil, fmt.Errorf("semantic: create collection: %w", err)
		}
		s.logger.Info().Str("collection", cfg.Collection).Uint64("vector_size", vectorSize).Msg("created collection")
	}

	return s, nil
}

// Close releases the underlying gRPC connection.
func (s *QdrantStore) Close() error {
	return s.client.Close()
}

// Ping checks store reachability for the health endpoint.
func (s *QdrantStore) Ping(ctx context.Context) error {
	_, err := s.client.HealthCheck(ctx)
	return err
}

// Upsert writes points with their vectors and payloads.
func (s *QdrantStore) Upsert(ctx context.Context, points []Point) error {
	qpoints := make([]*qdrant.PointStruct, 0, len(points))
	for _, p := range points {
		qpoints = append(qpoints, &qdrant.PointStruct{
			Id:      qdrant.NewID(p.ID),
			Vectors: qdrant.NewVectors(p.Vector...),
			Payload: qdrant.NewValueMap(p.Payload),
		})
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Points:         qpoints,
		Wait:           qdrant.PtrOf(true),
	})
	return err
}

// Search runs a similarity query under the room/org filter.
func (s *QdrantStore) Search(ctx context.Context, vector []float32, filter Filter, limit int) ([]ScoredPoint, error) {
	hits, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(vector...),
		Filter:         buildFilter(filter),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, err
	}

	out := make([]ScoredPoint, 0, len(hits))
	for _, h := range hits {
		out = append(out, ScoredPoint{
			ID:      h.GetId().GetUuid(),
			Score:   float64(h.GetScore()),
			Payload: payloadToMap(h.GetPayload()),
		})
	}
	return out, nil
}

// Scroll retrieves all points under the filter, up to limit.
func (s *QdrantStore) Scroll(ctx context.Context, filter Filter, limit int) ([]ScoredPoint, error) {
	points, err := s.client.Scroll(ctx, &qdrant.ScrollPoints{
		CollectionName: s.collection,
		Filter:         buildFilter(filter),
		Limit:          qdrant.PtrOf(uint32(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, err
	}

	out := make([]ScoredPoint, 0, len(points))
	for _, p := range points {
		out = append(out, ScoredPoint{
			ID:      p.GetId().GetUuid(),
			Payload: payloadToMap(p.GetPayload()),
		})
	}
	return out, nil
}

// SetPayload merges payload fields into an existing point.
func (s *QdrantStore) SetPayload(ctx context.Context, id string, payload map[string]interface{}) error {
	_, err := s.client.SetPayload(ctx, &qdrant.SetPayloadPoints{
		CollectionName: s.collection,
		Payload:        qdrant.NewValueMap(payload),
		PointsSelector: qdrant.NewPointsSelector(qdrant.NewID(id)),
		Wait:           qdrant.PtrOf(true),
	})
	return err
}

// UpdateVector atomically replaces a point's vector.
func (s *QdrantStore) UpdateVector(ctx context.Context, id string, vector []float32) error {
	_, err := s.client.UpdateVectors(ctx, &qdrant.UpdatePointVectors{
		CollectionName: s.collection,
		Points: []*qdrant.PointVectors{{
			Id:      qdrant.NewID(id),
			Vectors: qdrant.NewVectors(vector...),
		}},
		Wait: qdrant.PtrOf(true),
	})
	return err
}

func buildFilter(f Filter) *qdrant.Filter {
	must := []*qdrant.Condition{
		qdrant.NewMatch("room_key", f.RoomKey),
	}
	if f.OrganizationID != "" {
		must = append(must, qdrant.NewMatch("organization_id", f.OrganizationID))
	}
	return &qdrant.Filter{Must: must}
}

func payloadToMap(payload map[string]*qdrant.Value) map[string]interface{} {
	out := make(map[string]interface{}, len(payload))
	for k, v := range payload {
		switch kind := v.GetKind().(type) {
		case *qdrant.Value_StringValue:
			out[k] = kind.StringValue
		case *qdrant.Value_IntegerValue:
			out[k] = kind.IntegerValue
		case *qdrant.Value_DoubleValue:
			out[k] = kind.DoubleValue
		case *qdrant.Value_BoolValue:
			out[k] = kind.BoolValue
		}
	}
	return out
}

// parseQdrantURL accepts "host:port", "http://host:port", or
// "https://host:port".
func parseQdrantURL(raw string) (string, int, bool, error) {
	useTLS := false
	hostPort := raw
	if strings.HasPrefix(raw, "https://") {
		useTLS = true
		hostPort = strings.TrimPrefix(raw, "https://")
	} else if strings.HasPrefix(raw, "http://") {
		hostPort = strings.TrimPrefix(raw, "http://")
	}
	hostPort = strings.TrimSuffix(hostPort, "/")

	host := hostPort
	port := 6334
	if idx := strings.LastIndex(hostPort, ":"); idx >= 0 {
		host = hostPort[:idx]
		p, err := strconv.Atoi(hostPort[idx+1:])
		if err != nil {
			return "", 0, false, fmt.Errorf("semantic: invalid qdrant url %q", raw)
		}
		port = p
	}
	if host == "" {
		return "", 0, false, fmt.Errorf("semantic: invalid qdrant url %q", raw)
	}
	return host, port, useTLS, nil
}
