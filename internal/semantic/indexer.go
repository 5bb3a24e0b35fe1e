// Package semantic indexes finalized utterances into a vector store keyed
// by room and serves cross-language semantic search over them.
package semantic

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/voxrelay/voxrelay/internal/observability"
)

const (
	// scoreThreshold filters low-relevance hits from search results.
	scoreThreshold = 0.60
	// scrollLimit bounds full-room retrieval for summary prompts.
	scrollLimit = 1000
	// translateWorkers bounds concurrent background translations.
	translateWorkers = 5
)

// Errors returned by the indexer.
var (
	ErrRoomKeyRequired = errors.New("semantic: room_key is required")
	ErrRoomKeyFormat   = errors.New("semantic: room_key must be a canonical UUID")
)

// Filter restricts store operations to one room and optionally one
// organization.
type Filter struct {
	RoomKey        string
	OrganizationID string
}

// Point is a transcript record with its vector.
type Point struct {
	ID      string
	Vector  []float32
	Payload map[string]interface{}
}

// ScoredPoint is a retrieved record with its similarity score.
type ScoredPoint struct {
	ID      string
	Score   float64
	Payload map[string]interface{}
}

// VectorStore is the persistence boundary, implemented by the Qdrant
// client wrapper.
type VectorStore interface {
	Upsert(ctx context.Context, points []Point) error
	Search(ctx context.Context, vector []float32, filter Filter, limit int) ([]ScoredPoint, error)
	Scroll(ctx context.Context, filter Filter, limit int) ([]ScoredPoint, error)
	SetPayload(ctx context.Context, id string, payload map[string]interface{}) error
	UpdateVector(ctx context.Context, id string, vector []float32) error
}

// Encoder converts text to an embedding vector. External collaborator.
type Encoder interface {
	Encode(ctx context.Context, text string) ([]float32, error)
}

// Translator converts text between languages. External collaborator.
type Translator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

// SaveParams are the inputs for indexing one utterance.
type SaveParams struct {
	RoomID         string
	Speaker        string
	Text           string
	Language       string
	Timestamp      int64
	OrganizationID string
	RoomKey        string
}

// SearchResult is one search hit.
type SearchResult struct {
	Text      string  `json:"text"`
	RoomID    string  `json:"room_id"`
	Timestamp int64   `json:"timestamp"`
	Score     float64 `json:"score"`
}

// TranscriptLine is one line of a full-room scroll.
type TranscriptLine struct {
	Text      string `json:"text"`
	Speaker   string `json:"speaker"`
	Timestamp int64  `json:"timestamp"`
}

// Indexer stores transcripts with vectors and serves semantic search.
// Every record's vector starts from the original text; a background task
// translates to English and atomically swaps in the English vector, which
// makes cross-language queries land regardless of the room's language.
type Indexer struct {
	store      VectorStore
	encoder    Encoder
	translator Translator
	metrics    *observability.Metrics
	logger     zerolog.Logger

	sem chan struct{}
	wg  sync.WaitGroup
}

// NewIndexer creates a transcript indexer.
func NewIndexer(store VectorStore, encoder Encoder, translator Translator, metrics *observability.Metrics, logger zerolog.Logger) *Indexer {
	return &Indexer{
		store:      store,
		encoder:    encoder,
		translator: translator,
		metrics:    metrics,
		logger:     logger.With().Str("component", "transcript-indexer").Logger(),
		sem:        make(chan struct{}, translateWorkers),
	}
}

// validateRoomKey enforces the canonical 8-4-4-4-12 UUID form before any
// store access.
func validateRoomKey(roomKey string) error {
	if roomKey == "" {
		return ErrRoomKeyRequired
	}
	if len(roomKey) != 36 {
		return ErrRoomKeyFormat
	}
	if _, err := uuid.Parse(roomKey); err != nil {
		return ErrRoomKeyFormat
	}
	return nil
}

// Save embeds the original text, upserts the record, and schedules the
// background English translation pass.
func (ix *Indexer) Save(ctx context.Context, p SaveParams) error {
	if err := validateRoomKey(p.RoomKey); err != nil {
		return err
	}

	vector, err := ix.encoder.Encode(ctx, p.Text)
	if err != nil {
		return fmt.Errorf("semantic: encode original text: %w", err)
	}

	if p.Timestamp == 0 {
		p.Timestamp = time.Now().Unix()
	}
	if p.Language == "" {
		p.Language = "vi"
	}

	payload := map[string]interface{}{
		"original_text":     p.Text,
		"original_language": p.Language,
		"room_id":           p.RoomID,
		"room_key":          p.RoomKey,
		"speaker":           p.Speaker,
		"timestamp":         p.Timestamp,
	}
	if p.OrganizationID != "" {
		payload["organization_id"] = p.OrganizationID
	}

	pointID := uuid.NewString()
	if err := ix.store.Upsert(ctx, []Point{{ID: pointID, Vector: vector, Payload: payload}}); err != nil {
		return fmt.Errorf("semantic: upsert: %w", err)
	}

	if ix.metrics != nil {
		ix.metrics.TranscriptsSaved.Inc()
	}
	ix.logger.Debug().
		Str("point_id", pointID).
		Str("room_key", p.RoomKey).
		Str("speaker", p.Speaker).
		Msg("transcript saved")

	ix.wg.Add(1)
	go ix.translateAndReindex(pointID, p.Text)

	return nil
}

// translateAndReindex runs the background pass: translate the original to
// English, re-embed, update the point's vector, and attach english_text.
func (ix *Indexer) translateAndReindex(pointID, originalText string) {
	defer ix.wg.Done()
	ix.sem <- struct{}{}
	defer func() { <-ix.sem }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	english, err := ix.translator.Translate(ctx, originalText, "", "en")
	if err != nil {
		ix.countTranslate("failed")
		ix.logger.Warn().Err(err).Str("point_id", pointID).Msg("background translation failed")
		return
	}
	if english == "" || english == originalText {
		ix.countTranslate("skipped")
		return
	}

	vector, err := ix.encoder.Encode(ctx, english)
	if err != nil {
		ix.countTranslate("failed")
		ix.logger.Warn().Err(err).Str("point_id", pointID).Msg("english embedding failed")
		return
	}

	if err := ix.store.SetPayload(ctx, pointID, map[string]interface{}{"english_text": english}); err != nil {
		ix.countTranslate("failed")
		ix.logger.Warn().Err(err).Str("point_id", pointID).Msg("payload update failed")
		return
	}
	if err := ix.store.UpdateVector(ctx, pointID, vector); err != nil {
		ix.countTranslate("failed")
		ix.logger.Warn().Err(err).Str("point_id", pointID).Msg("vector update failed")
		return
	}

	ix.countTranslate("ok")
	ix.logger.Debug().Str("point_id", pointID).Msg("transcript reindexed with english vector")
}

// Search queries with both the raw query vector and the English-translated
// query vector, merges by point keeping the higher score, drops hits below
// the threshold, and returns results sorted by score descending.
func (ix *Indexer) Search(ctx context.Context, query, roomKey string, limit int, organizationID string) ([]SearchResult, error) {
	if err := validateRoomKey(roomKey); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}
	if ix.metrics != nil {
		ix.metrics.TranscriptSearches.Inc()
	}

	filter := Filter{RoomKey: roomKey, OrganizationID: organizationID}

	originalVector, err := ix.encoder.Encode(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("semantic: encode query: %w", err)
	}
	hits, err := ix.store.Search(ctx, originalVector, filter, limit)
	if err != nil {
		return nil, fmt.Errorf("semantic: search: %w", err)
	}

	// Second pass with the English form of the query; a failed translation
	// degrades to single-vector search rather than failing the request.
	if english, terr := ix.translator.Translate(ctx, query, "", "en"); terr == nil && english != "" && english != query {
		if englishVector, eerr := ix.encoder.Encode(ctx, english); eerr == nil {
			englishHits, serr := ix.store.Search(ctx, englishVector, filter, limit)
			if serr == nil {
				hits = append(hits, englishHits...)
			}
		}
	}

	merged := make(map[string]ScoredPoint, len(hits))
	for _, h := range hits {
		if prev, ok := merged[h.ID]; !ok || h.Score > prev.Score {
			merged[h.ID] = h
		}
	}

	results := make([]SearchResult, 0, len(merged))
	for _, h := range merged {
		if h.Score < scoreThreshold {
			continue
		}
		text, _ := h.Payload["original_text"].(string)
		if text == "" {
			continue
		}
		speaker, _ := h.Payload["speaker"].(string)
		roomID, _ := h.Payload["room_id"].(string)
		results = append(results, SearchResult{
			Text:      fmt.Sprintf("%s: %s", speakerOrUnknown(speaker), text),
			RoomID:    roomID,
			Timestamp: asInt64(h.Payload["timestamp"]),
			Score:     h.Score,
		})
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// GetAll scrolls every transcript of a room, used to build summary
// prompts.
func (ix *Indexer) GetAll(ctx context.Context, roomKey, organizationID string) ([]TranscriptLine, error) {
	if err := validateRoomKey(roomKey); err != nil {
		return nil, err
	}

	points, err := ix.store.Scroll(ctx, Filter{RoomKey: roomKey, OrganizationID: organizationID}, scrollLimit)
	if err != nil {
		return nil, fmt.Errorf("semantic: scroll: %w", err)
	}

	lines := make([]TranscriptLine, 0, len(points))
	for _, p := range points {
		text, _ := p.Payload["original_text"].(string)
		speaker, _ := p.Payload["speaker"].(string)
		lines = append(lines, TranscriptLine{
			Text:      fmt.Sprintf("%s: %s", speakerOrUnknown(speaker), text),
			Speaker:   speaker,
			Timestamp: asInt64(p.Payload["timestamp"]),
		})
	}

	sort.Slice(lines, func(i, j int) bool { return lines[i].Timestamp < lines[j].Timestamp })
	return lines, nil
}

// IsSummaryQuery reports whether a query asks for a whole-room summary
// rather than a similarity search.
func IsSummaryQuery(query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(q, "summary") || strings.Contains(q, "tóm tắt")
}

// Wait blocks until all background translation tasks finish. Used during
// shutdown.
func (ix *Indexer) Wait() {
	ix.wg.Wait()
}

func (ix *Indexer) countTranslate(result string) {
	if ix.metrics != nil {
		ix.metrics.BackgroundTranslate.WithLabelValues(result).Inc()
	}
}

func speakerOrUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

func asInt64(v interface{}) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	default:
		return 0
	}
}
