package api

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxrelay/voxrelay/internal/audio"
	"github.com/voxrelay/voxrelay/internal/cabin"
	"github.com/voxrelay/voxrelay/internal/pipeline"
	"github.com/voxrelay/voxrelay/internal/ports"
	"github.com/voxrelay/voxrelay/internal/semantic"
	"github.com/voxrelay/voxrelay/internal/sockethub"
	"github.com/voxrelay/voxrelay/pkg/rpc/audiopb"
	"github.com/voxrelay/voxrelay/pkg/rpc/semanticpb"
)

func newAudioService(t *testing.T) *AudioService {
	t.Helper()

	alloc := ports.NewAllocator(38000, 38080, zerolog.Nop())
	hub := sockethub.New(alloc, nil, zerolog.Nop())
	require.NoError(t, hub.Start(0, 0))
	t.Cleanup(hub.Stop)

	manager := cabin.NewManager(cabin.ManagerConfig{
		Hub:          hub,
		Codecs:       audio.NewCodecCache(zerolog.Nop()),
		PipelineDeps: pipeline.Deps{Logger: zerolog.Nop()},
		SFUHost:      "127.0.0.1",
		Logger:       zerolog.Nop(),
	})
	t.Cleanup(manager.Shutdown)

	return NewAudioService(manager, nil, nil, zerolog.Nop())
}

func TestProcessAudioBufferRejectsEmpty(t *testing.T) {
	svc := newAudioService(t)

	resp, err := svc.ProcessAudioBuffer(context.Background(), &audiopb.ProcessAudioBufferRequest{
		UserId: "U1",
		RoomId: "R1",
	})
	require.NoError(t, err)
	assert.False(t, resp.GetSuccess())
	assert.Contains(t, resp.GetMessage(), "empty")
}

func TestAllocateThenProduceLanguageSwap(t *testing.T) {
	svc := newAudioService(t)

	// Step 1: allocate with placeholder languages vi -> en
	reply, err := svc.AllocateTranslationPort(context.Background(), &audiopb.AllocatePortRequest{
		RoomId: "R1",
		UserId: "U1",
	})
	require.NoError(t, err)
	require.True(t, reply.GetSuccess())
	assert.True(t, reply.GetReady())
	assert.NotZero(t, reply.GetPort())
	assert.NotZero(t, reply.GetSendPort())
	assert.NotZero(t, reply.GetSsrc())

	key, ok := svc.manager.FindCabinByUser("R1", "U1")
	require.True(t, ok)
	assert.Equal(t, "R1_U1_vi_en", key)

	// Step 2: announce the real pair en -> vi
	produce, err := svc.CreateTranslationProduce(context.Background(), &audiopb.CreateTranslationProduceRequest{
		RoomId:         "R1",
		UserId:         "U1",
		SourceLanguage: "en",
		TargetLanguage: "vi",
	})
	require.NoError(t, err)
	require.True(t, produce.GetSuccess())
	assert.True(t, strings.HasPrefix(produce.GetStreamId(), "translation_U1_"))

	// Registry was renamed, SSRC and ports preserved
	_, ok = svc.manager.CabinInfo("R1_U1_vi_en")
	assert.False(t, ok)
	info, ok := svc.manager.CabinInfo("R1_U1_en_vi")
	require.True(t, ok)
	assert.Equal(t, reply.GetSsrc(), info.SSRC)
	assert.Equal(t, int(reply.GetPort()), info.RTPPort)
	assert.Equal(t, int(reply.GetSendPort()), info.SendPort)
}

func TestProduceWithoutAllocateFails(t *testing.T) {
	svc := newAudioService(t)

	resp, err := svc.CreateTranslationProduce(context.Background(), &audiopb.CreateTranslationProduceRequest{
		RoomId: "R1",
		UserId: "U1",
	})
	require.NoError(t, err)
	assert.False(t, resp.GetSuccess())
	assert.Contains(t, resp.GetMessage(), "AllocateTranslationPort")
}

func TestDestroyCabinRPC(t *testing.T) {
	svc := newAudioService(t)

	_, err := svc.AllocateTranslationPort(context.Background(), &audiopb.AllocatePortRequest{
		RoomId: "R1", UserId: "U1",
	})
	require.NoError(t, err)

	resp, err := svc.DestroyCabin(context.Background(), &audiopb.DestroyCabinRequest{
		RoomId:         "R1",
		TargetUserId:   "U1",
		SourceLanguage: "vi",
		TargetLanguage: "en",
	})
	require.NoError(t, err)
	assert.True(t, resp.GetSuccess())

	resp, err = svc.DestroyCabin(context.Background(), &audiopb.DestroyCabinRequest{
		RoomId:         "R1",
		TargetUserId:   "U1",
		SourceLanguage: "vi",
		TargetLanguage: "en",
	})
	require.NoError(t, err)
	assert.False(t, resp.GetSuccess())
}

// --- semantic service ---

type memStore struct {
	points map[string]semantic.Point
}

func newMemStore() *memStore { return &memStore{points: make(map[string]semantic.Point)} }

func (m *memStore) Upsert(ctx context.Context, points []semantic.Point) error {
	for _, p := range points {
		m.points[p.ID] = p
	}
	return nil
}

func (m *memStore) Search(ctx context.Context, vector []float32, filter semantic.Filter, limit int) ([]semantic.ScoredPoint, error) {
	var out []semantic.ScoredPoint
	for id, p := range m.points {
		out = append(out, semantic.ScoredPoint{ID: id, Score: 0.9, Payload: p.Payload})
	}
	return out, nil
}

func (m *memStore) Scroll(ctx context.Context, filter semantic.Filter, limit int) ([]semantic.ScoredPoint, error) {
	var out []semantic.ScoredPoint
	for id, p := range m.points {
		out = append(out, semantic.ScoredPoint{ID: id, Payload: p.Payload})
	}
	return out, nil
}

func (m *memStore) SetPayload(ctx context.Context, id string, payload map[string]interface{}) error {
	return nil
}

func (m *memStore) UpdateVector(ctx context.Context, id string, vector []float32) error {
	return nil
}

type echoEncoder struct{}

func (echoEncoder) Encode(ctx context.Context, text string) ([]float32, error) {
	return []float32{1, 2, 3}, nil
}

type echoTranslator struct{}

func (echoTranslator) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	return text, nil
}

func newSemanticService() (*SemanticService, *memStore) {
	store := newMemStore()
	ix := semantic.NewIndexer(store, echoEncoder{}, echoTranslator{}, nil, zerolog.Nop())
	return NewSemanticService(ix, zerolog.Nop()), store
}

func TestSaveTranscriptRejectsMissingRoomKey(t *testing.T) {
	svc, store := newSemanticService()

	resp, err := svc.SaveTranscript(context.Background(), &semanticpb.SaveTranscriptRequest{
		RoomId:  "R1",
		Speaker: "U1",
		Text:    "Xin chào",
	})
	require.NoError(t, err)
	assert.False(t, resp.GetSuccess())
	assert.Contains(t, resp.GetMessage(), "room_key")
	assert.Empty(t, store.points)
}

func TestSaveAndSearchTranscript(t *testing.T) {
	svc, _ := newSemanticService()
	roomKey := "550e8400-e29b-41d4-a716-446655440000"

	save, err := svc.SaveTranscript(context.Background(), &semanticpb.SaveTranscriptRequest{
		RoomId:   "R1",
		Speaker:  "U1",
		Text:     "Xin chào",
		Language: "vi",
		RoomKey:  roomKey,
	})
	require.NoError(t, err)
	require.True(t, save.GetSuccess())

	search, err := svc.SearchTranscripts(context.Background(), &semanticpb.SearchTranscriptsRequest{
		Query:   "hello",
		RoomId:  "R1",
		Limit:   10,
		RoomKey: roomKey,
	})
	require.NoError(t, err)
	require.NotEmpty(t, search.GetResults())
	assert.True(t, strings.HasPrefix(search.GetResults()[0].GetText(), "U1: Xin chào"))
	assert.GreaterOrEqual(t, search.GetResults()[0].GetScore(), 0.60)
}

func TestSearchSummaryScrollsRoom(t *testing.T) {
	svc, _ := newSemanticService()
	roomKey := "550e8400-e29b-41d4-a716-446655440000"

	_, err := svc.SaveTranscript(context.Background(), &semanticpb.SaveTranscriptRequest{
		RoomId: "R1", Speaker: "U1", Text: "first point", RoomKey: roomKey,
	})
	require.NoError(t, err)

	resp, err := svc.SearchTranscripts(context.Background(), &semanticpb.SearchTranscriptsRequest{
		Query:   "tóm tắt cuộc họp",
		RoomId:  "R1",
		RoomKey: roomKey,
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.GetResults())
	assert.Zero(t, resp.GetResults()[0].GetScore())
}
