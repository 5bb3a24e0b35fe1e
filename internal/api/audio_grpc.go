// Package api exposes the gRPC service surfaces and the admin HTTP
// endpoint. Handlers are thin dispatchers into the core packages.
package api

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/voxrelay/voxrelay/internal/audio"
	"github.com/voxrelay/voxrelay/internal/cabin"
	"github.com/voxrelay/voxrelay/internal/pipeline"
	"github.com/voxrelay/voxrelay/pkg/rpc/audiopb"
)

// defaultSourceLang and defaultTargetLang are the placeholder pair a
// cabin starts with; the client announces the real pair in the
// CreateTranslationProduce step.
const (
	defaultSourceLang = "vi"
	defaultTargetLang = "en"
)

// AudioService implements the audio-control gRPC surface.
type AudioService struct {
	audiopb.UnimplementedAudioServiceServer

	manager     *cabin.Manager
	stt         *pipeline.STTClient
	transcripts *TranscriptLog
	logger      zerolog.Logger
}

// NewAudioService creates the audio gRPC handler.
func NewAudioService(manager *cabin.Manager, stt *pipeline.STTClient, transcripts *TranscriptLog, logger zerolog.Logger) *AudioService {
	return &AudioService{
		manager:     manager,
		stt:         stt,
		transcripts: transcripts,
		logger:      logger.With().Str("component", "audio-service").Logger(),
	}
}

// ProcessAudioBuffer is the legacy batch transcription path. The
// transcript lands in the per-room transcript log; the response carries
// only the status.
func (s *AudioService) ProcessAudioBuffer(ctx context.Context, req *audiopb.ProcessAudioBufferRequest) (*audiopb.ProcessAudioBufferResponse, error) {
	if len(req.GetBuffer()) == 0 {
		return &audiopb.ProcessAudioBufferResponse{
			Success: false,
			Message: "empty audio buffer",
		}, nil
	}

	sampleRate := int(req.GetSampleRate())
	if sampleRate == 0 {
		sampleRate = audio.PipelineSampleRate
	}
	channels := int(req.GetChannels())
	if channels == 0 {
		channels = 1
	}

	wav := audio.WAVFromPCM(req.GetBuffer(), sampleRate, channels)
	result, err := s.stt.Transcribe(ctx, wav, "")
	if err != nil {
		s.logger.Warn().Err(err).Str("room_id", req.GetRoomId()).Msg("batch transcription failed")
		return &audiopb.ProcessAudioBufferResponse{
			Success: false,
			Message: fmt.Sprintf("transcription failed: %v", err),
		}, nil
	}

	text := strings.TrimSpace(result.Text)
	if text == "" {
		return &audiopb.ProcessAudioBufferResponse{
			Success: true,
			Message: "no speech detected",
		}, nil
	}

	if s.transcripts != nil {
		s.transcripts.Append(req.GetRoomId(), req.GetUserId(), text)
	}

	return &audiopb.ProcessAudioBufferResponse{
		Success: true,
		Message: "transcript saved",
	}, nil
}

// AllocateTranslationPort creates a cabin with placeholder languages and
// returns its RTP ports and SSRC. A failed creation returns zeroed
// fields, never an error status.
func (s *AudioService) AllocateTranslationPort(ctx context.Context, req *audiopb.AllocatePortRequest) (*audiopb.PortReply, error) {
	info, err := s.manager.CreateCabin(req.GetRoomId(), req.GetUserId(), defaultSourceLang, defaultTargetLang, 0)
	if err != nil {
		s.logger.Error().Err(err).
			Str("room_id", req.GetRoomId()).
			Str("user_id", req.GetUserId()).
			Msg("cabin creation failed")
		return &audiopb.PortReply{Success: false}, nil
	}

	return &audiopb.PortReply{
		Success:  true,
		Port:     int32(info.RTPPort),
		SendPort: int32(info.SendPort),
		Ssrc:     info.SSRC,
		Ready:    true,
	}, nil
}

// CreateTranslationProduce sets the real language pair on the cabin
// allocated earlier and starts it.
func (s *AudioService) CreateTranslationProduce(ctx context.Context, req *audiopb.CreateTranslationProduceRequest) (*audiopb.CreateTranslationCabinResponse, error) {
	existingKey, ok := s.manager.FindCabinByUser(req.GetRoomId(), req.GetUserId())
	if !ok {
		return &audiopb.CreateTranslationCabinResponse{
			Success: false,
			Message: "no cabin found; call AllocateTranslationPort first",
		}, nil
	}

	if err := s.manager.UpdateCabinLanguages(existingKey, req.GetSourceLanguage(), req.GetTargetLanguage()); err != nil {
		return &audiopb.CreateTranslationCabinResponse{
			Success: false,
			Message: "failed to update cabin languages",
		}, nil
	}

	newKey := cabin.Key{
		RoomID:     req.GetRoomId(),
		SpeakerID:  req.GetUserId(),
		SourceLang: req.GetSourceLanguage(),
		TargetLang: req.GetTargetLanguage(),
	}.String()
	if !s.manager.StartCabin(newKey) {
		return &audiopb.CreateTranslationCabinResponse{
			Success: false,
			Message: "failed to start translation cabin",
		}, nil
	}

	streamID := fmt.Sprintf("translation_%s_%d", req.GetUserId(), time.Now().Unix())
	return &audiopb.CreateTranslationCabinResponse{
		Success:  true,
		Message:  "translation producer created",
		StreamId: streamID,
	}, nil
}

// DestroyCabin tears down a cabin.
func (s *AudioService) DestroyCabin(ctx context.Context, req *audiopb.DestroyCabinRequest) (*audiopb.DestroyCabinResponse, error) {
	if !s.manager.DestroyCabin(req.GetRoomId(), req.GetTargetUserId(), req.GetSourceLanguage(), req.GetTargetLanguage()) {
		return &audiopb.DestroyCabinResponse{
			Success: false,
			Message: "cabin not found",
		}, nil
	}
	return &audiopb.DestroyCabinResponse{
		Success: true,
		Message: "cabin destroyed",
	}, nil
}
