package api

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// TranscriptLog appends batch transcription results to per-room JSONL
// files under the log directory.
type TranscriptLog struct {
	mu     sync.Mutex
	dir    string
	logger zerolog.Logger
}

type transcriptEntry struct {
	RoomID    string `json:"room_id"`
	UserID    string `json:"user_id"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

// NewTranscriptLog creates the transcript writer.
func NewTranscriptLog(dir string, logger zerolog.Logger) *TranscriptLog {
	t := &TranscriptLog{
		dir:    dir,
		logger: logger.With().Str("component", "transcript-log").Logger(),
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.logger.Error().Err(err).Str("dir", dir).Msg("failed to create transcript directory")
	}
	return t
}

// Append writes one transcript line. Errors are logged, not returned;
// the RPC response does not depend on the write.
func (t *TranscriptLog) Append(roomID, userID, text string) {
	entry := transcriptEntry{
		RoomID:    roomID,
		UserID:    userID,
		Text:      text,
		Timestamp: time.Now().Unix(),
	}

	line, err := json.Marshal(entry)
	if err != nil {
		t.logger.Error().Err(err).Msg("failed to marshal transcript entry")
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	path := filepath.Join(t.dir, "transcripts_"+roomID+".jsonl")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		t.logger.Error().Err(err).Str("path", path).Msg("failed to open transcript file")
		return
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		t.logger.Error().Err(err).Str("path", path).Msg("failed to write transcript")
	}
}
