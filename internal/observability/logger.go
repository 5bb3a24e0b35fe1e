package observability

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LoggerConfig contains configuration for logger setup
type LoggerConfig struct {
	Level      zerolog.Level
	Format     string // "json" or "console"
	ToFile     bool   // Mirror logs to a rotating file
	Dir        string // Log directory when ToFile is set
	FilePrefix string // Log file name prefix
	Service    string // Service name
	Version    string // Application version
}

// NewLogger creates a new zerolog logger with the given configuration.
// All logs are structured and include timestamp, service name, and version.
// When file output is enabled, the file is size-rotated and the logger
// writes to both stdout and the file.
func NewLogger(cfg LoggerConfig) zerolog.Logger {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339Nano

	var output io.Writer = os.Stdout

	if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
		}
	}

	if cfg.ToFile {
		rotator := &lumberjack.Logger{
			Filename:   filepath.Join(cfg.Dir, cfg.FilePrefix+".log"),
			MaxSize:    100, // MB
			MaxBackups: 7,
			MaxAge:     14, // days
			Compress:   true,
		}
		output = zerolog.MultiLevelWriter(output, rotator)
	}

	return zerolog.New(output).
		Level(cfg.Level).
		With().
		Timestamp().
		Str("service", cfg.Service).
		Str("version", cfg.Version).
		Logger()
}

// NewNopLogger creates a no-op logger that discards all logs.
// Useful for testing.
func NewNopLogger() zerolog.Logger {
	return zerolog.New(io.Discard).Level(zerolog.Disabled)
}

// NewTestLogger creates a logger suitable for testing.
// Outputs to a buffer that can be inspected.
func NewTestLogger(output io.Writer) zerolog.Logger {
	return zerolog.New(output).
		Level(zerolog.DebugLevel).
		With().
		Timestamp().
		Logger()
}
