package grafadmin

import (
	"io"

	"github.com/rs/zerolog"
)

// zerologLogger implements Logger on top of rs/zerolog.
type zerologLogger struct {
	zlog zerolog.Logger
}

// Ensure zerologLogger implements the interface.
var _ Logger = (*zerologLogger)(nil)

// NewZerologLogger creates a structured Logger writing JSON events to w at the
// given level ("debug", "info", "warn", "error"). An unknown level falls back
// to info.
func NewZerologLogger(w io.Writer, level string) Logger {
	zLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		zLevel = zerolog.InfoLevel
	}

	zlog := zerolog.New(w).With().Timestamp().Logger().Level(zLevel)

	return &zerologLogger{zlog: zlog}
}

func (l *zerologLogger) Debug(msg string, fields map[string]interface{}) {
	l.zlog.Debug().Fields(fields).Msg(msg)
}

func (l *zerologLogger) Info(msg string, fields map[string]interface{}) {
	l.zlog.Info().Fields(fields).Msg(msg)
}

func (l *zerologLogger) Warn(msg string, fields map[string]interface{}) {
	l.zlog.Warn().Fields(fields).Msg(msg)
}

func (l *zerologLogger) Error(msg string, fields map[string]interface{}) {
	l.zlog.Error().Fields(fields).Msg(msg)
}

// noopLogger discards every event.
type noopLogger struct{}

// NewNoopLogger returns a Logger that discards everything.
func NewNoopLogger() Logger {
	return noopLogger{}
}

func (noopLogger) Debug(string, map[string]interface{}) {}
func (noopLogger) Info(string, map[string]interface{})  {}
func (noopLogger) Warn(string, map[string]interface{})  {}
func (noopLogger) Error(string, map[string]interface{}) {}
