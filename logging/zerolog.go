package logging

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// ZerologLogger implements Logger on top of rs/zerolog.
// Debug/Info/Warn/Error -> the configured writer
// Fatal -> the configured writer, then os.Exit(1) (zerolog semantics)
type ZerologLogger struct {
	zl    zerolog.Logger
	level Level
}

// NewDefaultLogger creates the logger the library starts with: human-readable
// console output on stderr at InfoLevel.
func NewDefaultLogger() *ZerologLogger {
	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return newZerologLogger(zerolog.New(w).With().Timestamp().Logger())
}

// NewDefaultLoggerNoColor is NewDefaultLogger without ANSI colors, for logs
// that end up in files or CI output.
func NewDefaultLoggerNoColor() *ZerologLogger {
	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339, NoColor: true}
	return newZerologLogger(zerolog.New(w).With().Timestamp().Logger())
}

// NewJSONLogger writes structured JSON lines to w, one event per line.
func NewJSONLogger(w io.Writer) *ZerologLogger {
	return newZerologLogger(zerolog.New(w).With().Timestamp().Logger())
}

// NewZerologLogger wraps an existing zerolog.Logger so applications already
// on zerolog can hand theirs to SetGlobalLogger unchanged.
func NewZerologLogger(zl zerolog.Logger) *ZerologLogger {
	return newZerologLogger(zl)
}

func newZerologLogger(zl zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{
		zl:    zl.Level(zerolog.InfoLevel),
		level: InfoLevel,
	}
}

func zerologLevel(level Level) zerolog.Level {
	switch level {
	case DebugLevel:
		return zerolog.DebugLevel
	case InfoLevel:
		return zerolog.InfoLevel
	case WarnLevel:
		return zerolog.WarnLevel
	case ErrorLevel:
		return zerolog.ErrorLevel
	case FatalLevel:
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

func emit(ev *zerolog.Event, msg string, fields []Fields) {
	for _, f := range fields {
		ev = ev.Fields(map[string]any(f))
	}
	ev.Msg(msg)
}

func (z *ZerologLogger) Debug(msg string, fields ...Fields) {
	emit(z.zl.Debug(), msg, fields)
}

func (z *ZerologLogger) Info(msg string, fields ...Fields) {
	emit(z.zl.Info(), msg, fields)
}

func (z *ZerologLogger) Warn(msg string, fields ...Fields) {
	emit(z.zl.Warn(), msg, fields)
}

func (z *ZerologLogger) Error(err error, msg string, fields ...Fields) {
	emit(z.zl.Error().Err(err), msg, fields)
}

func (z *ZerologLogger) Fatal(err error, msg string, fields ...Fields) {
	emit(z.zl.Fatal().Err(err), msg, fields)
}

func (z *ZerologLogger) WithFields(fields Fields) Logger {
	return &ZerologLogger{
		zl:    z.zl.With().Fields(map[string]any(fields)).Logger(),
		level: z.level,
	}
}

func (z *ZerologLogger) WithContext(ctx context.Context) Logger {
	if fields, ok := FieldsFromContext(ctx); ok {
		return z.WithFields(fields)
	}
	return z
}

func (z *ZerologLogger) SetLevel(level Level) {
	z.level = level
	z.zl = z.zl.Level(zerologLevel(level))
}

// NoOpLogger is a logger that does nothing - useful for testing or when
// logging is disabled
type NoOpLogger struct{}

func (n *NoOpLogger) Debug(msg string, fields ...Fields)            {}
func (n *NoOpLogger) Info(msg string, fields ...Fields)             {}
func (n *NoOpLogger) Warn(msg string, fields ...Fields)             {}
func (n *NoOpLogger) Error(err error, msg string, fields ...Fields) {}
func (n *NoOpLogger) Fatal(err error, msg string, fields ...Fields) {}
func (n *NoOpLogger) WithFields(fields Fields) Logger               { return n }
func (n *NoOpLogger) WithContext(ctx context.Context) Logger        { return n }
func (n *NoOpLogger) SetLevel(level Level)                          {}
