package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// ContextKey is the type for context keys used by the logger
type ContextKey string

const (
	// LoggerKey is the context key for the request-scoped logger
	LoggerKey ContextKey = "logger"
)

// base is the application logger returned by FromContext when ctx carries none.
var base atomic.Pointer[zerolog.Logger]

func init() {
	l := NewWithWriter(os.Stdout)
	base.Store(&l)
}

// New creates the application logger writing JSON lines to stdout at the given level.
// Unknown levels fall back to info.
func New(level string) zerolog.Logger {
	l := NewWithWriter(os.Stdout).Level(ParseLevel(level))
	base.Store(&l)
	return l
}

// NewConsole creates a human readable logger for local development.
func NewConsole(level string) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}
	l := zerolog.New(output).Level(ParseLevel(level)).With().Timestamp().Logger()
	base.Store(&l)
	return l
}

// NewWithWriter creates a logger with a custom writer
func NewWithWriter(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}

// ParseLevel maps a level name to a zerolog level.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// WithContext stores the logger in ctx
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// FromContext retrieves the request logger, or the application logger when none is set
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(LoggerKey).(zerolog.Logger); ok {
			return &logger
		}
	}
	l := *base.Load()
	return &l
}

// WithFields adds structured fields to a logger
func WithFields(logger zerolog.Logger, fields map[string]interface{}) zerolog.Logger {
	ctx := logger.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return ctx.Logger()
}
