package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// ContextKey is the type for context keys used by the logger
type ContextKey string

const (
	// LoggerKey is the context key for the logger instance
	LoggerKey ContextKey = "logger"
)

// New creates a structured logger writing human-readable lines to stderr.
// Diagnostics stay at warn level unless verbose is set.
func New(verbose bool) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).Level(levelFor(verbose)).With().Timestamp().Logger()
}

// NewWithWriter creates a structured JSON logger with a custom writer
func NewWithWriter(w io.Writer, verbose bool) zerolog.Logger {
	return zerolog.New(w).Level(levelFor(verbose)).With().Timestamp().Logger()
}

// Nop returns a logger that discards everything.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}

// WithContext adds the logger to the context
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// FromContext retrieves the logger from the context or returns a default logger
func FromContext(ctx context.Context) zerolog.Logger {
	if logger, ok := ctx.Value(LoggerKey).(zerolog.Logger); ok {
		return logger
	}
	return New(false)
}

// SetVerbose sets the process-wide minimum level: debug when verbose, warn otherwise.
// Loggers built with New(true) follow this switch.
func SetVerbose(verbose bool) {
	zerolog.SetGlobalLevel(levelFor(verbose))
}

func levelFor(verbose bool) zerolog.Level {
	if verbose {
		return zerolog.DebugLevel
	}
	return zerolog.WarnLevel
}
