// Package logging provides structured logging configuration using log/slog.
//
// Each pipeline run gets a run ID stored in its context. Loggers obtained
// through FromContext carry it as run_id, so all entries of one conversion
// can be correlated.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
)

type contextKey string

const ctxKeyRunID contextKey = "run_id"

// Setup configures the global slog logger based on level and format.
//
// Level values: "debug", "info", "warn", "error" (default: "info")
// Format values: "text", "json" (default: "text")
//
// Logs go to stderr so they never mix with data written to stdout.
func Setup(level, format string) {
	slog.SetDefault(New(os.Stderr, level, format))
}

// New builds a logger writing to w.
func New(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewRunContext returns a context carrying a fresh run ID.
func NewRunContext(ctx context.Context) (context.Context, uuid.UUID) {
	id := uuid.New()
	return WithRunID(ctx, id), id
}

// WithRunID stores a run ID in ctx.
func WithRunID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, ctxKeyRunID, id)
}

// RunID extracts the run ID from ctx.
func RunID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(ctxKeyRunID).(uuid.UUID)
	return id, ok
}

// FromContext returns the default logger enriched with the run ID, if ctx
// carries one.
//
// Usage:
//
//	ctx, _ := logging.NewRunContext(ctx)
//	logger := logging.FromContext(ctx)
//	logger.Info("conversion started", "input", path)
func FromContext(ctx context.Context) *slog.Logger {
	logger := slog.Default()

	if id, ok := RunID(ctx); ok {
		logger = logger.With("run_id", id.String())
	}

	return logger
}

// WithFields returns a logger with additional structured fields.
//
// Usage:
//
//	runLogger := logging.WithFields(ctx,
//	    "input", inPath,
//	    "type", cfg.Type,
//	)
//	runLogger.Info("run started")
func WithFields(ctx context.Context, args ...any) *slog.Logger {
	return FromContext(ctx).With(args...)
}
