package sigcarve

import (
	"context"
	"log/slog"
	"os"

	"github.com/hupe1980/sigcarve/match"
)

// Logger wraps slog.Logger with sigcarve-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithInput adds the name of the carved input.
func (l *Logger) WithInput(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("input", name),
	}
}

// WithSignature adds a signature field to the logger.
func (l *Logger) WithSignature(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("signature", name),
	}
}

// LogSkip logs a signature that failed validation against a buffer.
func (l *Logger) LogSkip(ctx context.Context, index int, name string, kind match.ErrorKind) {
	l.DebugContext(ctx, "signature skipped",
		"index", index,
		"signature", name,
		"reason", kind.String(),
	)
}

// LogReject logs a match whose payload could not be extracted.
func (l *Logger) LogReject(ctx context.Context, name string, offset int, err error) {
	l.DebugContext(ctx, "match rejected",
		"signature", name,
		"offset", offset,
		"error", err,
	)
}

// LogCarve logs the outcome of a carve.
func (l *Logger) LogCarve(ctx context.Context, size int, rep *Report, err error) {
	if err != nil {
		l.ErrorContext(ctx, "carve failed",
			"bytes", size,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "carve completed",
		"bytes", size,
		"matches", rep.Matches(),
		"extracted", rep.Extracted(),
		"skipped", len(rep.Skipped),
		"duration", rep.Duration,
	)
}
