package physim

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with physim-specific context.
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
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
			Level: slog.Level(1000), // Unreachable level
		})),
	}
}

// WithBody adds a body id field to the logger.
func (l *Logger) WithBody(id BodyID) *Logger {
	return &Logger{
		Logger: l.Logger.With("body", id.String()),
	}
}

// LogUpdate logs a simulation tick.
func (l *Logger) LogUpdate(ctx context.Context, stats UpdateStats, err error) {
	if err != nil {
		l.ErrorContext(ctx, "update failed",
			"bodies", stats.Bodies,
			"pairs", stats.Pairs,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "update completed",
			"bodies", stats.Bodies,
			"pairs", stats.Pairs,
			"dispatched", stats.Dispatched,
			"contacts", stats.Contacts,
			"temp_bytes", stats.TempBytes,
		)
	}
}

// LogCreateBody logs a body creation.
func (l *Logger) LogCreateBody(ctx context.Context, id BodyID, info *BodyInfo, err error) {
	if err != nil {
		l.ErrorContext(ctx, "create body failed",
			"shape", info.Shape.String(),
			"error", err,
		)
	} else {
		l.WithBody(id).DebugContext(ctx, "body created",
			"shape", info.Shape.String(),
		)
	}
}

// LogDeleteBody logs a body deletion.
func (l *Logger) LogDeleteBody(ctx context.Context, id BodyID, found bool) {
	bl := l.WithBody(id)
	if !found {
		bl.WarnContext(ctx, "delete of unknown body")
	} else {
		bl.DebugContext(ctx, "body deleted")
	}
}

// LogClose logs the teardown of a simulation.
func (l *Logger) LogClose(ctx context.Context, bodies int, arena, temp ArenaStats) {
	l.InfoContext(ctx, "simulation closed",
		"bodies", bodies,
		"arena_reserved", arena.BytesReserved,
		"temp_reserved", temp.BytesReserved,
		"temp_blocks", temp.Blocks,
	)
}
