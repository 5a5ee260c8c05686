package vecstore

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with vecstore-specific context.
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
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithNamespace adds a namespace field to the logger.
func (l *Logger) WithNamespace(namespace string) *Logger {
	return &Logger{
		Logger: l.Logger.With("namespace", namespace),
	}
}

// WithVectorID adds a vector id field to the logger.
func (l *Logger) WithVectorID(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("vector_id", id),
	}
}

// WithTopK adds a top_k field to the logger.
func (l *Logger) WithTopK(k int) *Logger {
	return &Logger{
		Logger: l.Logger.With("top_k", k),
	}
}

// LogUpsert logs a write operation.
func (l *Logger) LogUpsert(ctx context.Context, namespace, id, outcome string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "upsert failed",
			"namespace", namespace,
			"vector_id", id,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "upsert completed",
			"namespace", namespace,
			"vector_id", id,
			"outcome", outcome,
		)
	}
}

// LogSearch logs a search operation.
func (l *Logger) LogSearch(ctx context.Context, namespace string, topK, resultsFound int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "search failed",
			"namespace", namespace,
			"top_k", topK,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "search completed",
			"namespace", namespace,
			"top_k", topK,
			"results", resultsFound,
		)
	}
}

// LogDelete logs a delete operation.
func (l *Logger) LogDelete(ctx context.Context, namespace, id string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "delete failed",
			"namespace", namespace,
			"vector_id", id,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "delete completed",
			"namespace", namespace,
			"vector_id", id,
		)
	}
}

// LogEmbed logs an embedding generation call.
func (l *Logger) LogEmbed(ctx context.Context, model string, dimensions int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "embedding generation failed",
			"model", model,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "embedding generated",
			"model", model,
			"dimensions", dimensions,
		)
	}
}

// LogAuditFailure logs a failed audit record write. Audit failures are
// never propagated to callers, so the log line is the only trace.
func (l *Logger) LogAuditFailure(ctx context.Context, namespace, id string, err error) {
	l.WarnContext(ctx, "audit record failed",
		"namespace", namespace,
		"vector_id", id,
		"error", err,
	)
}
