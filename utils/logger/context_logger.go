package logger

import (
	"context"
	"log/slog"
	"time"
)

type ContextKey string

const (
	RequestIDKey  ContextKey = "request_id"
	OperationKey  ContextKey = "operation"
	PresetKey     ContextKey = "imgcache.preset"
	SourcePathKey ContextKey = "imgcache.source"
)

var contextFields = []struct {
	key  ContextKey
	attr string
}{
	{RequestIDKey, "request_id"},
	{OperationKey, "operation"},
	{PresetKey, "preset"},
	{SourcePathKey, "source_path"},
}

type ContextLogger struct {
	logger *slog.Logger
}

func NewContextLogger(logger *slog.Logger) *ContextLogger {
	if logger == nil {
		logger = Logger
	}
	return &ContextLogger{logger: logger}
}

// WithContext adds the request scoped values found in ctx to log entries
func (cl *ContextLogger) WithContext(ctx context.Context) *slog.Logger {
	args := make([]any, 0, len(contextFields)*2)
	for _, field := range contextFields {
		if v, ok := ctx.Value(field.key).(string); ok && v != "" {
			args = append(args, field.attr, v)
		}
	}
	return cl.logger.With(args...)
}

func (cl *ContextLogger) LogDuration(ctx context.Context, operation string, duration time.Duration) {
	cl.WithContext(ctx).Info("operation completed",
		"operation", operation,
		"duration_ms", duration.Milliseconds(),
	)
}

func (cl *ContextLogger) LogError(ctx context.Context, operation string, err error) {
	cl.WithContext(ctx).Error("operation failed",
		"operation", operation,
		"error", err,
	)
}

// WithVariant returns ctx annotated with the preset and source path.
func WithVariant(ctx context.Context, preset, sourcePath string) context.Context {
	ctx = context.WithValue(ctx, PresetKey, preset)
	return context.WithValue(ctx, SourcePathKey, sourcePath)
}
