package logger

import (
	"context"

	"go.uber.org/zap"
)

type loggerKey struct{}

// ContextWithLogger stores a logger in the context.
func ContextWithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// With derives a logger from base with the given fields and stores it in ctx.
func With(ctx context.Context, base *zap.Logger, fields ...zap.Field) (context.Context, *zap.Logger) {
	l := base.With(fields...)
	return ContextWithLogger(ctx, l), l
}

// FromContext returns the request logger, or a no-op logger outside a request.
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*zap.Logger); ok && l != nil {
		return l
	}
	return zap.NewNop()
}
