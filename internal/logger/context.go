package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey struct{}

// ContextWithLogger stores a logger in the context.
func ContextWithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext extracts the request scoped logger stored by the HTTP
// middleware. Returns nil when the context carries none so callers can
// fall back to their own logger.
func FromContext(ctx context.Context) *zap.Logger {
	l, _ := ctx.Value(ctxKey{}).(*zap.Logger)
	return l
}
