// Package logging carries a request-scoped slog.Logger through contexts so
// scheduling handlers and services share one enriched logger per request.
package logging

import (
	"context"
	"log/slog"
)

type loggerContextKey struct{}

// ContextWithLogger returns a context carrying logger. The request middleware
// uses this to hand each request's logger down to handlers and services.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	if ctx == nil || logger == nil {
		return ctx
	}
	return context.WithValue(ctx, loggerContextKey{}, logger)
}

// FromContext returns the logger attached to ctx, or nil when none was set.
// Callers fall back to their own logger in that case.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return nil
	}
	logger, _ := ctx.Value(loggerContextKey{}).(*slog.Logger)
	return logger
}
