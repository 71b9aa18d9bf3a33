package logging

import (
	"context"
	"log/slog"
)

// contextKey is a private type to prevent context key collisions.
type contextKey string

const loggerKey = contextKey("logger")

// WithLogger returns a context carrying the given request-scoped logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext retrieves the scoped logger from the context. It returns the
// default logger if none is found.
func FromContext(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(loggerKey).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return logger
}
