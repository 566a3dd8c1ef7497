// Package logging provides the service-wide slog setup and context
// carriage. The engine itself never logs; these helpers belong to the
// HTTP layer and the server binary.
package logging

import (
	"context"
	"log/slog"
	"os"
)

type contextKey uint8

const loggerKey contextKey = iota

// New returns a JSON slog logger tagged with the service name.
func New(service string) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	return slog.New(handler).With("service", service)
}

// IntoContext attaches the logger for downstream handlers.
func IntoContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the attached logger, or slog.Default when none is
// present.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}
