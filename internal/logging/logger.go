// Package logging defines the structured-logging interface used across the
// service. The variadic args are key-value pairs:
//
//	log.Info(ctx, "user registered", "username", username)
package logging

import "context"

// Logger is a context-aware, structured logger.
type Logger interface {
	// Debug logs diagnostic detail, normally filtered out in production.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given pairs.
	With(args ...any) Logger
}
