// Package logging is the structured-logging contract shared by the Grana
// client and server. Components log through Logger; the concrete slog
// backend is chosen once, at App construction.
package logging

import "context"

// Logger is a context-aware structured logger. The variadic args are
// key-value pairs:
//
//	logger.Info(ctx, "Starting HTTP server", "address", addr)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that carries the given key-value pairs on
	// every record, typically With("module", ...) at wiring time.
	With(args ...any) Logger
}
