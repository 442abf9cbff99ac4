// Package logging is the structured logger shared by the authdash API, web
// frontend and terminal client. SlogLogger is the only implementation; tests
// use Discard.
package logging

import "context"

// Logger takes a message plus alternating key/value args. Keys in use:
// "module" (set once via With), "error", "user_id", "path", "status".
//
//	logger.With("module", "auth_service").Warn(ctx, "session renewal failed", "error", err)
//
// Never pass tokens, passwords or cookie values as args.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With binds args to every record of the returned logger.
	With(args ...any) Logger
}
