// Package logger builds the slog loggers used by the cms server.
//
// [New] writes JSON (or text) to stdout, optionally fans records out to
// Sentry, and decorates every record with attributes pulled from the request
// context:
//
//	log := logger.New(logger.Config{Level: "debug"}, middlewares.RequestIDExtractor())
//	log.InfoContext(r.Context(), "article created", slog.String("id", id))
//	// {"level":"INFO","msg":"article created","id":"...","request_id":"..."}
//
// With Sentry.DSN set, error records become Sentry issues and warnings and
// errors are stored as Sentry logs. An init failure is logged and the logger
// falls back to stdout only.
//
// [NewNop] discards everything and is the default for cms.App and tests.
package logger
