package logger

import "log/slog"

// New builds a logger from cfg. Records pass through the context extractors
// before reaching stdout and, when a DSN is configured, Sentry.
func New(cfg Config, extractors ...ContextExtractor) *slog.Logger {
	h := cfg.handler()
	if sh := newSentryHandler(cfg.Sentry, h); sh != nil {
		h = newFanout(h, sh)
	}
	return slog.New(WithContext(h, extractors...))
}

// NewNop discards everything.
func NewNop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// Err is the attribute every package uses for errors.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}
