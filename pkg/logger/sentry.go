package logger

import (
	"context"
	"log/slog"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// SentryConfig enables the Sentry sink when DSN is set.
type SentryConfig struct {
	DSN         string `env:"CMS_SENTRY_DSN"`
	Environment string `env:"CMS_SENTRY_ENVIRONMENT" envDefault:"production"`
	// Error keeps only errors as Sentry logs; anything lower also keeps warnings.
	// Errors always become Sentry issues.
	MinLevel slog.Level
}

// newSentryHandler returns nil when Sentry is disabled or fails to start.
// Init failures are reported through fallback.
func newSentryHandler(cfg SentryConfig, fallback slog.Handler) slog.Handler {
	if cfg.DSN == "" {
		return nil
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: cfg.Environment,
		EnableLogs:  true,
	}); err != nil {
		slog.New(fallback).Error("sentry init failed", Err(err))
		return nil
	}

	logLevel := []slog.Level{slog.LevelWarn, slog.LevelError}
	if cfg.MinLevel >= slog.LevelError {
		logLevel = []slog.Level{slog.LevelError}
	}

	return sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError},
		LogLevel:   logLevel,
	}.NewSentryHandler(context.Background())
}
