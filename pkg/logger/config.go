package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config selects the stdout handler and the optional Sentry sink.
type Config struct {
	// "json" (default) or "text".
	Format string `env:"CMS_LOG_FORMAT" envDefault:"json"`
	// debug, info, warn or error.
	Level string `env:"CMS_LOG_LEVEL" envDefault:"info"`

	Sentry SentryConfig

	// Defaults to os.Stdout.
	Output io.Writer
}

// ParseLevel maps a level name to slog.Level; unknown names are info.
func ParseLevel(s string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func (c Config) handler() slog.Handler {
	out := c.Output
	if out == nil {
		out = os.Stdout
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(c.Level)}
	if strings.EqualFold(c.Format, "text") {
		return slog.NewTextHandler(out, opts)
	}
	return slog.NewJSONHandler(out, opts)
}
