package internal

import (
	"context"
	"log/slog"
	"net"
	"time"
)

// RunOption configures the server started by App.Run.
type RunOption func(*runConfig)

type runConfig struct {
	logger          *slog.Logger
	listener        net.Listener
	baseCtx         context.Context
	shutdownHooks   []func(context.Context) error
	shutdownTimeout time.Duration
}

func buildRunConfig(opts ...RunOption) *runConfig {
	cfg := &runConfig{shutdownTimeout: defaultShutdownTimeout}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Logger sets the server lifecycle logger. Defaults to the App's logger.
func Logger(l *slog.Logger) RunOption {
	return func(c *runConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// Listener serves on ln instead of listening on the address.
func Listener(ln net.Listener) RunOption {
	return func(c *runConfig) {
		c.listener = ln
	}
}

// ShutdownTimeout bounds graceful shutdown, hooks included.
// Defaults to 30 seconds.
func ShutdownTimeout(d time.Duration) RunOption {
	return func(c *runConfig) {
		if d > 0 {
			c.shutdownTimeout = d
		}
	}
}

// ShutdownHook registers cleanup run after the server stops, in
// registration order.
//
//	cms.ShutdownHook(func(context.Context) error { return st.Close() })
func ShutdownHook(fn func(context.Context) error) RunOption {
	return func(c *runConfig) {
		if fn != nil {
			c.shutdownHooks = append(c.shutdownHooks, fn)
		}
	}
}

// WithContext sets the base context; cancelling it shuts the server down.
func WithContext(ctx context.Context) RunOption {
	return func(c *runConfig) {
		if ctx != nil {
			c.baseCtx = ctx
		}
	}
}
