package health

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	defaultTimeout = 5 * time.Second

	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// CheckFunc checks one dependency. db.Healthcheck returns one.
type CheckFunc func(ctx context.Context) error

// Checks maps check names to check functions.
type Checks map[string]CheckFunc

// Response is the aggregated readiness result.
type Response struct {
	Checks map[string]Check `json:"checks,omitempty"`
	Status string           `json:"status"`
}

// Check is the result of a single check.
type Check struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type config struct {
	logger  *slog.Logger
	timeout time.Duration
}

type Option func(*config)

// WithTimeout bounds the whole readiness run. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger logs failing checks at warn level.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

func newConfig(opts ...Option) *config {
	cfg := &config{
		timeout: defaultTimeout,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Run executes all checks concurrently and aggregates the result.
// A single failing check marks the whole response unhealthy; the others
// still run to completion.
func Run(ctx context.Context, checks Checks, opts ...Option) *Response {
	return run(ctx, checks, newConfig(opts...))
}

func run(ctx context.Context, checks Checks, cfg *config) *Response {
	if len(checks) == 0 {
		return &Response{Status: StatusHealthy}
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	var (
		mu      sync.Mutex
		results = make(map[string]Check, len(checks))
		g       errgroup.Group
	)

	for _, name := range slices.Sorted(maps.Keys(checks)) {
		check := checks[name]
		g.Go(func() error {
			err := check(ctx)
			if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
				err = errors.Join(ErrCheckTimeout, err)
			}

			result := Check{Status: StatusHealthy}
			if err != nil {
				result = Check{Status: StatusUnhealthy, Error: err.Error()}
				cfg.logger.WarnContext(ctx, "health check failed",
					slog.String("check", name),
					slog.String("error", err.Error()),
				)
			}

			mu.Lock()
			results[name] = result
			mu.Unlock()

			if err != nil {
				return errors.Join(ErrCheckFailed, err)
			}
			return nil
		})
	}

	status := StatusHealthy
	if err := g.Wait(); err != nil {
		status = StatusUnhealthy
	}

	return &Response{Status: status, Checks: results}
}
