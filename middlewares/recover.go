package middlewares

import (
	"runtime"

	"github.com/dmitrymomot/cms/internal"
)

// DefaultStackSize is the default maximum stack trace size in bytes.
const DefaultStackSize = 4096

// RecoverConfig configures the recover middleware.
type RecoverConfig struct {
	StackSize         int
	DisablePrintStack bool
}

// RecoverOption configures RecoverConfig.
type RecoverOption func(*RecoverConfig)

// WithRecoverStackSize sets the maximum stack trace size.
func WithRecoverStackSize(size int) RecoverOption {
	return func(cfg *RecoverConfig) {
		if size > 0 {
			cfg.StackSize = size
		}
	}
}

// WithRecoverDisablePrintStack omits stack traces from logs.
func WithRecoverDisablePrintStack() RecoverOption {
	return func(cfg *RecoverConfig) {
		cfg.DisablePrintStack = true
	}
}

// Recover converts a panic into a *PanicError for the error handler.
func Recover(opts ...RecoverOption) internal.Middleware {
	cfg := &RecoverConfig{StackSize: DefaultStackSize}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Ctx) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				pe := &PanicError{Value: r}
				if cfg.DisablePrintStack {
					c.LogError("panic recovered", "panic", r)
				} else {
					stack := make([]byte, cfg.StackSize)
					pe.Stack = stack[:runtime.Stack(stack, false)]
					c.LogError("panic recovered", "panic", r, "stack", string(pe.Stack))
				}
				err = internal.ErrInternal("internal server error", internal.WithError(pe))
			}()

			return next(c)
		}
	}
}
