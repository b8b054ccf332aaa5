package internal

import "context"

// Run serves the App on addr until SIGINT, SIGTERM or cancellation of the
// base context, then shuts down gracefully. Resources the App opened are
// released after the shutdown hooks.
//
//	err := app.Run(":8080", cms.ShutdownHook(func(context.Context) error {
//	    return st.Close()
//	}))
func (a *App) Run(addr string, opts ...RunOption) error {
	cfg := buildRunConfig(opts...)
	if cfg.logger == nil {
		cfg.logger = a.logger
	}

	hooks := append(cfg.shutdownHooks, func(context.Context) error { return a.Close() })
	return runServer(runtimeConfig{
		handler:         a,
		address:         addr,
		listener:        cfg.listener,
		logger:          cfg.logger,
		shutdownTimeout: cfg.shutdownTimeout,
		shutdownHooks:   hooks,
		baseCtx:         cfg.baseCtx,
	})
}
