package internal

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/cms/pkg/cookie"
	"github.com/dmitrymomot/cms/pkg/health"
	"github.com/dmitrymomot/cms/pkg/logger"
	"github.com/dmitrymomot/cms/pkg/storage"
	"github.com/dmitrymomot/cms/pkg/store"
	"github.com/dmitrymomot/cms/pkg/view"
)

// Default server timeouts.
const (
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultMaxHeaderBytes    = 1 << 20 // 1MB
	defaultShutdownTimeout   = 30 * time.Second
)

// App serves the generated routes of every registered entity.
// It is immutable once New returns.
type App struct {
	router                  chi.Router
	context                 Context
	newContext              func(db *store.Store, names []string, uploadsDir string) Context
	store                   *store.Store
	storage                 storage.Storage
	cookies                 *cookie.Manager
	renderer                view.Renderer
	errorHandler            ErrorHandler
	notFoundHandler         HandlerFunc
	methodNotAllowedHandler HandlerFunc
	healthConfig            *healthConfig
	logger                  *slog.Logger
	uploadsDir              string
	entities                []Registration
	middlewares             []Middleware
	handlers                []Handler
	closers                 []func() error
}

// New validates every registered entity and builds the router.
//
// Example:
//
//	app, err := cms.New(
//	    cms.WithStore(st),
//	    cms.WithUploadsDir("./uploads"),
//	    cms.WithEntities(
//	        cms.Entity(articles, articleHooks),
//	        cms.Entity(authors, cms.NoHooks[Author]()),
//	    ),
//	)
func New(opts ...Option) (*App, error) {
	a := &App{
		router:   chi.NewRouter(),
		logger:   logger.NewNop(),
		renderer: view.New(),
		newContext: func(db *store.Store, names []string, dir string) Context {
			return NewContext(db, names, dir, NoExt{})
		},
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.errorHandler == nil {
		a.errorHandler = a.defaultErrorHandler
	}
	if a.store == nil && len(a.entities) > 0 {
		return nil, ErrNoStore
	}

	reg := newRegistry()
	for _, e := range a.entities {
		if err := reg.add(e); err != nil {
			return nil, err
		}
	}

	if a.storage == nil && a.uploadsDir != "" {
		local, err := storage.NewLocal(a.uploadsDir)
		if err != nil {
			return nil, fmt.Errorf("uploads dir: %w", err)
		}
		a.storage = local
		a.closers = append(a.closers, local.Close)
	}

	a.context = a.newContext(a.store, reg.namesPlural(), a.uploadsDir)

	if err := a.setupRoutes(reg); err != nil {
		return nil, errors.Join(err, a.Close())
	}
	return a, nil
}

// Context returns the shared Context handed to every generated handler.
func (a *App) Context() Context { return a.context }

// Router returns the underlying chi.Router.
func (a *App) Router() chi.Router { return a.router }

// ServeHTTP makes App an http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

// Close releases resources the App opened itself. The store is owned by the
// caller and stays open.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) setupRoutes(reg *registry) error {
	if a.notFoundHandler != nil {
		a.router.NotFound(a.wrapHandler(a.notFoundHandler))
	}
	if a.methodNotAllowedHandler != nil {
		a.router.MethodNotAllowed(a.wrapHandler(a.methodNotAllowedHandler))
	}

	for _, mw := range a.middlewares {
		a.router.Use(a.adaptMiddleware(mw))
	}

	if a.healthConfig != nil {
		a.router.Get(a.healthConfig.livenessPath, health.LivenessHandler())
		a.router.Get(a.healthConfig.readinessPath, health.ReadinessHandler(a.healthConfig.checks, health.WithLogger(a.logger)))
	}

	if a.storage != nil {
		a.router.Get(uploadsPattern, a.wrapHandler(a.serveUpload))
	}

	env := Env{Context: a.context, Renderer: a.renderer, Storage: a.storage, Cookies: a.cookies, Logger: a.logger}
	r := &routerAdapter{router: a.router, app: a}
	for _, e := range reg.entries {
		routes, err := e.Routes(env)
		if err != nil {
			return fmt.Errorf("entity %q: %w", e.Name(), err)
		}
		for _, rt := range routes {
			for _, pattern := range mountPatterns(rt.Pattern) {
				r.Handle(rt.Method, pattern, rt.Handler)
			}
		}
		a.logger.Debug("entity mounted", "entity", e.Name(), "routes", len(routes))
	}

	for _, h := range a.handlers {
		h.Routes(r)
	}
	return nil
}

// mountPatterns returns the patterns a route is served under. chi matches
// the decoded path unless the request needed escaping beyond the default,
// so escaped slugs are mounted in both forms.
func mountPatterns(pattern string) []string {
	decoded, err := url.PathUnescape(pattern)
	if err != nil || decoded == pattern {
		return []string{pattern}
	}
	return []string{decoded, pattern}
}

// handleError hands err to the error handler unless a response has started.
func (a *App) handleError(c Ctx, err error) {
	if c.Written() {
		a.logger.WarnContext(c, "error after response started", logger.Err(err))
		return
	}
	if herr := a.errorHandler(c, err); herr != nil {
		a.logger.ErrorContext(c, "error handler failed", logger.Err(herr))
		if !c.Written() {
			http.Error(c.Response(), http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	}
}

// healthConfig holds health endpoint configuration.
type healthConfig struct {
	checks        health.Checks
	livenessPath  string
	readinessPath string
}

const (
	defaultLivenessPath  = "/health/live"
	defaultReadinessPath = "/health/ready"
)

// HealthOption configures health endpoints.
type HealthOption func(*healthConfig)

// WithLivenessPath overrides "/health/live".
func WithLivenessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.livenessPath = path
		}
	}
}

// WithReadinessPath overrides "/health/ready".
func WithReadinessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.readinessPath = path
		}
	}
}

// WithReadinessCheck adds a named readiness check.
//
//	cms.WithReadinessCheck("db", db.Healthcheck(st))
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return func(c *healthConfig) {
		c.checks[name] = fn
	}
}
