package internal

import (
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dmitrymomot/cms/pkg/cookie"
	"github.com/dmitrymomot/cms/pkg/health"
	"github.com/dmitrymomot/cms/pkg/logger"
	"github.com/dmitrymomot/cms/pkg/storage"
	"github.com/dmitrymomot/cms/pkg/store"
	"github.com/dmitrymomot/cms/pkg/view"
)

// Option configures the application.
type Option func(*App)

// WithStore sets the storage handle shared by all entities. Required when
// any entity is registered.
func WithStore(s *store.Store) Option {
	return func(a *App) {
		a.store = s
	}
}

// WithEntities registers entity types. Each gets its eleven routes.
func WithEntities(e ...Registration) Option {
	return func(a *App) {
		a.entities = append(a.entities, e...)
	}
}

// WithExt sets the application extension exposed through Context.Ext.
//
//	type Services struct{ Mailer *Mailer }
//	cms.WithExt(Services{Mailer: m})
func WithExt[X any](ext X) Option {
	return func(a *App) {
		a.newContext = func(db *store.Store, names []string, dir string) Context {
			return NewContext(db, names, dir, ext)
		}
	}
}

// WithUploadsDir stores uploads on local disk under dir and serves them at
// /uploads/. Ignored for storage when WithStorage is also given, but still
// reported by Context.UploadsDir.
func WithUploadsDir(dir string) Option {
	return func(a *App) {
		a.uploadsDir = dir
	}
}

// WithStorage sets the upload backend, e.g. storage.NewS3.
func WithStorage(s storage.Storage) Option {
	return func(a *App) {
		a.storage = s
	}
}

// WithCookies enables flash notices in the admin UI.
func WithCookies(m *cookie.Manager) Option {
	return func(a *App) {
		a.cookies = m
	}
}

// WithRenderer replaces the stock HTML pages.
func WithRenderer(r view.Renderer) Option {
	return func(a *App) {
		if r != nil {
			a.renderer = r
		}
	}
}

// WithMiddleware adds global middleware, applied in the order given.
func WithMiddleware(mw ...Middleware) Option {
	return func(a *App) {
		a.middlewares = append(a.middlewares, mw...)
	}
}

// WithHandlers registers handlers that declare routes next to the
// generated ones.
func WithHandlers(h ...Handler) Option {
	return func(a *App) {
		a.handlers = append(a.handlers, h...)
	}
}

// WithStaticFiles mounts a static file server at pattern. Directory
// listings are disabled.
//
//	//go:embed public
//	var assets embed.FS
//
//	cms.WithStaticFiles("/static/", assets, "public")
func WithStaticFiles(pattern string, fsys fs.FS, subDir string) Option {
	return WithHandlers(staticFiles{pattern: pattern, fsys: fsys, subDir: subDir})
}

type staticFiles struct {
	fsys    fs.FS
	pattern string
	subDir  string
}

func (s staticFiles) Routes(r Router) {
	sub, err := fs.Sub(s.fsys, s.subDir)
	if err != nil {
		panic(err)
	}
	files := http.StripPrefix(strings.TrimSuffix(s.pattern, "/"), http.FileServerFS(sub))
	r.Mount(s.pattern, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if strings.HasSuffix(req.URL.Path, "/") {
			http.NotFound(w, req)
			return
		}
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		files.ServeHTTP(w, req)
	}))
}

// WithErrorHandler replaces the default error handler.
func WithErrorHandler(h ErrorHandler) Option {
	return func(a *App) {
		a.errorHandler = h
	}
}

// WithNotFoundHandler sets a custom 404 handler.
func WithNotFoundHandler(h HandlerFunc) Option {
	return func(a *App) {
		a.notFoundHandler = h
	}
}

// WithMethodNotAllowedHandler sets a custom 405 handler.
func WithMethodNotAllowedHandler(h HandlerFunc) Option {
	return func(a *App) {
		a.methodNotAllowedHandler = h
	}
}

// WithHealthChecks mounts liveness and readiness checks.
//
//	cms.WithHealthChecks(
//	    cms.WithReadinessCheck("db", db.Healthcheck(st)),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return func(a *App) {
		cfg := &healthConfig{
			livenessPath:  defaultLivenessPath,
			readinessPath: defaultReadinessPath,
			checks:        make(health.Checks),
		}
		for _, opt := range opts {
			opt(cfg)
		}
		a.healthConfig = cfg
	}
}

// WithLogger builds the application logger from cfg. Extractors add
// request-scoped attributes such as the request id.
func WithLogger(cfg logger.Config, extractors ...logger.ContextExtractor) Option {
	return func(a *App) {
		a.logger = logger.New(cfg, extractors...)
	}
}

// WithCustomLogger sets a fully custom logger.
func WithCustomLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}
