package cms

import (
	"context"
	"encoding/json"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/dmitrymomot/cms/internal"
	"github.com/dmitrymomot/cms/pkg/cookie"
	"github.com/dmitrymomot/cms/pkg/health"
	"github.com/dmitrymomot/cms/pkg/logger"
	"github.com/dmitrymomot/cms/pkg/rules"
	"github.com/dmitrymomot/cms/pkg/storage"
	"github.com/dmitrymomot/cms/pkg/store"
	"github.com/dmitrymomot/cms/pkg/view"
)

// Type aliases - public API
type (
	// App serves the JSON API and admin UI for registered entities.
	App = internal.App

	// Column is a typed value stored in one database column.
	// See package column for the built-in kinds.
	Column = internal.Column

	// Field binds a column name to the entity field holding it.
	Field[T any] = internal.Field[T]

	// Schema describes how entity T maps to a table.
	Schema[T any] = internal.Schema[T]

	// Hooks intercept entity writes.
	Hooks[T, R any] = internal.Hooks[T, R]

	// RequestExtractor builds the per-request extension passed to hooks.
	RequestExtractor[R any] = internal.RequestExtractor[R]

	// Registration is an entity ready to be added with WithEntities.
	Registration = internal.Registration

	// Context is the application context shared by every request.
	Context = internal.Context

	// DefaultContext is the Context built by New.
	DefaultContext[X any] = internal.DefaultContext[X]

	// NoExt is the empty extension.
	NoExt = internal.NoExt

	// Ctx is the per-request handler context.
	Ctx = internal.Ctx

	// Router is the interface handlers use to declare routes.
	Router = internal.Router

	// Handler declares extra routes.
	Handler = internal.Handler

	// HandlerFunc is the signature for route handlers.
	HandlerFunc = internal.HandlerFunc

	// Middleware wraps a HandlerFunc.
	Middleware = internal.Middleware

	// ErrorHandler handles errors returned from handlers.
	ErrorHandler = internal.ErrorHandler

	// Option configures the application.
	Option = internal.Option

	// RunOption configures the server runtime.
	RunOption = internal.RunOption

	// HealthOption configures health check endpoints.
	HealthOption = internal.HealthOption

	// Route is one generated route.
	Route = internal.Route

	// Env carries the services generated routes depend on.
	Env = internal.Env

	// HTTPError is an error with an HTTP status.
	HTTPError = internal.HTTPError

	// HTTPErrorOption configures an HTTPError.
	HTTPErrorOption = internal.HTTPErrorOption

	// Extractor reads a value from the first source that has it.
	Extractor = internal.Extractor

	// ExtractorSource reads a value from a request.
	ExtractorSource = internal.ExtractorSource

	// ContextExtractor adds request-scoped values to log records.
	ContextExtractor = logger.ContextExtractor

	// ResponseWriter records the status and applies htmx status rules.
	ResponseWriter = internal.ResponseWriter
)

// Errors
var (
	ErrInvalidSchema = internal.ErrInvalidSchema
	ErrSlugCollision = internal.ErrSlugCollision
	ErrReservedSlug  = internal.ErrReservedSlug
	ErrNoExtractor   = internal.ErrNoExtractor
	ErrNoStore       = internal.ErrNoStore
	ErrExtType       = internal.ErrExtType

	ErrExtractFailed  = internal.ErrExtractFailed
	ErrInvalidID      = internal.ErrInvalidID
	ErrInvalidPayload = internal.ErrInvalidPayload
	ErrEntityNotFound = internal.ErrEntityNotFound
	ErrHookRejected   = internal.ErrHookRejected
	ErrDuplicate      = internal.ErrDuplicate
	ErrStorage        = internal.ErrStorage
)

// RequestIDHeader is echoed into error responses.
const RequestIDHeader = internal.RequestIDHeader

// New creates an application. It fails when a registered entity is
// invalid or two entities claim the same URL slug.
//
// Example:
//
//	app, err := cms.New(
//	    cms.WithStore(st),
//	    cms.WithUploadsDir("./uploads"),
//	    cms.WithEntities(
//	        cms.Entity(articleSchema, cms.NoHooks[Article]()),
//	        cms.Entity(authorSchema, authorHooks),
//	    ),
//	)
func New(opts ...Option) (*App, error) {
	return internal.New(opts...)
}

// Entity registers T with its hooks.
func Entity[T, R any](schema Schema[T], hooks Hooks[T, R]) Registration {
	return internal.Entity(schema, hooks)
}

// NoHooks returns hooks that accept every write unchanged.
func NoHooks[T any]() Hooks[T, NoExt] {
	return internal.NoHooks[T]()
}

// Routes builds the API and UI routes for one entity without an App.
func Routes[T, R any](schema *Schema[T], hooks Hooks[T, R], env Env) ([]Route, error) {
	return internal.Routes(schema, hooks, env)
}

// RulesHooks returns hooks that reject writes violating set.
func RulesHooks[T any](schema *Schema[T], set *rules.Set) Hooks[T, NoExt] {
	return internal.NoHooks[T]().WithRules(schema, set)
}

// Import inserts JSON objects into schema's table without running hooks.
func Import[T any](ctx context.Context, st *store.Store, schema *Schema[T], objects []json.RawMessage) (int, error) {
	return internal.Import(ctx, st, schema, objects)
}

// NewContext builds an application context with extension ext.
func NewContext[X any](db *store.Store, names []string, uploadsDir string, ext X) *DefaultContext[X] {
	return internal.NewContext(db, names, uploadsDir, ext)
}

// ExtAs returns the application extension as X.
func ExtAs[X any](c Context) (X, error) {
	return internal.ExtAs[X](c)
}

// Project applies fn to the application extension.
func Project[X, Y any](c Context, fn func(X) Y) (Y, error) {
	return internal.Project(c, fn)
}

// ContextValue returns the request value stored under key, or the zero T.
func ContextValue[T any](c Ctx, key any) T {
	return internal.ContextValue[T](c, key)
}

// App options

// WithStore sets the database store.
func WithStore(s *store.Store) Option {
	return internal.WithStore(s)
}

// WithEntities registers entities.
func WithEntities(e ...Registration) Option {
	return internal.WithEntities(e...)
}

// WithExt sets the application extension available through ExtAs.
func WithExt[X any](ext X) Option {
	return internal.WithExt(ext)
}

// WithUploadsDir stores uploads on local disk under dir.
func WithUploadsDir(dir string) Option {
	return internal.WithUploadsDir(dir)
}

// WithStorage sets the upload storage backend.
func WithStorage(s storage.Storage) Option {
	return internal.WithStorage(s)
}

// WithCookies enables flash notices after admin UI writes.
func WithCookies(m *cookie.Manager) Option {
	return internal.WithCookies(m)
}

// WithRenderer replaces the admin UI renderer.
func WithRenderer(r view.Renderer) Option {
	return internal.WithRenderer(r)
}

// WithMiddleware adds global middleware in the order provided.
func WithMiddleware(mw ...Middleware) Option {
	return internal.WithMiddleware(mw...)
}

// WithHandlers registers handlers with extra routes.
func WithHandlers(h ...Handler) Option {
	return internal.WithHandlers(h...)
}

// WithStaticFiles serves files from fsys under pattern.
//
// Example:
//
//	//go:embed public
//	var assets embed.FS
//
//	cms.New(cms.WithStaticFiles("/static/", assets, "public"))
func WithStaticFiles(pattern string, fsys fs.FS, subDir string) Option {
	return internal.WithStaticFiles(pattern, fsys, subDir)
}

// WithErrorHandler replaces the default error handler.
func WithErrorHandler(h ErrorHandler) Option {
	return internal.WithErrorHandler(h)
}

// WithNotFoundHandler sets a custom 404 handler.
func WithNotFoundHandler(h HandlerFunc) Option {
	return internal.WithNotFoundHandler(h)
}

// WithMethodNotAllowedHandler sets a custom 405 handler.
func WithMethodNotAllowedHandler(h HandlerFunc) Option {
	return internal.WithMethodNotAllowedHandler(h)
}

// WithHealthChecks enables liveness and readiness endpoints.
//
// Example:
//
//	cms.WithHealthChecks(
//	    cms.WithReadinessCheck("db", db.Healthcheck(st)),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return internal.WithHealthChecks(opts...)
}

// WithLogger builds the application logger from cfg.
func WithLogger(cfg logger.Config, extractors ...ContextExtractor) Option {
	return internal.WithLogger(cfg, extractors...)
}

// WithCustomLogger sets a fully custom logger.
func WithCustomLogger(l *slog.Logger) Option {
	return internal.WithCustomLogger(l)
}

// Health check options

// WithLivenessPath sets the liveness endpoint path.
func WithLivenessPath(path string) HealthOption {
	return internal.WithLivenessPath(path)
}

// WithReadinessPath sets the readiness endpoint path.
func WithReadinessPath(path string) HealthOption {
	return internal.WithReadinessPath(path)
}

// WithReadinessCheck adds a named readiness check.
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return internal.WithReadinessCheck(name, fn)
}

// Run options

// Logger sets the server logger.
func Logger(l *slog.Logger) RunOption {
	return internal.Logger(l)
}

// Listener serves on ln instead of binding the address.
func Listener(ln net.Listener) RunOption {
	return internal.Listener(ln)
}

// ShutdownTimeout sets the graceful shutdown timeout.
func ShutdownTimeout(d time.Duration) RunOption {
	return internal.ShutdownTimeout(d)
}

// ShutdownHook registers a cleanup function run after the server stops.
func ShutdownHook(fn func(context.Context) error) RunOption {
	return internal.ShutdownHook(fn)
}

// WithContext stops the server when ctx is done.
func WithContext(ctx context.Context) RunOption {
	return internal.WithContext(ctx)
}

// Errors

// NewHTTPError creates an HTTPError with the given status.
func NewHTTPError(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.NewHTTPError(code, message, opts...)
}

// WithTitle sets the error page title.
func WithTitle(title string) HTTPErrorOption { return internal.WithTitle(title) }

// WithErrorCode sets the machine-readable error code.
func WithErrorCode(code string) HTTPErrorOption { return internal.WithErrorCode(code) }

// WithRequestID sets the request ID shown with the error.
func WithRequestID(id string) HTTPErrorOption { return internal.WithRequestID(id) }

// WithError sets the underlying cause.
func WithError(err error) HTTPErrorOption { return internal.WithError(err) }

func ErrBadRequest(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrBadRequest(message, opts...)
}

func ErrUnauthorized(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrUnauthorized(message, opts...)
}

func ErrForbidden(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrForbidden(message, opts...)
}

func ErrNotFound(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrNotFound(message, opts...)
}

func ErrConflict(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrConflict(message, opts...)
}

func ErrUnprocessable(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrUnprocessable(message, opts...)
}

func ErrInternal(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrInternal(message, opts...)
}

// IsHTTPError reports whether err is, or wraps, an *HTTPError.
func IsHTTPError(err error) bool { return internal.IsHTTPError(err) }

// AsHTTPError extracts the *HTTPError from err's chain.
func AsHTTPError(err error) *HTTPError { return internal.AsHTTPError(err) }

// Extractors

// NewExtractor tries sources in order.
func NewExtractor(sources ...ExtractorSource) Extractor {
	return internal.NewExtractor(sources...)
}

func FromHeader(name string) ExtractorSource { return internal.FromHeader(name) }

func FromQuery(name string) ExtractorSource { return internal.FromQuery(name) }

func FromCookie(name string) ExtractorSource { return internal.FromCookie(name) }

func FromBearerToken() ExtractorSource { return internal.FromBearerToken() }

// NewResponseWriter wraps w. For htmx requests, statuses of 300 and above
// are sent as 200.
func NewResponseWriter(w http.ResponseWriter, isHTMX bool) *ResponseWriter {
	return internal.NewResponseWriter(w, isHTMX)
}
