package internal

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/cms/pkg/htmx"
)

// Ctx is the request-scoped context handlers and middleware receive.
// It is a context.Context bound to the request.
type Ctx interface {
	context.Context

	// Request returns the current request, including values added with Set.
	Request() *http.Request

	// Response returns the response writer.
	Response() http.ResponseWriter

	// Param returns a path parameter, unescaped as chi stores it.
	Param(name string) string

	// Query returns a query parameter.
	Query(name string) string

	// Header returns a request header.
	Header(name string) string

	// SetHeader sets a response header.
	SetHeader(name, value string)

	// JSON writes v as JSON with the given status.
	JSON(code int, v any) error

	// NoContent writes only the status.
	NoContent(code int) error

	// Redirect redirects, answering htmx requests with HX-Redirect.
	Redirect(code int, url string) error

	// Render writes an HTML component with the given status.
	Render(code int, component templ.Component) error

	// IsHTMX reports whether the request was issued by htmx.
	IsHTMX() bool

	// Written reports whether the response has started.
	Written() bool

	// Logger returns the application logger.
	Logger() *slog.Logger

	// LogError logs at error level with the request context.
	LogError(msg string, attrs ...any)

	// Set stores a value in the request context.
	Set(key, value any)

	// Get reads a value from the request context.
	Get(key any) any
}

type requestCtx struct {
	request  *http.Request
	response *ResponseWriter
	logger   *slog.Logger
}

func newCtx(w http.ResponseWriter, r *http.Request, logger *slog.Logger) *requestCtx {
	rw, ok := w.(*ResponseWriter)
	if !ok {
		rw = NewResponseWriter(w, htmx.IsHTMX(r))
	}
	return &requestCtx{request: r, response: rw, logger: logger}
}

func (c *requestCtx) Deadline() (time.Time, bool) { return c.request.Context().Deadline() }
func (c *requestCtx) Done() <-chan struct{}       { return c.request.Context().Done() }
func (c *requestCtx) Err() error                  { return c.request.Context().Err() }
func (c *requestCtx) Value(key any) any           { return c.request.Context().Value(key) }

func (c *requestCtx) Request() *http.Request        { return c.request }
func (c *requestCtx) Response() http.ResponseWriter { return c.response }

func (c *requestCtx) Param(name string) string {
	return chi.URLParam(c.request, name)
}

func (c *requestCtx) Query(name string) string {
	return c.request.URL.Query().Get(name)
}

func (c *requestCtx) Header(name string) string {
	return c.request.Header.Get(name)
}

func (c *requestCtx) SetHeader(name, value string) {
	c.response.Header().Set(name, value)
}

func (c *requestCtx) JSON(code int, v any) error {
	c.response.Header().Set("Content-Type", "application/json; charset=utf-8")
	c.response.WriteHeader(code)
	return json.NewEncoder(c.response).Encode(v)
}

func (c *requestCtx) NoContent(code int) error {
	c.response.WriteHeader(code)
	return nil
}

func (c *requestCtx) Redirect(code int, url string) error {
	htmx.RedirectWithStatus(c.response, c.request, url, code)
	return nil
}

func (c *requestCtx) Render(code int, component templ.Component) error {
	c.response.Header().Set("Content-Type", "text/html; charset=utf-8")
	c.response.WriteHeader(code)
	return component.Render(c.request.Context(), c.response)
}

func (c *requestCtx) IsHTMX() bool {
	return htmx.IsHTMX(c.request)
}

func (c *requestCtx) Written() bool {
	return c.response.Written()
}

func (c *requestCtx) Logger() *slog.Logger {
	return c.logger
}

func (c *requestCtx) LogError(msg string, attrs ...any) {
	c.logger.ErrorContext(c.request.Context(), msg, attrs...)
}

func (c *requestCtx) Set(key, value any) {
	c.request = c.request.WithContext(context.WithValue(c.request.Context(), key, value))
}

func (c *requestCtx) Get(key any) any {
	return c.request.Context().Value(key)
}
