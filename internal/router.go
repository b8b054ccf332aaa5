package internal

import (
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
)

// Router is the interface handlers use to declare routes.
type Router interface {
	GET(path string, h HandlerFunc, mw ...Middleware)
	POST(path string, h HandlerFunc, mw ...Middleware)
	PUT(path string, h HandlerFunc, mw ...Middleware)
	PATCH(path string, h HandlerFunc, mw ...Middleware)
	DELETE(path string, h HandlerFunc, mw ...Middleware)

	// Handle registers h for an arbitrary method.
	Handle(method, path string, h HandlerFunc, mw ...Middleware)

	// Group creates an inline route group sharing middleware.
	Group(fn func(r Router))

	// Route creates a route group under a pattern prefix.
	Route(pattern string, fn func(r Router))

	// Use appends middleware to the router's stack.
	Use(mw ...Middleware)

	// Mount attaches a plain http.Handler at the given pattern.
	Mount(pattern string, h http.Handler)
}

type routerAdapter struct {
	router chi.Router
	app    *App
}

func (r *routerAdapter) GET(path string, h HandlerFunc, mw ...Middleware) {
	r.Handle(http.MethodGet, path, h, mw...)
}

func (r *routerAdapter) POST(path string, h HandlerFunc, mw ...Middleware) {
	r.Handle(http.MethodPost, path, h, mw...)
}

func (r *routerAdapter) PUT(path string, h HandlerFunc, mw ...Middleware) {
	r.Handle(http.MethodPut, path, h, mw...)
}

func (r *routerAdapter) PATCH(path string, h HandlerFunc, mw ...Middleware) {
	r.Handle(http.MethodPatch, path, h, mw...)
}

func (r *routerAdapter) DELETE(path string, h HandlerFunc, mw ...Middleware) {
	r.Handle(http.MethodDelete, path, h, mw...)
}

func (r *routerAdapter) Handle(method, path string, h HandlerFunc, mw ...Middleware) {
	r.router.Method(method, path, r.wrap(h, mw...))
}

func (r *routerAdapter) Group(fn func(Router)) {
	r.router.Group(func(cr chi.Router) {
		fn(&routerAdapter{router: cr, app: r.app})
	})
}

func (r *routerAdapter) Route(pattern string, fn func(Router)) {
	r.router.Route(pattern, func(cr chi.Router) {
		fn(&routerAdapter{router: cr, app: r.app})
	})
}

func (r *routerAdapter) Use(mw ...Middleware) {
	for _, m := range mw {
		r.router.Use(r.app.adaptMiddleware(m))
	}
}

func (r *routerAdapter) Mount(pattern string, h http.Handler) {
	r.router.Mount(pattern, h)
}

func (r *routerAdapter) wrap(h HandlerFunc, mw ...Middleware) http.HandlerFunc {
	// Last registered runs first.
	for _, m := range slices.Backward(mw) {
		h = m(h)
	}
	return r.app.wrapHandler(h)
}

// wrapHandler converts a HandlerFunc to an http.HandlerFunc that reports
// errors through the app's error handler.
func (a *App) wrapHandler(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		c := newCtx(w, req, a.logger)
		if err := h(c); err != nil {
			a.handleError(c, err)
		}
	}
}

// adaptMiddleware converts a Middleware to chi's http.Handler form. Values
// stored with Ctx.Set reach the next handler through the request.
func (a *App) adaptMiddleware(mw Middleware) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wrapped := mw(func(c Ctx) error {
				next.ServeHTTP(c.Response(), c.Request())
				return nil
			})
			c := newCtx(w, r, a.logger)
			if err := wrapped(c); err != nil {
				a.handleError(c, err)
			}
		})
	}
}
