package internal

import (
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/cms/pkg/cookie"
	"github.com/dmitrymomot/cms/pkg/storage"
	"github.com/dmitrymomot/cms/pkg/view"
)

// Route is one generated endpoint. Pattern uses chi syntax.
type Route struct {
	Method  string
	Pattern string
	Handler HandlerFunc
}

// Env is what generated handlers share besides the Context.
type Env struct {
	Context  Context
	Renderer view.Renderer
	// Storage receives uploads for file columns. May be nil.
	Storage storage.Storage
	// Cookies carries flash notices between UI writes and the next page.
	// May be nil.
	Cookies *cookie.Manager
	Logger  *slog.Logger
}

// Routes generates the eleven CRUD routes of an entity, in a fixed order:
// five JSON API routes under /api/v1 followed by six UI routes.
func Routes[T, R any](schema *Schema[T], hooks Hooks[T, R], env Env) ([]Route, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	hooks, err := hooks.withDefaults()
	if err != nil {
		return nil, err
	}
	if env.Renderer == nil {
		env.Renderer = view.New()
	}
	if env.Logger == nil {
		env.Logger = slog.New(slog.DiscardHandler)
	}

	h := &entityHandlers[T, R]{schema: schema, hooks: hooks, env: env}
	s, p := schema.Slug(), schema.SlugPlural()

	return []Route{
		{http.MethodGet, "/api/v1/" + p, h.apiList},
		{http.MethodGet, "/api/v1/" + s + "/{id}", h.apiGet},
		{http.MethodPost, "/api/v1/" + p, h.apiCreate},
		{http.MethodPost, "/api/v1/" + s + "/{id}", h.apiUpdate},
		{http.MethodDelete, "/api/v1/" + s + "/{id}", h.apiDelete},
		{http.MethodGet, "/" + p, h.uiList},
		{http.MethodGet, "/" + s + "/{id}", h.uiDetail},
		{http.MethodPost, "/" + s + "/{id}", h.uiUpdate},
		{http.MethodGet, "/" + p + "/add", h.uiAddForm},
		{http.MethodPost, "/" + p + "/add", h.uiAddSubmit},
		{http.MethodPost, "/" + s + "/{id}/delete", h.uiDelete},
	}, nil
}
