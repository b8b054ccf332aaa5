// Package internal implements the cms application. Import
// "github.com/dmitrymomot/cms", which re-exports the public API.
//
// # Entities
//
// A Schema[T] describes how entity T maps to a table: display names, an
// identifier Field and ordered data Fields. Each Field's Ref returns a
// pointer into an instance, so generic code reads and writes columns
// without reflection over T. Entity pairs a schema with Hooks and yields a
// Registration; New validates every registration and rejects slug
// collisions.
//
// # Generated routes
//
// Routes builds eleven handlers per entity: a JSON API under /api/v1 and an
// HTML admin UI rendered by a view.Renderer. Every write follows the same
// order:
//
//	extract request extension -> load and parse id -> decode body ->
//	hook -> storage
//
// so an unparsable id never reaches storage or hooks, and a rejected hook
// leaves the row unchanged.
//
// # Contexts
//
// Context is the application context shared by all requests: the store,
// the plural names of registered entities, the uploads directory and a
// typed extension reachable through ExtAs. Ctx is the per-request handler
// context; it embeds context.Context and can be passed to any call that
// takes one.
//
// # Errors
//
// Handlers return errors. Failures are wrapped in *HTTPError carrying one
// of the package sentinels (ErrInvalidID, ErrHookRejected, ...) and reach
// the ErrorHandler, which answers /api/ requests with JSON and everything
// else with the renderer's error page. Only 5xx errors are logged.
//
// # Server runtime
//
// App.Run serves until SIGINT, SIGTERM or the WithContext context ends,
// then shuts down gracefully and runs shutdown hooks:
//
//	err := app.Run(":8080", internal.Logger(log), internal.ShutdownTimeout(10*time.Second))
package internal
