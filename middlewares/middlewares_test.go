package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cms/internal"
)

type routesFunc func(r internal.Router)

func (f routesFunc) Routes(r internal.Router) { f(r) }

func newApp(t *testing.T, mw []internal.Middleware, routes routesFunc) *internal.App {
	t.Helper()
	app, err := internal.New(
		internal.WithMiddleware(mw...),
		internal.WithHandlers(routes),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func serve(app http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}
