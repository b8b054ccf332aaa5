package internal_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cms/internal"
	"github.com/dmitrymomot/cms/pkg/column"
	"github.com/dmitrymomot/cms/pkg/store"
)

type Article struct {
	ID        column.UUID
	Title     column.Text
	Body      column.Markdown
	Views     column.Int
	Published column.Bool
	Cover     column.File
}

func articleSchema() internal.Schema[Article] {
	return internal.Schema[Article]{
		Name:       "Article",
		NamePlural: "Articles",
		ID:         internal.Field[Article]{Name: "id", Ref: func(a *Article) internal.Column { return &a.ID }},
		Columns: []internal.Field[Article]{
			{Name: "title", Label: "Title", Ref: func(a *Article) internal.Column { return &a.Title }},
			{Name: "body", Ref: func(a *Article) internal.Column { return &a.Body }},
			{Name: "views", Ref: func(a *Article) internal.Column { return &a.Views }},
			{Name: "published", Ref: func(a *Article) internal.Column { return &a.Published }},
			{Name: "cover", Ref: func(a *Article) internal.Column { return &a.Cover }},
		},
	}
}

type Author struct {
	ID   column.Int
	Name column.Text
}

func authorSchema() internal.Schema[Author] {
	return internal.Schema[Author]{
		Name:       "Author",
		NamePlural: "Authors",
		ID:         internal.Field[Author]{Name: "id", Ref: func(a *Author) internal.Column { return &a.ID }},
		Columns: []internal.Field[Author]{
			{Name: "name", Ref: func(a *Author) internal.Column { return &a.Name }},
		},
	}
}

const testSchemaSQL = `
CREATE TABLE articles (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL UNIQUE,
	body TEXT NOT NULL DEFAULT '',
	views INTEGER NOT NULL DEFAULT 0,
	published BOOLEAN NOT NULL DEFAULT 0,
	cover TEXT NOT NULL DEFAULT ''
);
CREATE TABLE authors (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL
);`

// queryCounter counts the statements the store executes.
type queryCounter struct{ n atomic.Int64 }

func (q *queryCounter) hook(context.Context, string, []any) { q.n.Add(1) }

func (q *queryCounter) Load() int64 { return q.n.Load() }

func openStore(t *testing.T, counter *queryCounter) *store.Store {
	t.Helper()

	var opts []store.Option
	if counter != nil {
		opts = append(opts, store.WithQueryHook(counter.hook))
	}
	st, err := store.Open(context.Background(), "sqlite", ":memory:", opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	for stmt := range strings.SplitSeq(testSchemaSQL, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		_, err := st.DB().ExecContext(context.Background(), stmt)
		require.NoError(t, err)
	}
	return st
}

func newApp(t *testing.T, opts ...internal.Option) *internal.App {
	t.Helper()

	app, err := internal.New(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func do(t *testing.T, h http.Handler, method, target, body string, header ...string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}
