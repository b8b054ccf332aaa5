package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cms/pkg/store"
)

func openTestStore(t *testing.T, opts ...store.Option) *store.Store {
	t.Helper()

	s, err := store.Open(context.Background(), "sqlite", ":memory:", opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	_, err = s.Exec(context.Background(), `CREATE TABLE notes (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL UNIQUE,
		views INTEGER NOT NULL DEFAULT 0
	)`)
	require.NoError(t, err)
	return s
}

func TestNewDialect(t *testing.T) {
	t.Parallel()

	d, err := store.NewDialect("postgres")
	require.NoError(t, err)
	assert.Equal(t, "$3", d.Placeholder(3))
	assert.Equal(t, "pgx", d.DriverName())

	d, err = store.NewDialect("sqlite")
	require.NoError(t, err)
	assert.Equal(t, "?2", d.Placeholder(2))

	_, err = store.NewDialect("oracle")
	assert.ErrorIs(t, err, store.ErrUnknownDriver)
}

func TestQuoteIdent(t *testing.T) {
	t.Parallel()

	q, err := store.QuoteIdent("blog_posts")
	require.NoError(t, err)
	assert.Equal(t, `"blog_posts"`, q)

	for _, bad := range []string{"", "1abc", `x"; DROP TABLE y; --`, "a-b", "a b"} {
		_, err := store.QuoteIdent(bad)
		assert.ErrorIs(t, err, store.ErrInvalidIdentifier, bad)
	}
}

func TestStoreCRUD(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openTestStore(t)
	cols := []string{"id", "title", "views"}

	require.NoError(t, s.Insert(ctx, "notes", cols, []any{"a", "First", 1}))
	require.NoError(t, s.Insert(ctx, "notes", cols, []any{"b", "Second", 2}))

	var title string
	var views int64
	require.NoError(t, s.Get(ctx, "notes", "id", "a", []string{"title", "views"}, &title, &views))
	assert.Equal(t, "First", title)
	assert.Equal(t, int64(1), views)

	require.NoError(t, s.Update(ctx, "notes", "id", "a", []string{"title", "views"}, []any{"Edited", 5}))
	require.NoError(t, s.Get(ctx, "notes", "id", "a", []string{"title", "views"}, &title, &views))
	assert.Equal(t, "Edited", title)
	assert.Equal(t, int64(5), views)

	n, err := s.Count(ctx, "notes")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, s.Delete(ctx, "notes", "id", "a"))
	err = s.Get(ctx, "notes", "id", "a", []string{"title"}, &title)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStoreMissingRows(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openTestStore(t)

	assert.ErrorIs(t, s.Update(ctx, "notes", "id", "nope", []string{"title"}, []any{"x"}), store.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "notes", "id", "nope"), store.ErrNotFound)
}

func TestStoreUniqueViolation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openTestStore(t)
	cols := []string{"id", "title"}

	require.NoError(t, s.Insert(ctx, "notes", cols, []any{"a", "Same"}))
	err := s.Insert(ctx, "notes", cols, []any{"b", "Same"})
	assert.ErrorIs(t, err, store.ErrUniqueViolation)
}

func TestStoreInsertReturning(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openTestStore(t)
	_, err := s.Exec(ctx, `CREATE TABLE tags (id INTEGER PRIMARY KEY, label TEXT NOT NULL UNIQUE)`)
	require.NoError(t, err)

	var first, second int64
	require.NoError(t, s.InsertReturning(ctx, "tags", []string{"label"}, []any{"go"}, "id", &first))
	require.NoError(t, s.InsertReturning(ctx, "tags", []string{"label"}, []any{"sql"}, "id", &second))
	assert.Positive(t, first)
	assert.Greater(t, second, first)

	var label string
	require.NoError(t, s.Get(ctx, "tags", "id", second, []string{"label"}, &label))
	assert.Equal(t, "sql", label)

	var dup int64
	err = s.InsertReturning(ctx, "tags", []string{"label"}, []any{"go"}, "id", &dup)
	assert.ErrorIs(t, err, store.ErrUniqueViolation)
	assert.ErrorIs(t, s.InsertReturning(ctx, "tags", nil, nil, "no id", &dup), store.ErrInvalidIdentifier)
}

func TestStoreList(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openTestStore(t)
	for _, id := range []string{"c", "a", "d", "b"} {
		require.NoError(t, s.Insert(ctx, "notes", []string{"id", "title"}, []any{id, "t-" + id}))
	}

	collect := func(page store.Page) []string {
		var ids []string
		err := s.List(ctx, "notes", "id", []string{"id"}, page, func(r store.Row) error {
			var id string
			if err := r.Scan(&id); err != nil {
				return err
			}
			ids = append(ids, id)
			return nil
		})
		require.NoError(t, err)
		return ids
	}

	assert.Equal(t, []string{"a", "b", "c", "d"}, collect(store.Page{}))
	assert.Equal(t, []string{"b", "c"}, collect(store.Page{Limit: 2, Offset: 1}))
	assert.Equal(t, []string{"c", "d"}, collect(store.Page{Offset: 2}))
}

func TestStoreListStopsOnCallbackError(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openTestStore(t)
	require.NoError(t, s.Insert(ctx, "notes", []string{"id", "title"}, []any{"a", "A"}))

	boom := errors.New("boom")
	err := s.List(ctx, "notes", "id", []string{"id"}, store.Page{}, func(store.Row) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestStoreRejectsBadInput(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openTestStore(t)

	assert.ErrorIs(t, s.Insert(ctx, "notes", []string{"id"}, []any{"a", "b"}), store.ErrColumnMismatch)
	assert.ErrorIs(t, s.Insert(ctx, "no tes", []string{"id"}, []any{"a"}), store.ErrInvalidIdentifier)
	assert.ErrorIs(t, s.Delete(ctx, "notes", "id;", "a"), store.ErrInvalidIdentifier)
}

func TestQueryHook(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	var queries []string
	s := openTestStore(t, store.WithQueryHook(func(_ context.Context, q string, _ []any) {
		queries = append(queries, q)
	}))

	require.NoError(t, s.Insert(ctx, "notes", []string{"id", "title"}, []any{"a", "A"}))
	require.Len(t, queries, 2)
	assert.Contains(t, queries[1], `INSERT INTO "notes" ("id", "title") VALUES (?1, ?2)`)
}
