package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

// QueryHook observes every statement before it is sent to the database.
type QueryHook func(ctx context.Context, query string, args []any)

// Row is the scanning half of *sql.Row and *sql.Rows.
type Row interface {
	Scan(dest ...any) error
}

// Page bounds a list query. A zero Limit means no limit.
type Page struct {
	Limit  int
	Offset int
}

// Store wraps a database handle and its dialect.
// It is safe for concurrent use.
type Store struct {
	db      *sql.DB
	dialect Dialect
	hooks   []QueryHook
}

// Option configures a Store.
type Option func(*Store)

// WithQueryHook registers a hook called before each statement.
func WithQueryHook(h QueryHook) Option {
	return func(s *Store) {
		if h != nil {
			s.hooks = append(s.hooks, h)
		}
	}
}

// Open connects to the database identified by driver and dsn and pings it.
func Open(ctx context.Context, driver, dsn string, opts ...Option) (*Store, error) {
	dialect, err := NewDialect(driver)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, errors.Join(ErrOpen, err)
	}

	if dialect.Name() == "sqlite" {
		// Single writer; also keeps ":memory:" databases on one connection.
		db.SetMaxOpenConns(1)
		if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
			db.Close()
			return nil, errors.Join(ErrOpen, err)
		}
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Join(ErrOpen, err)
	}

	return New(db, dialect, opts...), nil
}

// FromPool wraps a pgx pool. Closing the store does not close the pool.
func FromPool(pool *pgxpool.Pool, opts ...Option) *Store {
	return New(stdlib.OpenDBFromPool(pool), PostgresDialect{}, opts...)
}

// New wraps an existing handle.
func New(db *sql.DB, dialect Dialect, opts ...Option) *Store {
	s := &Store{db: db, dialect: dialect}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DB returns the underlying handle.
func (s *Store) DB() *sql.DB { return s.db }

// Dialect returns the store's dialect.
func (s *Store) Dialect() Dialect { return s.dialect }

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

// Close closes the underlying handle.
func (s *Store) Close() error { return s.db.Close() }

// Exec runs a statement and returns the number of affected rows.
func (s *Store) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	s.observe(ctx, query, args)
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, s.dialect.MapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

// Get loads the row whose idCol equals id, scanning cols into dest.
// Returns ErrNotFound when no row matches.
func (s *Store) Get(ctx context.Context, table, idCol string, id any, cols []string, dest ...any) error {
	if len(cols) != len(dest) {
		return ErrColumnMismatch
	}
	t, qid, qcols, err := quoteQuery(table, idCol, cols)
	if err != nil {
		return err
	}

	query := "SELECT " + strings.Join(qcols, ", ") + " FROM " + t +
		" WHERE " + qid + " = " + s.dialect.Placeholder(1)
	args := []any{id}
	s.observe(ctx, query, args)

	if err := s.db.QueryRowContext(ctx, query, args...).Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return s.dialect.MapError(err)
	}
	return nil
}

// List scans every row of table ordered by orderCol, calling each once per row.
func (s *Store) List(ctx context.Context, table, orderCol string, cols []string, page Page, each func(Row) error) error {
	t, qorder, qcols, err := quoteQuery(table, orderCol, cols)
	if err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString("SELECT " + strings.Join(qcols, ", ") + " FROM " + t + " ORDER BY " + qorder)
	var args []any
	if page.Limit > 0 {
		args = append(args, page.Limit)
		b.WriteString(" LIMIT " + s.dialect.Placeholder(len(args)))
	}
	if page.Offset > 0 {
		if page.Limit <= 0 {
			// sqlite requires LIMIT before OFFSET; -1 is unbounded there and
			// ALL is the postgres equivalent.
			if s.dialect.Name() == "sqlite" {
				b.WriteString(" LIMIT -1")
			} else {
				b.WriteString(" LIMIT ALL")
			}
		}
		args = append(args, page.Offset)
		b.WriteString(" OFFSET " + s.dialect.Placeholder(len(args)))
	}
	query := b.String()
	s.observe(ctx, query, args)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return s.dialect.MapError(err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := each(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

// Insert writes one row.
func (s *Store) Insert(ctx context.Context, table string, cols []string, vals []any) error {
	query, err := s.insertQuery(table, cols, vals)
	if err != nil {
		return err
	}
	_, err = s.Exec(ctx, query, vals...)
	return err
}

// InsertReturning writes one row and scans the stored value of returnCol,
// typically a database-assigned key, into dest. Both dialects support
// RETURNING (sqlite since 3.35).
func (s *Store) InsertReturning(ctx context.Context, table string, cols []string, vals []any, returnCol string, dest any) error {
	query, err := s.insertQuery(table, cols, vals)
	if err != nil {
		return err
	}
	qret, err := QuoteIdent(returnCol)
	if err != nil {
		return err
	}
	query += " RETURNING " + qret
	s.observe(ctx, query, vals)

	if err := s.db.QueryRowContext(ctx, query, vals...).Scan(dest); err != nil {
		return s.dialect.MapError(err)
	}
	return nil
}

func (s *Store) insertQuery(table string, cols []string, vals []any) (string, error) {
	if len(cols) != len(vals) {
		return "", ErrColumnMismatch
	}
	t, err := QuoteIdent(table)
	if err != nil {
		return "", err
	}
	if len(cols) == 0 {
		return "INSERT INTO " + t + " DEFAULT VALUES", nil
	}
	qcols, err := quoteAll(cols)
	if err != nil {
		return "", err
	}

	ph := make([]string, len(vals))
	for i := range vals {
		ph[i] = s.dialect.Placeholder(i + 1)
	}
	return "INSERT INTO " + t + " (" + strings.Join(qcols, ", ") + ") VALUES (" + strings.Join(ph, ", ") + ")", nil
}

// Update overwrites cols of the row whose idCol equals id.
// Returns ErrNotFound when no row matches.
func (s *Store) Update(ctx context.Context, table, idCol string, id any, cols []string, vals []any) error {
	if len(cols) != len(vals) {
		return ErrColumnMismatch
	}
	t, qid, qcols, err := quoteQuery(table, idCol, cols)
	if err != nil {
		return err
	}

	set := make([]string, len(qcols))
	args := make([]any, 0, len(vals)+1)
	for i, c := range qcols {
		args = append(args, vals[i])
		set[i] = c + " = " + s.dialect.Placeholder(len(args))
	}
	args = append(args, id)
	query := "UPDATE " + t + " SET " + strings.Join(set, ", ") + " WHERE " + qid + " = " + s.dialect.Placeholder(len(args))

	n, err := s.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the row whose idCol equals id.
// Returns ErrNotFound when no row matches.
func (s *Store) Delete(ctx context.Context, table, idCol string, id any) error {
	t, err := QuoteIdent(table)
	if err != nil {
		return err
	}
	qid, err := QuoteIdent(idCol)
	if err != nil {
		return err
	}

	n, err := s.Exec(ctx, "DELETE FROM "+t+" WHERE "+qid+" = "+s.dialect.Placeholder(1), id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of rows in table.
func (s *Store) Count(ctx context.Context, table string) (int, error) {
	t, err := QuoteIdent(table)
	if err != nil {
		return 0, err
	}
	query := "SELECT COUNT(*) FROM " + t
	s.observe(ctx, query, nil)

	var n int64
	if err := s.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, s.dialect.MapError(err)
	}
	return int(n), nil
}

func (s *Store) observe(ctx context.Context, query string, args []any) {
	for _, h := range s.hooks {
		h(ctx, query, args)
	}
}

func quoteQuery(table, key string, cols []string) (string, string, []string, error) {
	t, err := QuoteIdent(table)
	if err != nil {
		return "", "", nil, err
	}
	k, err := QuoteIdent(key)
	if err != nil {
		return "", "", nil, err
	}
	qcols, err := quoteAll(cols)
	if err != nil {
		return "", "", nil, err
	}
	return t, k, qcols, nil
}
