package store

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
)

const pgUniqueViolation = "23505"

// PostgresDialect targets PostgreSQL through pgx.
type PostgresDialect struct{}

func (PostgresDialect) Name() string       { return "postgres" }
func (PostgresDialect) DriverName() string { return "pgx" }

func (PostgresDialect) Placeholder(index int) string { return "$" + strconv.Itoa(index) }

func (PostgresDialect) MapError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return fmt.Errorf("%w: %w", ErrUniqueViolation, err)
	}
	return err
}
