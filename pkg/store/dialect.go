package store

import (
	"fmt"
	"strings"
)

// Dialect abstracts the SQL differences between supported databases.
type Dialect interface {
	// Name returns "postgres" or "sqlite".
	Name() string

	// DriverName returns the database/sql driver name.
	DriverName() string

	// Placeholder returns the parameter placeholder for the 1-based index.
	Placeholder(index int) string

	// MapError wraps driver errors in package sentinels where applicable.
	MapError(err error) error
}

// NewDialect returns the dialect for a driver name.
func NewDialect(driver string) (Dialect, error) {
	switch strings.ToLower(driver) {
	case "postgres", "postgresql", "pgx":
		return PostgresDialect{}, nil
	case "sqlite", "sqlite3":
		return SQLiteDialect{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}

// QuoteIdent validates and double-quotes a table or column name.
// Both dialects accept ANSI quoting; only [A-Za-z0-9_] names are allowed.
func QuoteIdent(name string) (string, error) {
	if !validIdent(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidIdentifier, name)
	}
	return `"` + name + `"`, nil
}

func validIdent(name string) bool {
	if name == "" || len(name) > 63 {
		return false
	}
	for i, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

func quoteAll(names []string) ([]string, error) {
	out := make([]string, len(names))
	for i, n := range names {
		q, err := QuoteIdent(n)
		if err != nil {
			return nil, err
		}
		out[i] = q
	}
	return out, nil
}
