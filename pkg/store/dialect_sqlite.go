package store

import (
	"fmt"
	"strconv"
	"strings"

	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver
)

// SQLiteDialect targets modernc.org/sqlite.
type SQLiteDialect struct{}

func (SQLiteDialect) Name() string       { return "sqlite" }
func (SQLiteDialect) DriverName() string { return "sqlite" }

func (SQLiteDialect) Placeholder(index int) string { return "?" + strconv.Itoa(index) }

func (SQLiteDialect) MapError(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("%w: %w", ErrUniqueViolation, err)
	}
	return err
}
