package internal

import (
	"database/sql"
	"database/sql/driver"
	"encoding"
	"fmt"
)

// Column is the read capability every entity field exposes to generic code.
// It never fails.
type Column interface {
	fmt.Stringer
	// Raw returns the underlying Go value (string, int64, time.Time, ...).
	Raw() any
}

// fieldValue is what a Field's Ref must return: a pointer into the entity
// that can also be parsed from text and moved to and from storage.
type fieldValue interface {
	Column
	sql.Scanner
	driver.Valuer
	encoding.TextUnmarshaler
}

// inputTyper is optionally implemented by columns to pick a form widget.
type inputTyper interface {
	InputType() string
}

// zeroer reports whether a column holds its zero value.
type zeroer interface {
	IsZero() bool
}

// generator is implemented by identifier columns that can mint new values.
type generator interface {
	zeroer
	Generate()
}

func inputType(c Column) string {
	if it, ok := c.(inputTyper); ok {
		return it.InputType()
	}
	return "text"
}

func isFile(c Column) bool { return inputType(c) == "file" }
