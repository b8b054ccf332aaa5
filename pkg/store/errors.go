package store

import "errors"

var (
	ErrNotFound          = errors.New("store: row not found")
	ErrUniqueViolation   = errors.New("store: unique constraint violation")
	ErrUnknownDriver     = errors.New("store: unknown driver")
	ErrInvalidIdentifier = errors.New("store: invalid identifier")
	ErrColumnMismatch    = errors.New("store: column and value counts differ")
	ErrOpen              = errors.New("store: failed to open database")
)
