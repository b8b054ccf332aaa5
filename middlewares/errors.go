package middlewares

import (
	"errors"
	"fmt"
)

// PanicError is a recovered panic. Recover returns it wrapped in a 500
// *internal.HTTPError.
type PanicError struct {
	Value any
	Stack []byte // nil if disabled
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// AsPanicError extracts the PanicError from err's chain.
func AsPanicError(err error) (*PanicError, bool) {
	var pe *PanicError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
