package internal

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrymomot/cms/pkg/store"
)

// Registration errors.
var (
	ErrInvalidSchema = errors.New("cms: invalid entity schema")
	ErrSlugCollision = errors.New("cms: entity slug already registered")
	ErrReservedSlug  = errors.New("cms: entity slug is reserved")
	ErrNoExtractor   = errors.New("cms: hooks need a request extractor")
	ErrNoStore       = errors.New("cms: no store configured")
)

// Request errors. Handlers return them wrapped in *HTTPError.
var (
	ErrExtractFailed  = errors.New("cms: request extension unavailable")
	ErrInvalidID      = errors.New("cms: invalid identifier")
	ErrInvalidPayload = errors.New("cms: invalid payload")
	ErrEntityNotFound = errors.New("cms: entity not found")
	ErrHookRejected   = errors.New("cms: rejected by hook")
	ErrDuplicate      = errors.New("cms: entity conflicts with an existing one")
	ErrStorage        = errors.New("cms: storage failure")
)

// HTTPError carries everything an error handler needs to render a failure.
type HTTPError struct {
	// Err is the underlying cause; logged, never shown.
	Err error

	// Message is shown to the user.
	Message string

	// Title defaults to the status text.
	Title string

	// ErrorCode is a stable machine-readable code for API clients.
	ErrorCode string

	RequestID string

	Code int
}

func (e *HTTPError) Error() string {
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func (e *HTTPError) StatusCode() int {
	return e.Code
}

func (e *HTTPError) StatusText() string {
	if e.Title != "" {
		return e.Title
	}
	return http.StatusText(e.Code)
}

// HTTPErrorOption configures an HTTPError.
type HTTPErrorOption func(*HTTPError)

// NewHTTPError creates an HTTPError with the given status code and message.
func NewHTTPError(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	e := &HTTPError{Code: code, Message: message}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func WithTitle(title string) HTTPErrorOption {
	return func(e *HTTPError) {
		e.Title = title
	}
}

func WithErrorCode(code string) HTTPErrorOption {
	return func(e *HTTPError) {
		e.ErrorCode = code
	}
}

func WithRequestID(id string) HTTPErrorOption {
	return func(e *HTTPError) {
		e.RequestID = id
	}
}

func WithError(err error) HTTPErrorOption {
	return func(e *HTTPError) {
		e.Err = err
	}
}

func ErrBadRequest(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, message, opts...)
}

func ErrUnauthorized(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusUnauthorized, message, opts...)
}

func ErrForbidden(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusForbidden, message, opts...)
}

func ErrNotFound(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusNotFound, message, opts...)
}

func ErrConflict(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusConflict, message, opts...)
}

func ErrUnprocessable(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusUnprocessableEntity, message, opts...)
}

func ErrInternal(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusInternalServerError, message, opts...)
}

// IsHTTPError reports whether err is, or wraps, an *HTTPError.
func IsHTTPError(err error) bool {
	return AsHTTPError(err) != nil
}

// AsHTTPError extracts the *HTTPError from err's chain, or returns nil.
func AsHTTPError(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return nil
}

// extractError wraps a failed request extraction. Extractors may return
// their own *HTTPError (e.g. 403) which is kept.
func extractError(err error) error {
	if he := AsHTTPError(err); he != nil {
		return he
	}
	return ErrUnauthorized(err.Error(), WithError(errors.Join(ErrExtractFailed, err)), WithErrorCode("unauthorized"))
}

// hookError wraps a hook rejection. A hook that gave up because the
// request context ended did not reject anything.
func hookError(err error) error {
	if he := AsHTTPError(err); he != nil {
		return he
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ErrInternal("internal server error", WithError(err), WithErrorCode("internal"))
	}
	return ErrUnprocessable(err.Error(), WithError(errors.Join(ErrHookRejected, err)), WithErrorCode("rejected"))
}

func invalidIDError(err error) error {
	return ErrBadRequest("invalid identifier", WithError(err), WithErrorCode("invalid_id"))
}

func payloadError(err error) error {
	return ErrBadRequest(err.Error(), WithError(err), WithErrorCode("invalid_payload"))
}

// storageError maps store failures: missing rows become 404, unique
// violations 409, everything else 500.
func storageError(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ErrNotFound("entity not found", WithError(errors.Join(ErrEntityNotFound, err)), WithErrorCode("not_found"))
	case errors.Is(err, store.ErrUniqueViolation):
		return ErrConflict("entity already exists", WithError(errors.Join(ErrDuplicate, err)), WithErrorCode("conflict"))
	default:
		return ErrInternal("internal server error", WithError(errors.Join(ErrStorage, err)), WithErrorCode("internal"))
	}
}
