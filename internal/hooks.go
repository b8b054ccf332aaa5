package internal

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrymomot/cms/pkg/rules"
)

// RequestExtractor builds the per-request extension R passed to hooks.
// It runs before the request body is read and should only look at headers,
// cookies and the URL. A returned error aborts the request with 401, or with
// the status of a returned *HTTPError.
type RequestExtractor[R any] func(r *http.Request, c Context) (R, error)

// Hooks intercept writes to entity T before they reach storage. Each hook
// may return a modified entity or an error that rejects the write (422, or
// the status of a returned *HTTPError). Nil hooks pass the entity through.
//
// Extract may only be nil when R is NoExt.
type Hooks[T, R any] struct {
	Extract  RequestExtractor[R]
	OnCreate func(ctx context.Context, e T, ext R) (T, error)
	OnUpdate func(ctx context.Context, old, updated T, ext R) (T, error)
	OnDelete func(ctx context.Context, e T, ext R) (T, error)
}

// NoHooks returns hooks that accept every write unchanged.
func NoHooks[T any]() Hooks[T, NoExt] {
	return Hooks[T, NoExt]{}
}

// withDefaults fills nil hooks with identity functions. A nil extractor
// for an R other than NoExt stays nil and is reported as ErrNoExtractor.
func (h Hooks[T, R]) withDefaults() (Hooks[T, R], error) {
	var err error
	if h.Extract == nil {
		var zero R
		if _, ok := any(zero).(NoExt); ok {
			h.Extract = func(*http.Request, Context) (R, error) { return zero, nil }
		} else {
			err = ErrNoExtractor
		}
	}
	if h.OnCreate == nil {
		h.OnCreate = func(_ context.Context, e T, _ R) (T, error) { return e, nil }
	}
	if h.OnUpdate == nil {
		h.OnUpdate = func(_ context.Context, _, updated T, _ R) (T, error) { return updated, nil }
	}
	if h.OnDelete == nil {
		h.OnDelete = func(_ context.Context, e T, _ R) (T, error) { return e, nil }
	}
	return h, err
}

// WithRules returns hooks that also enforce set. Creates and updates run h
// first and check the entity it returns, so rules see what is written.
// Deletes check the stored entity before h runs. A broken rule rejects the
// write (422); a rule that fails to evaluate is a server error (500).
func (h Hooks[T, R]) WithRules(schema *Schema[T], set *rules.Set) Hooks[T, R] {
	if set.Len() == 0 {
		return h
	}
	// A missing extractor stays nil and fails registration later.
	inner, _ := h.withDefaults()

	out := inner
	out.OnCreate = func(ctx context.Context, e T, ext R) (T, error) {
		e, err := inner.OnCreate(ctx, e, ext)
		if err != nil {
			return e, err
		}
		return e, ruleError(set.Check(ctx, rules.Create, schema.Record(&e), nil))
	}
	out.OnUpdate = func(ctx context.Context, old, updated T, ext R) (T, error) {
		updated, err := inner.OnUpdate(ctx, old, updated, ext)
		if err != nil {
			return updated, err
		}
		return updated, ruleError(set.Check(ctx, rules.Update, schema.Record(&updated), schema.Record(&old)))
	}
	out.OnDelete = func(ctx context.Context, e T, ext R) (T, error) {
		if err := ruleError(set.Check(ctx, rules.Delete, schema.Record(&e), schema.Record(&e))); err != nil {
			return e, err
		}
		return inner.OnDelete(ctx, e, ext)
	}
	return out
}

// ruleError keeps violations as hook rejections and turns evaluation
// failures into server errors.
func ruleError(err error) error {
	if err == nil || errors.Is(err, rules.ErrViolated) {
		return err
	}
	return ErrInternal("internal server error", WithError(err), WithErrorCode("internal"))
}
