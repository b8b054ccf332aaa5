package internal

import (
	"errors"
	"fmt"
	"iter"
	"slices"

	"github.com/dmitrymomot/cms/pkg/store"
)

// Context is the application-wide state every generated handler receives.
// Implementations must be safe for concurrent reads; nothing in it changes
// after the App is built.
type Context interface {
	// DB returns the shared storage handle.
	DB() *store.Store
	// NamesPlural yields the plural name of every registered entity, sorted.
	NamesPlural() iter.Seq[string]
	// UploadsDir is where uploaded files live on disk, or "" when uploads go
	// elsewhere.
	UploadsDir() string
	// Ext returns the application extension. Use ExtAs or Project for a
	// typed view.
	Ext() any
}

// NoExt is the extension of applications without one.
type NoExt struct{}

// DefaultContext is the stock Context, parameterized by the extension type.
type DefaultContext[X any] struct {
	db         *store.Store
	names      []string
	uploadsDir string
	ext        X
}

// NewContext builds a DefaultContext. names is copied, sorted and
// de-duplicated.
func NewContext[X any](db *store.Store, names []string, uploadsDir string, ext X) *DefaultContext[X] {
	sorted := slices.Clone(names)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	return &DefaultContext[X]{
		db:         db,
		names:      slices.Clip(sorted),
		uploadsDir: uploadsDir,
		ext:        ext,
	}
}

func (c *DefaultContext[X]) DB() *store.Store { return c.db }

func (c *DefaultContext[X]) NamesPlural() iter.Seq[string] { return slices.Values(c.names) }

func (c *DefaultContext[X]) UploadsDir() string { return c.uploadsDir }

func (c *DefaultContext[X]) Ext() any { return c.ext }

// Extension returns the typed extension.
func (c *DefaultContext[X]) Extension() X { return c.ext }

// Clone returns a shallow copy sharing the store, names and extension.
func (c *DefaultContext[X]) Clone() *DefaultContext[X] {
	cp := *c
	return &cp
}

// ErrExtType is returned when the application extension is not of the
// requested type.
var ErrExtType = errors.New("cms: application extension has a different type")

// ExtAs returns the application extension as X.
func ExtAs[X any](c Context) (X, error) {
	if x, ok := c.Ext().(X); ok {
		return x, nil
	}
	var zero X
	if _, ok := any(zero).(NoExt); ok {
		return zero, nil
	}
	return zero, fmt.Errorf("%w: have %T, want %T", ErrExtType, c.Ext(), zero)
}

// Project derives the piece of the extension a handler or extractor needs.
func Project[X, Y any](c Context, fn func(X) Y) (Y, error) {
	x, err := ExtAs[X](c)
	if err != nil {
		var zero Y
		return zero, err
	}
	return fn(x), nil
}
