package internal

import (
	"fmt"
	"slices"
)

// reservedSlugs are path segments owned by the App itself.
var reservedSlugs = []string{"api", "uploads"}

// Registration is an entity type ready to be mounted. Build one with Entity.
type Registration interface {
	Name() string
	NamePlural() string
	Slugs() (single, plural string)
	Routes(env Env) ([]Route, error)
	validate() error
}

type registration[T, R any] struct {
	schema *Schema[T]
	hooks  Hooks[T, R]
}

// Entity pairs a schema with its hooks. Problems with either are reported
// when the App is built.
func Entity[T, R any](schema Schema[T], hooks Hooks[T, R]) Registration {
	return &registration[T, R]{schema: &schema, hooks: hooks}
}

func (r *registration[T, R]) Name() string       { return r.schema.Name }
func (r *registration[T, R]) NamePlural() string { return r.schema.NamePlural }

func (r *registration[T, R]) Slugs() (string, string) {
	return r.schema.Slug(), r.schema.SlugPlural()
}

func (r *registration[T, R]) validate() error {
	if err := r.schema.Validate(); err != nil {
		return fmt.Errorf("entity %q: %w", r.schema.Name, err)
	}
	if _, err := r.hooks.withDefaults(); err != nil {
		return fmt.Errorf("entity %q: %w", r.schema.Name, err)
	}
	return nil
}

func (r *registration[T, R]) Routes(env Env) ([]Route, error) {
	return Routes(r.schema, r.hooks, env)
}

// registry holds validated registrations and the slugs they claim.
type registry struct {
	entries []Registration
	owners  map[string]string
}

func newRegistry() *registry {
	return &registry{owners: make(map[string]string)}
}

// add validates reg and claims its slugs. A slug already claimed by another
// entity, or reserved by the App, is an error, and so is registering the
// same entity name twice. An entity may use the same slug for its singular
// and plural form.
func (r *registry) add(reg Registration) error {
	if err := reg.validate(); err != nil {
		return err
	}
	for _, e := range r.entries {
		if e.Name() == reg.Name() {
			return fmt.Errorf("%w: entity %q registered twice", ErrSlugCollision, reg.Name())
		}
	}
	single, plural := reg.Slugs()
	for _, s := range []string{single, plural} {
		if slices.Contains(reservedSlugs, s) {
			return fmt.Errorf("%w: entity %q uses %q", ErrReservedSlug, reg.Name(), s)
		}
		if owner, ok := r.owners[s]; ok && owner != reg.Name() {
			return fmt.Errorf("%w: %q is used by %q and %q", ErrSlugCollision, s, owner, reg.Name())
		}
	}
	r.owners[single] = reg.Name()
	r.owners[plural] = reg.Name()
	r.entries = append(r.entries, reg)
	return nil
}

// namesPlural returns the plural name of every entry, in registration order.
func (r *registry) namesPlural() []string {
	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.NamePlural()
	}
	return names
}
