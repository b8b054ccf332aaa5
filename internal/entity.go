package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/dmitrymomot/cms/pkg/slug"
	"github.com/dmitrymomot/cms/pkg/store"
)

// Field describes one column of entity type T.
// Ref must return a pointer to the field inside the given instance, and the
// pointer must implement sql.Scanner, driver.Valuer and
// encoding.TextUnmarshaler besides Column. The stock types in pkg/column do.
type Field[T any] struct {
	Name  string
	Label string
	Ref   func(*T) Column
}

func (f Field[T]) label() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}

func (f Field[T]) value(e *T) fieldValue {
	// Checked by Schema.Validate.
	return f.Ref(e).(fieldValue)
}

// Schema declares an entity type: its names, storage table, identifier and
// ordered data columns.
//
//	var Articles = cms.Schema[Article]{
//		Name:       "Article",
//		NamePlural: "Articles",
//		ID:         cms.Field[Article]{Name: "id", Ref: func(a *Article) cms.Column { return &a.ID }},
//		Columns: []cms.Field[Article]{
//			{Name: "title", Ref: func(a *Article) cms.Column { return &a.Title }},
//			{Name: "body", Ref: func(a *Article) cms.Column { return &a.Body }},
//		},
//	}
type Schema[T any] struct {
	Name       string
	NamePlural string
	// Table defaults to the plural slug with underscores. Names that slug
	// to letters outside ASCII need an explicit Table.
	Table   string
	ID      Field[T]
	Columns []Field[T]
}

// Validate checks names, identifiers and that every Ref returns a usable
// pointer. Entity and App call it during registration.
func (s *Schema[T]) Validate() error {
	if strings.TrimSpace(s.Name) == "" || strings.TrimSpace(s.NamePlural) == "" {
		return fmt.Errorf("%w: name and plural name are required", ErrInvalidSchema)
	}
	if slug.Make(s.Name) == "" || slug.Make(s.NamePlural) == "" {
		return fmt.Errorf("%w: %q/%q produce empty slugs", ErrInvalidSchema, s.Name, s.NamePlural)
	}
	if _, err := store.QuoteIdent(s.TableName()); err != nil {
		return fmt.Errorf("%w: table: %w", ErrInvalidSchema, err)
	}

	var sample T
	seen := make(map[string]struct{}, len(s.Columns)+1)
	for i, f := range append([]Field[T]{s.ID}, s.Columns...) {
		what := "id"
		if i > 0 {
			what = fmt.Sprintf("column %d", i-1)
		}
		if f.Ref == nil {
			return fmt.Errorf("%w: %s %q has no Ref", ErrInvalidSchema, what, f.Name)
		}
		if _, err := store.QuoteIdent(f.Name); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidSchema, what, err)
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("%w: duplicate column %q", ErrInvalidSchema, f.Name)
		}
		seen[f.Name] = struct{}{}

		v := f.Ref(&sample)
		if _, ok := v.(fieldValue); !ok {
			return fmt.Errorf("%w: %s %q: %T must implement sql.Scanner, driver.Valuer and encoding.TextUnmarshaler",
				ErrInvalidSchema, what, f.Name, v)
		}
		if rv := reflect.ValueOf(v); rv.Kind() != reflect.Pointer || rv.IsNil() {
			return fmt.Errorf("%w: %s %q: Ref must return a non-nil pointer into the entity", ErrInvalidSchema, what, f.Name)
		}
	}
	return nil
}

// Slug is the path segment used for single-entity routes.
func (s *Schema[T]) Slug() string { return slug.Path(s.Name) }

// SlugPlural is the path segment used for collection routes.
func (s *Schema[T]) SlugPlural() string { return slug.Path(s.NamePlural) }

// TableName returns Table or the default derived from the plural name.
func (s *Schema[T]) TableName() string {
	if s.Table != "" {
		return s.Table
	}
	return strings.ReplaceAll(slug.Make(s.NamePlural), "-", "_")
}

// ColumnNames returns the data column names in declaration order.
// The identifier is not included.
func (s *Schema[T]) ColumnNames() []string {
	names := make([]string, len(s.Columns))
	for i, f := range s.Columns {
		names[i] = f.Name
	}
	return names
}

// ColumnValues returns the data column values of e, index-aligned with
// ColumnNames.
func (s *Schema[T]) ColumnValues(e *T) []Column {
	values := make([]Column, len(s.Columns))
	for i, f := range s.Columns {
		values[i] = f.Ref(e)
	}
	return values
}

// IDOf returns the identifier column of e.
func (s *Schema[T]) IDOf(e *T) Column { return s.ID.Ref(e) }

// SetID parses raw into e's identifier.
func (s *Schema[T]) SetID(e *T, raw string) error {
	if err := s.ID.value(e).UnmarshalText([]byte(raw)); err != nil {
		return errors.Join(ErrInvalidID, err)
	}
	return nil
}

// Record maps every column name, identifier included, to its raw value.
func (s *Schema[T]) Record(e *T) map[string]any {
	rec := make(map[string]any, len(s.Columns)+1)
	rec[s.ID.Name] = s.ID.Ref(e).Raw()
	for _, f := range s.Columns {
		rec[f.Name] = f.Ref(e).Raw()
	}
	return rec
}

// parseID returns a standalone identifier value for raw.
func (s *Schema[T]) parseID(raw string) (fieldValue, error) {
	var tmp T
	if err := s.SetID(&tmp, raw); err != nil {
		return nil, err
	}
	return s.ID.value(&tmp), nil
}

// ensureID mints an identifier when the column supports it and e has none.
func (s *Schema[T]) ensureID(e *T) {
	if g, ok := s.ID.Ref(e).(generator); ok && g.IsZero() {
		g.Generate()
	}
}

// insert writes e as a new row. A zero identifier the column cannot mint
// is left out and read back once the database has assigned it.
func (s *Schema[T]) insert(ctx context.Context, st *store.Store, e *T) error {
	s.ensureID(e)
	if z, ok := s.ID.Ref(e).(zeroer); ok && z.IsZero() {
		return st.InsertReturning(ctx, s.TableName(), s.ColumnNames(), s.dataValues(e), s.ID.Name, s.ID.value(e))
	}
	return st.Insert(ctx, s.TableName(), s.allNames(), s.allValues(e))
}

func (s *Schema[T]) allNames() []string {
	return append([]string{s.ID.Name}, s.ColumnNames()...)
}

func (s *Schema[T]) allValues(e *T) []any {
	out := make([]any, 0, len(s.Columns)+1)
	out = append(out, s.ID.value(e))
	for _, f := range s.Columns {
		out = append(out, f.value(e))
	}
	return out
}

func (s *Schema[T]) dataValues(e *T) []any {
	out := make([]any, len(s.Columns))
	for i, f := range s.Columns {
		out[i] = f.value(e)
	}
	return out
}

// MarshalEntity encodes e as a JSON object: the identifier first, then the
// columns in declaration order.
func (s *Schema[T]) MarshalEntity(e *T) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range append([]Field[T]{s.ID}, s.Columns...) {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, _ := json.Marshal(f.Name)
		val, err := json.Marshal(f.Ref(e))
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", f.Name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalEntity decodes a JSON object into e. Only the keys present are
// written, so e may be pre-filled. Unknown keys are rejected.
func (s *Schema[T]) UnmarshalEntity(data []byte, e *T) error {
	if trimmed := bytes.TrimSpace(data); len(trimmed) == 0 || trimmed[0] != '{' {
		return fmt.Errorf("%w: expected a JSON object", ErrInvalidPayload)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Join(ErrInvalidPayload, err)
	}

	fields := make(map[string]Field[T], len(s.Columns)+1)
	for _, f := range append([]Field[T]{s.ID}, s.Columns...) {
		fields[f.Name] = f
	}
	for key := range raw {
		if _, ok := fields[key]; !ok {
			return fmt.Errorf("%w: unknown field %q", ErrInvalidPayload, key)
		}
	}
	for key, msg := range raw {
		if err := json.Unmarshal(msg, fields[key].value(e)); err != nil {
			return fmt.Errorf("%w: field %q: %w", ErrInvalidPayload, key, err)
		}
	}
	return nil
}

// BindForm writes submitted form values into the data columns of e.
// Absent fields keep their value, except checkboxes, which browsers omit
// when unchecked. File columns are handled by the UI handlers.
func (s *Schema[T]) BindForm(form url.Values, e *T) error {
	for _, f := range s.Columns {
		v := f.value(e)
		kind := inputType(v)
		if kind == "file" {
			continue
		}
		vals, ok := form[f.Name]
		if !ok {
			if kind != "checkbox" {
				continue
			}
			vals = []string{""}
		}
		raw := ""
		if len(vals) > 0 {
			raw = vals[len(vals)-1]
		}
		if err := v.UnmarshalText([]byte(raw)); err != nil {
			return fmt.Errorf("%w: field %q: %w", ErrInvalidPayload, f.Name, err)
		}
	}
	return nil
}
