package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"

	"github.com/dmitrymomot/cms/pkg/store"
)

const (
	defaultListLimit = 100
	maxListLimit     = 1000
	maxBodyBytes     = 1 << 20
)

type entityHandlers[T, R any] struct {
	schema *Schema[T]
	hooks  Hooks[T, R]
	env    Env
}

func (h *entityHandlers[T, R]) db() *store.Store { return h.env.Context.DB() }

func (h *entityHandlers[T, R]) table() string { return h.schema.TableName() }

// extract builds the request extension. It must run before the body is read.
func (h *entityHandlers[T, R]) extract(c Ctx) (R, error) {
	ext, err := h.hooks.Extract(c.Request(), h.env.Context)
	if err != nil {
		return ext, extractError(err)
	}
	return ext, nil
}

// pathID returns the unescaped {id} segment. chi hands out the escaped form
// when the request path needed escaping.
func pathID(c Ctx) (string, error) {
	raw := c.Param("id")
	if c.Request().URL.RawPath == "" {
		return raw, nil
	}
	id, err := url.PathUnescape(raw)
	if err != nil {
		return "", invalidIDError(errors.Join(ErrInvalidID, err))
	}
	return id, nil
}

// load parses the {id} segment and reads the entity. An unparsable id is
// rejected before storage is touched.
func (h *entityHandlers[T, R]) load(c Ctx) (string, T, error) {
	var e T
	raw, err := pathID(c)
	if err != nil {
		return "", e, err
	}
	id, err := h.schema.parseID(raw)
	if err != nil {
		return "", e, invalidIDError(err)
	}
	if err := h.db().Get(c, h.table(), h.schema.ID.Name, id, h.schema.allNames(), h.schema.allValues(&e)...); err != nil {
		return "", e, storageError(err)
	}
	return raw, e, nil
}

// list reads one page of entities ordered by identifier.
func (h *entityHandlers[T, R]) list(c Ctx) ([]T, error) {
	limit, err := queryInt(c, "limit", defaultListLimit)
	if err != nil {
		return nil, err
	}
	switch {
	case limit == 0:
		limit = defaultListLimit
	case limit > maxListLimit:
		limit = maxListLimit
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		return nil, err
	}

	var out []T
	err = h.db().List(c, h.table(), h.schema.ID.Name, h.schema.allNames(), store.Page{Limit: limit, Offset: offset},
		func(row store.Row) error {
			var e T
			if err := row.Scan(h.schema.allValues(&e)...); err != nil {
				return err
			}
			out = append(out, e)
			return nil
		})
	if err != nil {
		return nil, storageError(err)
	}
	return out, nil
}

// forceID overwrites e's identifier with the one taken from the path.
func (h *entityHandlers[T, R]) forceID(e *T, raw string) error {
	if err := h.schema.SetID(e, raw); err != nil {
		return invalidIDError(err)
	}
	return nil
}

func (h *entityHandlers[T, R]) insert(ctx context.Context, e *T) error {
	if err := h.schema.insert(ctx, h.db(), e); err != nil {
		return storageError(err)
	}
	return nil
}

func (h *entityHandlers[T, R]) update(ctx context.Context, e *T) error {
	id := h.schema.ID.value(e)
	if err := h.db().Update(ctx, h.table(), h.schema.ID.Name, id, h.schema.ColumnNames(), h.schema.dataValues(e)); err != nil {
		return storageError(err)
	}
	return nil
}

// delete removes the stored row and the uploads it references.
func (h *entityHandlers[T, R]) delete(ctx context.Context, stored *T) error {
	id := h.schema.ID.value(stored)
	if err := h.db().Delete(ctx, h.table(), h.schema.ID.Name, id); err != nil {
		return storageError(err)
	}
	h.settleFiles(ctx, stored, nil, nil)
	return nil
}

// fileKeys returns the non-empty upload keys held by e's file columns.
func (h *entityHandlers[T, R]) fileKeys(e *T) []string {
	var keys []string
	for _, f := range h.schema.Columns {
		if col := f.Ref(e); isFile(col) && col.String() != "" {
			keys = append(keys, col.String())
		}
	}
	return keys
}

// checkFiles rejects payloads that point a file column anywhere but the key
// already stored in it. Files only arrive through uploads; an empty value
// clears the column.
func (h *entityHandlers[T, R]) checkFiles(e, stored *T) error {
	for _, f := range h.schema.Columns {
		col := f.Ref(e)
		if !isFile(col) || col.String() == "" {
			continue
		}
		if stored != nil && f.Ref(stored).String() == col.String() {
			continue
		}
		return payloadError(fmt.Errorf("%w: field %q can only be set by uploading a file", ErrInvalidPayload, f.Name))
	}
	return nil
}

// settleFiles deletes the uploads referenced by prev, or uploaded during the
// request, that next no longer references. A nil next drops them all.
// Failures are logged; the row change is already decided.
func (h *entityHandlers[T, R]) settleFiles(ctx context.Context, prev, next *T, uploaded []string) {
	if h.env.Storage == nil {
		return
	}
	done := make(map[string]bool)
	if next != nil {
		for _, key := range h.fileKeys(next) {
			done[key] = true
		}
	}
	stale := slices.Clone(uploaded)
	if prev != nil {
		stale = append(stale, h.fileKeys(prev)...)
	}

	ctx = context.WithoutCancel(ctx)
	for _, key := range stale {
		if done[key] {
			continue
		}
		done[key] = true
		if err := h.env.Storage.Delete(ctx, key); err != nil {
			h.env.Logger.WarnContext(ctx, "failed to delete upload",
				"entity", h.schema.Name, "key", key, "error", err)
		}
	}
}

// readBody reads a bounded request body.
func readBody(c Ctx) ([]byte, error) {
	r := c.Request()
	body, err := io.ReadAll(http.MaxBytesReader(c.Response(), r.Body, maxBodyBytes))
	if err != nil {
		return nil, payloadError(errors.Join(ErrInvalidPayload, err))
	}
	return body, nil
}

func (h *entityHandlers[T, R]) nav() []string {
	return slices.Collect(h.env.Context.NamesPlural())
}
