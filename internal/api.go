package internal

import (
	"encoding/json"
	"net/http"
)

func (h *entityHandlers[T, R]) writeEntity(c Ctx, code int, e *T) error {
	body, err := h.schema.MarshalEntity(e)
	if err != nil {
		return ErrInternal("internal server error", WithError(err))
	}
	return c.JSON(code, json.RawMessage(body))
}

func (h *entityHandlers[T, R]) apiList(c Ctx) error {
	items, err := h.list(c)
	if err != nil {
		return err
	}
	out := make([]json.RawMessage, 0, len(items))
	for i := range items {
		body, err := h.schema.MarshalEntity(&items[i])
		if err != nil {
			return ErrInternal("internal server error", WithError(err))
		}
		out = append(out, body)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *entityHandlers[T, R]) apiGet(c Ctx) error {
	_, e, err := h.load(c)
	if err != nil {
		return err
	}
	return h.writeEntity(c, http.StatusOK, &e)
}

func (h *entityHandlers[T, R]) apiCreate(c Ctx) error {
	ext, err := h.extract(c)
	if err != nil {
		return err
	}
	body, err := readBody(c)
	if err != nil {
		return err
	}

	var e T
	if err := h.schema.UnmarshalEntity(body, &e); err != nil {
		return payloadError(err)
	}
	if err := h.checkFiles(&e, nil); err != nil {
		return err
	}
	h.schema.ensureID(&e)

	e, err = h.hooks.OnCreate(c, e, ext)
	if err != nil {
		return hookError(err)
	}
	if err := h.insert(c, &e); err != nil {
		return err
	}
	return h.writeEntity(c, http.StatusCreated, &e)
}

func (h *entityHandlers[T, R]) apiUpdate(c Ctx) error {
	ext, err := h.extract(c)
	if err != nil {
		return err
	}
	id, old, err := h.load(c)
	if err != nil {
		return err
	}
	body, err := readBody(c)
	if err != nil {
		return err
	}

	updated := old
	if err := h.schema.UnmarshalEntity(body, &updated); err != nil {
		return payloadError(err)
	}
	if err := h.checkFiles(&updated, &old); err != nil {
		return err
	}
	if err := h.forceID(&updated, id); err != nil {
		return err
	}

	updated, err = h.hooks.OnUpdate(c, old, updated, ext)
	if err != nil {
		return hookError(err)
	}
	if err := h.forceID(&updated, id); err != nil {
		return err
	}
	if err := h.update(c, &updated); err != nil {
		return err
	}
	h.settleFiles(c, &old, &updated, nil)
	return h.writeEntity(c, http.StatusOK, &updated)
}

func (h *entityHandlers[T, R]) apiDelete(c Ctx) error {
	ext, err := h.extract(c)
	if err != nil {
		return err
	}
	_, stored, err := h.load(c)
	if err != nil {
		return err
	}

	// The stored row is deleted whatever the hook returns.
	if _, err := h.hooks.OnDelete(c, stored, ext); err != nil {
		return hookError(err)
	}
	if err := h.delete(c, &stored); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
