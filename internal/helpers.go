package internal

import "strconv"

// ContextValue returns the request value stored under key, or the zero T.
func ContextValue[T any](c Ctx, key any) T {
	if v, ok := c.Get(key).(T); ok {
		return v
	}
	var zero T
	return zero
}

// queryInt parses a non-negative integer query parameter. An absent
// parameter yields def; anything unparsable or negative is an error.
func queryInt(c Ctx, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, ErrBadRequest("invalid "+name+" parameter", WithError(err))
	}
	if v < 0 {
		return 0, ErrBadRequest("invalid " + name + " parameter")
	}
	return v, nil
}
