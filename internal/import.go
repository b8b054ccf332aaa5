package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrymomot/cms/pkg/store"
)

// Import inserts each JSON object as a new row of schema's table. Hooks do
// not run; identifiers are generated where the id column supports it, and
// zero integer identifiers are assigned by the database.
// Import stops at the first failure and reports how many rows it inserted.
func Import[T any](ctx context.Context, st *store.Store, schema *Schema[T], objects []json.RawMessage) (int, error) {
	if err := schema.Validate(); err != nil {
		return 0, err
	}
	for i, obj := range objects {
		var e T
		if err := schema.UnmarshalEntity(obj, &e); err != nil {
			return i, fmt.Errorf("%s %d: %w", schema.Name, i, err)
		}
		if err := schema.insert(ctx, st, &e); err != nil {
			return i, fmt.Errorf("%s %d: %w", schema.Name, i, errors.Join(ErrStorage, err))
		}
	}
	return len(objects), nil
}
