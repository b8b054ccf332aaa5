// Package store is the storage collaborator behind generated entity handlers.
//
// A [Store] wraps a database/sql handle and a [Dialect]. Two dialects are
// built in: "postgres" (pgx through its database/sql adapter) and "sqlite"
// (modernc.org/sqlite, pure Go). The store only issues single-row
// parameterized statements keyed by an identifier column, plus a paged list
// query; it knows nothing about entity types.
//
// Open a store from a driver name and DSN:
//
//	s, err := store.Open(ctx, "sqlite", "file:cms.db")
//	if err != nil {
//		return err
//	}
//	defer s.Close()
//
// or share an existing pgx pool:
//
//	s := store.FromPool(pool)
//
// Driver errors are mapped by the dialect: unique constraint violations wrap
// [ErrUniqueViolation], missing rows return [ErrNotFound].
package store
