package main

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/dmitrymomot/cms/pkg/db"
	"github.com/dmitrymomot/cms/pkg/store"
)

//go:embed migrations
var migrations embed.FS

// openStore connects to the configured database. The returned close
// function releases the store and, for postgres, its pool.
func openStore(ctx context.Context, cfg config) (*store.Store, func() error, error) {
	dialect, err := store.NewDialect(cfg.Database.Driver)
	if err != nil {
		return nil, nil, err
	}

	if dialect.Name() == "postgres" {
		pool, err := db.Connect(ctx, cfg.postgres())
		if err != nil {
			return nil, nil, err
		}
		st := store.FromPool(pool)
		return st, func() error {
			defer pool.Close()
			return st.Close()
		}, nil
	}

	st, err := store.Open(ctx, dialect.Name(), cfg.Database.URL)
	if err != nil {
		return nil, nil, err
	}
	return st, st.Close, nil
}

// migrate applies the demo schema for the store's dialect.
func migrate(ctx context.Context, st *store.Store, cfg config, log *slog.Logger) error {
	dialect := st.Dialect().Name()
	sub, err := fs.Sub(migrations, "migrations/"+dialect)
	if err != nil {
		return fmt.Errorf("migrations for %s: %w", dialect, err)
	}
	return db.Migrate(ctx, st.DB(), dialect, sub, cfg.Database.MigrationsTable, log)
}
