// Package db provides database bootstrap helpers for the cms server.
//
// It covers what happens around a [github.com/dmitrymomot/cms/pkg/store.Store]
// rather than inside it: opening a PostgreSQL pool with retries, running
// [github.com/pressly/goose/v3] migrations for either supported dialect,
// health checks and shutdown hooks.
//
// # Connecting
//
//	pool, err := db.Connect(ctx, db.DefaultConfig(os.Getenv("CMS_DATABASE_URL")))
//	if err != nil {
//		return err
//	}
//	s := store.FromPool(pool)
//
// # Migrations
//
//	//go:embed migrations/*.sql
//	var migrations embed.FS
//
//	sub, _ := fs.Sub(migrations, "migrations")
//	err := db.Migrate(ctx, s.DB(), s.Dialect().Name(), sub, "cms_migrations", logger)
//
// # Health checks
//
// [Healthcheck] wraps anything with a Ping(ctx) method:
//
//	app, err := cms.New(
//		cms.WithHealthChecks(health.Checks{"db": db.Healthcheck(s)}),
//	)
//
// # Errors
//
//   - [ErrFailedToParseDBConfig] - invalid connection string
//   - [ErrFailedToOpenDBConnection] - connection failed after all retries
//   - [ErrHealthcheckFailed] - ping failed
//   - [ErrSetDialect] - unsupported migration dialect
//   - [ErrApplyMigrations] - a migration failed
//
// Errors are joined with the underlying cause via [errors.Join].
package db
