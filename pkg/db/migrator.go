package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"

	"github.com/pressly/goose/v3"
)

// goose keeps its configuration in package globals.
var gooseMu sync.Mutex

// Migrate applies every pending migration found at the root of migrations.
// dialect is a store dialect name: "postgres" or "sqlite".
func Migrate(ctx context.Context, db *sql.DB, dialect string, migrations fs.FS, table string, log *slog.Logger) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations)
	goose.SetLogger(&gooseLogger{log: log})
	goose.SetTableName(table)

	if err := goose.SetDialect(gooseDialect(dialect)); err != nil {
		return errors.Join(ErrSetDialect, err)
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return errors.Join(ErrApplyMigrations, err)
	}

	return nil
}

func gooseDialect(storeDialect string) string {
	if storeDialect == "sqlite" {
		return "sqlite3"
	}
	return "postgres"
}

type gooseLogger struct {
	log *slog.Logger
}

func (g *gooseLogger) Printf(format string, args ...any) {
	g.log.Info(fmt.Sprintf(format, args...))
}

// Fatalf only logs; goose returns the error to the caller as well.
func (g *gooseLogger) Fatalf(format string, args ...any) {
	g.log.Error(fmt.Sprintf(format, args...))
}
