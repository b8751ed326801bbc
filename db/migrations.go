package db

import (
	"database/sql"
	"embed"
	"log"

	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate brings the posts schema up to date. dialect is a goose dialect
// name ("postgres" in production, "sqlite3" in tests).
func Migrate(conn *sql.DB, dialect string) error {
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect(dialect); err != nil {
		return errors.Wrap(err, "failed to set dialect")
	}

	if err := goose.Up(conn, "migrations"); err != nil {
		return errors.Wrap(err, "failed to run migrations")
	}

	log.Println("database migration check complete. All migrations are up to date")
	return nil
}
