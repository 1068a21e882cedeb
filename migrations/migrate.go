// Package migrations owns the SQLite schema of the metadata store. Schema
// files are embedded and applied with goose, so a vault created by an older
// build upgrades in place on open.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var embedMigrations embed.FS

// Migrate brings db up to the latest schema version.
func Migrate(db *sql.DB) error {
	if db == nil {
		return errors.New("db is nil")
	}

	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("migration error setting dialect for db: %w", err)
	}

	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	return nil
}
