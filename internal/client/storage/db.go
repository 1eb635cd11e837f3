// Package storage is the persistence mirror: a single local snapshot of the
// cart plus a small set of transient flags and the cached session, stored in
// a sqlite key-value table. It survives restarts and has no logic beyond
// serialize/deserialize and reset-on-corruption.
package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// InitDatabase opens the local sqlite database and applies migrations.
// The caller must blank-import a sqlite driver registered as "sqlite".
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return nil, fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return db, nil
}
