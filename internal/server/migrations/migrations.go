// Package migrations embeds the goose SQL migrations for every supported
// database dialect and applies them. Each dialect lives in a directory
// named after its dbx.Dialect value.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/dmitrijs2005/travelwishlist/internal/dbx"
	"github.com/pressly/goose/v3"
)

//go:embed postgres/*.sql sqlite/*.sql
var Migrations embed.FS

// NewProvider returns a goose provider over the migrations for dialect d.
func NewProvider(db *sql.DB, d dbx.Dialect) (*goose.Provider, error) {
	var gd goose.Dialect
	switch d {
	case dbx.Postgres:
		gd = goose.DialectPostgres
	case dbx.SQLite:
		gd = goose.DialectSQLite3
	default:
		return nil, fmt.Errorf("no migrations for dialect %q", d)
	}

	sub, err := fs.Sub(Migrations, string(d))
	if err != nil {
		return nil, err
	}

	return goose.NewProvider(gd, db, sub)
}

// Up applies all pending migrations.
func Up(ctx context.Context, db *sql.DB, d dbx.Dialect) error {
	p, err := NewProvider(db, d)
	if err != nil {
		return err
	}
	if _, err := p.Up(ctx); err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}
