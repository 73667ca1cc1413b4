// Package repomanager vends dialect-specific repository implementations
// bound to a dbx.DBTX, so services can use the same code with a pool or a
// transaction, and runs the matching schema migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/travelwishlist/internal/dbx"
	"github.com/dmitrijs2005/travelwishlist/internal/server/migrations"
	"github.com/dmitrijs2005/travelwishlist/internal/server/repositories/destinations"
	"github.com/dmitrijs2005/travelwishlist/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/travelwishlist/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Destinations(db dbx.DBTX) destinations.Repository
}

// migrateUp is a seam for testing migrations.Up.
var migrateUp = migrations.Up

// New returns the manager for dialect d.
func New(d dbx.Dialect) (RepositoryManager, error) {
	switch d {
	case dbx.Postgres:
		return NewPostgresRepositoryManager(), nil
	case dbx.SQLite:
		return NewSQLiteRepositoryManager(), nil
	default:
		return nil, fmt.Errorf("unsupported dialect %q", d)
	}
}
