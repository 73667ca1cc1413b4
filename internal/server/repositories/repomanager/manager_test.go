package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/travelwishlist/internal/dbx"
	"github.com/dmitrijs2005/travelwishlist/internal/server/repositories/destinations"
	"github.com/dmitrijs2005/travelwishlist/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/travelwishlist/internal/server/repositories/users"
)

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func TestNew_ByDialect(t *testing.T) {
	pg, err := New(dbx.Postgres)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := pg.(*PostgresRepositoryManager); !ok {
		t.Fatalf("expected postgres manager, got %T", pg)
	}

	lite, err := New(dbx.SQLite)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := lite.(*SQLiteRepositoryManager); !ok {
		t.Fatalf("expected sqlite manager, got %T", lite)
	}

	if _, err := New(dbx.Dialect("oracle")); err == nil {
		t.Fatal("expected error for unknown dialect")
	}
}

func TestFactories_ReturnConcreteRepos(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	pg := NewPostgresRepositoryManager()
	if _, ok := pg.Users(db).(*users.PostgresRepository); !ok {
		t.Fatal("Users() is not postgres")
	}
	if _, ok := pg.RefreshTokens(db).(*refreshtokens.PostgresRepository); !ok {
		t.Fatal("RefreshTokens() is not postgres")
	}
	if _, ok := pg.Destinations(db).(*destinations.PostgresRepository); !ok {
		t.Fatal("Destinations() is not postgres")
	}

	lite := NewSQLiteRepositoryManager()
	if _, ok := lite.Users(db).(*users.SQLiteRepository); !ok {
		t.Fatal("Users() is not sqlite")
	}
	if _, ok := lite.RefreshTokens(db).(*refreshtokens.SQLiteRepository); !ok {
		t.Fatal("RefreshTokens() is not sqlite")
	}
	if _, ok := lite.Destinations(db).(*destinations.SQLiteRepository); !ok {
		t.Fatal("Destinations() is not sqlite")
	}
}

func TestRunMigrations_PassesDialect(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := migrateUp
	defer func() { migrateUp = orig }()

	var got []dbx.Dialect
	migrateUp = func(ctx context.Context, db *sql.DB, d dbx.Dialect) error {
		got = append(got, d)
		return nil
	}

	if err := NewPostgresRepositoryManager().RunMigrations(context.Background(), db); err != nil {
		t.Fatalf("RunMigrations error: %v", err)
	}
	if err := NewSQLiteRepositoryManager().RunMigrations(context.Background(), db); err != nil {
		t.Fatalf("RunMigrations error: %v", err)
	}
	if len(got) != 2 || got[0] != dbx.Postgres || got[1] != dbx.SQLite {
		t.Fatalf("unexpected dialects: %v", got)
	}
}

func TestRunMigrations_Error(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := migrateUp
	migrateUp = func(ctx context.Context, db *sql.DB, d dbx.Dialect) error {
		return errors.New("boom")
	}
	defer func() { migrateUp = orig }()

	if err := NewPostgresRepositoryManager().RunMigrations(context.Background(), db); err == nil || err.Error() != "boom" {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestSQLiteRunMigrations_RealDatabase(t *testing.T) {
	ctx := context.Background()
	db, err := dbx.Open(ctx, dbx.SQLite, ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	if err := NewSQLiteRepositoryManager().RunMigrations(ctx, db); err != nil {
		t.Fatalf("RunMigrations error: %v", err)
	}
	if _, err := db.ExecContext(ctx, `SELECT COUNT(*) FROM refresh_tokens`); err != nil {
		t.Fatalf("refresh_tokens missing: %v", err)
	}
}
