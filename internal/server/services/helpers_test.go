package services

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/travelwishlist/internal/dbx"
	"github.com/dmitrijs2005/travelwishlist/internal/logging"
	"github.com/dmitrijs2005/travelwishlist/internal/server/auth"
	"github.com/dmitrijs2005/travelwishlist/internal/server/credentials"
	"github.com/dmitrijs2005/travelwishlist/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (l nopLogger) With(...any) logging.Logger          { return l }

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

const refreshTTL = 7 * 24 * time.Hour

// newSQLiteStack wires an AuthService and DestinationService to a migrated
// in-memory SQLite database with real credentials and signer.
func newSQLiteStack(t *testing.T) (*AuthService, *DestinationService, *auth.JWTSigner, *sql.DB) {
	t.Helper()
	ctx := context.Background()

	db, err := dbx.Open(ctx, dbx.SQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rm := repomanager.NewSQLiteRepositoryManager()
	require.NoError(t, rm.RunMigrations(ctx, db))

	verifier, err := credentials.NewVerifier(rm.Users(db), bcrypt.MinCost)
	require.NoError(t, err)

	signer, err := auth.NewJWTSigner([]byte(strings.Repeat("s", 32)), "travelwishlist", "travelwishlist", 2*time.Hour)
	require.NoError(t, err)

	return NewAuthService(db, rm, verifier, signer, refreshTTL, nopLogger{}),
		NewDestinationService(db, rm, nopLogger{}),
		signer, db
}
