package refreshtokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/travelwishlist/internal/common"
	"github.com/dmitrijs2005/travelwishlist/internal/dbx"
	"github.com/dmitrijs2005/travelwishlist/internal/server/models"
)

// SQLiteRepository implements Repository for modernc.org/sqlite. All times
// are stored in UTC so that textual comparison orders them correctly.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Issue(ctx context.Context, userID string, expiresAt time.Time) (*models.RefreshToken, error) {
	query := `
		INSERT INTO refresh_tokens (token, user_id, expires_at, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (token) DO NOTHING
	`
	for range maxIssueAttempts {
		token, err := generateToken()
		if err != nil {
			return nil, fmt.Errorf("token generation error: %w", err)
		}

		rt := &models.RefreshToken{
			Token:     token,
			UserID:    userID,
			ExpiresAt: expiresAt.UTC(),
			CreatedAt: time.Now().UTC(),
		}

		res, err := r.db.ExecContext(ctx, query, rt.Token, rt.UserID, rt.ExpiresAt, rt.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if n == 0 {
			continue
		}
		if rt.ID, err = res.LastInsertId(); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		return rt, nil
	}
	return nil, ErrTokenCollision
}

func (r *SQLiteRepository) FindByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	query := `
		SELECT id, token, user_id, expires_at, is_revoked, created_at
		FROM refresh_tokens
		WHERE token = ?
	`
	rt := &models.RefreshToken{}
	err := r.db.QueryRowContext(ctx, query, token).
		Scan(&rt.ID, &rt.Token, &rt.UserID, &rt.ExpiresAt, &rt.IsRevoked, &rt.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rt, nil
}

// Consume flips the flag with a guarded update and then reads the row back
// through the same handle.
func (r *SQLiteRepository) Consume(ctx context.Context, token string, now time.Time) (*models.RefreshToken, error) {
	query := `
		UPDATE refresh_tokens
		SET is_revoked = TRUE
		WHERE token = ? AND is_revoked = FALSE AND expires_at > ?
	`
	res, err := r.db.ExecContext(ctx, query, token, now.UTC())
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return nil, common.ErrInvalidToken
	}

	return r.FindByToken(ctx, token)
}

func (r *SQLiteRepository) Revoke(ctx context.Context, token string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE refresh_tokens SET is_revoked = TRUE WHERE token = ?`, token)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireAffected(res)
}

func (r *SQLiteRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE expires_at < ?`, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
