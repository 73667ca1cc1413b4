// Package refreshtokens declares the server-side repository contract for
// refresh tokens and provides PostgreSQL and SQLite implementations.
//
// A token is usable while it is unrevoked and unexpired. Consume flips the
// revoked flag with a single conditional update, so of two concurrent
// consumers of the same token at most one succeeds.
package refreshtokens

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/travelwishlist/internal/common"
	"github.com/dmitrijs2005/travelwishlist/internal/server/models"
)

// TokenBytes is the entropy of a generated token.
const TokenBytes = 32

const maxIssueAttempts = 3

// ErrTokenCollision is returned when every generated token already existed.
var ErrTokenCollision = errors.New("refresh token collision")

// generateToken is a seam for tests.
var generateToken = func() (string, error) {
	return common.MakeRandToken(TokenBytes)
}

// Repository defines the Refresh Token Store.
type Repository interface {
	// Issue stores a freshly generated token for userID.
	Issue(ctx context.Context, userID string, expiresAt time.Time) (*models.RefreshToken, error)

	// FindByToken returns common.ErrorNotFound when the token is unknown.
	FindByToken(ctx context.Context, token string) (*models.RefreshToken, error)

	// Consume marks a usable token revoked and returns it. Unknown, revoked
	// and expired tokens all yield common.ErrInvalidToken.
	Consume(ctx context.Context, token string, now time.Time) (*models.RefreshToken, error)

	// Revoke marks the token revoked. Already revoked or expired tokens are
	// revoked again without error; unknown tokens yield common.ErrorNotFound.
	Revoke(ctx context.Context, token string) error

	// PurgeExpired deletes tokens that expired before now and reports how many.
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}
