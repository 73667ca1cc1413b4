// Package services contains server-side business logic. This file implements
// AuthService, the token lifecycle manager: it issues access/refresh token
// pairs on registration and login, rotates refresh tokens on use and revokes
// them on request.
package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/travelwishlist/internal/common"
	"github.com/dmitrijs2005/travelwishlist/internal/dbx"
	"github.com/dmitrijs2005/travelwishlist/internal/logging"
	"github.com/dmitrijs2005/travelwishlist/internal/server/models"
	"github.com/dmitrijs2005/travelwishlist/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// TokenSigner mints signed access tokens.
type TokenSigner interface {
	IssueAccessToken(userID, email string) (string, error)
}

// CredentialVerifier creates and authenticates users.
type CredentialVerifier interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
}

// AuthService provides authentication-related operations:
// - Register: create users and mint a pair
// - Login: verify credentials and mint a pair
// - Refresh: consume a refresh token and mint a replacement pair
// - Revoke: invalidate a refresh token
type AuthService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	verifier                     CredentialVerifier
	signer                       TokenSigner
	refreshTokenValidityDuration time.Duration
	logger                       logging.Logger
	now                          func() time.Time
}

// NewAuthService wires the lifecycle manager to its collaborators.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, verifier CredentialVerifier,
	signer TokenSigner, refreshTTL time.Duration, logger logging.Logger) *AuthService {
	return &AuthService{
		db:                           db,
		repomanager:                  m,
		verifier:                     verifier,
		signer:                       signer,
		refreshTokenValidityDuration: refreshTTL,
		logger:                       logger.With("module", "auth"),
		now:                          time.Now,
	}
}

// Register creates the user and returns a fresh pair. Policy violations are
// returned as *common.ValidationError.
func (s *AuthService) Register(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := s.verifier.Register(ctx, email, password)
	if err != nil {
		if errors.Is(err, common.ErrorValidation) {
			return nil, err
		}
		s.logger.Error(ctx, "register failed", "error", err)
		return nil, common.ErrorInternal
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID)
	return s.issuePair(ctx, s.db, user)
}

// Login authenticates and returns a fresh pair. Unknown email and wrong
// password both yield common.ErrorUnauthorized.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := s.verifier.Authenticate(ctx, email, password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			return nil, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "login failed", "error", err)
		return nil, common.ErrorInternal
	}
	return s.issuePair(ctx, s.db, user)
}

// Refresh consumes the presented token and issues a replacement pair in one
// transaction. Unknown, revoked and expired tokens all yield
// common.ErrInvalidToken; the reason is only logged.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, common.ErrInvalidToken
	}

	now := s.now()
	s.purgeExpired(ctx, now)

	var pair *TokenPair
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		tokens := s.repomanager.RefreshTokens(tx)

		rt, err := tokens.Consume(ctx, refreshToken, now)
		if err != nil {
			if errors.Is(err, common.ErrInvalidToken) {
				s.logRefusal(ctx, tx, refreshToken, now)
			}
			return err
		}

		user, err := s.repomanager.Users(tx).GetByID(ctx, rt.UserID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				s.logger.Warn(ctx, "refresh refused", "reason", "owner missing", "token_id", rt.ID)
				return common.ErrInvalidToken
			}
			return err
		}

		pair, err = s.issuePair(ctx, tx, user)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrInvalidToken) {
			return nil, common.ErrInvalidToken
		}
		if !errors.Is(err, common.ErrorInternal) {
			s.logger.Error(ctx, "refresh failed", "error", err)
		}
		return nil, common.ErrorInternal
	}
	return pair, nil
}

// Revoke marks the token revoked. Revoking an already revoked or expired
// token succeeds; an unknown token yields common.ErrorNotFound.
func (s *AuthService) Revoke(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return common.ErrorNotFound
	}

	if err := s.repomanager.RefreshTokens(s.db).Revoke(ctx, refreshToken); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		s.logger.Error(ctx, "revoke failed", "error", err)
		return common.ErrorInternal
	}
	return nil
}

// --- helpers below ---

func (s *AuthService) issuePair(ctx context.Context, db dbx.DBTX, user *models.User) (*TokenPair, error) {
	access, err := s.signer.IssueAccessToken(user.ID, user.Email)
	if err != nil {
		s.logger.Error(ctx, "sign access token", "error", err)
		return nil, common.ErrorInternal
	}

	rt, err := s.repomanager.RefreshTokens(db).Issue(ctx, user.ID, s.now().Add(s.refreshTokenValidityDuration))
	if err != nil {
		s.logger.Error(ctx, "issue refresh token", "error", err)
		return nil, common.ErrorInternal
	}

	return &TokenPair{AccessToken: access, RefreshToken: rt.Token}, nil
}

// purgeExpired is housekeeping; failures never block a refresh.
func (s *AuthService) purgeExpired(ctx context.Context, now time.Time) {
	n, err := s.repomanager.RefreshTokens(s.db).PurgeExpired(ctx, now)
	if err != nil {
		s.logger.Warn(ctx, "purge expired refresh tokens", "error", err)
		return
	}
	if n > 0 {
		s.logger.Debug(ctx, "purged expired refresh tokens", "count", n)
	}
}

func (s *AuthService) logRefusal(ctx context.Context, tx dbx.DBTX, token string, now time.Time) {
	reason := "unknown"
	rt, err := s.repomanager.RefreshTokens(tx).FindByToken(ctx, token)
	switch {
	case err == nil && rt.IsRevoked:
		reason = "revoked"
	case err == nil && !rt.ExpiresAt.After(now):
		reason = "expired"
	case err != nil && !errors.Is(err, common.ErrorNotFound):
		reason = "lookup failed"
	}
	s.logger.Warn(ctx, "refresh refused", "reason", reason)
}
