// Package auth signs and verifies the short-lived access tokens handed out
// alongside refresh tokens. Tokens are HS256 JWTs carrying the user id as
// subject plus issuer, audience, issued-at and expiry claims.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/travelwishlist/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// MinKeyLength is the smallest accepted HMAC key, in bytes.
const MinKeyLength = 32

// Claims are the access token claims: the registered set plus the email.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// JWTSigner issues and parses access tokens with a shared symmetric key.
type JWTSigner struct {
	key      []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

// NewJWTSigner validates the key material and returns a signer. A missing or
// short key is reported as a *common.ConfigurationError.
func NewJWTSigner(key []byte, issuer, audience string, ttl time.Duration) (*JWTSigner, error) {
	if len(key) == 0 {
		return nil, &common.ConfigurationError{Field: "secret_key", Reason: "is missing"}
	}
	if len(key) < MinKeyLength {
		return nil, &common.ConfigurationError{Field: "secret_key", Reason: fmt.Sprintf("must be at least %d bytes", MinKeyLength)}
	}
	if issuer == "" {
		return nil, &common.ConfigurationError{Field: "issuer", Reason: "is missing"}
	}
	if audience == "" {
		return nil, &common.ConfigurationError{Field: "audience", Reason: "is missing"}
	}
	if ttl <= 0 {
		return nil, &common.ConfigurationError{Field: "access_token_validity_duration", Reason: "must be positive"}
	}

	k := make([]byte, len(key))
	copy(k, key)

	return &JWTSigner{key: k, issuer: issuer, audience: audience, ttl: ttl, now: time.Now}, nil
}

// IssueAccessToken signs a fresh token for the user. Every call gets a new jti.
func (s *JWTSigner) IssueAccessToken(userID, email string) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Email: email,
	})

	tokenString, err := token.SignedString(s.key)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Parse verifies signature, algorithm, issuer, audience and expiry and
// returns the claims. Any failure yields common.ErrorUnauthorized.
func (s *JWTSigner) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: token expired", common.ErrorUnauthorized)
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorUnauthorized, err)
	}

	if !token.Valid || claims.Subject == "" {
		return nil, common.ErrorUnauthorized
	}

	return claims, nil
}
