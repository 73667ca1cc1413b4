package models

import "time"

// RefreshToken is a persisted, single-use credential exchanged for a new
// token pair.
type RefreshToken struct {
	ID        int64
	Token     string
	UserID    string
	ExpiresAt time.Time
	IsRevoked bool
	CreatedAt time.Time
}

// IsUsable reports whether the token can still be redeemed at now.
func (t *RefreshToken) IsUsable(now time.Time) bool {
	return !t.IsRevoked && t.ExpiresAt.After(now)
}
