// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is an account that owns refresh tokens and destinations.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
