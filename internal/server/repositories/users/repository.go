// Package users declares the server-side repository contract for user
// accounts and provides PostgreSQL and SQLite implementations.
package users

import (
	"context"

	"github.com/dmitrijs2005/travelwishlist/internal/server/models"
)

// Repository persists user accounts.
type Repository interface {
	// Create inserts the user. A taken email yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) error
	// GetByEmail returns common.ErrorNotFound when no user has the email.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetByID returns common.ErrorNotFound when the user does not exist.
	GetByID(ctx context.Context, id string) (*models.User, error)
}
