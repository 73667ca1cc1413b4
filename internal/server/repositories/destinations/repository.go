// Package destinations stores the travel destinations owned by users.
// Every query is scoped by user id so one user never sees another's rows.
package destinations

import (
	"context"

	"github.com/dmitrijs2005/travelwishlist/internal/server/models"
)

type Repository interface {
	List(ctx context.Context, userID string) ([]*models.Destination, error)
	Get(ctx context.Context, userID string, id int64) (*models.Destination, error)
	// Create inserts d and sets d.ID.
	Create(ctx context.Context, d *models.Destination) error
	// Update replaces the mutable fields of d.ID owned by d.UserID.
	Update(ctx context.Context, d *models.Destination) error
	Delete(ctx context.Context, userID string, id int64) error
	Stats(ctx context.Context, userID string) (*models.DestinationStats, error)
}
