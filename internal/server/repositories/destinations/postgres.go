package destinations

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/travelwishlist/internal/dbx"
	"github.com/dmitrijs2005/travelwishlist/internal/server/models"
)

// PostgresRepository implements destination storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// List returns the user's destinations ordered by id.
func (r *PostgresRepository) List(ctx context.Context, userID string) ([]*models.Destination, error) {
	query := `
		SELECT id, user_id, city, country, notes, visited, latitude, longitude
		FROM destinations
		WHERE user_id = $1
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select destinations: %w", err)
	}
	return scanAll(rows)
}

// Get returns common.ErrorNotFound if the destination is absent or owned by someone else.
func (r *PostgresRepository) Get(ctx context.Context, userID string, id int64) (*models.Destination, error) {
	query := `
		SELECT id, user_id, city, country, notes, visited, latitude, longitude
		FROM destinations
		WHERE id = $1 AND user_id = $2
	`
	return scanOne(r.db.QueryRowContext(ctx, query, id, userID))
}

func (r *PostgresRepository) Create(ctx context.Context, d *models.Destination) error {
	query := `
		INSERT INTO destinations (user_id, city, country, notes, visited, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		d.UserID, d.City, d.Country, d.Notes, d.Visited, d.Latitude, d.Longitude).Scan(&d.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, d *models.Destination) error {
	query := `
		UPDATE destinations
		SET city = $1, country = $2, notes = $3, visited = $4, latitude = $5, longitude = $6
		WHERE id = $7 AND user_id = $8
	`
	res, err := r.db.ExecContext(ctx, query,
		d.City, d.Country, d.Notes, d.Visited, d.Latitude, d.Longitude, d.ID, d.UserID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireOneAffected(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, userID string, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM destinations WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireOneAffected(res)
}

// Stats counts all and visited destinations in one pass.
func (r *PostgresRepository) Stats(ctx context.Context, userID string) (*models.DestinationStats, error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM(CASE WHEN visited THEN 1 ELSE 0 END), 0)
		FROM destinations
		WHERE user_id = $1
	`
	return scanStats(r.db.QueryRowContext(ctx, query, userID))
}
