package destinations

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/travelwishlist/internal/dbx"
	"github.com/dmitrijs2005/travelwishlist/internal/server/models"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) List(ctx context.Context, userID string) ([]*models.Destination, error) {
	query := `
		SELECT id, user_id, city, country, notes, visited, latitude, longitude
		FROM destinations
		WHERE user_id = ?
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select destinations: %w", err)
	}
	return scanAll(rows)
}

func (r *SQLiteRepository) Get(ctx context.Context, userID string, id int64) (*models.Destination, error) {
	query := `
		SELECT id, user_id, city, country, notes, visited, latitude, longitude
		FROM destinations
		WHERE id = ? AND user_id = ?
	`
	return scanOne(r.db.QueryRowContext(ctx, query, id, userID))
}

func (r *SQLiteRepository) Create(ctx context.Context, d *models.Destination) error {
	query := `
		INSERT INTO destinations (user_id, city, country, notes, visited, latitude, longitude)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	res, err := r.db.ExecContext(ctx, query,
		d.UserID, d.City, d.Country, d.Notes, d.Visited, d.Latitude, d.Longitude)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if d.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Update(ctx context.Context, d *models.Destination) error {
	query := `
		UPDATE destinations
		SET city = ?, country = ?, notes = ?, visited = ?, latitude = ?, longitude = ?
		WHERE id = ? AND user_id = ?
	`
	res, err := r.db.ExecContext(ctx, query,
		d.City, d.Country, d.Notes, d.Visited, d.Latitude, d.Longitude, d.ID, d.UserID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireOneAffected(res)
}

func (r *SQLiteRepository) Delete(ctx context.Context, userID string, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM destinations WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireOneAffected(res)
}

func (r *SQLiteRepository) Stats(ctx context.Context, userID string) (*models.DestinationStats, error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM(CASE WHEN visited THEN 1 ELSE 0 END), 0)
		FROM destinations
		WHERE user_id = ?
	`
	return scanStats(r.db.QueryRowContext(ctx, query, userID))
}
