package destinations

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/travelwishlist/internal/common"
	"github.com/dmitrijs2005/travelwishlist/internal/server/models"
)

type scanner interface {
	Scan(dest ...any) error
}

func scanDestination(s scanner) (*models.Destination, error) {
	var d models.Destination
	if err := s.Scan(&d.ID, &d.UserID, &d.City, &d.Country, &d.Notes, &d.Visited, &d.Latitude, &d.Longitude); err != nil {
		return nil, err
	}
	return &d, nil
}

func scanOne(row *sql.Row) (*models.Destination, error) {
	d, err := scanDestination(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return d, nil
}

func scanAll(rows *sql.Rows) ([]*models.Destination, error) {
	defer rows.Close()

	result := []*models.Destination{}
	for rows.Next() {
		d, err := scanDestination(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func requireOneAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}

func scanStats(row *sql.Row) (*models.DestinationStats, error) {
	var s models.DestinationStats
	if err := row.Scan(&s.Total, &s.Visited); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	s.Wishlist = s.Total - s.Visited
	return &s, nil
}
