package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/travelwishlist/internal/common"
	"github.com/dmitrijs2005/travelwishlist/internal/logging"
	"github.com/dmitrijs2005/travelwishlist/internal/server/models"
	"github.com/dmitrijs2005/travelwishlist/internal/server/repositories/repomanager"
	validation "github.com/go-ozzo/ozzo-validation"
)

// DestinationInput holds the user-editable fields of a destination.
type DestinationInput struct {
	City      string   `json:"city"`
	Country   string   `json:"country"`
	Notes     *string  `json:"notes"`
	Visited   bool     `json:"visited"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// Validate checks required fields and coordinate ranges.
func (in DestinationInput) Validate() error {
	return common.FieldErrors(validation.Errors{
		"city":      validation.Validate(strings.TrimSpace(in.City), validation.Required, validation.Length(1, 200)),
		"country":   validation.Validate(strings.TrimSpace(in.Country), validation.Required, validation.Length(1, 200)),
		"latitude":  validation.Validate(in.Latitude, validation.Min(-90.0), validation.Max(90.0)),
		"longitude": validation.Validate(in.Longitude, validation.Min(-180.0), validation.Max(180.0)),
	})
}

func (in DestinationInput) apply(d *models.Destination) {
	d.City = strings.TrimSpace(in.City)
	d.Country = strings.TrimSpace(in.Country)
	d.Notes = in.Notes
	d.Visited = in.Visited
	d.Latitude = in.Latitude
	d.Longitude = in.Longitude
}

// Export is a rendered download.
type Export struct {
	Filename    string
	ContentType string
	Data        []byte
}

// CSVHeader is the first line of a CSV export.
var CSVHeader = []string{"City", "Country", "Notes", "Visited", "Latitude", "Longitude"}

// DestinationService manages a user's destinations.
type DestinationService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewDestinationService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *DestinationService {
	return &DestinationService{db: db, repomanager: m, logger: logger.With("module", "destinations")}
}

func (s *DestinationService) List(ctx context.Context, userID string) ([]*models.Destination, error) {
	list, err := s.repomanager.Destinations(s.db).List(ctx, userID)
	if err != nil {
		return nil, s.internal(ctx, "list destinations", err)
	}
	return list, nil
}

func (s *DestinationService) Get(ctx context.Context, userID string, id int64) (*models.Destination, error) {
	d, err := s.repomanager.Destinations(s.db).Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, s.internal(ctx, "get destination", err)
	}
	return d, nil
}

func (s *DestinationService) Create(ctx context.Context, userID string, in DestinationInput) (*models.Destination, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	d := &models.Destination{UserID: userID}
	in.apply(d)

	if err := s.repomanager.Destinations(s.db).Create(ctx, d); err != nil {
		return nil, s.internal(ctx, "create destination", err)
	}
	return d, nil
}

// Update replaces every editable field of the destination.
func (s *DestinationService) Update(ctx context.Context, userID string, id int64, in DestinationInput) (*models.Destination, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	d := &models.Destination{ID: id, UserID: userID}
	in.apply(d)

	if err := s.repomanager.Destinations(s.db).Update(ctx, d); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, s.internal(ctx, "update destination", err)
	}
	return d, nil
}

func (s *DestinationService) Delete(ctx context.Context, userID string, id int64) error {
	if err := s.repomanager.Destinations(s.db).Delete(ctx, userID, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return s.internal(ctx, "delete destination", err)
	}
	return nil
}

func (s *DestinationService) Stats(ctx context.Context, userID string) (*models.DestinationStats, error) {
	st, err := s.repomanager.Destinations(s.db).Stats(ctx, userID)
	if err != nil {
		return nil, s.internal(ctx, "destination stats", err)
	}
	return st, nil
}

// Export renders all of the user's destinations as "csv" (default) or "json".
// An empty list yields common.ErrNoDestinations.
func (s *DestinationService) Export(ctx context.Context, userID, format string) (*Export, error) {
	list, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, common.ErrNoDestinations
	}

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		data, err := json.Marshal(list)
		if err != nil {
			return nil, s.internal(ctx, "encode json export", err)
		}
		return &Export{Filename: "travel-wishlist.json", ContentType: "application/json", Data: data}, nil
	case "", "csv":
		data, err := encodeCSV(list)
		if err != nil {
			return nil, s.internal(ctx, "encode csv export", err)
		}
		return &Export{Filename: "travel-wishlist.csv", ContentType: "text/csv", Data: data}, nil
	default:
		return nil, common.ErrUnsupportedFormat
	}
}

func (s *DestinationService) internal(ctx context.Context, op string, err error) error {
	s.logger.Error(ctx, op, "error", err)
	return common.ErrorInternal
}

func encodeCSV(list []*models.Destination) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(CSVHeader); err != nil {
		return nil, err
	}
	for _, d := range list {
		rec := []string{
			d.City,
			d.Country,
			deref(d.Notes),
			strconv.FormatBool(d.Visited),
			formatCoord(d.Latitude),
			formatCoord(d.Longitude),
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatCoord(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
