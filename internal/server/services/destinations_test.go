package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"testing"

	"github.com/dmitrijs2005/travelwishlist/internal/common"
	"github.com/dmitrijs2005/travelwishlist/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

// newDestinationStack registers a user and returns its id.
func newDestinationStack(t *testing.T) (*DestinationService, string, string) {
	t.Helper()
	ctx := context.Background()
	authSvc, destSvc, signer, _ := newSQLiteStack(t)

	p1, err := authSvc.Register(ctx, "alice@example.com", password)
	require.NoError(t, err)
	p2, err := authSvc.Register(ctx, "bob@example.com", password)
	require.NoError(t, err)

	c1, err := signer.Parse(p1.AccessToken)
	require.NoError(t, err)
	c2, err := signer.Parse(p2.AccessToken)
	require.NoError(t, err)

	return destSvc, c1.Subject, c2.Subject
}

func TestDestinations_CRUD(t *testing.T) {
	svc, alice, bob := newDestinationStack(t)
	ctx := context.Background()

	d, err := svc.Create(ctx, alice, DestinationInput{City: " Kyoto ", Country: "Japan", Latitude: ptr(35.0), Longitude: ptr(135.7)})
	require.NoError(t, err)
	assert.Equal(t, "Kyoto", d.City)

	got, err := svc.Get(ctx, alice, d.ID)
	require.NoError(t, err)
	assert.Equal(t, d, got)

	_, err = svc.Get(ctx, bob, d.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	upd, err := svc.Update(ctx, alice, d.ID, DestinationInput{City: "Kyoto", Country: "Japan", Visited: true, Notes: ptr("done")})
	require.NoError(t, err)
	assert.True(t, upd.Visited)
	assert.Nil(t, upd.Latitude)

	_, err = svc.Update(ctx, bob, d.ID, DestinationInput{City: "X", Country: "Y"})
	assert.ErrorIs(t, err, common.ErrorNotFound)

	list, err := svc.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "done", *list[0].Notes)

	assert.ErrorIs(t, svc.Delete(ctx, bob, d.ID), common.ErrorNotFound)
	require.NoError(t, svc.Delete(ctx, alice, d.ID))
	assert.ErrorIs(t, svc.Delete(ctx, alice, d.ID), common.ErrorNotFound)
}

func TestDestinations_Validation(t *testing.T) {
	svc, alice, _ := newDestinationStack(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, alice, DestinationInput{City: "  ", Latitude: ptr(91.0), Longitude: ptr(-181.0)})
	var verr *common.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 4)
	for _, f := range []string{"city", "country", "latitude", "longitude"} {
		assert.Contains(t, verr.Fields, f)
	}

	_, err = svc.Update(ctx, alice, 1, DestinationInput{City: "Lima"})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "country")
}

func TestDestinations_Stats(t *testing.T) {
	svc, alice, bob := newDestinationStack(t)
	ctx := context.Background()

	for _, in := range []DestinationInput{
		{City: "A", Country: "X", Visited: true},
		{City: "B", Country: "X"},
		{City: "C", Country: "X"},
	} {
		_, err := svc.Create(ctx, alice, in)
		require.NoError(t, err)
	}

	st, err := svc.Stats(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, &models.DestinationStats{Total: 3, Visited: 1, Wishlist: 2}, st)

	st, err = svc.Stats(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, &models.DestinationStats{}, st)
}

func TestDestinations_Export(t *testing.T) {
	svc, alice, bob := newDestinationStack(t)
	ctx := context.Background()

	_, err := svc.Export(ctx, alice, "csv")
	assert.ErrorIs(t, err, common.ErrNoDestinations)

	_, err = svc.Create(ctx, alice, DestinationInput{City: "Paris", Country: "France", Notes: ptr("croissants, museums"), Latitude: ptr(48.8566), Longitude: ptr(2.3522)})
	require.NoError(t, err)
	_, err = svc.Create(ctx, alice, DestinationInput{City: "Lima", Country: "Peru", Visited: true})
	require.NoError(t, err)

	t.Run("csv default", func(t *testing.T) {
		exp, err := svc.Export(ctx, alice, "")
		require.NoError(t, err)
		assert.Equal(t, "travel-wishlist.csv", exp.Filename)
		assert.Equal(t, "text/csv", exp.ContentType)

		records, err := csv.NewReader(bytes.NewReader(exp.Data)).ReadAll()
		require.NoError(t, err)
		assert.Equal(t, [][]string{
			CSVHeader,
			{"Paris", "France", "croissants, museums", "false", "48.8566", "2.3522"},
			{"Lima", "Peru", "", "true", "", ""},
		}, records)
	})

	t.Run("json", func(t *testing.T) {
		exp, err := svc.Export(ctx, alice, "JSON")
		require.NoError(t, err)
		assert.Equal(t, "travel-wishlist.json", exp.Filename)
		assert.Equal(t, "application/json", exp.ContentType)

		var got []map[string]any
		require.NoError(t, json.Unmarshal(exp.Data, &got))
		require.Len(t, got, 2)
		assert.Equal(t, "Paris", got[0]["city"])
		assert.NotContains(t, got[0], "UserID")
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := svc.Export(ctx, alice, "xml")
		assert.ErrorIs(t, err, common.ErrUnsupportedFormat)
	})

	t.Run("other user has nothing", func(t *testing.T) {
		_, err := svc.Export(ctx, bob, "json")
		assert.ErrorIs(t, err, common.ErrNoDestinations)
	})
}
