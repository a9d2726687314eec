package directory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careconnect/careconnect-api/pkg/logging"
)

func newSyncedService(t *testing.T) *Service {
	t.Helper()
	svc := NewService(NewInMemoryRepository(), logging.Default())
	require.NoError(t, svc.Sync(context.Background()))
	return svc
}

func TestSyncLoadsSeed(t *testing.T) {
	svc := newSyncedService(t)

	doctors := svc.List(context.Background(), ListFilter{})
	require.NotEmpty(t, doctors)
	for _, d := range doctors {
		assert.NotZero(t, d.PublicID)
		assert.NotEmpty(t, d.Name)
		assert.NotEqual(t, [16]byte{}, [16]byte(d.ID), "seeded doctor must have a storage id")
	}
}

func TestSyncIsIdempotent(t *testing.T) {
	repo := NewInMemoryRepository()
	svc := NewService(repo, logging.Default())
	require.NoError(t, svc.Sync(context.Background()))

	first, err := svc.FindByHumanID(context.Background(), 7)
	require.NoError(t, err)

	require.NoError(t, svc.Sync(context.Background()))
	second, err := svc.FindByHumanID(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "re-seeding must keep storage identity stable")
}

func TestFindByHumanID(t *testing.T) {
	svc := newSyncedService(t)

	doctor, err := svc.FindByHumanID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 7, doctor.PublicID)

	_, err = svc.FindByHumanID(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestListFilters(t *testing.T) {
	svc := newSyncedService(t)
	ctx := context.Background()

	cardiologists := svc.List(ctx, ListFilter{Specialization: "Cardiologist"})
	require.NotEmpty(t, cardiologists)
	for _, d := range cardiologists {
		assert.Equal(t, "Cardiologist", d.Specialization)
	}

	// Sentinel values disable the equality filters.
	all := svc.List(ctx, ListFilter{Specialization: "All Specializations", Location: "All Locations"})
	assert.Equal(t, len(svc.List(ctx, ListFilter{})), len(all))

	delhi := svc.List(ctx, ListFilter{Location: "Delhi"})
	require.NotEmpty(t, delhi)
	for _, d := range delhi {
		assert.Equal(t, "Delhi", d.Location)
	}
}

func TestListSearchIsCaseInsensitive(t *testing.T) {
	svc := newSyncedService(t)

	results := svc.List(context.Background(), ListFilter{Search: "cardio"})
	require.NotEmpty(t, results)
	for _, d := range results {
		assert.Contains(t, d.Specialization, "Cardio")
	}

	byName := svc.List(context.Background(), ListFilter{Search: "NEHA"})
	require.Len(t, byName, 1)
	assert.Equal(t, 7, byName[0].PublicID)
}

func TestListDistanceSort(t *testing.T) {
	svc := newSyncedService(t)

	// Caller in Bangalore: Bangalore doctors must come first, distances ascending.
	lat, lng := 12.9716, 77.5946
	results := svc.List(context.Background(), ListFilter{Lat: &lat, Lng: &lng})
	require.NotEmpty(t, results)

	for i, d := range results {
		require.NotNil(t, d.Distance, "distance must be annotated when coordinates are supplied")
		if i > 0 {
			assert.LessOrEqual(t, *results[i-1].Distance, *d.Distance)
		}
	}
	assert.Equal(t, "Bangalore", results[0].Location)
}

func TestListNoCoordinatesNoDistance(t *testing.T) {
	svc := newSyncedService(t)

	results := svc.List(context.Background(), ListFilter{})
	require.NotEmpty(t, results)
	for _, d := range results {
		assert.Nil(t, d.Distance)
	}
}
