package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripacker/tripacker-backend/internal/repos"
	"github.com/tripacker/tripacker-backend/internal/types"
)

func newTripService(t *testing.T) (TripService, *types.User) {
	t.Helper()
	db := openTestDB(t)
	log := testLogger(t)
	return NewTripService(db, log, repos.NewTripRepo(db, log)), seedUser(t, db)
}

func TestTripCreateAndGet(t *testing.T) {
	svc, user := newTripService(t)
	ctx := context.Background()

	maxWeight := 23.0
	trip, err := svc.Create(ctx, user.ID, TripInput{
		Destination:      "Kyoto",
		DurationDays:     7,
		NumAdults:        2,
		ChildrenAges:     []int{5},
		Accommodation:    types.AccommodationHotel,
		Transport:        types.TransportPlane,
		Season:           types.SeasonSpring,
		Activities:       []string{"sightseeing"},
		AvailableLuggage: &types.Luggage{MaxWeight: &maxWeight, Dimensions: "55x40x20"},
	})
	require.NoError(t, err)

	loaded, err := svc.GetByID(ctx, user.ID, trip.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kyoto", loaded.Destination)
	assert.Equal(t, 7, loaded.DurationDays)
	assert.Equal(t, []int{5}, []int(loaded.ChildrenAges))
	require.NotNil(t, loaded.AvailableLuggage)
	luggage := loaded.AvailableLuggage.Data()
	require.NotNil(t, luggage.MaxWeight)
	assert.InDelta(t, 23.0, *luggage.MaxWeight, 1e-9)
}

func TestTripCreateValidation(t *testing.T) {
	svc, user := newTripService(t)
	ctx := context.Background()

	cases := []TripInput{
		{Destination: "", DurationDays: 3},
		{Destination: "Oslo", DurationDays: 0},
		{Destination: "Oslo", DurationDays: -2},
		{Destination: "Oslo", DurationDays: 3, NumAdults: -1},
		{Destination: "Oslo", DurationDays: 3, Accommodation: "igloo"},
		{Destination: "Oslo", DurationDays: 3, Transport: "teleport"},
		{Destination: "Oslo", DurationDays: 3, Season: "monsoon"},
	}
	for _, input := range cases {
		_, err := svc.Create(ctx, user.ID, input)
		assert.ErrorIs(t, err, ErrInvalidInput, "input %+v", input)
	}
}

func TestTripCreateDerivesDuration(t *testing.T) {
	svc, user := newTripService(t)
	ctx := context.Background()

	start := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 4)
	trip, err := svc.Create(ctx, user.ID, TripInput{
		Destination: "Oslo",
		StartDate:   &start,
		EndDate:     &end,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, trip.DurationDays)

	_, err = svc.Create(ctx, user.ID, TripInput{
		Destination: "Oslo",
		StartDate:   &end,
		EndDate:     &start,
	})
	require.Error(t, err)
}

func TestTripOwnership(t *testing.T) {
	db := openTestDB(t)
	log := testLogger(t)
	svc := NewTripService(db, log, repos.NewTripRepo(db, log))
	owner := seedUser(t, db)
	other := seedUser(t, db)
	trip := seedTrip(t, db, owner.ID)

	_, err := svc.GetByID(context.Background(), other.ID, trip.ID)
	require.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.GetByID(context.Background(), owner.ID, uuid.New())
	require.ErrorIs(t, err, ErrTripNotFound)
}

func TestTripListSortWhitelist(t *testing.T) {
	svc, user := newTripService(t)
	ctx := context.Background()

	for _, dest := range []string{"Athens", "Zagreb"} {
		_, err := svc.Create(ctx, user.ID, TripInput{Destination: dest, DurationDays: 2})
		require.NoError(t, err)
	}

	trips, total, err := svc.ListByUser(ctx, user.ID, 10, 0, "destination")
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, trips, 2)
	assert.Equal(t, "Athens", trips[0].Destination)

	_, _, err = svc.ListByUser(ctx, user.ID, 10, 0, "destination; DROP TABLE trips")
	require.ErrorIs(t, err, ErrInvalidInput)
}
