package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tripacker/tripacker-backend/internal/repos"
	"github.com/tripacker/tripacker-backend/internal/types"
)

type stubGenerator struct {
	drafts []ItemDraft
	err    error
}

func (s *stubGenerator) Generate(ctx context.Context, trip *types.Trip, specialLists []*types.SpecialList, excludeCategories []string) ([]ItemDraft, error) {
	return s.drafts, s.err
}

type generatedListFixture struct {
	db      *gorm.DB
	service GeneratedListService
	user    *types.User
	trip    *types.Trip
}

func newGeneratedListFixture(t *testing.T, gen PackingGenerator) *generatedListFixture {
	t.Helper()
	db := openTestDB(t)
	log := testLogger(t)
	svc := NewGeneratedListService(
		db, log, gen, nil,
		repos.NewTripRepo(db, log),
		repos.NewGeneratedListRepo(db, log),
		repos.NewGeneratedListItemRepo(db, log),
		repos.NewSpecialListRepo(db, log),
	)
	user := seedUser(t, db)
	return &generatedListFixture{
		db:      db,
		service: svc,
		user:    user,
		trip:    seedTrip(t, db, user.ID),
	}
}

func TestGenerateForTripPersistsListAndItems(t *testing.T) {
	gen := &stubGenerator{drafts: []ItemDraft{
		{Name: "T-shirt", Quantity: 3, Category: "Clothing"},
		{Name: "Passport", Quantity: 1, Category: "Documents"},
	}}
	f := newGeneratedListFixture(t, gen)

	view, err := f.service.GenerateForTrip(context.Background(), f.user.ID, f.trip.ID, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "Packing List for Porto", view.Name)
	assert.Equal(t, f.trip.ID, view.TripID)
	require.Len(t, view.Items, 2)
	assert.Equal(t, 2, view.ItemCount)
	assert.Equal(t, 0, view.PackedCount)
	for _, it := range view.Items {
		assert.False(t, it.IsPacked)
	}

	var count int64
	require.NoError(t, f.db.Model(&types.GeneratedListItem{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestGenerateForTripOnePerTrip(t *testing.T) {
	gen := &stubGenerator{drafts: []ItemDraft{{Name: "Hat", Quantity: 1, Category: "Accessories"}}}
	f := newGeneratedListFixture(t, gen)

	_, err := f.service.GenerateForTrip(context.Background(), f.user.ID, f.trip.ID, nil, nil)
	require.NoError(t, err)

	_, err = f.service.GenerateForTrip(context.Background(), f.user.ID, f.trip.ID, nil, nil)
	require.ErrorIs(t, err, ErrAlreadyGenerated)

	var count int64
	require.NoError(t, f.db.Model(&types.GeneratedList{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestGenerateForTripFallbackOnGenerationFailure(t *testing.T) {
	gen := &stubGenerator{err: ErrLLMUnavailable}
	f := newGeneratedListFixture(t, gen)

	view, err := f.service.GenerateForTrip(context.Background(), f.user.ID, f.trip.ID, nil, nil)
	require.NoError(t, err)

	require.Len(t, view.Items, 4)
	names := make([]string, len(view.Items))
	for i, it := range view.Items {
		names[i] = it.Name
	}
	assert.ElementsMatch(t, []string{"Toothbrush", "Passport", "Phone Charger", "First Aid Kit"}, names)
}

func TestGenerateForTripOwnership(t *testing.T) {
	gen := &stubGenerator{drafts: []ItemDraft{{Name: "Hat", Quantity: 1}}}
	f := newGeneratedListFixture(t, gen)
	intruder := seedUser(t, f.db)

	_, err := f.service.GenerateForTrip(context.Background(), intruder.ID, f.trip.ID, nil, nil)
	require.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.service.GenerateForTrip(context.Background(), f.user.ID, uuid.New(), nil, nil)
	require.ErrorIs(t, err, ErrTripNotFound)
}

func TestGenerateForTripSpecialListCountMatch(t *testing.T) {
	gen := &stubGenerator{drafts: []ItemDraft{{Name: "Hat", Quantity: 1}}}
	f := newGeneratedListFixture(t, gen)

	list := &types.SpecialList{ID: uuid.New(), UserID: f.user.ID, Name: "Gear", Category: "Electronics"}
	require.NoError(t, f.db.Create(list).Error)

	_, err := f.service.GenerateForTrip(context.Background(), f.user.ID, f.trip.ID, []uuid.UUID{list.ID, uuid.New()}, nil)
	require.ErrorIs(t, err, ErrSpecialListsNotFound)

	// nothing persisted when resolution fails
	var count int64
	require.NoError(t, f.db.Model(&types.GeneratedList{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

type failingItemRepo struct {
	repos.GeneratedListItemRepo
}

func (f *failingItemRepo) Create(ctx context.Context, tx *gorm.DB, items []*types.GeneratedListItem) ([]*types.GeneratedListItem, error) {
	return nil, errors.New("write failed")
}

func TestGenerateForTripRollsBackOnItemFailure(t *testing.T) {
	db := openTestDB(t)
	log := testLogger(t)
	gen := &stubGenerator{drafts: []ItemDraft{{Name: "Hat", Quantity: 1}}}
	svc := NewGeneratedListService(
		db, log, gen, nil,
		repos.NewTripRepo(db, log),
		repos.NewGeneratedListRepo(db, log),
		&failingItemRepo{repos.NewGeneratedListItemRepo(db, log)},
		repos.NewSpecialListRepo(db, log),
	)
	user := seedUser(t, db)
	trip := seedTrip(t, db, user.ID)

	_, err := svc.GenerateForTrip(context.Background(), user.ID, trip.ID, nil, nil)
	require.ErrorIs(t, err, ErrGenerationFailed)

	// The list row must not survive the failed item write.
	var count int64
	require.NoError(t, db.Model(&types.GeneratedList{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestGetByTripID(t *testing.T) {
	gen := &stubGenerator{drafts: []ItemDraft{{Name: "Hat", Quantity: 1, Category: "Accessories"}}}
	f := newGeneratedListFixture(t, gen)

	created, err := f.service.GenerateForTrip(context.Background(), f.user.ID, f.trip.ID, nil, nil)
	require.NoError(t, err)

	view, err := f.service.GetByTripID(context.Background(), f.user.ID, f.trip.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, view.ID)

	otherTrip := seedTrip(t, f.db, f.user.ID)
	_, err = f.service.GetByTripID(context.Background(), f.user.ID, otherTrip.ID)
	require.ErrorIs(t, err, ErrListNotFound)
}

func TestListByUser(t *testing.T) {
	gen := &stubGenerator{drafts: []ItemDraft{{Name: "Hat", Quantity: 1}}}
	f := newGeneratedListFixture(t, gen)

	_, err := f.service.GenerateForTrip(context.Background(), f.user.ID, f.trip.ID, nil, nil)
	require.NoError(t, err)

	views, total, err := f.service.ListByUser(context.Background(), f.user.ID, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, views, 1)
	assert.Equal(t, 1, views[0].ItemCount)

	other := seedUser(t, f.db)
	views, total, err = f.service.ListByUser(context.Background(), other.ID, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
	assert.Empty(t, views)
}

func TestUpdateItemPackedAndQuantity(t *testing.T) {
	gen := &stubGenerator{drafts: []ItemDraft{{Name: "Hat", Quantity: 1, Category: "Accessories"}}}
	f := newGeneratedListFixture(t, gen)

	view, err := f.service.GenerateForTrip(context.Background(), f.user.ID, f.trip.ID, nil, nil)
	require.NoError(t, err)
	itemID := view.Items[0].ID

	packed := true
	qty := 3
	updated, err := f.service.UpdateItem(context.Background(), f.user.ID, view.ID, itemID, GeneratedListItemUpdate{
		IsPacked: &packed,
		Quantity: &qty,
	})
	require.NoError(t, err)
	assert.True(t, updated.IsPacked)
	assert.Equal(t, 3, updated.Quantity)

	reloaded, err := f.service.GetByID(context.Background(), f.user.ID, view.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.PackedCount)

	// item from another list is rejected
	_, err = f.service.UpdateItem(context.Background(), f.user.ID, view.ID, uuid.New(), GeneratedListItemUpdate{IsPacked: &packed})
	require.ErrorIs(t, err, ErrItemNotFound)

	other := seedUser(t, f.db)
	_, err = f.service.UpdateItem(context.Background(), other.ID, view.ID, itemID, GeneratedListItemUpdate{IsPacked: &packed})
	require.ErrorIs(t, err, ErrAccessDenied)
}
