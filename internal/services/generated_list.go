package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tripacker/tripacker-backend/internal/logger"
	"github.com/tripacker/tripacker-backend/internal/repos"
	"github.com/tripacker/tripacker-backend/internal/sse"
	"github.com/tripacker/tripacker-backend/internal/types"
)

type GeneratedListItemView struct {
	ID         uuid.UUID  `json:"id"`
	ItemID     *uuid.UUID `json:"item_id,omitempty"`
	Name       string     `json:"name"`
	Quantity   int        `json:"quantity"`
	Category   string     `json:"category,omitempty"`
	Weight     *float64   `json:"weight,omitempty"`
	Dimensions string     `json:"dimensions,omitempty"`
	IsPacked   bool       `json:"is_packed"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type GeneratedListView struct {
	ID          uuid.UUID               `json:"id"`
	TripID      uuid.UUID               `json:"trip_id"`
	Name        string                  `json:"name"`
	Items       []GeneratedListItemView `json:"items"`
	ItemCount   int                     `json:"item_count"`
	PackedCount int                     `json:"packed_count"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

type GeneratedListItemUpdate struct {
	IsPacked *bool `json:"is_packed,omitempty"`
	Quantity *int  `json:"quantity,omitempty"`
}

type GeneratedListService interface {
	// GenerateForTrip runs the full pipeline and persists the result as one
	// transactional unit. A generation failure substitutes the fallback
	// list; only persistence failures surface as errors.
	GenerateForTrip(ctx context.Context, userID, tripID uuid.UUID, includeSpecialLists []uuid.UUID, excludeCategories []string) (*GeneratedListView, error)
	GetByID(ctx context.Context, userID, listID uuid.UUID) (*GeneratedListView, error)
	GetByTripID(ctx context.Context, userID, tripID uuid.UUID) (*GeneratedListView, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*GeneratedListView, int64, error)
	UpdateItem(ctx context.Context, userID, listID, itemID uuid.UUID, update GeneratedListItemUpdate) (*GeneratedListItemView, error)
}

type generatedListService struct {
	db        *gorm.DB
	log       *logger.Logger
	generator PackingGenerator
	hub       *sse.SSEHub

	tripRepo     repos.TripRepo
	listRepo     repos.GeneratedListRepo
	listItemRepo repos.GeneratedListItemRepo
	specialRepo  repos.SpecialListRepo
}

func NewGeneratedListService(
	db *gorm.DB,
	log *logger.Logger,
	generator PackingGenerator,
	hub *sse.SSEHub,
	tripRepo repos.TripRepo,
	listRepo repos.GeneratedListRepo,
	listItemRepo repos.GeneratedListItemRepo,
	specialRepo repos.SpecialListRepo,
) GeneratedListService {
	return &generatedListService{
		db:           db,
		log:          log.With("service", "GeneratedListService"),
		generator:    generator,
		hub:          hub,
		tripRepo:     tripRepo,
		listRepo:     listRepo,
		listItemRepo: listItemRepo,
		specialRepo:  specialRepo,
	}
}

func (gls *generatedListService) GenerateForTrip(ctx context.Context, userID, tripID uuid.UUID, includeSpecialLists []uuid.UUID, excludeCategories []string) (*GeneratedListView, error) {
	trip, err := gls.loadOwnedTrip(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}
	specialLists, err := gls.resolveSpecialLists(ctx, userID, includeSpecialLists)
	if err != nil {
		return nil, err
	}

	gls.broadcast(userID, sse.SSEEventGenerationStarted, map[string]any{"trip_id": tripID})

	// Once generation starts the caller disconnecting must not abandon a
	// half-done pipeline.
	genCtx := context.WithoutCancel(ctx)

	drafts, genErr := gls.generator.Generate(genCtx, trip, specialLists, excludeCategories)
	if genErr != nil {
		gls.log.Warn("Generation failed, substituting fallback list", "tripID", tripID, "error", genErr)
		drafts = FallbackDrafts()
		gls.broadcast(userID, sse.SSEEventGenerationFallback, map[string]any{"trip_id": tripID})
	}

	list := &types.GeneratedList{
		ID:     uuid.New(),
		UserID: userID,
		TripID: tripID,
		Name:   fmt.Sprintf("Packing List for %s", trip.Destination),
	}

	txErr := gls.db.WithContext(genCtx).Transaction(func(tx *gorm.DB) error {
		if _, err := gls.listRepo.Create(genCtx, tx, []*types.GeneratedList{list}); err != nil {
			return fmt.Errorf("creating generated list: %w", err)
		}
		items := make([]*types.GeneratedListItem, len(drafts))
		for i, d := range drafts {
			items[i] = &types.GeneratedListItem{
				ID:              uuid.New(),
				GeneratedListID: list.ID,
				ItemID:          d.ItemID,
				Quantity:        d.Quantity,
				ItemName:        d.Name,
				ItemWeight:      d.Weight,
				ItemDimensions:  d.Dimensions,
				ItemCategory:    d.Category,
			}
		}
		if _, err := gls.listItemRepo.Create(genCtx, tx, items); err != nil {
			return fmt.Errorf("creating generated list items: %w", err)
		}
		return nil
	})
	if txErr != nil {
		gls.broadcast(userID, sse.SSEEventGenerationFailed, map[string]any{"trip_id": tripID})
		if errors.Is(txErr, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyGenerated
		}
		gls.log.Error("Persisting generated list failed", "tripID", tripID, "error", txErr)
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, txErr)
	}

	reloaded, err := gls.listRepo.GetWithItems(genCtx, nil, list.ID)
	if err == nil && (reloaded == nil || (len(reloaded.Items) == 0 && len(drafts) > 0)) {
		err = fmt.Errorf("list %s reloaded without items", list.ID)
	}
	if err != nil {
		// Post-commit safety net: a list that cannot be read back complete
		// must not linger half-visible.
		gls.log.Error("Reload after commit failed, removing list", "listID", list.ID, "error", err)
		if delErr := gls.listRepo.DeleteByIDs(genCtx, nil, []uuid.UUID{list.ID}); delErr != nil {
			gls.log.Error("Compensating delete failed", "listID", list.ID, "error", delErr)
		}
		gls.broadcast(userID, sse.SSEEventGenerationFailed, map[string]any{"trip_id": tripID})
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	view := buildListView(reloaded)
	gls.broadcast(userID, sse.SSEEventGenerationCompleted, map[string]any{
		"trip_id":    tripID,
		"list_id":    view.ID,
		"item_count": view.ItemCount,
	})
	return view, nil
}

func (gls *generatedListService) GetByID(ctx context.Context, userID, listID uuid.UUID) (*GeneratedListView, error) {
	list, err := gls.listRepo.GetWithItems(ctx, nil, listID)
	if err != nil {
		return nil, fmt.Errorf("loading generated list: %w", err)
	}
	if list == nil {
		return nil, ErrListNotFound
	}
	if list.UserID != userID {
		return nil, ErrAccessDenied
	}
	return buildListView(list), nil
}

func (gls *generatedListService) GetByTripID(ctx context.Context, userID, tripID uuid.UUID) (*GeneratedListView, error) {
	if _, err := gls.loadOwnedTrip(ctx, userID, tripID); err != nil {
		return nil, err
	}
	lists, err := gls.listRepo.GetByTripIDs(ctx, nil, []uuid.UUID{tripID})
	if err != nil {
		return nil, fmt.Errorf("loading generated list for trip: %w", err)
	}
	if len(lists) == 0 {
		return nil, ErrListNotFound
	}
	return gls.GetByID(ctx, userID, lists[0].ID)
}

func (gls *generatedListService) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*GeneratedListView, int64, error) {
	lists, total, err := gls.listRepo.ListByUserID(ctx, nil, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listing generated lists: %w", err)
	}
	views := make([]*GeneratedListView, len(lists))
	for i, l := range lists {
		views[i] = buildListView(l)
	}
	return views, total, nil
}

func (gls *generatedListService) UpdateItem(ctx context.Context, userID, listID, itemID uuid.UUID, update GeneratedListItemUpdate) (*GeneratedListItemView, error) {
	list, err := gls.listRepo.GetByIDs(ctx, nil, []uuid.UUID{listID})
	if err != nil {
		return nil, fmt.Errorf("loading generated list: %w", err)
	}
	if len(list) == 0 {
		return nil, ErrListNotFound
	}
	if list[0].UserID != userID {
		return nil, ErrAccessDenied
	}

	items, err := gls.listItemRepo.GetByIDs(ctx, nil, []uuid.UUID{itemID})
	if err != nil {
		return nil, fmt.Errorf("loading generated list item: %w", err)
	}
	if len(items) == 0 || items[0].GeneratedListID != listID {
		return nil, ErrItemNotFound
	}

	fields := map[string]interface{}{}
	if update.IsPacked != nil {
		fields["is_packed"] = *update.IsPacked
	}
	if update.Quantity != nil {
		if *update.Quantity < 1 {
			return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
		}
		fields["quantity"] = *update.Quantity
	}
	if len(fields) > 0 {
		if err := gls.listItemRepo.UpdateFields(ctx, nil, itemID, fields); err != nil {
			return nil, fmt.Errorf("updating generated list item: %w", err)
		}
	}

	updated, err := gls.listItemRepo.GetByIDs(ctx, nil, []uuid.UUID{itemID})
	if err != nil || len(updated) == 0 {
		return nil, fmt.Errorf("reloading generated list item: %w", err)
	}

	if update.IsPacked != nil {
		gls.broadcast(userID, sse.SSEEventItemPackedChanged, map[string]any{
			"list_id":   listID,
			"item_id":   itemID,
			"is_packed": *update.IsPacked,
		})
	}
	view := buildItemView(updated[0])
	return &view, nil
}

func (gls *generatedListService) loadOwnedTrip(ctx context.Context, userID, tripID uuid.UUID) (*types.Trip, error) {
	trips, err := gls.tripRepo.GetByIDs(ctx, nil, []uuid.UUID{tripID})
	if err != nil {
		return nil, fmt.Errorf("loading trip: %w", err)
	}
	if len(trips) == 0 {
		return nil, ErrTripNotFound
	}
	if trips[0].UserID != userID {
		return nil, ErrAccessDenied
	}
	return trips[0], nil
}

// resolveSpecialLists loads the requested lists and insists on an exact count
// match so a silently missing list can never thin out the result.
func (gls *generatedListService) resolveSpecialLists(ctx context.Context, userID uuid.UUID, listIDs []uuid.UUID) ([]*types.SpecialList, error) {
	if len(listIDs) == 0 {
		return nil, nil
	}
	lists, err := gls.specialRepo.GetByIDs(ctx, nil, listIDs)
	if err != nil {
		return nil, fmt.Errorf("loading special lists: %w", err)
	}
	if len(lists) != len(listIDs) {
		return nil, ErrSpecialListsNotFound
	}
	for _, l := range lists {
		if l.UserID != userID {
			return nil, ErrAccessDenied
		}
	}
	return lists, nil
}

func (gls *generatedListService) broadcast(userID uuid.UUID, event sse.SSEEvent, data any) {
	if gls.hub == nil {
		return
	}
	gls.hub.Broadcast(sse.SSEMessage{
		Channel: sse.UserChannel(userID),
		Event:   event,
		Data:    data,
	})
}

func buildItemView(item *types.GeneratedListItem) GeneratedListItemView {
	return GeneratedListItemView{
		ID:         item.ID,
		ItemID:     item.ItemID,
		Name:       item.ItemName,
		Quantity:   item.Quantity,
		Category:   item.ItemCategory,
		Weight:     item.ItemWeight,
		Dimensions: item.ItemDimensions,
		IsPacked:   item.IsPacked,
		CreatedAt:  item.CreatedAt,
		UpdatedAt:  item.UpdatedAt,
	}
}

func buildListView(list *types.GeneratedList) *GeneratedListView {
	view := &GeneratedListView{
		ID:        list.ID,
		TripID:    list.TripID,
		Name:      list.Name,
		Items:     make([]GeneratedListItemView, 0, len(list.Items)),
		CreatedAt: list.CreatedAt,
		UpdatedAt: list.UpdatedAt,
	}
	for _, item := range list.Items {
		view.Items = append(view.Items, buildItemView(item))
		if item.IsPacked {
			view.PackedCount++
		}
	}
	view.ItemCount = len(view.Items)
	return view
}
