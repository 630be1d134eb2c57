package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"gorm.io/gorm"

	"github.com/tripacker/tripacker-backend/internal/llmparse"
	"github.com/tripacker/tripacker-backend/internal/logger"
	"github.com/tripacker/tripacker-backend/internal/repos"
	"github.com/tripacker/tripacker-backend/internal/types"
)

type ItemInput struct {
	Name       string   `json:"name"`
	Weight     *float64 `json:"weight,omitempty"`
	Dimensions string   `json:"dimensions,omitempty"`
	Category   string   `json:"category,omitempty"`
}

type ItemService interface {
	Create(ctx context.Context, input ItemInput) (*types.Item, error)
	GetByID(ctx context.Context, itemID uuid.UUID) (*types.Item, error)
	List(ctx context.Context, limit, offset int) ([]*types.Item, int64, error)
}

// itemService fronts the shared item catalog. Reads are cached; the catalog
// is small, append-mostly and read on every special-list and generation
// request.
type itemService struct {
	db       *gorm.DB
	log      *logger.Logger
	itemRepo repos.ItemRepo
	cache    *gocache.Cache
}

func NewItemService(db *gorm.DB, log *logger.Logger, itemRepo repos.ItemRepo) ItemService {
	return &itemService{
		db:       db,
		log:      log.With("service", "ItemService"),
		itemRepo: itemRepo,
		cache:    gocache.New(5*time.Minute, 10*time.Minute),
	}
}

func (is *itemService) Create(ctx context.Context, input ItemInput) (*types.Item, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if input.Weight != nil && *input.Weight < 0 {
		return nil, fmt.Errorf("%w: weight must not be negative", ErrInvalidInput)
	}

	item := &types.Item{
		ID:         uuid.New(),
		Name:       name,
		Weight:     input.Weight,
		Dimensions: strings.TrimSpace(input.Dimensions),
		Category:   llmparse.CanonicalCategory(input.Category),
	}
	if _, err := is.itemRepo.Create(ctx, nil, []*types.Item{item}); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateItem
		}
		return nil, fmt.Errorf("creating item: %w", err)
	}

	is.cache.Set(item.ID.String(), item, gocache.DefaultExpiration)
	is.log.Info("Item created", "itemID", item.ID, "name", item.Name)
	return item, nil
}

func (is *itemService) GetByID(ctx context.Context, itemID uuid.UUID) (*types.Item, error) {
	if cached, ok := is.cache.Get(itemID.String()); ok {
		if item, ok := cached.(*types.Item); ok {
			return item, nil
		}
	}

	items, err := is.itemRepo.GetByIDs(ctx, nil, []uuid.UUID{itemID})
	if err != nil {
		return nil, fmt.Errorf("loading item: %w", err)
	}
	if len(items) == 0 {
		return nil, ErrItemNotFound
	}
	is.cache.Set(itemID.String(), items[0], gocache.DefaultExpiration)
	return items[0], nil
}

func (is *itemService) List(ctx context.Context, limit, offset int) ([]*types.Item, int64, error) {
	return is.itemRepo.List(ctx, nil, limit, offset)
}
