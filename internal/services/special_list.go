package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tripacker/tripacker-backend/internal/llmparse"
	"github.com/tripacker/tripacker-backend/internal/logger"
	"github.com/tripacker/tripacker-backend/internal/repos"
	"github.com/tripacker/tripacker-backend/internal/types"
)

type SpecialListInput struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

type SpecialListService interface {
	Create(ctx context.Context, userID uuid.UUID, input SpecialListInput) (*types.SpecialList, error)
	GetByID(ctx context.Context, userID, listID uuid.UUID) (*types.SpecialList, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*types.SpecialList, int64, error)
	Update(ctx context.Context, userID, listID uuid.UUID, input SpecialListInput) (*types.SpecialList, error)
	Delete(ctx context.Context, userID, listID uuid.UUID) error

	AddItem(ctx context.Context, userID, listID, itemID uuid.UUID, quantity int) (*types.SpecialListItem, error)
	UpdateItemQuantity(ctx context.Context, userID, listID, itemID uuid.UUID, quantity int) (*types.SpecialListItem, error)
	RemoveItem(ctx context.Context, userID, listID, itemID uuid.UUID) error

	AddTag(ctx context.Context, userID, listID uuid.UUID, tagName string) (*types.Tag, error)
	RemoveTag(ctx context.Context, userID, listID, tagID uuid.UUID) error
}

type specialListService struct {
	db  *gorm.DB
	log *logger.Logger

	listRepo     repos.SpecialListRepo
	listItemRepo repos.SpecialListItemRepo
	itemRepo     repos.ItemRepo
	tagRepo      repos.TagRepo
}

func NewSpecialListService(
	db *gorm.DB,
	log *logger.Logger,
	listRepo repos.SpecialListRepo,
	listItemRepo repos.SpecialListItemRepo,
	itemRepo repos.ItemRepo,
	tagRepo repos.TagRepo,
) SpecialListService {
	return &specialListService{
		db:           db,
		log:          log.With("service", "SpecialListService"),
		listRepo:     listRepo,
		listItemRepo: listItemRepo,
		itemRepo:     itemRepo,
		tagRepo:      tagRepo,
	}
}

func (sls *specialListService) Create(ctx context.Context, userID uuid.UUID, input SpecialListInput) (*types.SpecialList, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	list := &types.SpecialList{
		ID:       uuid.New(),
		UserID:   userID,
		Name:     strings.TrimSpace(input.Name),
		Category: llmparse.CanonicalCategory(input.Category),
	}
	if _, err := sls.listRepo.Create(ctx, nil, []*types.SpecialList{list}); err != nil {
		return nil, fmt.Errorf("creating special list: %w", err)
	}
	sls.log.Info("Special list created", "listID", list.ID, "userID", userID)
	return list, nil
}

func (sls *specialListService) GetByID(ctx context.Context, userID, listID uuid.UUID) (*types.SpecialList, error) {
	return sls.loadOwned(ctx, userID, listID)
}

func (sls *specialListService) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*types.SpecialList, int64, error) {
	return sls.listRepo.ListByUserID(ctx, nil, userID, limit, offset)
}

func (sls *specialListService) Update(ctx context.Context, userID, listID uuid.UUID, input SpecialListInput) (*types.SpecialList, error) {
	if _, err := sls.loadOwned(ctx, userID, listID); err != nil {
		return nil, err
	}
	fields := map[string]interface{}{}
	if strings.TrimSpace(input.Name) != "" {
		fields["name"] = strings.TrimSpace(input.Name)
	}
	if strings.TrimSpace(input.Category) != "" {
		fields["category"] = llmparse.CanonicalCategory(input.Category)
	}
	if len(fields) > 0 {
		if err := sls.listRepo.UpdateFields(ctx, nil, listID, fields); err != nil {
			return nil, fmt.Errorf("updating special list: %w", err)
		}
	}
	return sls.loadOwned(ctx, userID, listID)
}

func (sls *specialListService) Delete(ctx context.Context, userID, listID uuid.UUID) error {
	if _, err := sls.loadOwned(ctx, userID, listID); err != nil {
		return err
	}
	return sls.listRepo.DeleteByIDs(ctx, nil, []uuid.UUID{listID})
}

func (sls *specialListService) AddItem(ctx context.Context, userID, listID, itemID uuid.UUID, quantity int) (*types.SpecialListItem, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	}
	if _, err := sls.loadOwned(ctx, userID, listID); err != nil {
		return nil, err
	}
	items, err := sls.itemRepo.GetByIDs(ctx, nil, []uuid.UUID{itemID})
	if err != nil {
		return nil, fmt.Errorf("loading item: %w", err)
	}
	if len(items) == 0 {
		return nil, ErrItemNotFound
	}

	entry := &types.SpecialListItem{
		SpecialListID: listID,
		ItemID:        itemID,
		Quantity:      quantity,
	}
	if _, err := sls.listItemRepo.Create(ctx, nil, []*types.SpecialListItem{entry}); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateItem
		}
		return nil, fmt.Errorf("adding item to special list: %w", err)
	}
	entry.Item = items[0]
	return entry, nil
}

func (sls *specialListService) UpdateItemQuantity(ctx context.Context, userID, listID, itemID uuid.UUID, quantity int) (*types.SpecialListItem, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	}
	if _, err := sls.loadOwned(ctx, userID, listID); err != nil {
		return nil, err
	}
	existing, err := sls.listItemRepo.Get(ctx, nil, listID, itemID)
	if err != nil {
		return nil, fmt.Errorf("loading special list item: %w", err)
	}
	if existing == nil {
		return nil, ErrItemNotFound
	}
	if err := sls.listItemRepo.UpdateQuantity(ctx, nil, listID, itemID, quantity); err != nil {
		return nil, fmt.Errorf("updating quantity: %w", err)
	}
	existing.Quantity = quantity
	return existing, nil
}

func (sls *specialListService) RemoveItem(ctx context.Context, userID, listID, itemID uuid.UUID) error {
	if _, err := sls.loadOwned(ctx, userID, listID); err != nil {
		return err
	}
	existing, err := sls.listItemRepo.Get(ctx, nil, listID, itemID)
	if err != nil {
		return fmt.Errorf("loading special list item: %w", err)
	}
	if existing == nil {
		return ErrItemNotFound
	}
	return sls.listItemRepo.Delete(ctx, nil, listID, itemID)
}

func (sls *specialListService) AddTag(ctx context.Context, userID, listID uuid.UUID, tagName string) (*types.Tag, error) {
	if strings.TrimSpace(tagName) == "" {
		return nil, fmt.Errorf("%w: tag name is required", ErrInvalidInput)
	}
	list, err := sls.loadOwned(ctx, userID, listID)
	if err != nil {
		return nil, err
	}

	var tag *types.Tag
	err = sls.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txErr error
		tag, txErr = sls.tagRepo.GetOrCreateByName(ctx, tx, tagName)
		if txErr != nil {
			return fmt.Errorf("resolving tag: %w", txErr)
		}
		return sls.listRepo.AppendTag(ctx, tx, list, tag)
	})
	if err != nil {
		return nil, err
	}
	return tag, nil
}

func (sls *specialListService) RemoveTag(ctx context.Context, userID, listID, tagID uuid.UUID) error {
	list, err := sls.loadOwned(ctx, userID, listID)
	if err != nil {
		return err
	}
	tags, err := sls.tagRepo.GetByIDs(ctx, nil, []uuid.UUID{tagID})
	if err != nil {
		return fmt.Errorf("loading tag: %w", err)
	}
	if len(tags) == 0 {
		return ErrItemNotFound
	}
	return sls.listRepo.RemoveTag(ctx, nil, list, tags[0])
}

func (sls *specialListService) loadOwned(ctx context.Context, userID, listID uuid.UUID) (*types.SpecialList, error) {
	lists, err := sls.listRepo.GetByIDs(ctx, nil, []uuid.UUID{listID})
	if err != nil {
		return nil, fmt.Errorf("loading special list: %w", err)
	}
	if len(lists) == 0 {
		return nil, ErrSpecialListNotFound
	}
	if lists[0].UserID != userID {
		return nil, ErrAccessDenied
	}
	return lists[0], nil
}
