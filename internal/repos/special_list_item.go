package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tripacker/tripacker-backend/internal/logger"
	"github.com/tripacker/tripacker-backend/internal/types"
)

type SpecialListItemRepo interface {
	Create(ctx context.Context, tx *gorm.DB, items []*types.SpecialListItem) ([]*types.SpecialListItem, error)
	Get(ctx context.Context, tx *gorm.DB, listID, itemID uuid.UUID) (*types.SpecialListItem, error)
	UpdateQuantity(ctx context.Context, tx *gorm.DB, listID, itemID uuid.UUID, quantity int) error
	Delete(ctx context.Context, tx *gorm.DB, listID, itemID uuid.UUID) error
}

type specialListItemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSpecialListItemRepo(db *gorm.DB, baseLog *logger.Logger) SpecialListItemRepo {
	return &specialListItemRepo{db: db, log: baseLog.With("repo", "SpecialListItemRepo")}
}

func (slir *specialListItemRepo) Create(ctx context.Context, tx *gorm.DB, items []*types.SpecialListItem) ([]*types.SpecialListItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = slir.db
	}
	if len(items) == 0 {
		return []*types.SpecialListItem{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (slir *specialListItemRepo) Get(ctx context.Context, tx *gorm.DB, listID, itemID uuid.UUID) (*types.SpecialListItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = slir.db
	}
	var results []*types.SpecialListItem
	if err := transaction.WithContext(ctx).
		Preload("Item").
		Where("special_list_id = ? AND item_id = ?", listID, itemID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (slir *specialListItemRepo) UpdateQuantity(ctx context.Context, tx *gorm.DB, listID, itemID uuid.UUID, quantity int) error {
	transaction := tx
	if transaction == nil {
		transaction = slir.db
	}
	return transaction.WithContext(ctx).
		Model(&types.SpecialListItem{}).
		Where("special_list_id = ? AND item_id = ?", listID, itemID).
		Update("quantity", quantity).Error
}

func (slir *specialListItemRepo) Delete(ctx context.Context, tx *gorm.DB, listID, itemID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = slir.db
	}
	return transaction.WithContext(ctx).
		Where("special_list_id = ? AND item_id = ?", listID, itemID).
		Delete(&types.SpecialListItem{}).Error
}
