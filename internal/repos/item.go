package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tripacker/tripacker-backend/internal/logger"
	"github.com/tripacker/tripacker-backend/internal/types"
)

type ItemRepo interface {
	Create(ctx context.Context, tx *gorm.DB, items []*types.Item) ([]*types.Item, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, itemIDs []uuid.UUID) ([]*types.Item, error)
	GetByNames(ctx context.Context, tx *gorm.DB, names []string) ([]*types.Item, error)
	List(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*types.Item, int64, error)
}

type itemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewItemRepo(db *gorm.DB, baseLog *logger.Logger) ItemRepo {
	return &itemRepo{db: db, log: baseLog.With("repo", "ItemRepo")}
}

func (ir *itemRepo) Create(ctx context.Context, tx *gorm.DB, items []*types.Item) ([]*types.Item, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	if len(items) == 0 {
		return []*types.Item{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (ir *itemRepo) GetByIDs(ctx context.Context, tx *gorm.DB, itemIDs []uuid.UUID) ([]*types.Item, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	var results []*types.Item
	if len(itemIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", itemIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ir *itemRepo) GetByNames(ctx context.Context, tx *gorm.DB, names []string) ([]*types.Item, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	var results []*types.Item
	if len(names) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("name IN ?", names).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ir *itemRepo) List(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*types.Item, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	var total int64
	if err := transaction.WithContext(ctx).
		Model(&types.Item{}).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var results []*types.Item
	if err := transaction.WithContext(ctx).
		Order("name").
		Limit(limit).
		Offset(offset).
		Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}
