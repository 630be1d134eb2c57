package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tripacker/tripacker-backend/internal/logger"
	"github.com/tripacker/tripacker-backend/internal/types"
)

type GeneratedListItemRepo interface {
	Create(ctx context.Context, tx *gorm.DB, items []*types.GeneratedListItem) ([]*types.GeneratedListItem, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, itemIDs []uuid.UUID) ([]*types.GeneratedListItem, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, fields map[string]interface{}) error
	DeleteByListIDs(ctx context.Context, tx *gorm.DB, listIDs []uuid.UUID) error
}

type generatedListItemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGeneratedListItemRepo(db *gorm.DB, baseLog *logger.Logger) GeneratedListItemRepo {
	return &generatedListItemRepo{db: db, log: baseLog.With("repo", "GeneratedListItemRepo")}
}

func (glir *generatedListItemRepo) Create(ctx context.Context, tx *gorm.DB, items []*types.GeneratedListItem) ([]*types.GeneratedListItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = glir.db
	}
	if len(items) == 0 {
		return []*types.GeneratedListItem{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (glir *generatedListItemRepo) GetByIDs(ctx context.Context, tx *gorm.DB, itemIDs []uuid.UUID) ([]*types.GeneratedListItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = glir.db
	}
	var results []*types.GeneratedListItem
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

func (glir *generatedListItemRepo) UpdateFields(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = glir.db
	}
	return transaction.WithContext(ctx).
		Model(&types.GeneratedListItem{}).
		Where("id = ?", itemID).
		Updates(fields).Error
}

func (glir *generatedListItemRepo) DeleteByListIDs(ctx context.Context, tx *gorm.DB, listIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = glir.db
	}
	if len(listIDs) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("generated_list_id IN ?", listIDs).
		Delete(&types.GeneratedListItem{}).Error
}
