package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tripacker/tripacker-backend/internal/logger"
	"github.com/tripacker/tripacker-backend/internal/types"
)

type GeneratedListRepo interface {
	Create(ctx context.Context, tx *gorm.DB, lists []*types.GeneratedList) ([]*types.GeneratedList, error)
	// GetWithItems reloads a list with its items ordered by creation time,
	// matching the order the generator produced them in.
	GetWithItems(ctx context.Context, tx *gorm.DB, listID uuid.UUID) (*types.GeneratedList, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, listIDs []uuid.UUID) ([]*types.GeneratedList, error)
	GetByTripIDs(ctx context.Context, tx *gorm.DB, tripIDs []uuid.UUID) ([]*types.GeneratedList, error)
	ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit, offset int) ([]*types.GeneratedList, int64, error)
	DeleteByIDs(ctx context.Context, tx *gorm.DB, listIDs []uuid.UUID) error
}

type generatedListRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGeneratedListRepo(db *gorm.DB, baseLog *logger.Logger) GeneratedListRepo {
	return &generatedListRepo{db: db, log: baseLog.With("repo", "GeneratedListRepo")}
}

func (glr *generatedListRepo) Create(ctx context.Context, tx *gorm.DB, lists []*types.GeneratedList) ([]*types.GeneratedList, error) {
	transaction := tx
	if transaction == nil {
		transaction = glr.db
	}
	if len(lists) == 0 {
		return []*types.GeneratedList{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&lists).Error; err != nil {
		return nil, err
	}
	return lists, nil
}

func (glr *generatedListRepo) GetWithItems(ctx context.Context, tx *gorm.DB, listID uuid.UUID) (*types.GeneratedList, error) {
	transaction := tx
	if transaction == nil {
		transaction = glr.db
	}
	var results []*types.GeneratedList
	if err := transaction.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("generated_list_items.created_at")
		}).
		Where("id = ?", listID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (glr *generatedListRepo) GetByIDs(ctx context.Context, tx *gorm.DB, listIDs []uuid.UUID) ([]*types.GeneratedList, error) {
	transaction := tx
	if transaction == nil {
		transaction = glr.db
	}
	var results []*types.GeneratedList
	if len(listIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", listIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (glr *generatedListRepo) GetByTripIDs(ctx context.Context, tx *gorm.DB, tripIDs []uuid.UUID) ([]*types.GeneratedList, error) {
	transaction := tx
	if transaction == nil {
		transaction = glr.db
	}
	var results []*types.GeneratedList
	if len(tripIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("trip_id IN ?", tripIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (glr *generatedListRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit, offset int) ([]*types.GeneratedList, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = glr.db
	}
	var total int64
	if err := transaction.WithContext(ctx).
		Model(&types.GeneratedList{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var results []*types.GeneratedList
	if err := transaction.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("generated_list_items.created_at")
		}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (glr *generatedListRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, listIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = glr.db
	}
	if len(listIDs) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("id IN ?", listIDs).
		Delete(&types.GeneratedList{}).Error
}
