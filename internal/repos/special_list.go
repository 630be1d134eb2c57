package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tripacker/tripacker-backend/internal/logger"
	"github.com/tripacker/tripacker-backend/internal/types"
)

type SpecialListRepo interface {
	Create(ctx context.Context, tx *gorm.DB, lists []*types.SpecialList) ([]*types.SpecialList, error)
	// GetByIDs eager-loads item associations with their catalog items so the
	// generation pipeline never lazy-loads mid-flight.
	GetByIDs(ctx context.Context, tx *gorm.DB, listIDs []uuid.UUID) ([]*types.SpecialList, error)
	ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit, offset int) ([]*types.SpecialList, int64, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, listID uuid.UUID, fields map[string]interface{}) error
	DeleteByIDs(ctx context.Context, tx *gorm.DB, listIDs []uuid.UUID) error
	AppendTag(ctx context.Context, tx *gorm.DB, list *types.SpecialList, tag *types.Tag) error
	RemoveTag(ctx context.Context, tx *gorm.DB, list *types.SpecialList, tag *types.Tag) error
}

type specialListRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSpecialListRepo(db *gorm.DB, baseLog *logger.Logger) SpecialListRepo {
	return &specialListRepo{db: db, log: baseLog.With("repo", "SpecialListRepo")}
}

func (slr *specialListRepo) Create(ctx context.Context, tx *gorm.DB, lists []*types.SpecialList) ([]*types.SpecialList, error) {
	transaction := tx
	if transaction == nil {
		transaction = slr.db
	}
	if len(lists) == 0 {
		return []*types.SpecialList{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&lists).Error; err != nil {
		return nil, err
	}
	return lists, nil
}

func (slr *specialListRepo) GetByIDs(ctx context.Context, tx *gorm.DB, listIDs []uuid.UUID) ([]*types.SpecialList, error) {
	transaction := tx
	if transaction == nil {
		transaction = slr.db
	}
	var results []*types.SpecialList
	if len(listIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Preload("Items").
		Preload("Items.Item").
		Preload("Tags").
		Where("id IN ?", listIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (slr *specialListRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit, offset int) ([]*types.SpecialList, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = slr.db
	}
	var total int64
	if err := transaction.WithContext(ctx).
		Model(&types.SpecialList{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var results []*types.SpecialList
	if err := transaction.WithContext(ctx).
		Preload("Items").
		Preload("Items.Item").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (slr *specialListRepo) UpdateFields(ctx context.Context, tx *gorm.DB, listID uuid.UUID, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = slr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.SpecialList{}).
		Where("id = ?", listID).
		Updates(fields).Error
}

func (slr *specialListRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, listIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = slr.db
	}
	if len(listIDs) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("id IN ?", listIDs).
		Delete(&types.SpecialList{}).Error
}

func (slr *specialListRepo) AppendTag(ctx context.Context, tx *gorm.DB, list *types.SpecialList, tag *types.Tag) error {
	transaction := tx
	if transaction == nil {
		transaction = slr.db
	}
	return transaction.WithContext(ctx).Model(list).Association("Tags").Append(tag)
}

func (slr *specialListRepo) RemoveTag(ctx context.Context, tx *gorm.DB, list *types.SpecialList, tag *types.Tag) error {
	transaction := tx
	if transaction == nil {
		transaction = slr.db
	}
	return transaction.WithContext(ctx).Model(list).Association("Tags").Delete(tag)
}
