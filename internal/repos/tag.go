package repos

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tripacker/tripacker-backend/internal/logger"
	"github.com/tripacker/tripacker-backend/internal/types"
)

type TagRepo interface {
	GetByIDs(ctx context.Context, tx *gorm.DB, tagIDs []uuid.UUID) ([]*types.Tag, error)
	// GetOrCreateByName returns the existing tag with the given name or
	// creates it; tag names are unique and case-preserving.
	GetOrCreateByName(ctx context.Context, tx *gorm.DB, name string) (*types.Tag, error)
}

type tagRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTagRepo(db *gorm.DB, baseLog *logger.Logger) TagRepo {
	return &tagRepo{db: db, log: baseLog.With("repo", "TagRepo")}
}

func (tr *tagRepo) GetByIDs(ctx context.Context, tx *gorm.DB, tagIDs []uuid.UUID) ([]*types.Tag, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	var results []*types.Tag
	if len(tagIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", tagIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (tr *tagRepo) GetOrCreateByName(ctx context.Context, tx *gorm.DB, name string) (*types.Tag, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	name = strings.TrimSpace(name)
	var existing []*types.Tag
	if err := transaction.WithContext(ctx).
		Where("name = ?", name).
		Limit(1).
		Find(&existing).Error; err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return existing[0], nil
	}
	tag := &types.Tag{ID: uuid.New(), Name: name}
	if err := transaction.WithContext(ctx).Create(tag).Error; err != nil {
		return nil, err
	}
	return tag, nil
}
