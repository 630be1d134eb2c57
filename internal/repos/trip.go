package repos

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tripacker/tripacker-backend/internal/logger"
	"github.com/tripacker/tripacker-backend/internal/types"
)

// Sort fields accepted by ListByUserID; anything else is rejected before it
// reaches the query builder.
var tripSortFields = map[string]bool{
	"created_at":    true,
	"destination":   true,
	"start_date":    true,
	"duration_days": true,
}

func ValidTripSortField(sort string) bool { return tripSortFields[sort] }

type TripRepo interface {
	Create(ctx context.Context, tx *gorm.DB, trips []*types.Trip) ([]*types.Trip, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, tripIDs []uuid.UUID) ([]*types.Trip, error)
	ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit, offset int, sort string) ([]*types.Trip, int64, error)
}

type tripRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTripRepo(db *gorm.DB, baseLog *logger.Logger) TripRepo {
	return &tripRepo{db: db, log: baseLog.With("repo", "TripRepo")}
}

func (tr *tripRepo) Create(ctx context.Context, tx *gorm.DB, trips []*types.Trip) ([]*types.Trip, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	if len(trips) == 0 {
		return []*types.Trip{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&trips).Error; err != nil {
		return nil, err
	}
	return trips, nil
}

func (tr *tripRepo) GetByIDs(ctx context.Context, tx *gorm.DB, tripIDs []uuid.UUID) ([]*types.Trip, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	var results []*types.Trip
	if len(tripIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", tripIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (tr *tripRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit, offset int, sort string) ([]*types.Trip, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	if sort != "" && !tripSortFields[sort] {
		return nil, 0, fmt.Errorf("invalid sort field %q", sort)
	}
	order := "created_at DESC"
	if sort != "" {
		order = sort
	}

	var total int64
	if err := transaction.WithContext(ctx).
		Model(&types.Trip{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var results []*types.Trip
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order(order).
		Limit(limit).
		Offset(offset).
		Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}
