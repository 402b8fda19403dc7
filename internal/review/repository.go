// File: internal/review/repository.go
package review

import (
	"context"

	"gorm.io/gorm"
)

// Repository defines the interface for review data operations.
type Repository interface {
	Create(ctx context.Context, review *Review) error
	FindByProviderID(ctx context.Context, providerID string) ([]Review, error)
	FindByProviderIDs(ctx context.Context, providerIDs []string) ([]Review, error)
	DeleteByProviderID(ctx context.Context, providerID string) (int64, error)
	DeleteOrphans(ctx context.Context) (int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM review repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, review *Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

// FindByProviderID returns a listing's reviews, newest first.
func (r *gormRepository) FindByProviderID(ctx context.Context, providerID string) ([]Review, error) {
	var reviews []Review
	err := r.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

func (r *gormRepository) FindByProviderIDs(ctx context.Context, providerIDs []string) ([]Review, error) {
	if len(providerIDs) == 0 {
		return nil, nil
	}
	var reviews []Review
	err := r.db.WithContext(ctx).
		Where("provider_id IN ?", providerIDs).
		Find(&reviews).Error
	return reviews, err
}

func (r *gormRepository) DeleteByProviderID(ctx context.Context, providerID string) (int64, error) {
	result := r.db.WithContext(ctx).Where("provider_id = ?", providerID).Delete(&Review{})
	return result.RowsAffected, result.Error
}

// DeleteOrphans removes reviews whose listing no longer exists.
func (r *gormRepository) DeleteOrphans(ctx context.Context) (int64, error) {
	providers := r.db.Table("providers").Select("id")
	result := r.db.WithContext(ctx).
		Where("provider_id NOT IN (?)", providers).
		Delete(&Review{})
	return result.RowsAffected, result.Error
}
