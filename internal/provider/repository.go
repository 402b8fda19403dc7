// File: internal/provider/repository.go
package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"local_services_backend/internal/common"
	"local_services_backend/internal/review"

	"gorm.io/gorm"
)

// ErrStoreDenied is returned when an owner-scoped write matched an existing
// record that the acting user does not own.
var ErrStoreDenied = errors.New("provider: write denied by owner scope")

// Repository defines the interface for provider data operations.
type Repository interface {
	Create(ctx context.Context, provider *Provider) error
	FindByID(ctx context.Context, id string) (*Provider, error)
	FindByUserID(ctx context.Context, userID string) (*Provider, error)
	List(ctx context.Context, limit int) ([]Provider, error)
	UpdateOwned(ctx context.Context, id, ownerID string, updates map[string]interface{}) error
	DeleteOwned(ctx context.Context, id, ownerID string) error
	CountByCategory(ctx context.Context) (map[string]int64, error)
	FindAllForSync(ctx context.Context, offset, limit int) ([]Provider, error)
	Exists(ctx context.Context, id string) (bool, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM provider repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, provider *Provider) error {
	if err := r.db.WithContext(ctx).Create(provider).Error; err != nil {
		if isUniqueViolation(err) {
			return common.ErrConflict.WithDetails("You already have a business listing.")
		}
		return fmt.Errorf("failed to create provider: %w", err)
	}
	return nil
}

func (r *gormRepository) FindByID(ctx context.Context, id string) (*Provider, error) {
	var p Provider
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Provider not found.")
		}
		return nil, err
	}
	p.Normalize()
	return &p, nil
}

func (r *gormRepository) FindByUserID(ctx context.Context, userID string) (*Provider, error) {
	var p Provider
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("No listing for this user.")
		}
		return nil, err
	}
	p.Normalize()
	return &p, nil
}

// List returns providers in store iteration order. A limit <= 0 means no cap.
func (r *gormRepository) List(ctx context.Context, limit int) ([]Provider, error) {
	var providers []Provider
	query := r.db.WithContext(ctx).Order("created_at ASC").Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&providers).Error; err != nil {
		return nil, err
	}
	for i := range providers {
		providers[i].Normalize()
	}
	return providers, nil
}

// UpdateOwned merges updates into the provider only when ownerID owns it.
func (r *gormRepository) UpdateOwned(ctx context.Context, id, ownerID string, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&Provider{}).
		Where("id = ? AND user_id = ?", id, ownerID).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update provider %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return r.missingOrDenied(ctx, r.db, id)
	}
	return nil
}

// DeleteOwned removes the provider and its reviews in one transaction.
func (r *gormRepository) DeleteOwned(ctx context.Context, id, ownerID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND user_id = ?", id, ownerID).Delete(&Provider{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete provider %s: %w", id, result.Error)
		}
		if result.RowsAffected == 0 {
			return r.missingOrDenied(ctx, tx, id)
		}
		if _, err := review.NewGORMRepository(tx).DeleteByProviderID(ctx, id); err != nil {
			return fmt.Errorf("failed to delete reviews of provider %s: %w", id, err)
		}
		return nil
	})
}

func (r *gormRepository) missingOrDenied(ctx context.Context, db *gorm.DB, id string) error {
	var count int64
	if err := db.WithContext(ctx).Model(&Provider{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return common.ErrNotFound.WithDetails("Provider not found.")
	}
	return ErrStoreDenied
}

// CountByCategory returns listing counts keyed by category display name.
func (r *gormRepository) CountByCategory(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Category string
		Count    int64
	}
	err := r.db.WithContext(ctx).
		Model(&Provider{}).
		Select("category, COUNT(*) AS count").
		Group("category").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Category] = row.Count
	}
	return counts, nil
}

// FindAllForSync pages through every provider by id for reindexing.
func (r *gormRepository) FindAllForSync(ctx context.Context, offset, limit int) ([]Provider, error) {
	var providers []Provider
	err := r.db.WithContext(ctx).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&providers).Error
	if err != nil {
		return nil, err
	}
	for i := range providers {
		providers[i].Normalize()
	}
	return providers, nil
}

func (r *gormRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&Provider{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint")
}
