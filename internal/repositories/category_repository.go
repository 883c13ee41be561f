package repositories

import (
	"context"
	"fmt"

	"vitrine/internal/models"

	"gorm.io/gorm"
)

// CategoryFilter narrows category listings.
type CategoryFilter struct {
	ActiveOnly bool
	HomeOnly   bool
}

// CategoryRepository defines the interface for category data access.
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id string) (*models.Category, error)
	ExistingIDs(ctx context.Context, ids []string) ([]string, error)
	List(ctx context.Context, filter CategoryFilter, skip, take int) ([]models.Category, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, id string) error
}

// GORMCategoryRepository is a GORM implementation of CategoryRepository.
type GORMCategoryRepository struct {
	gormStore[models.Category]
}

// NewGORMCategoryRepository creates a new instance of GORMCategoryRepository.
func NewGORMCategoryRepository(db *gorm.DB) *GORMCategoryRepository {
	return &GORMCategoryRepository{gormStore: newGormStore[models.Category](db, "category")}
}

// ExistingIDs returns the subset of ids that exist.
func (r *GORMCategoryRepository) ExistingIDs(ctx context.Context, ids []string) ([]string, error) {
	found := make([]string, 0, len(ids))
	if len(ids) == 0 {
		return found, nil
	}
	if err := r.db.WithContext(ctx).Model(&models.Category{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return nil, fmt.Errorf("failed to look up categories: %w", translate(err))
	}
	return found, nil
}

func (r *GORMCategoryRepository) List(ctx context.Context, filter CategoryFilter, skip, take int) ([]models.Category, error) {
	query := r.db.WithContext(ctx).Order("name ASC")
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if filter.HomeOnly {
		query = query.Where("is_home = ?", true)
	}
	return r.find(query.Scopes(paginate(skip, take)))
}

// Delete removes the category and its product links in one transaction.
func (r *GORMCategoryRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ?", id).Delete(&models.ProductCategory{}).Error; err != nil {
			return fmt.Errorf("failed to unlink category %s: %w", id, translate(err))
		}
		return newGormStore[models.Category](tx, "category").Delete(ctx, id)
	})
}
