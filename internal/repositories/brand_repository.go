package repositories

import (
	"context"
	"fmt"

	"vitrine/internal/models"

	"gorm.io/gorm"
)

// BrandRepository defines the interface for brand data access.
type BrandRepository interface {
	Create(ctx context.Context, brand *models.Brand) error
	GetByID(ctx context.Context, id string) (*models.Brand, error)
	Exists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, activeOnly bool, skip, take int) ([]models.Brand, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, id string) error
}

// GORMBrandRepository is a GORM implementation of BrandRepository.
type GORMBrandRepository struct {
	gormStore[models.Brand]
}

// NewGORMBrandRepository creates a new instance of GORMBrandRepository.
func NewGORMBrandRepository(db *gorm.DB) *GORMBrandRepository {
	return &GORMBrandRepository{gormStore: newGormStore[models.Brand](db, "brand")}
}

// List returns brands with their product counts.
func (r *GORMBrandRepository) List(ctx context.Context, activeOnly bool, skip, take int) ([]models.Brand, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Brand{}).
		Select("brands.*, (SELECT COUNT(*) FROM products WHERE products.brand_id = brands.id) AS product_count").
		Order("brands.name ASC")
	if activeOnly {
		query = query.Where("brands.is_active = ?", true)
	}
	return r.find(query.Scopes(paginate(skip, take)))
}

// Delete clears the brand from its products and removes it.
func (r *GORMBrandRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Product{}).Where("brand_id = ?", id).Update("brand_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach brand %s: %w", id, translate(err))
		}
		return newGormStore[models.Brand](tx, "brand").Delete(ctx, id)
	})
}
