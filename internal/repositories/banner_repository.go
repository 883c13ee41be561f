package repositories

import (
	"context"

	"vitrine/internal/models"

	"gorm.io/gorm"
)

// BannerRepository defines the interface for banner data access.
type BannerRepository interface {
	Create(ctx context.Context, banner *models.Banner) error
	GetByID(ctx context.Context, id string) (*models.Banner, error)
	List(ctx context.Context, activeOnly bool, skip, take int) ([]models.Banner, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, id string) error
}

// GORMBannerRepository is a GORM implementation of BannerRepository.
type GORMBannerRepository struct {
	gormStore[models.Banner]
}

// NewGORMBannerRepository creates a new instance of GORMBannerRepository.
func NewGORMBannerRepository(db *gorm.DB) *GORMBannerRepository {
	return &GORMBannerRepository{gormStore: newGormStore[models.Banner](db, "banner")}
}

func (r *GORMBannerRepository) List(ctx context.Context, activeOnly bool, skip, take int) ([]models.Banner, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	return r.find(query.Scopes(paginate(skip, take)))
}
