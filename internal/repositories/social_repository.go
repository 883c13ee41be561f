package repositories

import (
	"context"

	"vitrine/internal/models"

	"gorm.io/gorm"
)

// SocialMediaRepository defines the interface for social link data access.
type SocialMediaRepository interface {
	Create(ctx context.Context, social *models.SocialMedia) error
	GetByID(ctx context.Context, id string) (*models.SocialMedia, error)
	List(ctx context.Context) ([]models.SocialMedia, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, id string) error
}

// GORMSocialMediaRepository is a GORM implementation of SocialMediaRepository.
type GORMSocialMediaRepository struct {
	gormStore[models.SocialMedia]
}

// NewGORMSocialMediaRepository creates a new instance of GORMSocialMediaRepository.
func NewGORMSocialMediaRepository(db *gorm.DB) *GORMSocialMediaRepository {
	return &GORMSocialMediaRepository{gormStore: newGormStore[models.SocialMedia](db, "social media")}
}

func (r *GORMSocialMediaRepository) List(ctx context.Context) ([]models.SocialMedia, error) {
	return r.find(r.db.WithContext(ctx).Order("platform ASC"))
}
