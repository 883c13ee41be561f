package repositories

import (
	"context"
	"fmt"

	"vitrine/internal/models"

	"gorm.io/gorm"
)

// NewsletterRepository defines the interface for newsletter signup data access.
type NewsletterRepository interface {
	Create(ctx context.Context, signup *models.Newsletter) error
	GetByID(ctx context.Context, id string) (*models.Newsletter, error)
	EmailTaken(ctx context.Context, email, exceptID string) (bool, error)
	List(ctx context.Context, skip, take int, search string) ([]models.Newsletter, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, id string) error
}

// GORMNewsletterRepository is a GORM implementation of NewsletterRepository.
type GORMNewsletterRepository struct {
	gormStore[models.Newsletter]
}

// NewGORMNewsletterRepository creates a new instance of GORMNewsletterRepository.
func NewGORMNewsletterRepository(db *gorm.DB) *GORMNewsletterRepository {
	return &GORMNewsletterRepository{gormStore: newGormStore[models.Newsletter](db, "newsletter")}
}

// EmailTaken reports whether another signup (not exceptID) uses email.
func (r *GORMNewsletterRepository) EmailTaken(ctx context.Context, email, exceptID string) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.Newsletter{}).Where("email = ?", email)
	if exceptID != "" {
		query = query.Where("id <> ?", exceptID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check newsletter email: %w", translate(err))
	}
	return count > 0, nil
}

func (r *GORMNewsletterRepository) List(ctx context.Context, skip, take int, search string) ([]models.Newsletter, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("(email LIKE ? OR whatsapp LIKE ?)", like, like)
	}
	return r.find(query.Scopes(paginate(skip, take)))
}
