package repositories

import (
	"context"
	"fmt"

	"vitrine/internal/models"

	"gorm.io/gorm"
)

// ClientRepository defines the interface for client data access.
type ClientRepository interface {
	Create(ctx context.Context, client *models.Client) error
	GetByID(ctx context.Context, id string) (*models.Client, error)
	GetByEmail(ctx context.Context, email string) (*models.Client, error)
	List(ctx context.Context, skip, take int) ([]models.Client, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, id string) error
}

// GORMClientRepository is a GORM implementation of ClientRepository.
type GORMClientRepository struct {
	gormStore[models.Client]
}

// NewGORMClientRepository creates a new instance of GORMClientRepository.
func NewGORMClientRepository(db *gorm.DB) *GORMClientRepository {
	return &GORMClientRepository{gormStore: newGormStore[models.Client](db, "client")}
}

// GetByEmail retrieves a client by email.
func (r *GORMClientRepository) GetByEmail(ctx context.Context, email string) (*models.Client, error) {
	var client models.Client
	if err := r.db.WithContext(ctx).First(&client, "email = ?", email).Error; err != nil {
		return nil, fmt.Errorf("failed to get client by email %s: %w", email, translate(err))
	}
	return &client, nil
}

// List returns clients with the CLIENT role, newest first.
func (r *GORMClientRepository) List(ctx context.Context, skip, take int) ([]models.Client, error) {
	return r.find(r.db.WithContext(ctx).
		Where("role = ?", models.RoleClient).
		Order("created_at DESC").
		Scopes(paginate(skip, take)))
}
