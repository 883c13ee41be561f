package repositories

import (
	"context"
	"fmt"

	"vitrine/internal/models"

	"gorm.io/gorm"
)

// TeamMemberRepository defines the interface for team member data access.
type TeamMemberRepository interface {
	Create(ctx context.Context, member *models.TeamMember) error
	GetByID(ctx context.Context, id string) (*models.TeamMember, error)
	GetByEmail(ctx context.Context, email string) (*models.TeamMember, error)
	List(ctx context.Context, skip, take int, search string) ([]models.TeamMember, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, id string) error
}

// GORMTeamMemberRepository is a GORM implementation of TeamMemberRepository.
type GORMTeamMemberRepository struct {
	gormStore[models.TeamMember]
}

// NewGORMTeamMemberRepository creates a new instance of GORMTeamMemberRepository.
func NewGORMTeamMemberRepository(db *gorm.DB) *GORMTeamMemberRepository {
	return &GORMTeamMemberRepository{gormStore: newGormStore[models.TeamMember](db, "team member")}
}

// GetByEmail retrieves a team member by email.
func (r *GORMTeamMemberRepository) GetByEmail(ctx context.Context, email string) (*models.TeamMember, error) {
	var member models.TeamMember
	if err := r.db.WithContext(ctx).First(&member, "email = ?", email).Error; err != nil {
		return nil, fmt.Errorf("failed to get team member by email %s: %w", email, translate(err))
	}
	return &member, nil
}

// List returns team members, optionally filtered by a name or last name substring.
func (r *GORMTeamMemberRepository) List(ctx context.Context, skip, take int, search string) ([]models.TeamMember, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("(name LIKE ? OR last_name LIKE ?)", like, like)
	}
	return r.find(query.Scopes(paginate(skip, take)))
}
