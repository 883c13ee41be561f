package services

import (
	"context"
	"errors"

	"vitrine/internal/models"
	"vitrine/internal/repositories"

	"github.com/sirupsen/logrus"
)

// CreateTeamMemberInput holds the fields of a new team member.
type CreateTeamMemberInput struct {
	Name     string      `json:"name" validate:"required,max=100"`
	LastName string      `json:"last_name" validate:"required,max=100"`
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required,min=6"`
	Role     models.Role `json:"role" validate:"omitempty,oneof=ADMIN COLLABORATOR"`
}

// UpdateTeamMemberInput holds the team member fields that may be changed.
type UpdateTeamMemberInput struct {
	Name     *string      `json:"name" validate:"omitempty,min=1,max=100"`
	LastName *string      `json:"last_name" validate:"omitempty,min=1,max=100"`
	Email    *string      `json:"email" validate:"omitempty,email"`
	Password *string      `json:"password" validate:"omitempty,min=6"`
	Role     *models.Role `json:"role" validate:"omitempty,oneof=ADMIN COLLABORATOR"`
	IsActive *bool        `json:"is_active"`
}

// TeamMemberService handles business logic related to staff accounts.
type TeamMemberService struct {
	repo   repositories.TeamMemberRepository
	logger *logrus.Logger
}

// NewTeamMemberService creates a new TeamMemberService.
func NewTeamMemberService(repo repositories.TeamMemberRepository, logger *logrus.Logger) *TeamMemberService {
	return &TeamMemberService{repo: repo, logger: logger}
}

// Create adds a team member. The role defaults to COLLABORATOR.
func (s *TeamMemberService) Create(ctx context.Context, input CreateTeamMemberInput) (*models.TeamMember, error) {
	hashed, err := hashPassword(input.Password)
	if err != nil {
		return nil, teamMemberRes.failed("create", err)
	}

	role := input.Role
	if role == "" {
		role = models.RoleCollaborator
	}
	member := &models.TeamMember{
		Name:     input.Name,
		LastName: input.LastName,
		Email:    input.Email,
		Password: hashed,
		Role:     role,
		IsActive: true,
	}
	if err := s.repo.Create(ctx, member); err != nil {
		return nil, teamMemberRes.fromStore(err, "", "create")
	}
	s.logger.WithFields(logrus.Fields{"team_member_id": member.ID, "role": role}).Info("team member created")
	return member, nil
}

// FindAll lists team members; search matches name or last name.
func (s *TeamMemberService) FindAll(ctx context.Context, skip, take int, search string) ([]models.TeamMember, error) {
	members, err := s.repo.List(ctx, skip, take, search)
	if err != nil {
		return nil, teamMemberRes.failed("list", err)
	}
	return members, nil
}

func (s *TeamMemberService) FindOne(ctx context.Context, id string) (*models.TeamMember, error) {
	member, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, teamMemberRes.fromStore(err, id, "find")
	}
	return member, nil
}

func (s *TeamMemberService) Update(ctx context.Context, id string, input UpdateTeamMemberInput) (*models.TeamMember, error) {
	if _, err := s.FindOne(ctx, id); err != nil {
		return nil, err
	}

	fields := make(map[string]interface{})
	setIf(fields, "name", input.Name)
	setIf(fields, "last_name", input.LastName)
	setIf(fields, "email", input.Email)
	setIf(fields, "role", input.Role)
	setIf(fields, "is_active", input.IsActive)
	if input.Password != nil {
		hashed, err := hashPassword(*input.Password)
		if err != nil {
			return nil, teamMemberRes.failed("update", err)
		}
		fields["password"] = hashed
	}

	if err := s.repo.Update(ctx, id, fields); err != nil {
		return nil, teamMemberRes.fromStore(err, id, "update")
	}
	return s.FindOne(ctx, id)
}

func (s *TeamMemberService) Remove(ctx context.Context, id string) (*models.TeamMember, error) {
	member, err := s.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, teamMemberRes.fromStore(err, id, "delete")
	}
	return member, nil
}

// EnsureAdmin creates the admin account, or resets its name, password and
// role when the email is already registered.
func (s *TeamMemberService) EnsureAdmin(ctx context.Context, name, lastName, email, password string) (*models.TeamMember, error) {
	hashed, err := hashPassword(password)
	if err != nil {
		return nil, teamMemberRes.failed("create", err)
	}

	existing, err := s.repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		fields := map[string]interface{}{
			"name":      name,
			"last_name": lastName,
			"password":  hashed,
			"role":      models.RoleAdmin,
			"is_active": true,
		}
		if err := s.repo.Update(ctx, existing.ID, fields); err != nil {
			return nil, teamMemberRes.fromStore(err, existing.ID, "update")
		}
		s.logger.WithField("email", email).Info("admin team member updated")
		return s.FindOne(ctx, existing.ID)
	case errors.Is(err, repositories.ErrNotFound):
		admin := &models.TeamMember{
			Name:     name,
			LastName: lastName,
			Email:    email,
			Password: hashed,
			Role:     models.RoleAdmin,
			IsActive: true,
		}
		if err := s.repo.Create(ctx, admin); err != nil {
			return nil, teamMemberRes.fromStore(err, "", "create")
		}
		s.logger.WithField("email", email).Info("admin team member created")
		return admin, nil
	default:
		return nil, teamMemberRes.failed("find", err)
	}
}
