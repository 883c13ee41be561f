package services

import (
	"context"

	"vitrine/internal/models"
	"vitrine/internal/repositories"

	"github.com/sirupsen/logrus"
)

// CreateClientInput holds the fields of a client signup.
type CreateClientInput struct {
	Name     string `json:"name" validate:"required,max=100"`
	LastName string `json:"last_name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// UpdateClientInput holds the client fields that may be changed.
type UpdateClientInput struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=100"`
	LastName *string `json:"last_name" validate:"omitempty,min=1,max=100"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=6"`
	IsActive *bool   `json:"is_active"`
}

// ClientService handles business logic related to clients.
type ClientService struct {
	repo   repositories.ClientRepository
	logger *logrus.Logger
}

// NewClientService creates a new ClientService.
func NewClientService(repo repositories.ClientRepository, logger *logrus.Logger) *ClientService {
	return &ClientService{repo: repo, logger: logger}
}

// Create registers a client. The role is always CLIENT.
func (s *ClientService) Create(ctx context.Context, input CreateClientInput) (*models.Client, error) {
	hashed, err := hashPassword(input.Password)
	if err != nil {
		return nil, clientRes.failed("create", err)
	}

	client := &models.Client{
		Name:     input.Name,
		LastName: input.LastName,
		Email:    input.Email,
		Password: hashed,
		Role:     models.RoleClient,
		IsActive: true,
	}
	if err := s.repo.Create(ctx, client); err != nil {
		return nil, clientRes.fromStore(err, "", "create")
	}
	s.logger.WithField("client_id", client.ID).Info("client registered")
	return client, nil
}

func (s *ClientService) FindAll(ctx context.Context, skip, take int) ([]models.Client, error) {
	clients, err := s.repo.List(ctx, skip, take)
	if err != nil {
		return nil, clientRes.failed("list", err)
	}
	return clients, nil
}

func (s *ClientService) FindOne(ctx context.Context, id string) (*models.Client, error) {
	client, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, clientRes.fromStore(err, id, "find")
	}
	if client.Role != models.RoleClient {
		return nil, clientRes.notFound(id)
	}
	return client, nil
}

// Update changes the given fields. A new password is hashed before storage.
func (s *ClientService) Update(ctx context.Context, id string, input UpdateClientInput) (*models.Client, error) {
	if _, err := s.FindOne(ctx, id); err != nil {
		return nil, err
	}

	fields := make(map[string]interface{})
	setIf(fields, "name", input.Name)
	setIf(fields, "last_name", input.LastName)
	setIf(fields, "email", input.Email)
	setIf(fields, "is_active", input.IsActive)
	if input.Password != nil {
		hashed, err := hashPassword(*input.Password)
		if err != nil {
			return nil, clientRes.failed("update", err)
		}
		fields["password"] = hashed
	}

	if err := s.repo.Update(ctx, id, fields); err != nil {
		return nil, clientRes.fromStore(err, id, "update")
	}
	return s.FindOne(ctx, id)
}

// Remove deletes the client and returns it as it was.
func (s *ClientService) Remove(ctx context.Context, id string) (*models.Client, error) {
	client, err := s.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, clientRes.fromStore(err, id, "delete")
	}
	return client, nil
}
