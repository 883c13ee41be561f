package services

import (
	"context"

	"vitrine/internal/models"
	"vitrine/internal/repositories"

	"github.com/sirupsen/logrus"
)

// NewsletterInput holds the fields of a newsletter signup.
type NewsletterInput struct {
	Email    string  `json:"email" validate:"required,email,max=60"`
	Whatsapp *string `json:"whatsapp" validate:"omitempty,len=14"`
}

// UpdateNewsletterInput holds the signup fields that may be changed.
type UpdateNewsletterInput struct {
	Email    *string `json:"email" validate:"omitempty,email,max=60"`
	Whatsapp *string `json:"whatsapp" validate:"omitempty,len=14"`
}

// NewsletterService handles business logic related to newsletter signups.
type NewsletterService struct {
	repo   repositories.NewsletterRepository
	logger *logrus.Logger
}

// NewNewsletterService creates a new NewsletterService.
func NewNewsletterService(repo repositories.NewsletterRepository, logger *logrus.Logger) *NewsletterService {
	return &NewsletterService{repo: repo, logger: logger}
}

// Create subscribes an email. A registered email is rejected with a conflict.
func (s *NewsletterService) Create(ctx context.Context, input NewsletterInput) (*models.Newsletter, error) {
	taken, err := s.repo.EmailTaken(ctx, input.Email, "")
	if err != nil {
		return nil, newsletterRes.failed("create", err)
	}
	if taken {
		return nil, newsletterRes.alreadyExists()
	}

	signup := &models.Newsletter{Email: input.Email, Whatsapp: input.Whatsapp}
	if err := s.repo.Create(ctx, signup); err != nil {
		return nil, newsletterRes.fromStore(err, "", "create")
	}
	return signup, nil
}

// FindAll lists signups; search matches email or whatsapp.
func (s *NewsletterService) FindAll(ctx context.Context, skip, take int, search string) ([]models.Newsletter, error) {
	signups, err := s.repo.List(ctx, skip, take, search)
	if err != nil {
		return nil, newsletterRes.failed("list", err)
	}
	return signups, nil
}

func (s *NewsletterService) FindOne(ctx context.Context, id string) (*models.Newsletter, error) {
	signup, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, newsletterRes.fromStore(err, id, "find")
	}
	return signup, nil
}

func (s *NewsletterService) Update(ctx context.Context, id string, input UpdateNewsletterInput) (*models.Newsletter, error) {
	if _, err := s.FindOne(ctx, id); err != nil {
		return nil, err
	}
	if input.Email != nil {
		taken, err := s.repo.EmailTaken(ctx, *input.Email, id)
		if err != nil {
			return nil, newsletterRes.failed("update", err)
		}
		if taken {
			return nil, newsletterRes.alreadyExists()
		}
	}

	fields := make(map[string]interface{})
	setIf(fields, "email", input.Email)
	setIf(fields, "whatsapp", input.Whatsapp)
	if err := s.repo.Update(ctx, id, fields); err != nil {
		return nil, newsletterRes.fromStore(err, id, "update")
	}
	return s.FindOne(ctx, id)
}

func (s *NewsletterService) Remove(ctx context.Context, id string) (*models.Newsletter, error) {
	signup, err := s.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, newsletterRes.fromStore(err, id, "delete")
	}
	return signup, nil
}
