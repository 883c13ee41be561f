package services

import (
	"context"

	"vitrine/internal/models"
	"vitrine/internal/repositories"

	"github.com/sirupsen/logrus"
)

// CategoryInput holds the fields of a new category.
type CategoryInput struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description *string `json:"description" validate:"omitempty,max=255"`
	IsActive    *bool   `json:"is_active"`
	IsHome      *bool   `json:"is_home"`
}

// UpdateCategoryInput holds the category fields that may be changed.
type UpdateCategoryInput struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=255"`
	IsActive    *bool   `json:"is_active"`
	IsHome      *bool   `json:"is_home"`
}

// CategoryService handles business logic related to categories.
type CategoryService struct {
	repo   repositories.CategoryRepository
	logger *logrus.Logger
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(repo repositories.CategoryRepository, logger *logrus.Logger) *CategoryService {
	return &CategoryService{repo: repo, logger: logger}
}

func (s *CategoryService) Create(ctx context.Context, input CategoryInput) (*models.Category, error) {
	category := &models.Category{
		Name:        input.Name,
		Description: input.Description,
		IsActive:    input.IsActive == nil || *input.IsActive,
		IsHome:      input.IsHome != nil && *input.IsHome,
	}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, categoryRes.fromStore(err, "", "create")
	}
	return category, nil
}

// FindAll lists categories. The storefront passes activeOnly, and homeOnly
// for the home page selection.
func (s *CategoryService) FindAll(ctx context.Context, activeOnly, homeOnly bool, skip, take int) ([]models.Category, error) {
	filter := repositories.CategoryFilter{ActiveOnly: activeOnly, HomeOnly: homeOnly}
	categories, err := s.repo.List(ctx, filter, skip, take)
	if err != nil {
		return nil, categoryRes.failed("list", err)
	}
	return categories, nil
}

func (s *CategoryService) FindOne(ctx context.Context, id string) (*models.Category, error) {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, categoryRes.fromStore(err, id, "find")
	}
	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, id string, input UpdateCategoryInput) (*models.Category, error) {
	if _, err := s.FindOne(ctx, id); err != nil {
		return nil, err
	}

	fields := make(map[string]interface{})
	setIf(fields, "name", input.Name)
	setIf(fields, "description", input.Description)
	setIf(fields, "is_active", input.IsActive)
	setIf(fields, "is_home", input.IsHome)
	if err := s.repo.Update(ctx, id, fields); err != nil {
		return nil, categoryRes.fromStore(err, id, "update")
	}
	return s.FindOne(ctx, id)
}

// Remove deletes the category. Products lose the link but are kept.
func (s *CategoryService) Remove(ctx context.Context, id string) (*models.Category, error) {
	category, err := s.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, categoryRes.fromStore(err, id, "delete")
	}
	s.logger.WithField("category_id", id).Info("category deleted")
	return category, nil
}

// BrandInput holds the fields of a new brand.
type BrandInput struct {
	Name     string `json:"name" validate:"required,max=100"`
	IsActive *bool  `json:"is_active"`
}

// UpdateBrandInput holds the brand fields that may be changed.
type UpdateBrandInput struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=100"`
	IsActive *bool   `json:"is_active"`
}

// BrandService handles business logic related to brands.
type BrandService struct {
	repo   repositories.BrandRepository
	logger *logrus.Logger
}

// NewBrandService creates a new BrandService.
func NewBrandService(repo repositories.BrandRepository, logger *logrus.Logger) *BrandService {
	return &BrandService{repo: repo, logger: logger}
}

func (s *BrandService) Create(ctx context.Context, input BrandInput) (*models.Brand, error) {
	brand := &models.Brand{
		Name:     input.Name,
		IsActive: input.IsActive == nil || *input.IsActive,
	}
	if err := s.repo.Create(ctx, brand); err != nil {
		return nil, brandRes.fromStore(err, "", "create")
	}
	return brand, nil
}

// FindAll lists brands with their product counts.
func (s *BrandService) FindAll(ctx context.Context, activeOnly bool, skip, take int) ([]models.Brand, error) {
	brands, err := s.repo.List(ctx, activeOnly, skip, take)
	if err != nil {
		return nil, brandRes.failed("list", err)
	}
	return brands, nil
}

func (s *BrandService) FindOne(ctx context.Context, id string) (*models.Brand, error) {
	brand, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, brandRes.fromStore(err, id, "find")
	}
	return brand, nil
}

func (s *BrandService) Update(ctx context.Context, id string, input UpdateBrandInput) (*models.Brand, error) {
	if _, err := s.FindOne(ctx, id); err != nil {
		return nil, err
	}

	fields := make(map[string]interface{})
	setIf(fields, "name", input.Name)
	setIf(fields, "is_active", input.IsActive)
	if err := s.repo.Update(ctx, id, fields); err != nil {
		return nil, brandRes.fromStore(err, id, "update")
	}
	return s.FindOne(ctx, id)
}

// Remove deletes the brand. Its products are kept without a brand.
func (s *BrandService) Remove(ctx context.Context, id string) (*models.Brand, error) {
	brand, err := s.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, brandRes.fromStore(err, id, "delete")
	}
	s.logger.WithField("brand_id", id).Info("brand deleted")
	return brand, nil
}
