package repositories

import (
	"context"

	"vitrine/internal/models"
)

// ProductFilter narrows product listings.
type ProductFilter struct {
	ActiveOnly   bool
	CategoryName string
	Search       string // case-insensitive match on title or description
}

// ProductUpdate describes one reconciliation of a product aggregate. A nil
// collection is left untouched; a non-nil one (even empty) replaces the stored set.
type ProductUpdate struct {
	Fields      map[string]interface{}
	Variants    *[]models.ProductVariant
	CategoryIDs *[]string
	ImageURLs   *[]string
}

// ProductRepository defines the interface for product aggregate data access.
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Exists(ctx context.Context, id string) (bool, error)
	CategoryIDs(ctx context.Context, id string) ([]string, error)
	List(ctx context.Context, filter ProductFilter, skip, take int) ([]models.Product, int64, error)
	ListRelated(ctx context.Context, id string, categoryIDs []string, limit int) ([]models.Product, error)
	// ApplyUpdate returns the image URLs stored before the update when
	// update.ImageURLs is non-nil.
	ApplyUpdate(ctx context.Context, id string, update *ProductUpdate) ([]string, error)
	Delete(ctx context.Context, id string) error
	// UnreferencedURLs returns the entries of urls that no product image row
	// points to.
	UnreferencedURLs(ctx context.Context, urls []string) ([]string, error)
}
