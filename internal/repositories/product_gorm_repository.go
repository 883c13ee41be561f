package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"vitrine/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// withAggregate preloads every child collection plus the brand.
func withAggregate(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Variants", func(db *gorm.DB) *gorm.DB { return db.Order("product_variants.created_at ASC") }).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("product_images.position ASC") }).
		Preload("Categories.Category").
		Preload("Brand")
}

// Create inserts the product and its children in one transaction.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(product).Error; err != nil {
			return err
		}
		if err := insertVariants(tx, product.ID, product.Variants); err != nil {
			return err
		}
		if err := insertCategories(tx, product.ID, product.Categories); err != nil {
			return err
		}
		return insertImages(tx, product.ID, product.Images)
	})
	if err != nil {
		return fmt.Errorf("failed to create product: %w", translate(err))
	}
	return nil
}

// GetByID retrieves a product with its variants, images, categories and brand.
func (r *GORMProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Scopes(withAggregate).First(&product, "products.id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, translate(err))
	}
	return &product, nil
}

func (r *GORMProductRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check product %s: %w", id, translate(err))
	}
	return count > 0, nil
}

// CategoryIDs returns the ids of the categories linked to the product.
func (r *GORMProductRepository) CategoryIDs(ctx context.Context, id string) ([]string, error) {
	ids := make([]string, 0)
	err := r.db.WithContext(ctx).
		Model(&models.ProductCategory{}).
		Where("product_id = ?", id).
		Pluck("category_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get categories of product %s: %w", id, translate(err))
	}
	return ids, nil
}

// List returns a page of products, newest first, and the total matching the filter.
func (r *GORMProductRepository) List(ctx context.Context, filter ProductFilter, skip, take int) ([]models.Product, int64, error) {
	filtered := func(db *gorm.DB) *gorm.DB {
		if filter.ActiveOnly {
			db = db.Where("products.is_active = ?", true)
		}
		if filter.CategoryName != "" {
			db = db.Where(`EXISTS (SELECT 1 FROM product_categories pc
				JOIN categories c ON c.id = pc.category_id
				WHERE pc.product_id = products.id AND c.name = ?)`, filter.CategoryName)
		}
		if filter.Search != "" {
			like := "%" + strings.ToLower(filter.Search) + "%"
			db = db.Where("(LOWER(products.title) LIKE ? OR LOWER(products.description) LIKE ?)", like, like)
		}
		return db
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Scopes(filtered).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", translate(err))
	}

	products := make([]models.Product, 0)
	err := r.db.WithContext(ctx).
		Scopes(filtered, withAggregate, paginate(skip, take)).
		Order("products.created_at DESC").
		Find(&products).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", translate(err))
	}
	return products, total, nil
}

// ListRelated returns active products other than id sharing a category with categoryIDs.
func (r *GORMProductRepository) ListRelated(ctx context.Context, id string, categoryIDs []string, limit int) ([]models.Product, error) {
	products := make([]models.Product, 0)
	if len(categoryIDs) == 0 {
		return products, nil
	}
	err := r.db.WithContext(ctx).
		Scopes(withAggregate).
		Where("products.id <> ? AND products.is_active = ?", id, true).
		Where("EXISTS (SELECT 1 FROM product_categories pc WHERE pc.product_id = products.id AND pc.category_id IN ?)", categoryIDs).
		Order("products.created_at DESC").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list related products of %s: %w", id, translate(err))
	}
	return products, nil
}

// ApplyUpdate writes scalar fields and replaces the supplied child sets in a
// single transaction. Nothing is committed if any step fails.
func (r *GORMProductRepository) ApplyUpdate(ctx context.Context, id string, update *ProductUpdate) ([]string, error) {
	var previous []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.Select("id").First(&product, "id = ?", id).Error; err != nil {
			return err
		}

		if update.ImageURLs != nil {
			previous = make([]string, 0)
			err := tx.Model(&models.ProductImage{}).
				Where("product_id = ?", id).
				Order("position ASC").
				Pluck("url", &previous).Error
			if err != nil {
				return err
			}
		}

		fields := make(map[string]interface{}, len(update.Fields)+1)
		for k, v := range update.Fields {
			fields[k] = v
		}
		fields["updated_at"] = time.Now()
		if err := tx.Model(&models.Product{}).Where("id = ?", id).Updates(fields).Error; err != nil {
			return err
		}

		if update.Variants != nil {
			if err := tx.Where("product_id = ?", id).Delete(&models.ProductVariant{}).Error; err != nil {
				return err
			}
			if err := insertVariants(tx, id, *update.Variants); err != nil {
				return err
			}
		}

		if update.CategoryIDs != nil {
			if err := tx.Where("product_id = ?", id).Delete(&models.ProductCategory{}).Error; err != nil {
				return err
			}
			links := make([]models.ProductCategory, 0, len(*update.CategoryIDs))
			for _, categoryID := range *update.CategoryIDs {
				links = append(links, models.ProductCategory{CategoryID: categoryID})
			}
			if err := insertCategories(tx, id, links); err != nil {
				return err
			}
		}

		if update.ImageURLs != nil {
			if err := tx.Where("product_id = ?", id).Delete(&models.ProductImage{}).Error; err != nil {
				return err
			}
			images := make([]models.ProductImage, 0, len(*update.ImageURLs))
			for _, url := range *update.ImageURLs {
				images = append(images, models.ProductImage{URL: url})
			}
			if err := insertImages(tx, id, images); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update product %s: %w", id, translate(err))
	}
	return previous, nil
}

// Delete removes the product and every owned row in one transaction.
func (r *GORMProductRepository) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, child := range []interface{}{&models.ProductVariant{}, &models.ProductImage{}, &models.ProductCategory{}} {
			if err := tx.Where("product_id = ?", id).Delete(child).Error; err != nil {
				return err
			}
		}
		res := tx.Delete(&models.Product{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete product %s: %w", id, translate(err))
	}
	return nil
}

func (r *GORMProductRepository) UnreferencedURLs(ctx context.Context, urls []string) ([]string, error) {
	if len(urls) == 0 {
		return nil, nil
	}
	var used []string
	err := r.db.WithContext(ctx).Model(&models.ProductImage{}).
		Where("url IN ?", urls).
		Distinct("url").
		Pluck("url", &used).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check image references: %w", translate(err))
	}

	skip := make(map[string]struct{}, len(used)+len(urls))
	for _, url := range used {
		skip[url] = struct{}{}
	}
	var unused []string
	for _, url := range urls {
		if _, ok := skip[url]; ok {
			continue
		}
		skip[url] = struct{}{}
		unused = append(unused, url)
	}
	return unused, nil
}

func insertVariants(tx *gorm.DB, productID string, variants []models.ProductVariant) error {
	if len(variants) == 0 {
		return nil
	}
	for i := range variants {
		variants[i].ID = ""
		variants[i].ProductID = productID
	}
	return tx.Create(&variants).Error
}

func insertCategories(tx *gorm.DB, productID string, links []models.ProductCategory) error {
	if len(links) == 0 {
		return nil
	}
	for i := range links {
		links[i].ProductID = productID
	}
	return tx.Omit(clause.Associations).Create(&links).Error
}

// insertImages stores images with positions following their slice order.
func insertImages(tx *gorm.DB, productID string, images []models.ProductImage) error {
	if len(images) == 0 {
		return nil
	}
	for i := range images {
		images[i].ID = ""
		images[i].ProductID = productID
		images[i].Position = i
	}
	return tx.Create(&images).Error
}
