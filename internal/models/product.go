package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Product is the root of the catalog aggregate. Variants, Images and
// Categories are owned by the product and replaced as whole sets.
type Product struct {
	Base
	Title         string            `json:"title" gorm:"type:varchar(255);not null"`
	Description   string            `json:"description" gorm:"type:text"`
	Price         decimal.Decimal   `json:"price" gorm:"type:decimal(12,2);not null"`
	DiscountPrice *decimal.Decimal  `json:"discount_price" gorm:"type:decimal(12,2)"`
	Specs         datatypes.JSONMap `json:"specs"`
	BrandID       *string           `json:"brand_id" gorm:"type:varchar(36);index"`
	Brand         *Brand            `json:"brand,omitempty" gorm:"constraint:OnDelete:SET NULL"`
	IsActive      bool              `json:"is_active" gorm:"not null;index"`
	Variants      []ProductVariant  `json:"variants" gorm:"constraint:OnDelete:CASCADE"`
	Images        []ProductImage    `json:"images" gorm:"constraint:OnDelete:CASCADE"`
	Categories    []ProductCategory `json:"categories" gorm:"constraint:OnDelete:CASCADE"`
}

// ProductVariant is a color/quantity row owned by exactly one product.
type ProductVariant struct {
	Base
	ProductID string  `json:"product_id" gorm:"type:varchar(36);not null;index"`
	Name      *string `json:"name,omitempty" gorm:"type:varchar(100)"`
	Color     string  `json:"color" gorm:"type:varchar(100);not null"`
	Quantity  int     `json:"quantity" gorm:"not null"`
}

// ProductImage holds either an external URL or a storage-relative upload path.
// Position keeps the order in which the image set was supplied.
type ProductImage struct {
	Base
	ProductID string `json:"product_id" gorm:"type:varchar(36);not null;index"`
	URL       string `json:"url" gorm:"type:varchar(512);not null"`
	Position  int    `json:"position" gorm:"not null"`
}

// ProductCategory links a product to a category; the pair is its identity.
type ProductCategory struct {
	ProductID  string    `json:"product_id" gorm:"primaryKey;type:varchar(36)"`
	CategoryID string    `json:"category_id" gorm:"primaryKey;type:varchar(36);index"`
	Category   *Category `json:"category,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}

// ImageURLs returns the product's image URLs in stored order.
func (p *Product) ImageURLs() []string {
	urls := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		urls = append(urls, img.URL)
	}
	return urls
}

// CategoryIDs returns the ids of the categories the product is linked to.
func (p *Product) CategoryIDs() []string {
	ids := make([]string, 0, len(p.Categories))
	for _, pc := range p.Categories {
		ids = append(ids, pc.CategoryID)
	}
	return ids
}
