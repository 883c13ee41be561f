package models

// Category groups products. Products reference categories through ProductCategory.
type Category struct {
	Base
	Name        string  `json:"name" gorm:"uniqueIndex;type:varchar(100);not null"`
	Description *string `json:"description" gorm:"type:varchar(255)"`
	IsActive    bool    `json:"is_active" gorm:"not null"`
	IsHome      bool    `json:"is_home" gorm:"not null"`
}

// Brand is referenced by products; ProductCount is only filled by list queries.
type Brand struct {
	Base
	Name         string `json:"name" gorm:"uniqueIndex;type:varchar(100);not null"`
	IsActive     bool   `json:"is_active" gorm:"not null"`
	ProductCount int64  `json:"product_count" gorm:"->;-:migration"`
}
