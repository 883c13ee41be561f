package models

import "github.com/shopspring/decimal"

// Banner is a home page banner with optional desktop and mobile artwork.
type Banner struct {
	Base
	Title             string `json:"title" gorm:"type:varchar(255);not null"`
	Subtitle          string `json:"subtitle" gorm:"type:varchar(255)"`
	LinkURL           string `json:"link_url" gorm:"type:varchar(512)"`
	ImageDesktop      string `json:"image_desktop" gorm:"type:varchar(512)"`
	ImageMobile       string `json:"image_mobile" gorm:"type:varchar(512)"`
	ResolutionDesktop string `json:"resolution_desktop" gorm:"type:varchar(20)"`
	ResolutionMobile  string `json:"resolution_mobile" gorm:"type:varchar(20)"`
	IsActive          bool   `json:"is_active" gorm:"not null"`
}

// Newsletter is a newsletter signup.
type Newsletter struct {
	Base
	Email    string  `json:"email" gorm:"uniqueIndex;type:varchar(60);not null"`
	Whatsapp *string `json:"whatsapp" gorm:"type:varchar(14)"`
}

// StoreConfiguration is the single row describing the store.
type StoreConfiguration struct {
	Base
	IsActive            bool             `json:"is_active" gorm:"not null"`
	MaintenanceMode     bool             `json:"maintenance_mode" gorm:"not null"`
	MaintenanceMessage  string           `json:"maintenance_message" gorm:"type:text"`
	StoreName           string           `json:"store_name" gorm:"type:varchar(255);not null"`
	CNPJ                string           `json:"cnpj" gorm:"column:cnpj;type:varchar(20)"`
	Description         string           `json:"description" gorm:"type:text"`
	Phone               string           `json:"phone" gorm:"type:varchar(30)"`
	Whatsapp            string           `json:"whatsapp" gorm:"type:varchar(30)"`
	Address             string           `json:"address" gorm:"type:varchar(255)"`
	City                string           `json:"city" gorm:"type:varchar(100)"`
	State               string           `json:"state" gorm:"type:varchar(50)"`
	ZipCode             string           `json:"zip_code" gorm:"type:varchar(20)"`
	LogoURL             string           `json:"logo_url" gorm:"type:varchar(512)"`
	FaviconURL          string           `json:"favicon_url" gorm:"type:varchar(512)"`
	GoogleMapsEmbedURL  string           `json:"google_maps_embed_url" gorm:"type:text"`
	BusinessHours       string           `json:"business_hours" gorm:"type:varchar(255)"`
	ContactEmail        string           `json:"contact_email" gorm:"type:varchar(255);not null"`
	NotifyNewOrders     bool             `json:"notify_new_orders" gorm:"not null"`
	AutomaticNewsletter bool             `json:"automatic_newsletter" gorm:"not null"`
	FreeShippingEnabled bool             `json:"free_shipping_enabled" gorm:"not null"`
	FreeShippingValue   *decimal.Decimal `json:"free_shipping_value" gorm:"type:decimal(12,2)"`
	ShippingDeadline    *int             `json:"shipping_deadline"`
	CreditCardEnabled   bool             `json:"credit_card_enabled" gorm:"not null"`
	PixEnabled          bool             `json:"pix_enabled" gorm:"not null"`
	BoletoEnabled       bool             `json:"boleto_enabled" gorm:"not null"`
	SeoTitle            string           `json:"seo_title" gorm:"type:varchar(255)"`
	SeoDescription      string           `json:"seo_description" gorm:"type:text"`
	SeoKeywords         string           `json:"seo_keywords" gorm:"type:text"`
	Currency            string           `json:"currency" gorm:"type:varchar(3);not null"`
	Locale              string           `json:"locale" gorm:"type:varchar(10);not null"`
	SocialMedias        []SocialMedia    `json:"social_medias" gorm:"foreignKey:StoreConfigID;constraint:OnDelete:CASCADE"`
}

func (StoreConfiguration) TableName() string { return "store_configurations" }

// SocialMedia is a social network link shown by the storefront.
type SocialMedia struct {
	Base
	Platform      string `json:"platform" gorm:"type:varchar(50);not null;uniqueIndex:idx_social_store_platform"`
	URL           string `json:"url" gorm:"type:varchar(512);not null"`
	IsActive      bool   `json:"is_active" gorm:"not null"`
	StoreConfigID string `json:"store_config_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_social_store_platform"`
}

func (SocialMedia) TableName() string { return "social_links" }
