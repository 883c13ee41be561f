package services

import (
	"context"
	"errors"
	"mime/multipart"

	"vitrine/internal/models"
	"vitrine/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const storeUploadFolder = "store"

// SocialMediaInput holds the fields of a social link.
type SocialMediaInput struct {
	Platform string `json:"platform" validate:"required,max=50"`
	URL      string `json:"url" validate:"required,url"`
	IsActive *bool  `json:"is_active"`
}

// UpdateSocialMediaInput holds the social link fields that may be changed.
type UpdateSocialMediaInput struct {
	Platform *string `json:"platform" validate:"omitempty,min=1,max=50"`
	URL      *string `json:"url" validate:"omitempty,url"`
	IsActive *bool   `json:"is_active"`
}

// StoreConfigurationInput holds the store settings that may be changed. Name
// and Email are accepted as aliases of StoreName and ContactEmail.
type StoreConfigurationInput struct {
	IsActive            *bool               `json:"is_active"`
	MaintenanceMode     *bool               `json:"maintenance_mode"`
	MaintenanceMessage  *string             `json:"maintenance_message"`
	StoreName           *string             `json:"store_name" validate:"omitempty,min=1,max=255"`
	Name                *string             `json:"name" validate:"omitempty,min=1,max=255"`
	CNPJ                *string             `json:"cnpj" validate:"omitempty,max=20"`
	Description         *string             `json:"description"`
	Phone               *string             `json:"phone" validate:"omitempty,max=30"`
	Whatsapp            *string             `json:"whatsapp" validate:"omitempty,max=30"`
	Address             *string             `json:"address" validate:"omitempty,max=255"`
	City                *string             `json:"city" validate:"omitempty,max=100"`
	State               *string             `json:"state" validate:"omitempty,max=50"`
	ZipCode             *string             `json:"zip_code" validate:"omitempty,max=20"`
	LogoURL             *string             `json:"logo_url" validate:"omitempty,max=512"`
	FaviconURL          *string             `json:"favicon_url" validate:"omitempty,max=512"`
	GoogleMapsEmbedURL  *string             `json:"google_maps_embed_url"`
	BusinessHours       *string             `json:"business_hours" validate:"omitempty,max=255"`
	ContactEmail        *string             `json:"contact_email" validate:"omitempty,email"`
	Email               *string             `json:"email" validate:"omitempty,email"`
	NotifyNewOrders     *bool               `json:"notify_new_orders"`
	AutomaticNewsletter *bool               `json:"automatic_newsletter"`
	FreeShippingEnabled *bool               `json:"free_shipping_enabled"`
	FreeShippingValue   *decimal.Decimal    `json:"free_shipping_value" validate:"omitempty,gte=0"`
	ShippingDeadline    *int                `json:"shipping_deadline" validate:"omitempty,min=0"`
	CreditCardEnabled   *bool               `json:"credit_card_enabled"`
	PixEnabled          *bool               `json:"pix_enabled"`
	BoletoEnabled       *bool               `json:"boleto_enabled"`
	SeoTitle            *string             `json:"seo_title" validate:"omitempty,max=255"`
	SeoDescription      *string             `json:"seo_description"`
	SeoKeywords         *string             `json:"seo_keywords"`
	Currency            *string             `json:"currency" validate:"omitempty,len=3"`
	Locale              *string             `json:"locale" validate:"omitempty,max=10"`
	SocialMedias        *[]SocialMediaInput `json:"social_medias" validate:"omitempty,dive"`
}

// StoreConfigurationService manages the store configuration singleton.
type StoreConfigurationService struct {
	repo   repositories.StoreConfigurationRepository
	files  FileStorage
	logger *logrus.Logger
}

// NewStoreConfigurationService creates a new StoreConfigurationService.
func NewStoreConfigurationService(repo repositories.StoreConfigurationRepository, files FileStorage, logger *logrus.Logger) *StoreConfigurationService {
	return &StoreConfigurationService{repo: repo, files: files, logger: logger}
}

// Current returns the store configuration with its social links.
func (s *StoreConfigurationService) Current(ctx context.Context) (*models.StoreConfiguration, error) {
	cfg, err := s.repo.Current(ctx)
	if err != nil {
		return nil, storeConfRes.fromStore(err, "", "find")
	}
	return cfg, nil
}

// Upsert applies input to the configuration, creating it on first use. A logo
// upload replaces the stored logo; the previous file is deleted unless external.
func (s *StoreConfigurationService) Upsert(ctx context.Context, input StoreConfigurationInput, logo *multipart.FileHeader) (*models.StoreConfiguration, error) {
	var previousLogo string
	if logo != nil {
		current, err := s.repo.Current(ctx)
		switch {
		case err == nil:
			previousLogo = current.LogoURL
		case !errors.Is(err, repositories.ErrNotFound):
			return nil, storeConfRes.failed("update", err)
		}
	}

	fields := storeConfigurationFields(input)

	var uploaded []string
	if logo != nil {
		paths, err := uploadFiles(ctx, s.files, s.logger, []*multipart.FileHeader{logo}, storeUploadFolder)
		if err != nil {
			return nil, storeConfRes.failed("update", err)
		}
		uploaded = paths
		fields["logo_url"] = paths[0]
	}

	var socials *[]models.SocialMedia
	if input.SocialMedias != nil {
		list := make([]models.SocialMedia, 0, len(*input.SocialMedias))
		for _, sm := range *input.SocialMedias {
			list = append(list, models.SocialMedia{
				Platform: sm.Platform,
				URL:      sm.URL,
				IsActive: sm.IsActive == nil || *sm.IsActive,
			})
		}
		socials = &list
	}

	cfg, err := s.repo.Upsert(ctx, fields, socials)
	if err != nil {
		removeFiles(context.WithoutCancel(ctx), s.files, s.logger, uploaded)
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, socialRes.alreadyExists()
		}
		return nil, storeConfRes.failed("update", err)
	}

	if logo != nil && previousLogo != cfg.LogoURL {
		removeFiles(ctx, s.files, s.logger, []string{previousLogo})
	}
	s.logger.WithField("store_configuration_id", cfg.ID).Info("store configuration saved")
	return cfg, nil
}

func storeConfigurationFields(input StoreConfigurationInput) map[string]interface{} {
	fields := make(map[string]interface{})
	setIf(fields, "is_active", input.IsActive)
	setIf(fields, "maintenance_mode", input.MaintenanceMode)
	setIf(fields, "maintenance_message", input.MaintenanceMessage)
	setIf(fields, "store_name", input.StoreName)
	setIf(fields, "store_name", input.Name)
	setIf(fields, "cnpj", input.CNPJ)
	setIf(fields, "description", input.Description)
	setIf(fields, "phone", input.Phone)
	setIf(fields, "whatsapp", input.Whatsapp)
	setIf(fields, "address", input.Address)
	setIf(fields, "city", input.City)
	setIf(fields, "state", input.State)
	setIf(fields, "zip_code", input.ZipCode)
	setIf(fields, "logo_url", input.LogoURL)
	setIf(fields, "favicon_url", input.FaviconURL)
	setIf(fields, "google_maps_embed_url", input.GoogleMapsEmbedURL)
	setIf(fields, "business_hours", input.BusinessHours)
	setIf(fields, "contact_email", input.ContactEmail)
	setIf(fields, "contact_email", input.Email)
	setIf(fields, "notify_new_orders", input.NotifyNewOrders)
	setIf(fields, "automatic_newsletter", input.AutomaticNewsletter)
	setIf(fields, "free_shipping_enabled", input.FreeShippingEnabled)
	setIf(fields, "free_shipping_value", input.FreeShippingValue)
	setIf(fields, "shipping_deadline", input.ShippingDeadline)
	setIf(fields, "credit_card_enabled", input.CreditCardEnabled)
	setIf(fields, "pix_enabled", input.PixEnabled)
	setIf(fields, "boleto_enabled", input.BoletoEnabled)
	setIf(fields, "seo_title", input.SeoTitle)
	setIf(fields, "seo_description", input.SeoDescription)
	setIf(fields, "seo_keywords", input.SeoKeywords)
	setIf(fields, "currency", input.Currency)
	setIf(fields, "locale", input.Locale)
	return fields
}

// SocialMediaService handles business logic related to social links.
type SocialMediaService struct {
	repo   repositories.SocialMediaRepository
	store  repositories.StoreConfigurationRepository
	logger *logrus.Logger
}

// NewSocialMediaService creates a new SocialMediaService.
func NewSocialMediaService(repo repositories.SocialMediaRepository, store repositories.StoreConfigurationRepository, logger *logrus.Logger) *SocialMediaService {
	return &SocialMediaService{repo: repo, store: store, logger: logger}
}

// Create adds a social link to the store configuration, which must exist.
func (s *SocialMediaService) Create(ctx context.Context, input SocialMediaInput) (*models.SocialMedia, error) {
	cfg, err := s.store.Current(ctx)
	if err != nil {
		return nil, storeConfRes.fromStore(err, "", "find")
	}

	social := &models.SocialMedia{
		Platform:      input.Platform,
		URL:           input.URL,
		IsActive:      input.IsActive == nil || *input.IsActive,
		StoreConfigID: cfg.ID,
	}
	if err := s.repo.Create(ctx, social); err != nil {
		return nil, socialRes.fromStore(err, "", "create")
	}
	return social, nil
}

func (s *SocialMediaService) FindAll(ctx context.Context) ([]models.SocialMedia, error) {
	socials, err := s.repo.List(ctx)
	if err != nil {
		return nil, socialRes.failed("list", err)
	}
	return socials, nil
}

func (s *SocialMediaService) FindOne(ctx context.Context, id string) (*models.SocialMedia, error) {
	social, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, socialRes.fromStore(err, id, "find")
	}
	return social, nil
}

func (s *SocialMediaService) Update(ctx context.Context, id string, input UpdateSocialMediaInput) (*models.SocialMedia, error) {
	if _, err := s.FindOne(ctx, id); err != nil {
		return nil, err
	}

	fields := make(map[string]interface{})
	setIf(fields, "platform", input.Platform)
	setIf(fields, "url", input.URL)
	setIf(fields, "is_active", input.IsActive)
	if err := s.repo.Update(ctx, id, fields); err != nil {
		return nil, socialRes.fromStore(err, id, "update")
	}
	return s.FindOne(ctx, id)
}

// Remove deletes the social link.
func (s *SocialMediaService) Remove(ctx context.Context, id string) error {
	if _, err := s.FindOne(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return socialRes.fromStore(err, id, "delete")
	}
	return nil
}
