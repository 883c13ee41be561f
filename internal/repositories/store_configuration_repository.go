package repositories

import (
	"context"
	"fmt"

	"vitrine/internal/models"

	"gorm.io/gorm"
)

// StoreConfigurationRepository defines the interface for the store configuration singleton.
type StoreConfigurationRepository interface {
	Current(ctx context.Context) (*models.StoreConfiguration, error)
	Upsert(ctx context.Context, fields map[string]interface{}, socials *[]models.SocialMedia) (*models.StoreConfiguration, error)
}

// GORMStoreConfigurationRepository is a GORM implementation of StoreConfigurationRepository.
type GORMStoreConfigurationRepository struct {
	db *gorm.DB
}

// NewGORMStoreConfigurationRepository creates a new instance of GORMStoreConfigurationRepository.
func NewGORMStoreConfigurationRepository(db *gorm.DB) *GORMStoreConfigurationRepository {
	return &GORMStoreConfigurationRepository{db: db}
}

// Current returns the oldest configuration row with its social links.
func (r *GORMStoreConfigurationRepository) Current(ctx context.Context) (*models.StoreConfiguration, error) {
	return currentStoreConfiguration(r.db.WithContext(ctx))
}

func currentStoreConfiguration(db *gorm.DB) (*models.StoreConfiguration, error) {
	var cfg models.StoreConfiguration
	err := db.Preload("SocialMedias", func(db *gorm.DB) *gorm.DB {
		return db.Order("platform ASC")
	}).Order("created_at ASC").First(&cfg).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get store configuration: %w", translate(err))
	}
	return &cfg, nil
}

// Upsert updates the configuration row, creating it when none exists. When
// socials is non-nil the social links are replaced by it.
func (r *GORMStoreConfigurationRepository) Upsert(ctx context.Context, fields map[string]interface{}, socials *[]models.SocialMedia) (*models.StoreConfiguration, error) {
	var result *models.StoreConfiguration
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.StoreConfiguration
		err := tx.Order("created_at ASC").First(&existing).Error
		switch {
		case err == nil:
			if len(fields) > 0 {
				if err := tx.Model(&existing).Updates(fields).Error; err != nil {
					return fmt.Errorf("failed to update store configuration: %w", translate(err))
				}
			}
		case translate(err) == ErrNotFound:
			existing = models.StoreConfiguration{IsActive: true, Currency: "BRL", Locale: "pt-BR"}
			if err := tx.Create(&existing).Error; err != nil {
				return fmt.Errorf("failed to create store configuration: %w", translate(err))
			}
			if len(fields) > 0 {
				if err := tx.Model(&existing).Updates(fields).Error; err != nil {
					return fmt.Errorf("failed to create store configuration: %w", translate(err))
				}
			}
		default:
			return fmt.Errorf("failed to get store configuration: %w", translate(err))
		}

		if socials != nil {
			if err := tx.Where("store_config_id = ?", existing.ID).Delete(&models.SocialMedia{}).Error; err != nil {
				return fmt.Errorf("failed to clear social links: %w", translate(err))
			}
			if len(*socials) > 0 {
				for i := range *socials {
					(*socials)[i].ID = ""
					(*socials)[i].StoreConfigID = existing.ID
				}
				if err := tx.Create(socials).Error; err != nil {
					return fmt.Errorf("failed to create social links: %w", translate(err))
				}
			}
		}

		cfg, err := currentStoreConfiguration(tx)
		if err != nil {
			return err
		}
		result = cfg
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
