package handlers

import (
	"vitrine/internal/middleware"
	"vitrine/internal/models"
	"vitrine/internal/services"
	"vitrine/pkg/cache"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

var storeConfigurationForm = formSpec{
	"is_active":             formBool,
	"maintenance_mode":      formBool,
	"notify_new_orders":     formBool,
	"automatic_newsletter":  formBool,
	"free_shipping_enabled": formBool,
	"credit_card_enabled":   formBool,
	"pix_enabled":           formBool,
	"boleto_enabled":        formBool,
	"free_shipping_value":   formNumber,
	"shipping_deadline":     formNumber,
	"social_medias":         formJSON,
}

// StoreConfigurationHandler handles HTTP requests for the store settings.
type StoreConfigurationHandler struct {
	service  *services.StoreConfigurationService
	cache    cache.Store
	validate *validator.Validate
	purge    invalidator
	logger   *logrus.Logger
}

// NewStoreConfigurationHandler creates a new StoreConfigurationHandler.
func NewStoreConfigurationHandler(service *services.StoreConfigurationService, store cache.Store, logger *logrus.Logger) *StoreConfigurationHandler {
	return &StoreConfigurationHandler{
		service:  service,
		cache:    store,
		validate: newValidator(),
		purge:    invalidator{store: store, logger: logger},
		logger:   logger,
	}
}

// RegisterRoutes registers the store configuration routes with the Fiber app.
func (h *StoreConfigurationHandler) RegisterRoutes(router fiber.Router, requireAuth fiber.Handler) {
	configRoutes := router.Group("/store-configuration")
	configRoutes.Get("/public", middleware.CacheResponse(h.cache, cacheTTL, middleware.StaticKey(keyStoreConfigCurrent), h.logger), h.HandleGetCurrent)
	configRoutes.Patch("/admin", requireAuth, middleware.RequireRoles(models.RoleAdmin), h.HandleUpsert)
}

// HandleGetCurrent returns the store configuration with its social links.
func (h *StoreConfigurationHandler) HandleGetCurrent(c *fiber.Ctx) error {
	cfg, err := h.service.Current(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(cfg)
}

// HandleUpsert creates or updates the store configuration. A multipart
// "logo" file replaces the stored logo.
func (h *StoreConfigurationHandler) HandleUpsert(c *fiber.Ctx) error {
	var input services.StoreConfigurationInput
	if err := bind(c, h.validate, &input, storeConfigurationForm); err != nil {
		return err
	}
	cfg, err := h.service.Upsert(c.UserContext(), input, formFile(c, "logo"))
	if err != nil {
		return err
	}
	h.purge.drop(c.UserContext(), []string{keyStoreConfigCurrent, keySocialMediaAll})
	return c.JSON(cfg)
}
