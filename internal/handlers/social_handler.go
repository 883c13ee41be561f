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

// SocialMediaHandler handles HTTP requests for the store's social links.
type SocialMediaHandler struct {
	service  *services.SocialMediaService
	cache    cache.Store
	validate *validator.Validate
	purge    invalidator
	logger   *logrus.Logger
}

// NewSocialMediaHandler creates a new SocialMediaHandler.
func NewSocialMediaHandler(service *services.SocialMediaService, store cache.Store, logger *logrus.Logger) *SocialMediaHandler {
	return &SocialMediaHandler{
		service:  service,
		cache:    store,
		validate: newValidator(),
		purge:    invalidator{store: store, logger: logger},
		logger:   logger,
	}
}

// RegisterRoutes registers the social link routes with the Fiber app.
func (h *SocialMediaHandler) RegisterRoutes(router fiber.Router, requireAuth fiber.Handler) {
	admin := middleware.RequireRoles(models.RoleAdmin)

	socialRoutes := router.Group("/social")
	socialRoutes.Post("/", requireAuth, admin, h.HandleCreate)
	socialRoutes.Get("/", middleware.CacheResponse(h.cache, cacheTTL, middleware.StaticKey(keySocialMediaAll), h.logger), h.HandleGetAll)
	socialRoutes.Get("/:id", h.HandleGetByID)
	socialRoutes.Patch("/:id", requireAuth, admin, h.HandleUpdate)
	socialRoutes.Delete("/:id", requireAuth, admin, h.HandleDelete)
}

// HandleCreate adds a social link to the store.
func (h *SocialMediaHandler) HandleCreate(c *fiber.Ctx) error {
	var input services.SocialMediaInput
	if err := bind(c, h.validate, &input, formSpec{"is_active": formBool}); err != nil {
		return err
	}
	social, err := h.service.Create(c.UserContext(), input)
	if err != nil {
		return err
	}
	h.invalidate(c)
	return c.Status(fiber.StatusCreated).JSON(social)
}

// HandleGetAll lists the social links ordered by platform.
func (h *SocialMediaHandler) HandleGetAll(c *fiber.Ctx) error {
	socials, err := h.service.FindAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(socials)
}

// HandleGetByID returns one social link.
func (h *SocialMediaHandler) HandleGetByID(c *fiber.Ctx) error {
	social, err := h.service.FindOne(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(social)
}

// HandleUpdate changes a social link.
func (h *SocialMediaHandler) HandleUpdate(c *fiber.Ctx) error {
	var input services.UpdateSocialMediaInput
	if err := bind(c, h.validate, &input, formSpec{"is_active": formBool}); err != nil {
		return err
	}
	social, err := h.service.Update(c.UserContext(), c.Params("id"), input)
	if err != nil {
		return err
	}
	h.invalidate(c)
	return c.JSON(social)
}

// HandleDelete removes a social link.
func (h *SocialMediaHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.Remove(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	h.invalidate(c)
	return c.JSON(fiber.Map{"message": "Social media deleted successfully"})
}

func (h *SocialMediaHandler) invalidate(c *fiber.Ctx) {
	h.purge.drop(c.UserContext(), []string{keySocialMediaAll, keyStoreConfigCurrent})
}
