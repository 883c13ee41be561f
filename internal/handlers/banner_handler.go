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

// BannerHandler handles HTTP requests for home page banners.
type BannerHandler struct {
	service  *services.BannerService
	cache    cache.Store
	validate *validator.Validate
	purge    invalidator
	logger   *logrus.Logger
}

// NewBannerHandler creates a new BannerHandler.
func NewBannerHandler(service *services.BannerService, store cache.Store, logger *logrus.Logger) *BannerHandler {
	return &BannerHandler{
		service:  service,
		cache:    store,
		validate: newValidator(),
		purge:    invalidator{store: store, logger: logger},
		logger:   logger,
	}
}

// RegisterRoutes registers the admin and storefront banner routes.
func (h *BannerHandler) RegisterRoutes(router fiber.Router, requireAuth fiber.Handler) {
	admin := middleware.RequireRoles(models.RoleAdmin)
	team := middleware.RequireRoles(models.RoleAdmin, models.RoleCollaborator)

	adminRoutes := router.Group("/banner/admin", requireAuth)
	adminRoutes.Post("/", admin, h.HandleCreate)
	adminRoutes.Get("/", team, middleware.CacheResponse(h.cache, cacheTTL, middleware.ListKey(keyBannersAll), h.logger), h.HandleGetAll)
	adminRoutes.Patch("/:id", admin, h.HandleUpdate)
	adminRoutes.Delete("/:id", admin, h.HandleDelete)

	publicRoutes := router.Group("/banner/public")
	publicRoutes.Get("/", middleware.CacheResponse(h.cache, cacheTTL, middleware.ListKey(keyBannersPublic), h.logger), h.HandleGetPublic)
	publicRoutes.Get("/:id", middleware.CacheResponse(h.cache, cacheTTL, middleware.ParamKey(keyBanner, "id"), h.logger), h.HandleGetByID)
}

func bannerImages(c *fiber.Ctx) services.BannerImages {
	return services.BannerImages{
		Desktop: formFile(c, "desktop_image"),
		Mobile:  formFile(c, "mobile_image"),
	}
}

// HandleCreate creates a banner from a JSON or multipart body.
func (h *BannerHandler) HandleCreate(c *fiber.Ctx) error {
	var input services.BannerInput
	if err := bind(c, h.validate, &input, formSpec{"is_active": formBool}); err != nil {
		return err
	}
	banner, err := h.service.Create(c.UserContext(), input, bannerImages(c))
	if err != nil {
		return err
	}
	h.invalidate(c, banner.ID)
	return c.Status(fiber.StatusCreated).JSON(banner)
}

// HandleGetAll lists every banner.
func (h *BannerHandler) HandleGetAll(c *fiber.Ctx) error {
	skip, take, err := pagination(c)
	if err != nil {
		return err
	}
	banners, err := h.service.FindAll(c.UserContext(), false, skip, take)
	if err != nil {
		return err
	}
	return c.JSON(banners)
}

// HandleGetPublic lists active banners.
func (h *BannerHandler) HandleGetPublic(c *fiber.Ctx) error {
	skip, take, err := pagination(c)
	if err != nil {
		return err
	}
	banners, err := h.service.FindAll(c.UserContext(), true, skip, take)
	if err != nil {
		return err
	}
	return c.JSON(banners)
}

// HandleGetByID returns one banner.
func (h *BannerHandler) HandleGetByID(c *fiber.Ctx) error {
	banner, err := h.service.FindOne(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(banner)
}

// HandleUpdate changes a banner. Uploaded images replace the stored ones.
func (h *BannerHandler) HandleUpdate(c *fiber.Ctx) error {
	var input services.UpdateBannerInput
	if err := bind(c, h.validate, &input, formSpec{"is_active": formBool}); err != nil {
		return err
	}
	id := c.Params("id")
	banner, err := h.service.Update(c.UserContext(), id, input, bannerImages(c))
	if err != nil {
		return err
	}
	h.invalidate(c, id)
	return c.JSON(banner)
}

// HandleDelete removes a banner and its stored images.
func (h *BannerHandler) HandleDelete(c *fiber.Ctx) error {
	id := c.Params("id")
	banner, err := h.service.Remove(c.UserContext(), id)
	if err != nil {
		return err
	}
	h.invalidate(c, id)
	return c.JSON(banner)
}

func (h *BannerHandler) invalidate(c *fiber.Ctx, id string) {
	h.purge.drop(c.UserContext(), []string{itemKey(keyBanner, id)}, keyBannersAll, keyBannersPublic)
}
