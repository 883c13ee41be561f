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

// BrandHandler handles HTTP requests for brands.
type BrandHandler struct {
	service  *services.BrandService
	cache    cache.Store
	validate *validator.Validate
	purge    invalidator
	logger   *logrus.Logger
}

// NewBrandHandler creates a new BrandHandler.
func NewBrandHandler(service *services.BrandService, store cache.Store, logger *logrus.Logger) *BrandHandler {
	return &BrandHandler{
		service:  service,
		cache:    store,
		validate: newValidator(),
		purge:    invalidator{store: store, logger: logger},
		logger:   logger,
	}
}

// RegisterRoutes registers the brand routes with the Fiber app.
func (h *BrandHandler) RegisterRoutes(router fiber.Router, requireAuth fiber.Handler) {
	admin := middleware.RequireRoles(models.RoleAdmin)
	team := middleware.RequireRoles(models.RoleAdmin, models.RoleCollaborator)

	brandRoutes := router.Group("/brand")
	brandRoutes.Get("/public", middleware.CacheResponse(h.cache, cacheTTL, middleware.ListKey(keyBrandsPublic), h.logger), h.HandleGetPublic)
	brandRoutes.Post("/", requireAuth, admin, h.HandleCreate)
	brandRoutes.Get("/", requireAuth, team, h.HandleGetAll)
	brandRoutes.Get("/:id", requireAuth, team, h.HandleGetByID)
	brandRoutes.Patch("/:id", requireAuth, admin, h.HandleUpdate)
	brandRoutes.Delete("/:id", requireAuth, admin, h.HandleDelete)
}

// HandleCreate creates a brand.
func (h *BrandHandler) HandleCreate(c *fiber.Ctx) error {
	var input services.BrandInput
	if err := bind(c, h.validate, &input, catalogForm); err != nil {
		return err
	}
	brand, err := h.service.Create(c.UserContext(), input)
	if err != nil {
		return err
	}
	h.invalidate(c)
	return c.Status(fiber.StatusCreated).JSON(brand)
}

// HandleGetAll lists every brand with its product count.
func (h *BrandHandler) HandleGetAll(c *fiber.Ctx) error {
	skip, take, err := pagination(c)
	if err != nil {
		return err
	}
	brands, err := h.service.FindAll(c.UserContext(), false, skip, take)
	if err != nil {
		return err
	}
	return c.JSON(brands)
}

// HandleGetPublic lists active brands with their product counts.
func (h *BrandHandler) HandleGetPublic(c *fiber.Ctx) error {
	skip, take, err := pagination(c)
	if err != nil {
		return err
	}
	brands, err := h.service.FindAll(c.UserContext(), true, skip, take)
	if err != nil {
		return err
	}
	return c.JSON(brands)
}

// HandleGetByID returns one brand.
func (h *BrandHandler) HandleGetByID(c *fiber.Ctx) error {
	brand, err := h.service.FindOne(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(brand)
}

// HandleUpdate changes a brand.
func (h *BrandHandler) HandleUpdate(c *fiber.Ctx) error {
	var input services.UpdateBrandInput
	if err := bind(c, h.validate, &input, catalogForm); err != nil {
		return err
	}
	brand, err := h.service.Update(c.UserContext(), c.Params("id"), input)
	if err != nil {
		return err
	}
	h.invalidate(c)
	return c.JSON(brand)
}

// HandleDelete removes a brand and detaches its products.
func (h *BrandHandler) HandleDelete(c *fiber.Ctx) error {
	brand, err := h.service.Remove(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	h.invalidate(c)
	return c.JSON(brand)
}

func (h *BrandHandler) invalidate(c *fiber.Ctx) {
	h.purge.drop(c.UserContext(), nil, keyBrandsPublic, keyProductsAll, keyProductsPublic, keyProduct)
}
