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

var catalogForm = formSpec{
	"is_active": formBool,
	"is_home":   formBool,
}

// CategoryHandler handles HTTP requests for categories.
type CategoryHandler struct {
	service  *services.CategoryService
	cache    cache.Store
	validate *validator.Validate
	purge    invalidator
	logger   *logrus.Logger
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(service *services.CategoryService, store cache.Store, logger *logrus.Logger) *CategoryHandler {
	return &CategoryHandler{
		service:  service,
		cache:    store,
		validate: newValidator(),
		purge:    invalidator{store: store, logger: logger},
		logger:   logger,
	}
}

// RegisterRoutes registers the category routes with the Fiber app.
func (h *CategoryHandler) RegisterRoutes(router fiber.Router, requireAuth fiber.Handler) {
	admin := middleware.RequireRoles(models.RoleAdmin)
	team := middleware.RequireRoles(models.RoleAdmin, models.RoleCollaborator)

	categoryRoutes := router.Group("/category")
	categoryRoutes.Get("/public", middleware.CacheResponse(h.cache, cacheTTL, middleware.ListKey(keyCategoriesPublic), h.logger), h.HandleGetPublic)
	categoryRoutes.Post("/", requireAuth, admin, h.HandleCreate)
	categoryRoutes.Get("/", requireAuth, team, h.HandleGetAll)
	categoryRoutes.Get("/:id", requireAuth, team, h.HandleGetByID)
	categoryRoutes.Patch("/:id", requireAuth, admin, h.HandleUpdate)
	categoryRoutes.Delete("/:id", requireAuth, admin, h.HandleDelete)
}

// HandleCreate creates a category.
func (h *CategoryHandler) HandleCreate(c *fiber.Ctx) error {
	var input services.CategoryInput
	if err := bind(c, h.validate, &input, catalogForm); err != nil {
		return err
	}
	category, err := h.service.Create(c.UserContext(), input)
	if err != nil {
		return err
	}
	h.invalidate(c)
	return c.Status(fiber.StatusCreated).JSON(category)
}

// HandleGetAll lists every category.
func (h *CategoryHandler) HandleGetAll(c *fiber.Ctx) error {
	skip, take, err := pagination(c)
	if err != nil {
		return err
	}
	categories, err := h.service.FindAll(c.UserContext(), false, false, skip, take)
	if err != nil {
		return err
	}
	return c.JSON(categories)
}

// HandleGetPublic lists active categories. home=true keeps only the ones
// featured on the home page.
func (h *CategoryHandler) HandleGetPublic(c *fiber.Ctx) error {
	skip, take, err := pagination(c)
	if err != nil {
		return err
	}
	categories, err := h.service.FindAll(c.UserContext(), true, c.QueryBool("home"), skip, take)
	if err != nil {
		return err
	}
	return c.JSON(categories)
}

// HandleGetByID returns one category.
func (h *CategoryHandler) HandleGetByID(c *fiber.Ctx) error {
	category, err := h.service.FindOne(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(category)
}

// HandleUpdate changes a category.
func (h *CategoryHandler) HandleUpdate(c *fiber.Ctx) error {
	var input services.UpdateCategoryInput
	if err := bind(c, h.validate, &input, catalogForm); err != nil {
		return err
	}
	category, err := h.service.Update(c.UserContext(), c.Params("id"), input)
	if err != nil {
		return err
	}
	h.invalidate(c)
	return c.JSON(category)
}

// HandleDelete removes a category and its product links.
func (h *CategoryHandler) HandleDelete(c *fiber.Ctx) error {
	category, err := h.service.Remove(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	h.invalidate(c)
	return c.JSON(category)
}

func (h *CategoryHandler) invalidate(c *fiber.Ctx) {
	h.purge.drop(c.UserContext(), nil, keyCategoriesPublic, keyProductsAll, keyProductsPublic, keyProduct)
}
