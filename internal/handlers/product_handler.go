package handlers

import (
	"strconv"

	"vitrine/internal/apperrors"
	"vitrine/internal/middleware"
	"vitrine/internal/models"
	"vitrine/internal/services"
	"vitrine/pkg/cache"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

var productForm = formSpec{
	"price":          formNumber,
	"discount_price": formNumber,
	"is_active":      formBool,
	"specs":          formJSON,
	"variants":       formJSON,
	"category_ids":   formList,
	"image_urls":     formList,
	"brand_id":       formOptional,
}

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service  *services.ProductService
	cache    cache.Store
	validate *validator.Validate
	purge    invalidator
	logger   *logrus.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, store cache.Store, logger *logrus.Logger) *ProductHandler {
	return &ProductHandler{
		service:  service,
		cache:    store,
		validate: newValidator(),
		purge:    invalidator{store: store, logger: logger},
		logger:   logger,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, requireAuth fiber.Handler) {
	admin := middleware.RequireRoles(models.RoleAdmin)

	productRoutes := router.Group("/product")
	productRoutes.Post("/", requireAuth, admin, h.HandleCreate)
	productRoutes.Get("/", middleware.CacheResponse(h.cache, cacheTTL, middleware.ListKey(keyProductsAll), h.logger), h.HandleGetAll)
	productRoutes.Get("/public", middleware.CacheResponse(h.cache, cacheTTL, middleware.ListKey(keyProductsPublic), h.logger), h.HandleGetPublic)
	productRoutes.Get("/:id/related", h.HandleGetRelated)
	productRoutes.Get("/:id", middleware.CacheResponse(h.cache, cacheTTL, middleware.ParamKey(keyProduct, "id"), h.logger), h.HandleGetByID)
	productRoutes.Patch("/:id", requireAuth, admin, h.HandleUpdate)
	productRoutes.Delete("/:id", requireAuth, admin, h.HandleDelete)
}

// HandleCreate creates a product from a JSON or multipart body.
func (h *ProductHandler) HandleCreate(c *fiber.Ctx) error {
	var input services.CreateProductInput
	if err := bind(c, h.validate, &input, productForm); err != nil {
		return err
	}

	product, err := h.service.Create(c.UserContext(), input, formFiles(c, "files"))
	if err != nil {
		return err
	}
	h.invalidate(c, product.ID)
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleGetAll lists every product.
func (h *ProductHandler) HandleGetAll(c *fiber.Ctx) error {
	skip, take, err := pagination(c)
	if err != nil {
		return err
	}
	products, err := h.service.FindAll(c.UserContext(), skip, take)
	if err != nil {
		return err
	}
	return c.JSON(products)
}

// HandleGetPublic lists active products, optionally filtered by category
// name and a title search.
func (h *ProductHandler) HandleGetPublic(c *fiber.Ctx) error {
	skip, take, err := pagination(c)
	if err != nil {
		return err
	}
	page, err := h.service.FindAllPublic(c.UserContext(), services.PublicProductQuery{
		Skip:     skip,
		Take:     take,
		Category: c.Query("category"),
		Search:   c.Query("search"),
	})
	if err != nil {
		return err
	}
	return c.JSON(page)
}

// HandleGetByID returns one product with its aggregate.
func (h *ProductHandler) HandleGetByID(c *fiber.Ctx) error {
	product, err := h.service.FindOne(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(product)
}

// HandleGetRelated returns active products sharing a category.
func (h *ProductHandler) HandleGetRelated(c *fiber.Ctx) error {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return apperrors.Validation("Validation failed", map[string]string{
				"limit": "Field 'limit' must be an integer >= 1",
			})
		}
		limit = n
	}

	products, err := h.service.FindRelated(c.UserContext(), c.Params("id"), limit)
	if err != nil {
		return err
	}
	return c.JSON(products)
}

// HandleUpdate applies a partial update to a product.
func (h *ProductHandler) HandleUpdate(c *fiber.Ctx) error {
	var input services.UpdateProductInput
	if err := bind(c, h.validate, &input, productForm); err != nil {
		return err
	}

	id := c.Params("id")
	product, err := h.service.Update(c.UserContext(), id, input, formFiles(c, "files"))
	if err != nil {
		return err
	}
	h.invalidate(c, id)
	return c.JSON(product)
}

// HandleDelete removes a product and returns it.
func (h *ProductHandler) HandleDelete(c *fiber.Ctx) error {
	id := c.Params("id")
	product, err := h.service.Remove(c.UserContext(), id)
	if err != nil {
		return err
	}
	h.invalidate(c, id)
	return c.JSON(product)
}

func (h *ProductHandler) invalidate(c *fiber.Ctx, id string) {
	h.purge.drop(c.UserContext(), []string{itemKey(keyProduct, id)}, keyProductsAll, keyProductsPublic)
}
