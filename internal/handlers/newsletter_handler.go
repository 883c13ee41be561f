package handlers

import (
	"strings"

	"vitrine/internal/middleware"
	"vitrine/internal/models"
	"vitrine/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// NewsletterHandler handles HTTP requests for newsletter signups.
type NewsletterHandler struct {
	service  *services.NewsletterService
	validate *validator.Validate
}

// NewNewsletterHandler creates a new NewsletterHandler.
func NewNewsletterHandler(service *services.NewsletterService) *NewsletterHandler {
	return &NewsletterHandler{
		service:  service,
		validate: newValidator(),
	}
}

// RegisterRoutes registers the newsletter routes with the Fiber app.
func (h *NewsletterHandler) RegisterRoutes(router fiber.Router, requireAuth fiber.Handler) {
	admin := middleware.RequireRoles(models.RoleAdmin)

	newsletterRoutes := router.Group("/newsletter")
	newsletterRoutes.Post("/", h.HandleCreate)
	newsletterRoutes.Get("/", requireAuth, admin, h.HandleGetAll)
	newsletterRoutes.Get("/:id", requireAuth, admin, h.HandleGetByID)
	newsletterRoutes.Patch("/:id", requireAuth, admin, h.HandleUpdate)
	newsletterRoutes.Delete("/:id", requireAuth, admin, h.HandleDelete)
}

// HandleCreate subscribes an email address.
func (h *NewsletterHandler) HandleCreate(c *fiber.Ctx) error {
	var input services.NewsletterInput
	if err := bind(c, h.validate, &input, nil); err != nil {
		return err
	}
	signup, err := h.service.Create(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(signup)
}

// HandleGetAll lists signups. search matches the email or whatsapp number.
func (h *NewsletterHandler) HandleGetAll(c *fiber.Ctx) error {
	skip, take, err := pagination(c)
	if err != nil {
		return err
	}
	signups, err := h.service.FindAll(c.UserContext(), skip, take, strings.TrimSpace(c.Query("search")))
	if err != nil {
		return err
	}
	return c.JSON(signups)
}

// HandleGetByID returns one signup.
func (h *NewsletterHandler) HandleGetByID(c *fiber.Ctx) error {
	signup, err := h.service.FindOne(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(signup)
}

// HandleUpdate changes a signup.
func (h *NewsletterHandler) HandleUpdate(c *fiber.Ctx) error {
	var input services.UpdateNewsletterInput
	if err := bind(c, h.validate, &input, nil); err != nil {
		return err
	}
	signup, err := h.service.Update(c.UserContext(), c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(signup)
}

// HandleDelete removes a signup and returns it.
func (h *NewsletterHandler) HandleDelete(c *fiber.Ctx) error {
	signup, err := h.service.Remove(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(signup)
}
