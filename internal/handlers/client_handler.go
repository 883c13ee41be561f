package handlers

import (
	"vitrine/internal/middleware"
	"vitrine/internal/models"
	"vitrine/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ClientHandler handles HTTP requests for client accounts.
type ClientHandler struct {
	service  *services.ClientService
	validate *validator.Validate
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(service *services.ClientService) *ClientHandler {
	return &ClientHandler{
		service:  service,
		validate: newValidator(),
	}
}

// RegisterRoutes registers the client routes with the Fiber app.
// Signing up is public; everything else needs a team token.
func (h *ClientHandler) RegisterRoutes(router fiber.Router, requireAuth fiber.Handler) {
	admin := middleware.RequireRoles(models.RoleAdmin)
	team := middleware.RequireRoles(models.RoleAdmin, models.RoleCollaborator)

	clientRoutes := router.Group("/client")
	clientRoutes.Post("/", h.HandleCreate)
	clientRoutes.Get("/", requireAuth, team, h.HandleGetAll)
	clientRoutes.Get("/:id", requireAuth, team, h.HandleGetByID)
	clientRoutes.Patch("/:id", requireAuth, admin, h.HandleUpdate)
	clientRoutes.Delete("/:id", requireAuth, admin, h.HandleDelete)
}

// HandleCreate registers a new client.
func (h *ClientHandler) HandleCreate(c *fiber.Ctx) error {
	var input services.CreateClientInput
	if err := bind(c, h.validate, &input, nil); err != nil {
		return err
	}
	client, err := h.service.Create(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(client)
}

// HandleGetAll lists clients, newest first.
func (h *ClientHandler) HandleGetAll(c *fiber.Ctx) error {
	skip, take, err := pagination(c)
	if err != nil {
		return err
	}
	clients, err := h.service.FindAll(c.UserContext(), skip, take)
	if err != nil {
		return err
	}
	return c.JSON(clients)
}

// HandleGetByID returns one client.
func (h *ClientHandler) HandleGetByID(c *fiber.Ctx) error {
	client, err := h.service.FindOne(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(client)
}

// HandleUpdate changes a client.
func (h *ClientHandler) HandleUpdate(c *fiber.Ctx) error {
	var input services.UpdateClientInput
	if err := bind(c, h.validate, &input, formSpec{"is_active": formBool}); err != nil {
		return err
	}
	client, err := h.service.Update(c.UserContext(), c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(client)
}

// HandleDelete removes a client and returns it.
func (h *ClientHandler) HandleDelete(c *fiber.Ctx) error {
	client, err := h.service.Remove(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(client)
}
