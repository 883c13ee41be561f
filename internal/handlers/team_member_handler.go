package handlers

import (
	"strings"

	"vitrine/internal/middleware"
	"vitrine/internal/models"
	"vitrine/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// TeamMemberHandler handles HTTP requests for staff accounts.
type TeamMemberHandler struct {
	service  *services.TeamMemberService
	validate *validator.Validate
}

// NewTeamMemberHandler creates a new TeamMemberHandler.
func NewTeamMemberHandler(service *services.TeamMemberService) *TeamMemberHandler {
	return &TeamMemberHandler{
		service:  service,
		validate: newValidator(),
	}
}

// RegisterRoutes registers the team member routes. All of them are ADMIN only.
func (h *TeamMemberHandler) RegisterRoutes(router fiber.Router, requireAuth fiber.Handler) {
	teamRoutes := router.Group("/team-members", requireAuth, middleware.RequireRoles(models.RoleAdmin))
	teamRoutes.Post("/", h.HandleCreate)
	teamRoutes.Get("/", h.HandleGetAll)
	teamRoutes.Get("/:id", h.HandleGetByID)
	teamRoutes.Patch("/:id", h.HandleUpdate)
	teamRoutes.Delete("/:id", h.HandleDelete)
}

// HandleCreate creates a team member.
func (h *TeamMemberHandler) HandleCreate(c *fiber.Ctx) error {
	var input services.CreateTeamMemberInput
	if err := bind(c, h.validate, &input, nil); err != nil {
		return err
	}
	member, err := h.service.Create(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(member)
}

// HandleGetAll lists team members. search matches the name or last name.
func (h *TeamMemberHandler) HandleGetAll(c *fiber.Ctx) error {
	skip, take, err := pagination(c)
	if err != nil {
		return err
	}
	members, err := h.service.FindAll(c.UserContext(), skip, take, strings.TrimSpace(c.Query("search")))
	if err != nil {
		return err
	}
	return c.JSON(members)
}

// HandleGetByID returns one team member.
func (h *TeamMemberHandler) HandleGetByID(c *fiber.Ctx) error {
	member, err := h.service.FindOne(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(member)
}

// HandleUpdate changes a team member.
func (h *TeamMemberHandler) HandleUpdate(c *fiber.Ctx) error {
	var input services.UpdateTeamMemberInput
	if err := bind(c, h.validate, &input, formSpec{"is_active": formBool}); err != nil {
		return err
	}
	member, err := h.service.Update(c.UserContext(), c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(member)
}

// HandleDelete removes a team member and returns it.
func (h *TeamMemberHandler) HandleDelete(c *fiber.Ctx) error {
	member, err := h.service.Remove(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(member)
}
