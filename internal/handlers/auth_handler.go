package handlers

import (
	"time"

	"vitrine/internal/middleware"
	"vitrine/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService   *services.AuthService
	validate      *validator.Validate
	secureCookies bool
	logger        *logrus.Logger
}

// NewAuthHandler creates a new AuthHandler. secureCookies marks the token
// cookie Secure.
func NewAuthHandler(authService *services.AuthService, secureCookies bool, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		validate:      newValidator(),
		secureCookies: secureCookies,
		logger:        logger,
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, requireAuth fiber.Handler) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/client/login", h.HandleClientLogin)
	authRoutes.Post("/team/login", h.HandleTeamLogin)
	authRoutes.Post("/logout", h.HandleLogout)
	authRoutes.Get("/me", requireAuth, h.HandleMe)
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// HandleClientLogin handles client login and issues a JWT token.
func (h *AuthHandler) HandleClientLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := bind(c, h.validate, &req, nil); err != nil {
		return err
	}
	result, err := h.authService.LoginClient(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return h.respondWithToken(c, result)
}

// HandleTeamLogin handles team member login and issues a JWT token.
func (h *AuthHandler) HandleTeamLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := bind(c, h.validate, &req, nil); err != nil {
		return err
	}
	result, err := h.authService.LoginTeamMember(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return h.respondWithToken(c, result)
}

func (h *AuthHandler) respondWithToken(c *fiber.Ctx, result *services.LoginResult) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    result.AccessToken,
		Path:     "/",
		MaxAge:   int(result.ExpiresIn / time.Second),
		HTTPOnly: true,
		Secure:   h.secureCookies,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
	return c.JSON(result)
}

// HandleLogout clears the token cookie.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   h.secureCookies,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

// HandleMe returns the authenticated account.
func (h *AuthHandler) HandleMe(c *fiber.Ctx) error {
	user, err := h.authService.CurrentUser(c.UserContext(), middleware.Claims(c))
	if err != nil {
		return err
	}
	return c.JSON(user)
}
