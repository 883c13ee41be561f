package middleware_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vitrine/internal/middleware"
	"vitrine/internal/models"
	"vitrine/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService() *services.AuthService {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return services.NewAuthService(nil, nil, services.TokenConfig{
		Secret:    "test_jwt_secret",
		ClientTTL: time.Minute,
		TeamTTL:   time.Minute,
	}, logger)
}

func setupProtectedApp(auth *services.AuthService) *fiber.App {
	app := fiber.New()
	app.Get("/me", middleware.AuthRequired(auth), func(c *fiber.Ctx) error {
		claims := middleware.Claims(c)
		return c.JSON(fiber.Map{"sub": claims.Subject, "user_id": c.Locals("user_id"), "role": c.Locals("role")})
	})
	app.Get("/admin", middleware.AuthRequired(auth), middleware.RequireRoles(models.RoleAdmin, models.RoleCollaborator), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/no-auth-roles", middleware.RequireRoles(models.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func decodeCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	code, _ := body["code"].(string)
	return code
}

func TestAuthRequired(t *testing.T) {
	auth := newAuthService()
	app := setupProtectedApp(auth)

	token, err := auth.GenerateToken("user-1", "user@example.com", models.RoleClient, time.Minute)
	require.NoError(t, err)

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "user-1", body["sub"])
		assert.Equal(t, "user-1", body["user_id"])
		assert.Equal(t, "CLIENT", body["role"])
	})

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: middleware.AccessTokenCookie, Value: token})
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("missing token", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/me", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "AUTH_UNAUTHORIZED", decodeCode(t, resp))
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Token "+token)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer invalid")
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "AUTH_UNAUTHORIZED", decodeCode(t, resp))
	})
}

func TestRequireRoles(t *testing.T) {
	auth := newAuthService()
	app := setupProtectedApp(auth)

	request := func(role models.Role) *http.Response {
		token, err := auth.GenerateToken("user-1", "user@example.com", role, time.Minute)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		return resp
	}

	assert.Equal(t, http.StatusOK, request(models.RoleAdmin).StatusCode)
	assert.Equal(t, http.StatusOK, request(models.RoleCollaborator).StatusCode)

	resp := request(models.RoleClient)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "AUTH_ACCESS_DENIED", body["code"])
	assert.Equal(t, "Access denied. Required roles: ADMIN, COLLABORATOR", body["message"])

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/no-auth-roles", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "AUTH_USER_NOT_AUTHENTICATED", decodeCode(t, resp))
}
