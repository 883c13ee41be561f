package middleware

import (
	"fmt"
	"strings"

	"vitrine/internal/apperrors"
	"vitrine/internal/models"
	"vitrine/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AccessTokenCookie is the cookie carrying the access token.
const AccessTokenCookie = "access_token"

const claimsKey = "claims"

// AuthRequired is a Fiber middleware to check for a valid JWT token. The token
// is read from the Authorization header ("Bearer <token>") or the access_token cookie.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := c.Cookies(AccessTokenCookie)
		if authHeader := c.Get(fiber.HeaderAuthorization); authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if !(len(parts) == 2 && parts[0] == "Bearer") {
				return c.Status(fiber.StatusUnauthorized).JSON(
					apperrors.Unauthorized("AUTH_UNAUTHORIZED", "Authorization header format must be 'Bearer <token>'"))
			}
			tokenString = parts[1]
		}
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(
				apperrors.Unauthorized("AUTH_UNAUTHORIZED", "Authentication token is required"))
		}

		claims, err := authService.ValidateToken(tokenString)
		if err != nil {
			return c.Status(apperrors.HTTPStatus(err)).JSON(err)
		}

		// Store claims in Fiber context for subsequent handlers
		c.Locals(claimsKey, claims)
		c.Locals("user_id", claims.Subject)
		c.Locals("role", string(claims.Role))
		return c.Next()
	}
}

// RequireRoles rejects requests whose token role is not one of roles. It must
// run after AuthRequired.
func RequireRoles(roles ...models.Role) fiber.Handler {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	denied := apperrors.Forbidden("AUTH_ACCESS_DENIED", fmt.Sprintf("Access denied. Required roles: %s", strings.Join(names, ", ")))

	return func(c *fiber.Ctx) error {
		claims := Claims(c)
		if claims == nil {
			return c.Status(fiber.StatusForbidden).JSON(
				apperrors.Forbidden("AUTH_USER_NOT_AUTHENTICATED", "User not authenticated"))
		}
		for _, r := range roles {
			if claims.Role == r {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(denied)
	}
}

// Claims returns the claims stored by AuthRequired, or nil.
func Claims(c *fiber.Ctx) *services.Claims {
	claims, _ := c.Locals(claimsKey).(*services.Claims)
	return claims
}
