package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Joelferreira98/SisFin/app/models"
	"github.com/Joelferreira98/SisFin/internal/pkg/security"
)

const (
	// Locals keys set by RequireAuth.
	KeyUserID   = "user_id"
	KeyUserRole = "user_role"
)

// RequireAuth validates the Authorization bearer token and stores the
// authenticated user id and role in Locals. Returns JSON 401 on failure.
func RequireAuth(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "Missing or invalid authentication",
		})
	}

	claims, err := security.ParseToken(strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "Missing or invalid authentication",
		})
	}

	c.Locals(KeyUserID, claims.UserID)
	c.Locals(KeyUserRole, claims.Role)
	return c.Next()
}

// RequireAdmin ensures the authenticated user has the admin role. Must run
// after RequireAuth.
func RequireAdmin(c *fiber.Ctx) error {
	role, ok := c.Locals(KeyUserRole).(string)
	if !ok || role != models.ROLE_ADMIN {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":   "forbidden",
			"message": "Admin access required",
		})
	}
	return c.Next()
}

// UserID extracts the authenticated user id from Locals.
func UserID(c *fiber.Ctx) uint {
	if id, ok := c.Locals(KeyUserID).(uint); ok {
		return id
	}
	return 0
}
