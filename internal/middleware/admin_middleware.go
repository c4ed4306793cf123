package middleware

import (
	"strings"

	"github.com/arzan03/CourseHub/internal/apperrors"
	"github.com/gofiber/fiber/v2"
)

// RequireRole lets the request through only when the token's role claim
// matches role, ignoring case. It must run after Auth.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !strings.EqualFold(Role(c), role) {
			return apperrors.Forbidden("Admin access required")
		}
		return c.Next()
	}
}

// RequireUser rejects tokens that carry a role. Admin and user emails live
// in separate collections, so an admin token must never resolve to a user.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if Role(c) != "" {
			return apperrors.Forbidden("User access required")
		}
		return c.Next()
	}
}
