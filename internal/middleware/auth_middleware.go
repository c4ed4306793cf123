package middleware

import (
	"strings"

	"github.com/arzan03/CourseHub/internal/apperrors"
	"github.com/arzan03/CourseHub/internal/services"
	"github.com/gofiber/fiber/v2"
)

// Locals keys set by Auth
const (
	LocalEmail = "email"
	LocalRole  = "role"
)

// TokenVerifier checks a bearer token and returns its claims
type TokenVerifier interface {
	Verify(token string) (*services.Claims, error)
}

// Auth validates the bearer token and stores the email and role claims in
// the request locals. Failures are returned as apperrors values for the
// app's error handler to render.
func Auth(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return apperrors.ErrUnauthenticated
		}

		tokenString := bearerToken(authHeader)
		if tokenString == "" {
			return apperrors.ErrTokenInvalid
		}

		claims, err := verifier.Verify(tokenString)
		if err != nil {
			return err
		}

		c.Locals(LocalEmail, claims.Email)
		c.Locals(LocalRole, claims.Role)

		return c.Next()
	}
}

// bearerToken returns the credential following the auth scheme
func bearerToken(header string) string {
	fields := strings.Fields(header)
	if len(fields) != 2 || !strings.EqualFold(fields[0], "Bearer") {
		return ""
	}
	return fields[1]
}

// Email returns the authenticated email set by Auth
func Email(c *fiber.Ctx) string {
	email, _ := c.Locals(LocalEmail).(string)
	return email
}

// Role returns the role claim set by Auth; empty for user tokens
func Role(c *fiber.Ctx) string {
	role, _ := c.Locals(LocalRole).(string)
	return role
}
