package handlers

import (
	"time"

	"github.com/arzan03/CourseHub/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// AuthHandler serves signup and login for admins and users
type AuthHandler struct {
	auth    *services.AuthService
	timeout time.Duration
	logger  zerolog.Logger
}

// NewAuthHandler creates an AuthHandler
func NewAuthHandler(auth *services.AuthService, timeout time.Duration, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, timeout: timeout, logger: logger}
}

// AdminSignup handles POST /admin/signup
func (h *AuthHandler) AdminSignup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, h.logger, err)
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	token, err := h.auth.SignupAdmin(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Admin created successfully",
		"token":   token,
	})
}

// AdminLogin handles POST /admin/login
func (h *AuthHandler) AdminLogin(c *fiber.Ctx) error {
	req, err := loginCredentials(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	token, err := h.auth.LoginAdmin(ctx, req.Email, req.Password)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"message": "Logged in successfully", "token": token})
}

// UserSignup handles POST /users/signup
func (h *AuthHandler) UserSignup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, h.logger, err)
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	token, err := h.auth.SignupUser(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User created successfully",
		"token":   token,
	})
}

// UserLogin handles POST /users/login
func (h *AuthHandler) UserLogin(c *fiber.Ctx) error {
	req, err := loginCredentials(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	token, err := h.auth.LoginUser(ctx, req.Email, req.Password)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"message": "Logged in successfully", "token": token})
}
