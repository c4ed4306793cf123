package handlers

import (
	"strconv"
	"time"

	"github.com/arzan03/CourseHub/internal/apperrors"
	"github.com/arzan03/CourseHub/internal/middleware"
	"github.com/arzan03/CourseHub/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// UserHandler serves the authenticated user routes
type UserHandler struct {
	users   *services.UserService
	timeout time.Duration
	logger  zerolog.Logger
}

// NewUserHandler creates a UserHandler
func NewUserHandler(users *services.UserService, timeout time.Duration, logger zerolog.Logger) *UserHandler {
	return &UserHandler{users: users, timeout: timeout, logger: logger}
}

// Profile handles GET /users/profile
func (h *UserHandler) Profile(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	profile, err := h.users.Profile(ctx, middleware.Email(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"user": profile})
}

// UpdateProfile handles PUT /users/profile
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	var req ProfileUpdateRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, h.logger, err)
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	if err := h.users.UpdateProfile(ctx, middleware.Email(c), req.Username); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"message": "Profile updated successfully"})
}

// UploadProfileImage handles POST /users/profile/image
func (h *UserHandler) UploadProfileImage(c *fiber.Ctx) error {
	upload, closeFn, err := readUpload(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	defer closeFn()

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	link, err := h.users.SetProfileImage(ctx, middleware.Email(c), upload)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"message": "Profile image updated", "imageLink": link})
}

// BrowseCourses handles GET /users/courses. An optional ?published=true|false
// narrows the listing.
func (h *UserHandler) BrowseCourses(c *fiber.Ctx) error {
	var published *bool
	if raw := c.Query("published"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return respondError(c, h.logger, apperrors.Validation("published must be true or false"))
		}
		published = &v
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	courses, err := h.users.BrowseCourses(ctx, published)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"courses": courses})
}

// GetCourse handles GET /users/courses/:id
func (h *UserHandler) GetCourse(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	course, err := h.users.GetCourse(ctx, c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"course": course})
}

// Purchase handles POST /users/courses/:id
func (h *UserHandler) Purchase(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	if err := h.users.Purchase(ctx, middleware.Email(c), c.Params("id")); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"message": "Course purchased successfully"})
}

// PurchasedCourses handles GET /users/purchasedCourses
func (h *UserHandler) PurchasedCourses(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	courses, err := h.users.PurchasedCourses(ctx, middleware.Email(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"purchasedCourses": courses})
}

// Cart handles GET /users/cart
func (h *UserHandler) Cart(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	courses, err := h.users.Cart(ctx, middleware.Email(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"cart": courses})
}

// AddToCart handles POST /users/cart/:id
func (h *UserHandler) AddToCart(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	if err := h.users.AddToCart(ctx, middleware.Email(c), c.Params("id")); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"message": "Course added to cart"})
}

// RemoveFromCart handles DELETE /users/cart/:id
func (h *UserHandler) RemoveFromCart(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	if err := h.users.RemoveFromCart(ctx, middleware.Email(c), c.Params("id")); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"message": "Course removed from cart"})
}
