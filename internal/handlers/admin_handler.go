package handlers

import (
	"time"

	"github.com/arzan03/CourseHub/internal/apperrors"
	"github.com/arzan03/CourseHub/internal/middleware"
	"github.com/arzan03/CourseHub/internal/models"
	"github.com/arzan03/CourseHub/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// AdminHandler serves the authenticated admin routes
type AdminHandler struct {
	admins  *services.AdminService
	timeout time.Duration
	logger  zerolog.Logger
}

// NewAdminHandler creates an AdminHandler
func NewAdminHandler(admins *services.AdminService, timeout time.Duration, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{admins: admins, timeout: timeout, logger: logger}
}

// Profile handles GET /admin/profile
func (h *AdminHandler) Profile(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	admin, err := h.admins.Profile(ctx, middleware.Email(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"admin": admin})
}

// UpdateProfile handles PUT /admin/profile
func (h *AdminHandler) UpdateProfile(c *fiber.Ctx) error {
	var req ProfileUpdateRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, h.logger, err)
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	if err := h.admins.UpdateProfile(ctx, middleware.Email(c), req.Username); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"message": "Profile updated successfully"})
}

// UploadProfileImage handles POST /admin/profile/image
func (h *AdminHandler) UploadProfileImage(c *fiber.Ctx) error {
	upload, closeFn, err := readUpload(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	defer closeFn()

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	link, err := h.admins.SetProfileImage(ctx, middleware.Email(c), upload)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"message": "Profile image updated", "imageLink": link})
}

// CreateCourse handles POST /admin/courses
func (h *AdminHandler) CreateCourse(c *fiber.Ctx) error {
	var req CreateCourseRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, h.logger, err)
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	course, err := h.admins.CreateCourse(ctx, middleware.Email(c), services.CourseInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		ImageLink:   req.ImageLink,
		IsPublished: req.IsPublished,
	})
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(course)
}

// ListCourses handles GET /admin/courses
func (h *AdminHandler) ListCourses(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	courses, err := h.admins.ListCourses(ctx, middleware.Email(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"courses": courses})
}

// UpdateCourse handles PUT /admin/courses/:id
func (h *AdminHandler) UpdateCourse(c *fiber.Ctx) error {
	var req UpdateCourseRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, h.logger, err)
	}
	update := models.CourseUpdate{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		ImageLink:   req.ImageLink,
		IsPublished: req.IsPublished,
	}
	if update.Empty() {
		return respondError(c, h.logger, apperrors.Validation("No fields to update"))
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	course, err := h.admins.UpdateCourse(ctx, middleware.Email(c), c.Params("id"), update)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"message": "Course updated successfully", "course": course})
}

// DeleteCourse handles DELETE /admin/courses/:id
func (h *AdminHandler) DeleteCourse(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	if err := h.admins.DeleteCourse(ctx, middleware.Email(c), c.Params("id")); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"message": "Course deleted successfully"})
}

// UploadCourseImage handles POST /admin/courses/:id/image
func (h *AdminHandler) UploadCourseImage(c *fiber.Ctx) error {
	upload, closeFn, err := readUpload(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	defer closeFn()

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	course, err := h.admins.SetCourseImage(ctx, middleware.Email(c), c.Params("id"), upload)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"message": "Course image updated", "imageLink": course.ImageLink})
}
