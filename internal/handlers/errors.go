package handlers

import (
	"errors"

	"github.com/arzan03/CourseHub/internal/apperrors"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// respondError maps an application error to a status and a
// {"message": ...} body. Unexpected errors are logged, never echoed.
func respondError(c *fiber.Ctx, logger zerolog.Logger, err error) error {
	status, message := classify(err)
	if status >= fiber.StatusInternalServerError {
		logger.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("Request failed")
	}
	return c.Status(status).JSON(fiber.Map{"message": message})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, apperrors.ErrCourseNotFound):
		return fiber.StatusNotFound, messageOf(err, "Course not found")
	case errors.Is(err, apperrors.ErrNotFound):
		return fiber.StatusBadRequest, messageOf(err, "Not found")
	case errors.Is(err, apperrors.ErrAlreadyExists):
		return fiber.StatusBadRequest, messageOf(err, "Already exists")
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return fiber.StatusBadRequest, "Invalid credentials"
	case errors.Is(err, apperrors.ErrValidationFailed):
		return fiber.StatusBadRequest, messageOf(err, "Validation failed")
	case errors.Is(err, apperrors.ErrInvalidID):
		return fiber.StatusBadRequest, "Invalid id format"
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return fiber.StatusForbidden, messageOf(err, "Permission denied")
	case errors.Is(err, apperrors.ErrUnauthenticated):
		return fiber.StatusUnauthorized, "No token"
	case errors.Is(err, apperrors.ErrTokenInvalid), errors.Is(err, apperrors.ErrTokenExpired):
		return fiber.StatusUnauthorized, "Invalid token"
	case errors.Is(err, apperrors.ErrImageStorageDisabled):
		return fiber.StatusServiceUnavailable, "Image uploads are not available"
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, fe.Message
	}
	return fiber.StatusInternalServerError, "Internal server error"
}

func messageOf(err error, fallback string) string {
	var ce *apperrors.CustomError
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message
	}
	return fallback
}

// ErrorHandler is the app-wide fiber error handler
func ErrorHandler(logger zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		return respondError(c, logger, err)
	}
}
