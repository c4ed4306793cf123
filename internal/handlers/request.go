package handlers

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/arzan03/CourseHub/internal/apperrors"
	"github.com/arzan03/CourseHub/internal/services"
	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// SignupRequest is the body of both signup routes
type SignupRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,max=72"`
}

// LoginRequest carries credentials, normally read from headers
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ProfileUpdateRequest is the body of both profile update routes
type ProfileUpdateRequest struct {
	Username string `json:"username" validate:"required,max=64"`
}

// CreateCourseRequest is the body of POST /admin/courses
type CreateCourseRequest struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Description string  `json:"description" validate:"max=5000"`
	Price       float64 `json:"price" validate:"gte=0"`
	ImageLink   string  `json:"imageLink" validate:"omitempty,url"`
	IsPublished bool    `json:"isPublished"`
}

// UpdateCourseRequest is the body of PUT /admin/courses/:id; absent fields
// are left unchanged.
type UpdateCourseRequest struct {
	Title       *string  `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string  `json:"description" validate:"omitempty,max=5000"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	ImageLink   *string  `json:"imageLink" validate:"omitempty,url"`
	IsPublished *bool    `json:"isPublished"`
}

// parseBody decodes the JSON body into out, rejecting unknown fields, and
// validates it.
func parseBody(c *fiber.Ctx, out interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(c.Body()))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return apperrors.Validation("Invalid request body")
	}
	return validateStruct(out)
}

func validateStruct(out interface{}) error {
	if err := validate.Struct(out); err != nil {
		var fieldErrors validator.ValidationErrors
		if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
			return apperrors.Validation(formatValidationError(fieldErrors[0]))
		}
		return apperrors.Validation("Invalid request body")
	}
	return nil
}

func formatValidationError(e validator.FieldError) string {
	field := strings.ToLower(e.Field()[:1]) + e.Field()[1:]
	switch e.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return field + " must be at least " + e.Param()
	case "max":
		return field + " must be at most " + e.Param()
	case "gte":
		return field + " must be at least " + e.Param()
	case "email":
		return field + " must be a valid email address"
	case "url":
		return field + " must be a valid URL"
	default:
		return field + " validation failed: " + e.Tag()
	}
}

// loginCredentials reads email and password from the request headers,
// falling back to a JSON body for clients that send one.
func loginCredentials(c *fiber.Ctx) (LoginRequest, error) {
	req := LoginRequest{
		Email:    c.Get("email"),
		Password: c.Get("password"),
	}
	if req.Email == "" && req.Password == "" && len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return req, err
		}
		return req, nil
	}
	return req, validateStruct(&req)
}

// readUpload opens the multipart "image" field
func readUpload(c *fiber.Ctx) (services.Upload, func(), error) {
	fh, err := c.FormFile("image")
	if err != nil {
		return services.Upload{}, nil, apperrors.Validation("image file is required")
	}
	f, err := fh.Open()
	if err != nil {
		return services.Upload{}, nil, apperrors.Validation("failed to read image")
	}
	upload := services.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Size:        fh.Size,
		Body:        f,
	}
	return upload, func() { _ = f.Close() }, nil
}

func requestContext(c *fiber.Ctx, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(c.UserContext())
	}
	return context.WithTimeout(c.UserContext(), timeout)
}
