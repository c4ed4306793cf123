package apperrors

import "errors"

// Authentication errors
var (
	ErrUnauthenticated    = errors.New("no token")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPermissionDenied   = errors.New("permission denied")
)

// Resource errors
var (
	ErrNotFound       = errors.New("resource not found")
	ErrAdminNotFound  = NotFound("admin not found")
	ErrUserNotFound   = NotFound("user not found")
	ErrCourseNotFound = NotFound("course not found")
	ErrAlreadyExists  = errors.New("resource already exists")
	ErrAlreadyInCart  = &CustomError{Err: ErrAlreadyExists, Message: "course already added to cart"}
)

// Request errors
var (
	ErrValidationFailed     = errors.New("validation failed")
	ErrInvalidID            = errors.New("invalid id format")
	ErrImageStorageDisabled = errors.New("image storage is not configured")
)

// CustomError carries a client-facing message on top of a sentinel
type CustomError struct {
	Err     error
	Message string
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NotFound wraps ErrNotFound with a message
func NotFound(message string) error {
	return &CustomError{Err: ErrNotFound, Message: message}
}

// AlreadyExists wraps ErrAlreadyExists with a message
func AlreadyExists(message string) error {
	return &CustomError{Err: ErrAlreadyExists, Message: message}
}

// Validation wraps ErrValidationFailed with a message
func Validation(message string) error {
	return &CustomError{Err: ErrValidationFailed, Message: message}
}

// Forbidden wraps ErrPermissionDenied with a message
func Forbidden(message string) error {
	return &CustomError{Err: ErrPermissionDenied, Message: message}
}
