package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel kinds every AppError wraps, so callers can branch with errors.Is.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrConflict     = errors.New("conflict")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrInternal     = errors.New("internal error")
)

// AppError is an error with a stable machine-readable code and a human message.
type AppError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"errors,omitempty"`
	Status  int               `json:"-"`
	Err     error             `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound creates a 404 error.
func NotFound(code, message string) *AppError {
	return &AppError{Code: code, Message: message, Status: http.StatusNotFound, Err: ErrNotFound}
}

// Conflict creates a 409 error, used for natural key collisions.
func Conflict(code, message string) *AppError {
	return &AppError{Code: code, Message: message, Status: http.StatusConflict, Err: ErrConflict}
}

// Validation creates a 400 error. fields maps a request field to its failure.
func Validation(message string, fields map[string]string) *AppError {
	return &AppError{
		Code:    "VALIDATION_FAILED",
		Message: message,
		Fields:  fields,
		Status:  http.StatusBadRequest,
		Err:     ErrValidation,
	}
}

// Unauthorized creates a 401 error.
func Unauthorized(code, message string) *AppError {
	return &AppError{Code: code, Message: message, Status: http.StatusUnauthorized, Err: ErrUnauthorized}
}

// Forbidden creates a 403 error.
func Forbidden(code, message string) *AppError {
	return &AppError{Code: code, Message: message, Status: http.StatusForbidden, Err: ErrForbidden}
}

// Internal creates a 500 error wrapping the underlying cause.
func Internal(code, message string, err error) *AppError {
	cause := ErrInternal
	if err != nil {
		cause = fmt.Errorf("%w: %w", ErrInternal, err)
	}
	return &AppError{Code: code, Message: message, Status: http.StatusInternalServerError, Err: cause}
}

// HTTPStatus returns the HTTP status code for the given error.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
