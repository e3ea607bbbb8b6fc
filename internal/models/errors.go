package models

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// FieldErrors maps a field name to its ordered list of human-readable
// validation messages.
type FieldErrors map[string][]string

// Add appends a message for the given field.
func (f FieldErrors) Add(field, message string) {
	f[field] = append(f[field], message)
}

// Merge folds other into f, preserving message order.
func (f FieldErrors) Merge(other FieldErrors) {
	for field, messages := range other {
		f[field] = append(f[field], messages...)
	}
}

// AppError is the application error taxonomy. Status decides the HTTP code,
// Errors carries the structured error map (field errors for validation
// failures, {"error": cause} for internal failures).
type AppError struct {
	Code    string
	Status  int
	Message string
	Errors  map[string][]string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Predefined error constructors

func NewValidationError(message string, errs FieldErrors) *AppError {
	return &AppError{
		Code:    "VALIDATION_ERROR",
		Status:  fiber.StatusUnprocessableEntity,
		Message: message,
		Errors:  errs,
	}
}

func NewUnauthenticatedError(message string) *AppError {
	return &AppError{
		Code:    "UNAUTHENTICATED",
		Status:  fiber.StatusUnauthorized,
		Message: message,
	}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:    "FORBIDDEN",
		Status:  fiber.StatusForbidden,
		Message: message,
	}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Status:  fiber.StatusNotFound,
		Message: message,
	}
}

// NewConflictError reports a delete blocked by existing associations.
// These surface as 400, not 409.
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    "CONFLICT",
		Status:  fiber.StatusBadRequest,
		Message: message,
	}
}

// NewInternalError wraps an unexpected persistence or runtime failure. The
// raw cause is embedded under errors.error (acceptable for an internal API).
func NewInternalError(message string, err error) *AppError {
	e := &AppError{
		Code:    "INTERNAL_ERROR",
		Status:  fiber.StatusInternalServerError,
		Message: message,
		Err:     err,
	}
	if err != nil {
		e.Errors = map[string][]string{"error": {err.Error()}}
	}
	return e
}
