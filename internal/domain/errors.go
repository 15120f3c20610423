package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("already exists")
	ErrValidation = errors.New("validation failed")
)

type (
	// NotFoundError indicates a resource was not found
	NotFoundError struct {
		Resource string
		ID       int64
	}

	// ValidationError indicates invalid input, rejected before any store access
	ValidationError struct {
		Message string
	}
)

// NewNotFound reports a missing resource of the given type.
func NewNotFound(resource string, id int64) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// NewValidation builds a ValidationError from a format string.
func NewValidation(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}
func (e *ValidationError) Error() string { return e.Message }

func (e *NotFoundError) StatusCode() int   { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int { return http.StatusBadRequest }

func (e *NotFoundError) Is(target error) bool   { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// ConflictError represents a uniqueness violation with details about the existing resource
type ConflictError struct {
	Message      string // Human-readable error message
	ResourceType string // document, folder, user
	ResourceID   int64  // ID of the existing resource, 0 if unknown
}

// NewConflict reports that a named resource already exists.
func NewConflict(resourceType, name string, existingID int64) *ConflictError {
	return &ConflictError{
		Message:      fmt.Sprintf("%s %q already exists", resourceType, name),
		ResourceType: resourceType,
		ResourceID:   existingID,
	}
}

func (e *ConflictError) Error() string   { return e.Message }
func (e *ConflictError) StatusCode() int { return http.StatusConflict }

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}
