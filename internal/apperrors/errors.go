// Package apperrors defines the error kinds surfaced by the catalog and how
// they map onto HTTP responses.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound is returned when a lookup by id or email yields no row.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is returned when the caller could not be identified.
	ErrUnauthorized = errors.New("authentication required")
	// ErrForbidden is returned when a permission predicate rejects the caller.
	ErrForbidden = errors.New("permission denied")
)

// ValidationError reports malformed input. Fields maps a payload field to the
// rule it violated.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Fields)
}

// ReferenceError reports a payload that points at a related entity that does not exist.
type ReferenceError struct {
	Field   string
	Message string
}

func (e *ReferenceError) Error() string {
	return e.Message
}

// NotFound wraps ErrNotFound with the entity and the key that was looked up.
func NotFound(entity string, key interface{}) error {
	return fmt.Errorf("%s %v: %w", entity, key, ErrNotFound)
}

// Validation builds a ValidationError.
func Validation(message string, fields map[string]string) *ValidationError {
	return &ValidationError{Message: message, Fields: fields}
}

// FieldInvalid is a ValidationError for a single field.
func FieldInvalid(field, message string) *ValidationError {
	return &ValidationError{Message: "validation failed", Fields: map[string]string{field: message}}
}

// Reference builds a ReferenceError.
func Reference(field, message string) *ReferenceError {
	return &ReferenceError{Field: field, Message: message}
}

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	Message string            `json:"message"`
	Code    string            `json:"code"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// HTTPError is an error translated for the transport layer.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	Fields     map[string]string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// ToErrorResponse converts an HTTPError to its response body.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Message: e.Message,
		Code:    e.Code,
		Errors:  e.Fields,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Unknown errors become a
// generic 500 so store failures never leak to the caller.
func MapErrorToHTTP(err error) *HTTPError {
	var validationErr *ValidationError
	var referenceErr *ReferenceError
	var httpErr *HTTPError

	switch {
	case errors.As(err, &httpErr):
		return httpErr
	case errors.As(err, &validationErr):
		return &HTTPError{StatusCode: http.StatusBadRequest, Message: validationErr.Message, Code: "VALIDATION_ERROR", Fields: validationErr.Fields}
	case errors.As(err, &referenceErr):
		return &HTTPError{
			StatusCode: http.StatusBadRequest,
			Message:    referenceErr.Message,
			Code:       "REFERENCE_ERROR",
			Fields:     map[string]string{referenceErr.Field: referenceErr.Message},
		}
	case errors.Is(err, ErrNotFound):
		return &HTTPError{StatusCode: http.StatusNotFound, Message: err.Error(), Code: "NOT_FOUND"}
	case errors.Is(err, ErrUnauthorized):
		return &HTTPError{StatusCode: http.StatusUnauthorized, Message: err.Error(), Code: "UNAUTHORIZED"}
	case errors.Is(err, ErrForbidden):
		return &HTTPError{StatusCode: http.StatusForbidden, Message: err.Error(), Code: "FORBIDDEN"}
	default:
		return &HTTPError{StatusCode: http.StatusInternalServerError, Message: "internal server error", Code: "INTERNAL_ERROR"}
	}
}
