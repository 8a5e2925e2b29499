package apperrors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"shopcatalog/internal/apperrors"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", apperrors.FieldInvalid("email", "must be a valid email"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"wrapped validation", fmt.Errorf("register: %w", apperrors.Validation("bad", nil)), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"reference", apperrors.Reference("shop", "shop 9 does not exist"), http.StatusBadRequest, "REFERENCE_ERROR"},
		{"not found", apperrors.NotFound("shop", 3), http.StatusNotFound, "NOT_FOUND"},
		{"unauthorized", apperrors.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"forbidden", fmt.Errorf("patch shop: %w", apperrors.ErrForbidden), http.StatusForbidden, "FORBIDDEN"},
		{"unknown", errors.New("connection refused"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := apperrors.MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.status, httpErr.StatusCode)
			assert.Equal(t, tt.code, httpErr.Code)
		})
	}
}

func TestMapErrorToHTTP_KeepsFieldErrors(t *testing.T) {
	httpErr := apperrors.MapErrorToHTTP(apperrors.FieldInvalid("title", "already exists"))
	resp := httpErr.ToErrorResponse()
	assert.Equal(t, map[string]string{"title": "already exists"}, resp.Errors)

	httpErr = apperrors.MapErrorToHTTP(apperrors.Reference("responsible_id", "unknown responsibles: [7]"))
	assert.Equal(t, "unknown responsibles: [7]", httpErr.ToErrorResponse().Errors["responsible_id"])
}

func TestMapErrorToHTTP_HidesInternalDetails(t *testing.T) {
	httpErr := apperrors.MapErrorToHTTP(errors.New("pq: password authentication failed"))
	assert.Equal(t, "internal server error", httpErr.Message)
}
