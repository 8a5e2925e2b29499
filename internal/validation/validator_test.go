package validation_test

import (
	"testing"

	"shopcatalog/internal/apperrors"
	"shopcatalog/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	FirstName string  `json:"first_name" validate:"required,max=30"`
	Email     string  `json:"email" validate:"required,email"`
	Nickname  *string `json:"nickname" validate:"omitnil,min=1,max=5"`
}

func TestStruct_ReportsJSONFieldNames(t *testing.T) {
	v := validation.New()
	long := "way too long"

	err := validation.Struct(v, signup{Email: "nope", Nickname: &long})
	require.Error(t, err)

	verr, ok := err.(*apperrors.ValidationError)
	require.True(t, ok)
	assert.Equal(t, "is required", verr.Fields["first_name"])
	assert.Equal(t, "must be a valid email", verr.Fields["email"])
	assert.Equal(t, "must be at most 5 characters long", verr.Fields["nickname"])
}

func TestStruct_Valid(t *testing.T) {
	v := validation.New()
	assert.NoError(t, validation.Struct(v, signup{FirstName: "Ann", Email: "ann@example.com"}))
}

type listing struct {
	Product struct {
		Title string `json:"title" validate:"required"`
	} `json:"product"`
}

func TestStruct_NestedFieldPath(t *testing.T) {
	err := validation.Struct(validation.New(), listing{})
	require.Error(t, err)

	verr, ok := err.(*apperrors.ValidationError)
	require.True(t, ok)
	assert.Equal(t, "is required", verr.Fields["product.title"])
}
