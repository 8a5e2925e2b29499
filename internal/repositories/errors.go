package repositories

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"shopcatalog/internal/apperrors"
)

// lookupError converts a GORM lookup failure into a not-found error when the row is missing.
func lookupError(err error, entity string, key interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound(entity, key)
	}
	return fmt.Errorf("failed to get %s %v: %w", entity, key, err)
}

// writeError converts a unique violation on field into a validation error.
func writeError(err error, op, field string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.FieldInvalid(field, "already exists")
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern builds a substring pattern for containsFold; s matches literally.
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

// containsFold is a case-insensitive substring condition on column, bound to a likePattern.
func containsFold(column string) string {
	return "LOWER(" + column + `) LIKE ? ESCAPE '\'`
}
