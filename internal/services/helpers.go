package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"shopcatalog/internal/apperrors"
	"shopcatalog/internal/models"
	"shopcatalog/internal/repositories"
)

// NormalizeEmail trims surrounding whitespace and lowercases the domain part.
// The local part is kept as given.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndexByte(email, '@')
	if at < 0 {
		return email
	}
	return email[:at] + strings.ToLower(email[at:])
}

// uniqueIDs drops duplicates while keeping the first-seen order.
func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// missingIDs returns the requested ids absent from found, sorted.
func missingIDs(requested []uint, found map[uint]struct{}) []uint {
	var missing []uint
	for _, id := range requested {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
	return missing
}

// resolveUsers loads every id in ids or fails with a ReferenceError on field.
func resolveUsers(ctx context.Context, repo repositories.UserRepository, field string, ids []uint) ([]models.User, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	users, err := repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	found := make(map[uint]struct{}, len(users))
	for _, u := range users {
		found[u.ID] = struct{}{}
	}
	if missing := missingIDs(ids, found); len(missing) > 0 {
		return nil, apperrors.Reference(field, fmt.Sprintf("unknown users %v", missing))
	}
	return users, nil
}

// resolveProducts loads every id in ids or fails with a ReferenceError on field.
func resolveProducts(ctx context.Context, repo repositories.ProductRepository, field string, ids []uint) ([]models.Product, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	products, err := repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	found := make(map[uint]struct{}, len(products))
	for _, p := range products {
		found[p.ID] = struct{}{}
	}
	if missing := missingIDs(ids, found); len(missing) > 0 {
		return nil, apperrors.Reference(field, fmt.Sprintf("unknown products %v", missing))
	}
	return products, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, apperrors.ErrNotFound)
}
