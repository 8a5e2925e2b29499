package repositories_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopcatalog/internal/apperrors"
	"shopcatalog/internal/models"
	"shopcatalog/internal/repositories"
)

func TestMemoryCategoryRepository(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewMemoryCategoryRepository()

	books := &models.Category{Title: "Books"}
	require.NoError(t, repo.Create(ctx, books))
	fiction := &models.Category{Title: "Fiction", ParentID: &books.ID}
	require.NoError(t, repo.Create(ctx, fiction))
	assert.NotEqual(t, books.ID, fiction.ID)

	list, err := repo.List(ctx, repositories.CategoryFilter{ParentTitle: "BOOK"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Fiction", list[0].Title)

	require.NoError(t, repo.Update(ctx, fiction, &[]models.Product{{ID: 7, Title: "Dune"}}))
	got, err := repo.GetByID(ctx, fiction.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{7}, got.ProductIDs())

	require.NoError(t, repo.Delete(ctx, books.ID))
	got, err = repo.GetByID(ctx, fiction.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ParentID)

	_, err = repo.GetByID(ctx, books.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, &models.Category{ID: 99}, nil), apperrors.ErrNotFound)
}
