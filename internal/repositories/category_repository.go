package repositories

import (
	"context"

	"shopcatalog/internal/models"
)

// CategoryFilter narrows a category listing by the category's own title and
// by its parent's title. Matching is a case-insensitive substring match.
type CategoryFilter struct {
	Title       string
	ParentTitle string
}

// CategoryRepository defines the interface for category data access.
type CategoryRepository interface {
	All(ctx context.Context) ([]models.Category, error)
	List(ctx context.Context, filter CategoryFilter) ([]models.Category, error)
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	// Update leaves the product links untouched when products is nil.
	Update(ctx context.Context, category *models.Category, products *[]models.Product) error
	Delete(ctx context.Context, id uint) error
}
