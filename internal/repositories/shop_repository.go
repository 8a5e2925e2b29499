package repositories

import (
	"context"

	"shopcatalog/internal/models"
)

// ShopFilter narrows a shop listing. Empty fields do not filter.
type ShopFilter struct {
	Title string
}

// ShopRepository defines the interface for shop data access.
type ShopRepository interface {
	List(ctx context.Context, filter ShopFilter) ([]models.Shop, error)
	GetByID(ctx context.Context, id uint) (*models.Shop, error)
	Create(ctx context.Context, shop *models.Shop) error
	// Update leaves the responsibles untouched when responsibles is nil.
	Update(ctx context.Context, shop *models.Shop, responsibles *[]models.User) error
	Delete(ctx context.Context, id uint) error
}
