package repositories

import (
	"context"

	"github.com/shopspring/decimal"

	"shopcatalog/internal/models"
)

// ProductFilter narrows a product listing. Nil bounds and an empty title do not filter.
type ProductFilter struct {
	Title    string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

// ListingUpdate selects which rows SaveListing writes besides the listing itself.
type ListingUpdate struct {
	Product bool
	Shop    bool
}

// ProductRepository defines the interface for product and shop listing data access.
type ProductRepository interface {
	List(ctx context.Context, filter ProductFilter) ([]models.ShopProduct, error)
	GetByProductID(ctx context.Context, productID uint) (*models.ShopProduct, error)
	GetByTitle(ctx context.Context, title string) (*models.Product, error)
	GetByIDs(ctx context.Context, ids []uint) ([]models.Product, error)
	CreateListing(ctx context.Context, listing *models.ShopProduct) error
	SaveListing(ctx context.Context, listing *models.ShopProduct, update ListingUpdate) error
	Delete(ctx context.Context, productID uint) error
}
