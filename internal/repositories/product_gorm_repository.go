package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"shopcatalog/internal/apperrors"
	"shopcatalog/internal/models"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

func (r *GORMProductRepository) listings(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.ShopProduct{}).
		Preload("Product").
		Preload("Shop").
		Preload("Shop.Responsibles")
}

// List retrieves the listings matching filter. Price bounds are inclusive.
func (r *GORMProductRepository) List(ctx context.Context, filter ProductFilter) ([]models.ShopProduct, error) {
	q := r.listings(ctx)
	if filter.Title != "" {
		q = q.Joins("JOIN products ON products.id = shop_products.product_id").
			Where(containsFold("products.title"), likePattern(filter.Title))
	}
	if filter.MinPrice != nil {
		q = q.Where("shop_products.price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("shop_products.price <= ?", *filter.MaxPrice)
	}

	listings := []models.ShopProduct{}
	if err := q.Order("shop_products.id").Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return listings, nil
}

// GetByProductID retrieves the listing of a product.
func (r *GORMProductRepository) GetByProductID(ctx context.Context, productID uint) (*models.ShopProduct, error) {
	var listing models.ShopProduct
	if err := r.listings(ctx).Where("shop_products.product_id = ?", productID).First(&listing).Error; err != nil {
		return nil, lookupError(err, "product", productID)
	}
	return &listing, nil
}

// GetByTitle retrieves a product by its unique title.
func (r *GORMProductRepository) GetByTitle(ctx context.Context, title string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "title = ?", title).Error; err != nil {
		return nil, lookupError(err, "product", title)
	}
	return &product, nil
}

// GetByIDs returns the products whose ids are in ids. Unknown ids are skipped.
func (r *GORMProductRepository) GetByIDs(ctx context.Context, ids []uint) ([]models.Product, error) {
	products := []models.Product{}
	if len(ids) == 0 {
		return products, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get products by ids: %w", err)
	}
	return products, nil
}

// CreateListing creates listing.Product and then the listing pointing at it,
// in one transaction. listing.ShopID must reference an existing shop.
func (r *GORMProductRepository) CreateListing(ctx context.Context, listing *models.ShopProduct) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&listing.Product).Error; err != nil {
			return writeError(err, "create product", "title")
		}
		listing.ProductID = listing.Product.ID
		if err := tx.Omit("Shop", "Product").Create(listing).Error; err != nil {
			return writeError(err, "create shop product", "shop")
		}
		return nil
	})
	if err != nil {
		return err
	}

	created, err := r.GetByProductID(ctx, listing.ProductID)
	if err != nil {
		return err
	}
	*listing = *created
	return nil
}

// SaveListing writes the listing's price and stock and, as selected by update,
// the linked product and shop, in one transaction.
func (r *GORMProductRepository) SaveListing(ctx context.Context, listing *models.ShopProduct, update ListingUpdate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if update.Product {
			res := tx.Model(&listing.Product).Select("Title", "Desc", "Image", "UpdatedAt").Updates(&listing.Product)
			if res.Error != nil {
				return writeError(res.Error, "update product", "title")
			}
		}
		if update.Shop {
			res := tx.Model(&listing.Shop).Select("Title", "Desc", "IsActive", "Image", "UpdatedAt").Updates(&listing.Shop)
			if res.Error != nil {
				return fmt.Errorf("failed to update shop: %w", res.Error)
			}
		}
		res := tx.Model(listing).Select("Price", "InStock", "UpdatedAt").Updates(listing)
		if res.Error != nil {
			return fmt.Errorf("failed to update shop product: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.NotFound("product", listing.ProductID)
		}
		return nil
	})
}

// Delete removes a product, its listings and its category links.
func (r *GORMProductRepository) Delete(ctx context.Context, productID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", productID).Delete(&models.ShopProduct{}).Error; err != nil {
			return fmt.Errorf("failed to delete listings of product %d: %w", productID, err)
		}
		if err := tx.Exec("DELETE FROM category_products WHERE product_id = ?", productID).Error; err != nil {
			return fmt.Errorf("failed to unlink product %d from categories: %w", productID, err)
		}
		res := tx.Delete(&models.Product{}, "id = ?", productID)
		if res.Error != nil {
			return fmt.Errorf("failed to delete product: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.NotFound("product", productID)
		}
		return nil
	})
}
