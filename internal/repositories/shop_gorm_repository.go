package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"shopcatalog/internal/apperrors"
	"shopcatalog/internal/models"
)

// GORMShopRepository is a GORM implementation of ShopRepository.
type GORMShopRepository struct {
	db *gorm.DB
}

// NewGORMShopRepository creates a new instance of GORMShopRepository.
func NewGORMShopRepository(db *gorm.DB) *GORMShopRepository {
	return &GORMShopRepository{db: db}
}

// List returns the shops matching filter with their responsibles.
func (r *GORMShopRepository) List(ctx context.Context, filter ShopFilter) ([]models.Shop, error) {
	q := r.db.WithContext(ctx).Preload("Responsibles", func(db *gorm.DB) *gorm.DB { return db.Order("users.id") })
	if filter.Title != "" {
		q = q.Where(containsFold("title"), likePattern(filter.Title))
	}
	shops := []models.Shop{}
	if err := q.Order("id").Find(&shops).Error; err != nil {
		return nil, fmt.Errorf("failed to list shops: %w", err)
	}
	return shops, nil
}

// GetByID retrieves a single shop with its responsibles.
func (r *GORMShopRepository) GetByID(ctx context.Context, id uint) (*models.Shop, error) {
	var shop models.Shop
	if err := r.db.WithContext(ctx).Preload("Responsibles").First(&shop, "id = ?", id).Error; err != nil {
		return nil, lookupError(err, "shop", id)
	}
	return &shop, nil
}

// Create inserts the shop and links its responsibles. The users themselves are not written.
func (r *GORMShopRepository) Create(ctx context.Context, shop *models.Shop) error {
	if err := r.db.WithContext(ctx).Omit("Responsibles.*").Create(shop).Error; err != nil {
		return fmt.Errorf("failed to create shop: %w", err)
	}
	return nil
}

// Update saves the shop's own columns and, when responsibles is not nil, sets
// its responsibles to exactly *responsibles, in one transaction.
func (r *GORMShopRepository) Update(ctx context.Context, shop *models.Shop, responsibles *[]models.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(shop).Select("Title", "Desc", "IsActive", "Image", "UpdatedAt").Updates(shop)
		if res.Error != nil {
			return fmt.Errorf("failed to update shop: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.NotFound("shop", shop.ID)
		}
		if responsibles == nil {
			return nil
		}

		assoc := tx.Model(shop).Association("Responsibles")
		var err error
		if len(*responsibles) == 0 {
			err = assoc.Clear()
		} else {
			err = assoc.Replace(*responsibles)
		}
		if err != nil {
			return fmt.Errorf("failed to replace responsibles of shop %d: %w", shop.ID, err)
		}
		shop.Responsibles = *responsibles
		return nil
	})
}

// Delete removes the shop together with its listings and responsible links.
// Products and users stay.
func (r *GORMShopRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("shop_id = ?", id).Delete(&models.ShopProduct{}).Error; err != nil {
			return fmt.Errorf("failed to delete listings of shop %d: %w", id, err)
		}
		if err := tx.Exec("DELETE FROM shop_responsibles WHERE shop_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to detach responsibles of shop %d: %w", id, err)
		}
		res := tx.Delete(&models.Shop{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete shop: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.NotFound("shop", id)
		}
		return nil
	})
}
