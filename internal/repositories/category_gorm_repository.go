package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"shopcatalog/internal/apperrors"
	"shopcatalog/internal/models"
)

// GORMCategoryRepository is a GORM implementation of CategoryRepository.
type GORMCategoryRepository struct {
	db *gorm.DB
}

// NewGORMCategoryRepository creates a new instance of GORMCategoryRepository.
func NewGORMCategoryRepository(db *gorm.DB) *GORMCategoryRepository {
	return &GORMCategoryRepository{db: db}
}

// All returns every category without product links; enough to walk the tree.
func (r *GORMCategoryRepository) All(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	if err := r.db.WithContext(ctx).Order("id").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	return categories, nil
}

// List returns the categories matching filter with their products.
func (r *GORMCategoryRepository) List(ctx context.Context, filter CategoryFilter) ([]models.Category, error) {
	q := r.db.WithContext(ctx).Model(&models.Category{}).Preload("Products")
	if filter.Title != "" {
		q = q.Where(containsFold("categories.title"), likePattern(filter.Title))
	}
	if filter.ParentTitle != "" {
		q = q.Joins("JOIN categories parents ON parents.id = categories.parent_id").
			Where(containsFold("parents.title"), likePattern(filter.ParentTitle))
	}

	categories := []models.Category{}
	if err := q.Order("categories.id").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// GetByID retrieves a category with its products.
func (r *GORMCategoryRepository) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).Preload("Products").First(&category, "id = ?", id).Error; err != nil {
		return nil, lookupError(err, "category", id)
	}
	return &category, nil
}

// Create inserts the category and links its products without rewriting them.
func (r *GORMCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Omit("Products.*").Create(category).Error; err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// Update saves the category's title and parent and, when products is not nil,
// sets its products to exactly *products, in one transaction.
func (r *GORMCategoryRepository) Update(ctx context.Context, category *models.Category, products *[]models.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(category).Select("Title", "ParentID", "UpdatedAt").Updates(category)
		if res.Error != nil {
			return fmt.Errorf("failed to update category: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.NotFound("category", category.ID)
		}
		if products == nil {
			return nil
		}

		assoc := tx.Model(category).Association("Products")
		var err error
		if len(*products) == 0 {
			err = assoc.Clear()
		} else {
			err = assoc.Replace(*products)
		}
		if err != nil {
			return fmt.Errorf("failed to replace products of category %d: %w", category.ID, err)
		}
		category.Products = *products
		return nil
	})
}

// Delete removes a category. Its children become roots; products are kept.
func (r *GORMCategoryRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Category{}).Where("parent_id = ?", id).Update("parent_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach children of category %d: %w", id, err)
		}
		if err := tx.Exec("DELETE FROM category_products WHERE category_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to unlink products of category %d: %w", id, err)
		}
		res := tx.Delete(&models.Category{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete category: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.NotFound("category", id)
		}
		return nil
	})
}
