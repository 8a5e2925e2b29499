package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"shopcatalog/internal/apperrors"
	"shopcatalog/internal/models"
)

// MemoryCategoryRepository is an in-memory implementation of CategoryRepository.
// Categories are kept in a map keyed by id; parents are plain id references.
type MemoryCategoryRepository struct {
	categories map[uint]models.Category
	nextID     uint
	mu         sync.RWMutex
}

// NewMemoryCategoryRepository creates a new instance of MemoryCategoryRepository.
func NewMemoryCategoryRepository() *MemoryCategoryRepository {
	return &MemoryCategoryRepository{
		categories: make(map[uint]models.Category),
		nextID:     1,
	}
}

func (r *MemoryCategoryRepository) sorted() []models.Category {
	list := make([]models.Category, 0, len(r.categories))
	for _, c := range r.categories {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

// All returns every category ordered by id.
func (r *MemoryCategoryRepository) All(ctx context.Context) ([]models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sorted(), nil
}

// List returns the categories matching filter.
func (r *MemoryCategoryRepository) List(ctx context.Context, filter CategoryFilter) ([]models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	title := strings.ToLower(filter.Title)
	parentTitle := strings.ToLower(filter.ParentTitle)

	result := []models.Category{}
	for _, c := range r.sorted() {
		if title != "" && !strings.Contains(strings.ToLower(c.Title), title) {
			continue
		}
		if parentTitle != "" {
			if c.ParentID == nil {
				continue
			}
			parent, ok := r.categories[*c.ParentID]
			if !ok || !strings.Contains(strings.ToLower(parent.Title), parentTitle) {
				continue
			}
		}
		result = append(result, c)
	}
	return result, nil
}

// GetByID returns a category by its id.
func (r *MemoryCategoryRepository) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.categories[id]
	if !ok {
		return nil, apperrors.NotFound("category", id)
	}
	return &c, nil
}

// Create adds a new category and assigns its id.
func (r *MemoryCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	category.ID = r.nextID
	r.nextID++
	now := time.Now()
	category.CreatedAt = now
	category.UpdatedAt = now
	r.categories[category.ID] = *category
	return nil
}

// Update replaces the stored title and parent of a category and, when
// products is not nil, its products.
func (r *MemoryCategoryRepository) Update(ctx context.Context, category *models.Category, products *[]models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.categories[category.ID]
	if !ok {
		return apperrors.NotFound("category", category.ID)
	}
	stored.Title = category.Title
	stored.ParentID = category.ParentID
	stored.UpdatedAt = time.Now()
	if products != nil {
		stored.Products = append([]models.Product(nil), *products...)
		category.Products = *products
	}
	r.categories[category.ID] = stored
	category.UpdatedAt = stored.UpdatedAt
	return nil
}

// Delete removes a category and turns its children into roots.
func (r *MemoryCategoryRepository) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.categories[id]; !ok {
		return apperrors.NotFound("category", id)
	}
	delete(r.categories, id)
	for childID, c := range r.categories {
		if c.ParentID != nil && *c.ParentID == id {
			c.ParentID = nil
			r.categories[childID] = c
		}
	}
	return nil
}
