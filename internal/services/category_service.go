package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"

	"shopcatalog/internal/apperrors"
	"shopcatalog/internal/models"
	"shopcatalog/internal/repositories"
	"shopcatalog/internal/validation"
)

// OptionalID tells an absent id apart from an explicit null in a JSON patch.
type OptionalID struct {
	Set bool
	ID  *uint
}

func (o *OptionalID) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.ID = nil
		return nil
	}
	var id uint
	if err := json.Unmarshal(data, &id); err != nil {
		return fmt.Errorf("id must be a non-negative integer: %w", err)
	}
	o.ID = &id
	return nil
}

// CategoryView is a category as returned to clients.
type CategoryView struct {
	ID       uint   `json:"id"`
	Title    string `json:"title"`
	ParentID *uint  `json:"parent"`
	Products []uint `json:"products"`
	FullPath string `json:"full_path"`
}

// CreateCategoryInput is the payload of a category creation.
type CreateCategoryInput struct {
	Title      string `json:"title" validate:"required,max=30"`
	ParentID   *uint  `json:"parent"`
	ProductIDs []uint `json:"products"`
}

// CategoryPatch is a partial update of a category. A set Parent with a nil ID
// turns the category into a root; a non-nil ProductIDs replaces the links.
type CategoryPatch struct {
	Title      *string    `json:"title" validate:"omitnil,min=1,max=30"`
	Parent     OptionalID `json:"parent"`
	ProductIDs *[]uint    `json:"products"`
}

// CategoryService handles business logic related to categories.
type CategoryService struct {
	repo        repositories.CategoryRepository
	productRepo repositories.ProductRepository
	validate    *validator.Validate
	notifier    *Notifier

	// reparent serializes the cycle check of an update with its write.
	reparent sync.Mutex
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(repo repositories.CategoryRepository, productRepo repositories.ProductRepository, notifier *Notifier) *CategoryService {
	return &CategoryService{
		repo:        repo,
		productRepo: productRepo,
		validate:    validation.New(),
		notifier:    notifier,
	}
}

func (s *CategoryService) tree(ctx context.Context) (*CategoryTree, error) {
	all, err := s.repo.All(ctx)
	if err != nil {
		return nil, err
	}
	return NewCategoryTree(all), nil
}

func newCategoryView(c models.Category, tree *CategoryTree) CategoryView {
	return CategoryView{
		ID:       c.ID,
		Title:    c.Title,
		ParentID: c.ParentID,
		Products: c.ProductIDs(),
		FullPath: tree.FullPath(c),
	}
}

// ListCategories returns the categories matching filter with their full paths.
func (s *CategoryService) ListCategories(ctx context.Context, filter repositories.CategoryFilter) ([]CategoryView, error) {
	categories, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	tree, err := s.tree(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]CategoryView, 0, len(categories))
	for _, c := range categories {
		views = append(views, newCategoryView(c, tree))
	}
	return views, nil
}

// GetCategory returns a single category.
func (s *CategoryService) GetCategory(ctx context.Context, id uint) (*CategoryView, error) {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, category)
}

// CreateCategory stores a new category under an optional existing parent.
func (s *CategoryService) CreateCategory(ctx context.Context, actor *models.User, in CreateCategoryInput) (*CategoryView, error) {
	if err := validation.Struct(s.validate, in); err != nil {
		return nil, err
	}
	if in.ParentID != nil {
		if err := s.checkParentExists(ctx, *in.ParentID); err != nil {
			return nil, err
		}
	}
	products, err := resolveProducts(ctx, s.productRepo, "products", in.ProductIDs)
	if err != nil {
		return nil, err
	}

	category := &models.Category{Title: in.Title, ParentID: in.ParentID, Products: products}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, err
	}

	s.notifier.Notify(models.EventCategoryCreated, category.ID, actor)
	return s.view(ctx, category)
}

// UpdateCategory applies patch. A parent that would make the category its own
// ancestor is rejected.
func (s *CategoryService) UpdateCategory(ctx context.Context, actor *models.User, id uint, patch CategoryPatch) (*CategoryView, error) {
	s.reparent.Lock()
	defer s.reparent.Unlock()

	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validation.Struct(s.validate, patch); err != nil {
		return nil, err
	}

	if patch.Parent.Set && patch.Parent.ID != nil {
		if err := s.checkParentExists(ctx, *patch.Parent.ID); err != nil {
			return nil, err
		}
		tree, err := s.tree(ctx)
		if err != nil {
			return nil, err
		}
		if tree.WouldCreateCycle(category.ID, *patch.Parent.ID) {
			return nil, apperrors.FieldInvalid("parent", "would make the category its own ancestor")
		}
	}

	var products *[]models.Product
	if patch.ProductIDs != nil {
		resolved, err := resolveProducts(ctx, s.productRepo, "products", *patch.ProductIDs)
		if err != nil {
			return nil, err
		}
		products = &resolved
	}

	if patch.Title != nil {
		category.Title = *patch.Title
	}
	if patch.Parent.Set {
		category.ParentID = patch.Parent.ID
	}
	if err := s.repo.Update(ctx, category, products); err != nil {
		return nil, err
	}

	s.notifier.Notify(models.EventCategoryUpdated, category.ID, actor)
	return s.GetCategory(ctx, category.ID)
}

// DeleteCategory removes a category. Its children become roots.
func (s *CategoryService) DeleteCategory(ctx context.Context, actor *models.User, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.notifier.Notify(models.EventCategoryDeleted, id, actor)
	return nil
}

func (s *CategoryService) checkParentExists(ctx context.Context, parentID uint) error {
	if _, err := s.repo.GetByID(ctx, parentID); err != nil {
		if isNotFound(err) {
			return apperrors.Reference("parent", "parent category does not exist")
		}
		return err
	}
	return nil
}

func (s *CategoryService) view(ctx context.Context, category *models.Category) (*CategoryView, error) {
	tree, err := s.tree(ctx)
	if err != nil {
		return nil, err
	}
	view := newCategoryView(*category, tree)
	return &view, nil
}
