package services

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"shopcatalog/internal/apperrors"
	"shopcatalog/internal/models"
	"shopcatalog/internal/permissions"
	"shopcatalog/internal/repositories"
	"shopcatalog/internal/validation"
)

// Prices fit decimal(10,2). Inputs are sized by exponent and coefficient
// length before any arithmetic, since rescaling a decimal costs time
// proportional to its exponent.
const (
	maxPriceIntDigits = 8
	maxPriceScale     = 10
)

// ProductInput describes the catalog entry of a new listing.
type ProductInput struct {
	Title string `json:"title" validate:"required,max=50"`
	Desc  string `json:"desc" validate:"max=1000"`
	Image string `json:"image" validate:"max=255"`
}

// CreateProductInput is the compound payload that creates a product and its
// listing in one shop.
type CreateProductInput struct {
	Product ProductInput     `json:"product"`
	ShopID  uint             `json:"shop" validate:"required"`
	Price   *decimal.Decimal `json:"price"`
	InStock *uint            `json:"in_stock"`
}

// ProductPatch is a partial update of the catalog entry.
type ProductPatch struct {
	Title *string `json:"title" validate:"omitnil,min=1,max=50"`
	Desc  *string `json:"desc" validate:"omitnil,max=1000"`
	Image *string `json:"image" validate:"omitnil,max=255"`
}

// ListingShopPatch is a partial update of the shop nested in a listing.
// Responsibles are read-only here.
type ListingShopPatch struct {
	Title    *string `json:"title" validate:"omitnil,min=1,max=30"`
	Desc     *string `json:"desc" validate:"omitnil,min=1,max=1000"`
	IsActive *bool   `json:"is_active"`
	Image    *string `json:"image" validate:"omitnil,max=255"`
}

// ListingPatch is a partial update of a listing and of the entities it nests.
type ListingPatch struct {
	Product *ProductPatch     `json:"product"`
	Shop    *ListingShopPatch `json:"shop"`
	Price   *decimal.Decimal  `json:"price"`
	InStock *uint             `json:"in_stock"`
}

// ProductService handles business logic related to products and their listings.
type ProductService struct {
	repo     repositories.ProductRepository
	shopRepo repositories.ShopRepository
	validate *validator.Validate
	notifier *Notifier
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, shopRepo repositories.ShopRepository, notifier *Notifier) *ProductService {
	return &ProductService{
		repo:     repo,
		shopRepo: shopRepo,
		validate: validation.New(),
		notifier: notifier,
	}
}

// ListProducts retrieves the listings matching filter.
func (s *ProductService) ListProducts(ctx context.Context, filter repositories.ProductFilter) ([]models.ShopProduct, error) {
	for name, bound := range map[string]*decimal.Decimal{"min_price": filter.MinPrice, "max_price": filter.MaxPrice} {
		if bound != nil && !priceSized(*bound) {
			return nil, apperrors.FieldInvalid(name, "must be greater than -100000000 and less than 100000000")
		}
	}
	if filter.MinPrice != nil && filter.MaxPrice != nil && filter.MinPrice.GreaterThan(*filter.MaxPrice) {
		return nil, apperrors.FieldInvalid("min_price", "must not exceed max_price")
	}
	return s.repo.List(ctx, filter)
}

// GetProduct retrieves the listing of a product.
func (s *ProductService) GetProduct(ctx context.Context, productID uint) (*models.ShopProduct, error) {
	return s.repo.GetByProductID(ctx, productID)
}

// CreateProduct creates the product and its listing. Nothing is written
// unless every check passes.
func (s *ProductService) CreateProduct(ctx context.Context, actor *models.User, in CreateProductInput) (*models.ShopProduct, error) {
	if err := validation.Struct(s.validate, in); err != nil {
		return nil, err
	}
	if in.Price == nil {
		return nil, apperrors.FieldInvalid("price", "is required")
	}
	if err := checkPrice(*in.Price); err != nil {
		return nil, err
	}
	if in.InStock == nil {
		return nil, apperrors.FieldInvalid("in_stock", "is required")
	}

	shop, err := s.shopRepo.GetByID(ctx, in.ShopID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.Reference("shop", "shop does not exist")
		}
		return nil, err
	}
	if err := s.checkTitleFree(ctx, in.Product.Title, 0); err != nil {
		return nil, err
	}

	listing := &models.ShopProduct{
		ShopID: shop.ID,
		Product: models.Product{
			Title: in.Product.Title,
			Desc:  in.Product.Desc,
			Image: in.Product.Image,
		},
		Price:   in.Price.Round(2),
		InStock: *in.InStock,
	}
	if err := s.repo.CreateListing(ctx, listing); err != nil {
		return nil, err
	}

	s.notifier.Notify(models.EventProductCreated, listing.ProductID, actor)
	return listing, nil
}

// UpdateProduct merges patch into the listing of productID. Changing the
// nested shop requires a superuser.
func (s *ProductService) UpdateProduct(ctx context.Context, caller *models.User, productID uint, patch ListingPatch) (*models.ShopProduct, error) {
	listing, err := s.repo.GetByProductID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if patch.Shop != nil && !permissions.IsSuperUser(caller) {
		return nil, apperrors.ErrForbidden
	}
	if err := validation.Struct(s.validate, patch); err != nil {
		return nil, err
	}
	if patch.Price != nil {
		if err := checkPrice(*patch.Price); err != nil {
			return nil, err
		}
	}
	if patch.Product != nil && patch.Product.Title != nil && *patch.Product.Title != listing.Product.Title {
		if err := s.checkTitleFree(ctx, *patch.Product.Title, listing.ProductID); err != nil {
			return nil, err
		}
	}

	var update repositories.ListingUpdate
	if p := patch.Product; p != nil {
		update.Product = true
		if p.Title != nil {
			listing.Product.Title = *p.Title
		}
		if p.Desc != nil {
			listing.Product.Desc = *p.Desc
		}
		if p.Image != nil {
			listing.Product.Image = *p.Image
		}
	}
	if sp := patch.Shop; sp != nil {
		update.Shop = true
		if sp.Title != nil {
			listing.Shop.Title = *sp.Title
		}
		if sp.Desc != nil {
			listing.Shop.Desc = *sp.Desc
		}
		if sp.IsActive != nil {
			listing.Shop.IsActive = *sp.IsActive
		}
		if sp.Image != nil {
			listing.Shop.Image = *sp.Image
		}
	}
	if patch.Price != nil {
		listing.Price = patch.Price.Round(2)
	}
	if patch.InStock != nil {
		listing.InStock = *patch.InStock
	}

	if err := s.repo.SaveListing(ctx, listing, update); err != nil {
		return nil, err
	}

	s.notifier.Notify(models.EventProductUpdated, listing.ProductID, caller)
	return s.repo.GetByProductID(ctx, listing.ProductID)
}

// DeleteProduct removes a product with its listings and category links.
func (s *ProductService) DeleteProduct(ctx context.Context, actor *models.User, productID uint) error {
	if err := s.repo.Delete(ctx, productID); err != nil {
		return err
	}
	s.notifier.Notify(models.EventProductDeleted, productID, actor)
	return nil
}

func (s *ProductService) checkTitleFree(ctx context.Context, title string, selfID uint) error {
	existing, err := s.repo.GetByTitle(ctx, title)
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return apperrors.FieldInvalid("product.title", "already exists")
	}
	return nil
}

// priceSized reports whether |d| < 1e8 with at most maxPriceScale fractional
// digits. It only inspects the exponent and the coefficient length.
func priceSized(d decimal.Decimal) bool {
	exp := int(d.Exponent())
	if exp < -maxPriceScale || exp > maxPriceIntDigits {
		return false
	}
	return d.IsZero() || d.NumDigits()+exp <= maxPriceIntDigits
}

// checkPrice enforces decimal(10,2): non-negative, two fractional digits at most.
func checkPrice(price decimal.Decimal) error {
	switch {
	case price.IsNegative():
		return apperrors.FieldInvalid("price", "must be greater than or equal to 0")
	case price.Exponent() < -maxPriceScale:
		return apperrors.FieldInvalid("price", "must have at most 2 decimal places")
	case !priceSized(price):
		return apperrors.FieldInvalid("price", "must have at most 10 digits")
	case !price.Equal(price.Round(2)):
		return apperrors.FieldInvalid("price", "must have at most 2 decimal places")
	}
	return nil
}
