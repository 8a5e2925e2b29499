package services

import (
	"context"

	"github.com/go-playground/validator/v10"

	"shopcatalog/internal/models"
	"shopcatalog/internal/repositories"
	"shopcatalog/internal/validation"
)

// CreateShopInput is the payload of a shop creation.
type CreateShopInput struct {
	Title          string `json:"title" validate:"required,max=30"`
	Desc           string `json:"desc" validate:"required,max=1000"`
	ResponsibleIDs []uint `json:"responsible_id"`
	IsActive       *bool  `json:"is_active"`
	Image          string `json:"image" validate:"max=255"`
}

// ShopPatch is a partial update of a shop. A non-nil ResponsibleIDs replaces
// the whole set of responsibles.
type ShopPatch struct {
	Title          *string `json:"title" validate:"omitnil,min=1,max=30"`
	Desc           *string `json:"desc" validate:"omitnil,min=1,max=1000"`
	IsActive       *bool   `json:"is_active"`
	Image          *string `json:"image" validate:"omitnil,max=255"`
	ResponsibleIDs *[]uint `json:"responsible_id"`
}

func (p *ShopPatch) apply(shop *models.Shop) {
	if p.Title != nil {
		shop.Title = *p.Title
	}
	if p.Desc != nil {
		shop.Desc = *p.Desc
	}
	if p.IsActive != nil {
		shop.IsActive = *p.IsActive
	}
	if p.Image != nil {
		shop.Image = *p.Image
	}
}

// ShopService handles business logic related to shops.
type ShopService struct {
	shopRepo repositories.ShopRepository
	userRepo repositories.UserRepository
	validate *validator.Validate
	notifier *Notifier
}

// NewShopService creates a new ShopService.
func NewShopService(shopRepo repositories.ShopRepository, userRepo repositories.UserRepository, notifier *Notifier) *ShopService {
	return &ShopService{
		shopRepo: shopRepo,
		userRepo: userRepo,
		validate: validation.New(),
		notifier: notifier,
	}
}

// ListShops returns the shops matching filter.
func (s *ShopService) ListShops(ctx context.Context, filter repositories.ShopFilter) ([]models.Shop, error) {
	return s.shopRepo.List(ctx, filter)
}

// GetShop returns a single shop.
func (s *ShopService) GetShop(ctx context.Context, id uint) (*models.Shop, error) {
	return s.shopRepo.GetByID(ctx, id)
}

// CreateShop stores a new shop. Every responsible id must name an existing user.
func (s *ShopService) CreateShop(ctx context.Context, actor *models.User, in CreateShopInput) (*models.Shop, error) {
	if err := validation.Struct(s.validate, in); err != nil {
		return nil, err
	}
	responsibles, err := resolveUsers(ctx, s.userRepo, "responsible_id", in.ResponsibleIDs)
	if err != nil {
		return nil, err
	}

	shop := &models.Shop{
		Title:        in.Title,
		Desc:         in.Desc,
		IsActive:     true,
		Image:        in.Image,
		Responsibles: responsibles,
	}
	if in.IsActive != nil {
		shop.IsActive = *in.IsActive
	}
	if err := s.shopRepo.Create(ctx, shop); err != nil {
		return nil, err
	}

	s.notifier.Notify(models.EventShopCreated, shop.ID, actor)
	return s.shopRepo.GetByID(ctx, shop.ID)
}

// UpdateShop applies patch to the shop with the given id.
func (s *ShopService) UpdateShop(ctx context.Context, actor *models.User, id uint, patch ShopPatch) (*models.Shop, error) {
	shop, err := s.shopRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validation.Struct(s.validate, patch); err != nil {
		return nil, err
	}

	var responsibles *[]models.User
	if patch.ResponsibleIDs != nil {
		users, err := resolveUsers(ctx, s.userRepo, "responsible_id", *patch.ResponsibleIDs)
		if err != nil {
			return nil, err
		}
		responsibles = &users
	}

	patch.apply(shop)
	if err := s.shopRepo.Update(ctx, shop, responsibles); err != nil {
		return nil, err
	}

	s.notifier.Notify(models.EventShopUpdated, shop.ID, actor)
	return s.shopRepo.GetByID(ctx, shop.ID)
}

// DeleteShop removes a shop together with its listings.
func (s *ShopService) DeleteShop(ctx context.Context, actor *models.User, id uint) error {
	if err := s.shopRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.notifier.Notify(models.EventShopDeleted, id, actor)
	return nil
}
