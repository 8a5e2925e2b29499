package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"shopcatalog/internal/apperrors"
	"shopcatalog/internal/models"
	"shopcatalog/internal/repositories"
	"shopcatalog/internal/services"
)

func validProductInput() services.CreateProductInput {
	return services.CreateProductInput{
		Product: services.ProductInput{Title: "Phone", Desc: "A phone"},
		ShopID:  1,
		Price:   ptr(decimal.RequireFromString("199.99")),
		InStock: ptr(uint(3)),
	}
}

func TestProductService_CreateProduct(t *testing.T) {
	repo := new(MockProductRepository)
	shopRepo := new(MockShopRepository)
	pub := &recordingPublisher{}
	service := services.NewProductService(repo, shopRepo, services.NewNotifier(pub, nil))

	shopRepo.On("GetByID", mock.Anything, uint(1)).Return(&models.Shop{ID: 1, Title: "Main"}, nil).Once()
	repo.On("GetByTitle", mock.Anything, "Phone").Return(nil, notFound("product")).Once()
	repo.On("CreateListing", mock.Anything, mock.MatchedBy(func(l *models.ShopProduct) bool {
		return l.ShopID == 1 && l.Product.Title == "Phone" && l.Price.Equal(decimal.RequireFromString("199.99")) && l.InStock == 3
	})).Run(func(args mock.Arguments) {
		l := args.Get(1).(*models.ShopProduct)
		l.ID, l.ProductID, l.Product.ID = 1, 8, 8
	}).Return(nil).Once()

	listing, err := service.CreateProduct(context.Background(), nil, validProductInput())

	require.NoError(t, err)
	assert.Equal(t, uint(8), listing.ProductID)
	assert.Equal(t, []string{models.EventProductCreated}, pub.published())
	repo.AssertExpectations(t)
	shopRepo.AssertExpectations(t)
}

func TestProductService_CreateProduct_MissingShop(t *testing.T) {
	repo := new(MockProductRepository)
	shopRepo := new(MockShopRepository)
	service := services.NewProductService(repo, shopRepo, nil)

	shopRepo.On("GetByID", mock.Anything, uint(1)).Return(nil, notFound("shop")).Once()

	_, err := service.CreateProduct(context.Background(), nil, validProductInput())

	var rerr *apperrors.ReferenceError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "shop", rerr.Field)
	repo.AssertNotCalled(t, "CreateListing", mock.Anything, mock.Anything)
}

func TestProductService_CreateProduct_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(in *services.CreateProductInput)
		field  string
	}{
		{"negative price", func(in *services.CreateProductInput) { in.Price = ptr(decimal.RequireFromString("-1")) }, "price"},
		{"three decimals", func(in *services.CreateProductInput) { in.Price = ptr(decimal.RequireFromString("1.005")) }, "price"},
		{"too large", func(in *services.CreateProductInput) { in.Price = ptr(decimal.RequireFromString("100000000")) }, "price"},
		{"huge exponent", func(in *services.CreateProductInput) { in.Price = ptr(decimal.RequireFromString("1e3000000")) }, "price"},
		{"tiny exponent", func(in *services.CreateProductInput) { in.Price = ptr(decimal.RequireFromString("1e-3000000")) }, "price"},
		{"zero with huge exponent", func(in *services.CreateProductInput) { in.Price = ptr(decimal.RequireFromString("0e3000000")) }, "price"},
		{"missing price", func(in *services.CreateProductInput) { in.Price = nil }, "price"},
		{"missing stock", func(in *services.CreateProductInput) { in.InStock = nil }, "in_stock"},
		{"missing title", func(in *services.CreateProductInput) { in.Product.Title = "" }, "product.title"},
		{"missing shop", func(in *services.CreateProductInput) { in.ShopID = 0 }, "shop"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockProductRepository)
			shopRepo := new(MockShopRepository)
			service := services.NewProductService(repo, shopRepo, nil)

			in := validProductInput()
			tt.mutate(&in)
			_, err := service.CreateProduct(context.Background(), nil, in)

			var verr *apperrors.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.field)
			repo.AssertNotCalled(t, "CreateListing", mock.Anything, mock.Anything)
		})
	}
}

func TestProductService_CreateProduct_DuplicateTitle(t *testing.T) {
	repo := new(MockProductRepository)
	shopRepo := new(MockShopRepository)
	service := services.NewProductService(repo, shopRepo, nil)

	shopRepo.On("GetByID", mock.Anything, uint(1)).Return(&models.Shop{ID: 1}, nil).Once()
	repo.On("GetByTitle", mock.Anything, "Phone").Return(&models.Product{ID: 2, Title: "Phone"}, nil).Once()

	_, err := service.CreateProduct(context.Background(), nil, validProductInput())

	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "already exists", verr.Fields["product.title"])
}

func existingListing() *models.ShopProduct {
	return &models.ShopProduct{
		ID:        1,
		ShopID:    1,
		Shop:      models.Shop{ID: 1, Title: "Main", Desc: "d", IsActive: true},
		ProductID: 8,
		Product:   models.Product{ID: 8, Title: "Phone", Desc: "A phone"},
		Price:     decimal.RequireFromString("10.00"),
		InStock:   1,
	}
}

func TestProductService_UpdateProduct_MergesFields(t *testing.T) {
	repo := new(MockProductRepository)
	service := services.NewProductService(repo, new(MockShopRepository), nil)
	caller := &models.User{ID: 2, Role: models.RoleResponsible, IsActive: true}

	repo.On("GetByProductID", mock.Anything, uint(8)).Return(existingListing(), nil).Once()
	repo.On("SaveListing", mock.Anything, mock.MatchedBy(func(l *models.ShopProduct) bool {
		return l.Product.Title == "Phone" &&
			l.Product.Desc == "Better phone" &&
			l.Price.Equal(decimal.RequireFromString("12.50")) &&
			l.InStock == 1
	}), repositories.ListingUpdate{Product: true}).Return(nil).Once()
	repo.On("GetByProductID", mock.Anything, uint(8)).Return(existingListing(), nil).Once()

	_, err := service.UpdateProduct(context.Background(), caller, 8, services.ListingPatch{
		Product: &services.ProductPatch{Desc: ptr("Better phone")},
		Price:   ptr(decimal.RequireFromString("12.5")),
	})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestProductService_UpdateProduct_ShopRequiresSuperUser(t *testing.T) {
	repo := new(MockProductRepository)
	service := services.NewProductService(repo, new(MockShopRepository), nil)
	patch := services.ListingPatch{Shop: &services.ListingShopPatch{Title: ptr("Renamed")}}

	repo.On("GetByProductID", mock.Anything, uint(8)).Return(existingListing(), nil)

	responsible := &models.User{ID: 2, Role: models.RoleResponsible, IsActive: true}
	_, err := service.UpdateProduct(context.Background(), responsible, 8, patch)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	repo.AssertNotCalled(t, "SaveListing", mock.Anything, mock.Anything, mock.Anything)

	super := &models.User{ID: 1, Role: models.RoleSuperUser, IsActive: true}
	repo.On("SaveListing", mock.Anything, mock.MatchedBy(func(l *models.ShopProduct) bool {
		return l.Shop.Title == "Renamed"
	}), repositories.ListingUpdate{Shop: true}).Return(nil).Once()

	_, err = service.UpdateProduct(context.Background(), super, 8, patch)
	require.NoError(t, err)
}

func TestProductService_ListProducts_InvertedBounds(t *testing.T) {
	repo := new(MockProductRepository)
	service := services.NewProductService(repo, new(MockShopRepository), nil)

	_, err := service.ListProducts(context.Background(), repositories.ProductFilter{
		MinPrice: ptr(decimal.NewFromInt(10)),
		MaxPrice: ptr(decimal.NewFromInt(5)),
	})

	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestProductService_ListProducts_BoundsOutOfRange(t *testing.T) {
	repo := new(MockProductRepository)
	service := services.NewProductService(repo, new(MockShopRepository), nil)

	for _, raw := range []string{"1e10000000", "-1e10000000", "1e-10000000", "100000000"} {
		_, err := service.ListProducts(context.Background(), repositories.ProductFilter{MinPrice: ptr(decimal.RequireFromString(raw))})
		var verr *apperrors.ValidationError
		require.ErrorAs(t, err, &verr, raw)
		assert.Contains(t, verr.Fields, "min_price")

		_, err = service.ListProducts(context.Background(), repositories.ProductFilter{MaxPrice: ptr(decimal.RequireFromString(raw))})
		require.ErrorAs(t, err, &verr, raw)
		assert.Contains(t, verr.Fields, "max_price")
	}
	repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)

	filter := repositories.ProductFilter{
		MinPrice: ptr(decimal.RequireFromString("-99999999.99")),
		MaxPrice: ptr(decimal.RequireFromString("99999999.99")),
	}
	repo.On("List", mock.Anything, filter).Return([]models.ShopProduct{}, nil).Once()
	_, err := service.ListProducts(context.Background(), filter)
	require.NoError(t, err)
}

func TestProductService_DeleteProduct(t *testing.T) {
	repo := new(MockProductRepository)
	service := services.NewProductService(repo, new(MockShopRepository), nil)

	repo.On("Delete", mock.Anything, uint(8)).Return(nil).Once()
	repo.On("Delete", mock.Anything, uint(99)).Return(notFound("product")).Once()

	require.NoError(t, service.DeleteProduct(context.Background(), nil, 8))
	assert.ErrorIs(t, service.DeleteProduct(context.Background(), nil, 99), apperrors.ErrNotFound)
	repo.AssertExpectations(t)
}
