package services_test

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"shopcatalog/internal/models"
	"shopcatalog/internal/repositories"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByIDs(ctx context.Context, ids []uint) ([]models.User, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockShopRepository is a mock implementation of repositories.ShopRepository
type MockShopRepository struct {
	mock.Mock
}

func (m *MockShopRepository) List(ctx context.Context, filter repositories.ShopFilter) ([]models.Shop, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]models.Shop), args.Error(1)
}

func (m *MockShopRepository) GetByID(ctx context.Context, id uint) (*models.Shop, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Shop), args.Error(1)
}

func (m *MockShopRepository) Create(ctx context.Context, shop *models.Shop) error {
	args := m.Called(ctx, shop)
	return args.Error(0)
}

func (m *MockShopRepository) Update(ctx context.Context, shop *models.Shop, responsibles *[]models.User) error {
	args := m.Called(ctx, shop, responsibles)
	return args.Error(0)
}

func (m *MockShopRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) List(ctx context.Context, filter repositories.ProductFilter) ([]models.ShopProduct, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]models.ShopProduct), args.Error(1)
}

func (m *MockProductRepository) GetByProductID(ctx context.Context, productID uint) (*models.ShopProduct, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ShopProduct), args.Error(1)
}

func (m *MockProductRepository) GetByTitle(ctx context.Context, title string) (*models.Product, error) {
	args := m.Called(ctx, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) GetByIDs(ctx context.Context, ids []uint) ([]models.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) CreateListing(ctx context.Context, listing *models.ShopProduct) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

func (m *MockProductRepository) SaveListing(ctx context.Context, listing *models.ShopProduct, update repositories.ListingUpdate) error {
	args := m.Called(ctx, listing, update)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, productID uint) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

// recordingPublisher keeps every published event type.
type recordingPublisher struct {
	mu     sync.Mutex
	types  []string
	bodies [][]byte
	err    error
}

func (p *recordingPublisher) PublishEvent(eventType string, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.types = append(p.types, eventType)
	p.bodies = append(p.bodies, body)
	return p.err
}

func (p *recordingPublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.types...)
}

func ptr[T any](v T) *T {
	return &v
}
