package server

import (
	"gorm.io/gorm"

	"shopcatalog/internal/config"
	"shopcatalog/internal/metrics"
	"shopcatalog/internal/repositories"
	"shopcatalog/internal/services"
)

// Wire builds the repositories and services on top of db. publisher may be
// nil, in which case catalog events are dropped.
func Wire(db *gorm.DB, cfg *config.Config, publisher services.EventPublisher, m *metrics.Metrics) Deps {
	userRepo := repositories.NewGORMUserRepository(db)
	shopRepo := repositories.NewGORMShopRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	categoryRepo := repositories.NewGORMCategoryRepository(db)

	var notifier *services.Notifier
	if publisher != nil {
		notifier = services.NewNotifier(publisher, m)
	}

	return Deps{
		DB:      db,
		Metrics: m,
		AuthService: services.NewAuthService(userRepo, services.AuthConfig{
			JWTSecret:  cfg.JWTSecret,
			TokenTTL:   cfg.TokenTTL,
			BcryptCost: cfg.BcryptCost,
		}, notifier),
		ProfileService:  services.NewProfileService(userRepo, cfg.BcryptCost),
		ShopService:     services.NewShopService(shopRepo, userRepo, notifier),
		ProductService:  services.NewProductService(productRepo, shopRepo, notifier),
		CategoryService: services.NewCategoryService(categoryRepo, productRepo, notifier),
	}
}
