package server

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"shopcatalog/internal/apperrors"
	"shopcatalog/internal/handlers"
	"shopcatalog/internal/metrics"
	"shopcatalog/internal/middleware"
	"shopcatalog/internal/services"
)

// Deps is everything the HTTP server needs.
type Deps struct {
	DB      *gorm.DB
	Metrics *metrics.Metrics

	AuthService     *services.AuthService
	ProfileService  *services.ProfileService
	ShopService     *services.ShopService
	ProductService  *services.ProductService
	CategoryService *services.CategoryService

	// BrokerConnected reports the state of the message broker. Nil means
	// messaging is disabled.
	BrokerConnected func() bool
}

// New builds the Fiber app with every route of the catalog API.
func New(deps Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "shopcatalog",
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format: "${locals:request_id} ${status} - ${latency} ${method} ${path}\n",
		Output: accessLog{logger: log.StandardLogger()},
	}))
	if deps.Metrics != nil {
		app.Use(middleware.Metrics(deps.Metrics))
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}

	app.Get("/health", healthHandler(deps))

	auth := middleware.AuthRequired(deps.AuthService)
	apiV1 := app.Group("/api/v1")

	handlers.NewAccountHandler(deps.AuthService, deps.ProfileService).RegisterRoutes(apiV1, auth)
	handlers.NewShopHandler(deps.ShopService).RegisterRoutes(apiV1, auth)
	handlers.NewProductHandler(deps.ProductService).RegisterRoutes(apiV1, auth)
	handlers.NewCategoryHandler(deps.CategoryService).RegisterRoutes(apiV1, auth)

	return app
}

// accessLog turns each line of Fiber's request log into one logrus entry, so
// request logs follow LOG_FORMAT like the rest of the service.
type accessLog struct {
	logger *log.Logger
}

func (w accessLog) Write(p []byte) (int, error) {
	w.logger.WithField("component", "http").Info(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

func healthHandler(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status := fiber.StatusOK
		body := fiber.Map{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "up",
			"rabbitmq": "disabled",
		}

		if deps.DB != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := ping(ctx, deps.DB); err != nil {
				log.WithError(err).Warn("health check: database unreachable")
				status = fiber.StatusServiceUnavailable
				body["status"] = "unhealthy"
				body["database"] = "down"
			}
		}
		if deps.BrokerConnected != nil {
			body["rabbitmq"] = "connected"
			if !deps.BrokerConnected() {
				body["rabbitmq"] = "disconnected"
			}
		}

		return c.Status(status).JSON(body)
	}
}

func ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// errorHandler renders errors that escape the handlers, such as unknown
// routes, in the same shape as handler errors.
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := "HTTP_ERROR"
		if fe.Code == fiber.StatusNotFound {
			code = "NOT_FOUND"
		}
		return c.Status(fe.Code).JSON(apperrors.ErrorResponse{Message: fe.Message, Code: code})
	}

	httpErr := apperrors.MapErrorToHTTP(err)
	if httpErr.StatusCode >= fiber.StatusInternalServerError {
		log.WithError(err).WithField("request_id", middleware.RequestIDFrom(c)).Error("unhandled error")
	}
	return c.Status(httpErr.StatusCode).JSON(httpErr.ToErrorResponse())
}
