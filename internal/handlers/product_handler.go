package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"shopcatalog/internal/apperrors"
	"shopcatalog/internal/middleware"
	"shopcatalog/internal/permissions"
	"shopcatalog/internal/repositories"
	"shopcatalog/internal/services"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service *services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

// RegisterRoutes registers the product routes under goods. auth must
// authenticate the caller.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	products := router.Group("/goods/products", auth)
	products.Get("/", h.HandleGetProducts)
	products.Post("/", h.HandleCreateProduct)
	products.Get("/:id", h.HandleGetProduct)
	products.Patch("/:id", h.HandleUpdateProduct)
	products.Delete("/:id", middleware.RequirePermission(permissions.IsSuperUser), h.HandleDeleteProduct)
}

// productFilter reads ?title=, ?min_price= and ?max_price=.
func productFilter(c *fiber.Ctx) (repositories.ProductFilter, error) {
	filter := repositories.ProductFilter{Title: c.Query("title")}
	fields := map[string]string{}

	for name, dst := range map[string]**decimal.Decimal{
		"min_price": &filter.MinPrice,
		"max_price": &filter.MaxPrice,
	} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		value, err := decimal.NewFromString(raw)
		if err != nil {
			fields[name] = "must be a number"
			continue
		}
		*dst = &value
	}

	if len(fields) > 0 {
		return filter, apperrors.Validation("invalid filter parameters", fields)
	}
	return filter, nil
}

// HandleGetProducts lists listings filtered by title and price range.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	filter, err := productFilter(c)
	if err != nil {
		return respondError(c, err)
	}
	listings, err := h.service.ListProducts(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(listings)
}

// HandleGetProduct returns the listing of a product.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	id, err := paramID(c, "id", "product")
	if err != nil {
		return respondError(c, err)
	}
	listing, err := h.service.GetProduct(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(listing)
}

// HandleCreateProduct creates a product together with its listing.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var in services.CreateProductInput
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	listing, err := h.service.CreateProduct(c.UserContext(), middleware.CurrentUser(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(listing)
}

// HandleUpdateProduct merges a partial update into a listing.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, err := paramID(c, "id", "product")
	if err != nil {
		return respondError(c, err)
	}
	var patch services.ListingPatch
	if err := parseBody(c, &patch); err != nil {
		return respondError(c, err)
	}
	listing, err := h.service.UpdateProduct(c.UserContext(), middleware.CurrentUser(c), id, patch)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(listing)
}

// HandleDeleteProduct deletes a product.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, err := paramID(c, "id", "product")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.service.DeleteProduct(c.UserContext(), middleware.CurrentUser(c), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
