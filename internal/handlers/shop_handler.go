package handlers

import (
	"github.com/gofiber/fiber/v2"

	"shopcatalog/internal/middleware"
	"shopcatalog/internal/permissions"
	"shopcatalog/internal/repositories"
	"shopcatalog/internal/services"
)

// ShopHandler handles HTTP requests for shops.
type ShopHandler struct {
	service *services.ShopService
}

// NewShopHandler creates a new ShopHandler.
func NewShopHandler(service *services.ShopService) *ShopHandler {
	return &ShopHandler{service: service}
}

// RegisterRoutes registers the shop routes. auth must authenticate the caller.
func (h *ShopHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	superOnly := middleware.RequirePermission(permissions.IsSuperUser)

	shops := router.Group("/shops", auth)
	shops.Get("/", h.HandleGetShops)
	shops.Post("/", superOnly, h.HandleCreateShop)
	shops.Get("/:id", h.HandleGetShop)
	shops.Patch("/:id", superOnly, h.HandleUpdateShop)
	shops.Delete("/:id", superOnly, h.HandleDeleteShop)
}

// HandleGetShops lists shops, optionally filtered by ?title=.
func (h *ShopHandler) HandleGetShops(c *fiber.Ctx) error {
	filter := repositories.ShopFilter{Title: c.Query("title")}
	shops, err := h.service.ListShops(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(shops)
}

// HandleGetShop returns a single shop.
func (h *ShopHandler) HandleGetShop(c *fiber.Ctx) error {
	id, err := paramID(c, "id", "shop")
	if err != nil {
		return respondError(c, err)
	}
	shop, err := h.service.GetShop(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(shop)
}

// HandleCreateShop creates a shop.
func (h *ShopHandler) HandleCreateShop(c *fiber.Ctx) error {
	var in services.CreateShopInput
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	shop, err := h.service.CreateShop(c.UserContext(), middleware.CurrentUser(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(shop)
}

// HandleUpdateShop patches a shop.
func (h *ShopHandler) HandleUpdateShop(c *fiber.Ctx) error {
	id, err := paramID(c, "id", "shop")
	if err != nil {
		return respondError(c, err)
	}
	var patch services.ShopPatch
	if err := parseBody(c, &patch); err != nil {
		return respondError(c, err)
	}
	shop, err := h.service.UpdateShop(c.UserContext(), middleware.CurrentUser(c), id, patch)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(shop)
}

// HandleDeleteShop deletes a shop and its listings.
func (h *ShopHandler) HandleDeleteShop(c *fiber.Ctx) error {
	id, err := paramID(c, "id", "shop")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.service.DeleteShop(c.UserContext(), middleware.CurrentUser(c), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
