package handlers

import (
	"github.com/gofiber/fiber/v2"

	"shopcatalog/internal/middleware"
	"shopcatalog/internal/permissions"
	"shopcatalog/internal/repositories"
	"shopcatalog/internal/services"
)

// CategoryHandler handles HTTP requests for categories.
type CategoryHandler struct {
	service *services.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(service *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: service}
}

// RegisterRoutes registers the category routes under goods. auth must
// authenticate the caller.
func (h *CategoryHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	categories := router.Group("/goods/categories", auth)
	categories.Get("/", h.HandleGetCategories)
	categories.Post("/", h.HandleCreateCategory)
	categories.Get("/:id", h.HandleGetCategory)
	categories.Patch("/:id", h.HandleUpdateCategory)
	categories.Delete("/:id", middleware.RequirePermission(permissions.IsSuperUser), h.HandleDeleteCategory)
}

// HandleGetCategories lists categories filtered by ?title= and ?parent=
// (the parent's title).
func (h *CategoryHandler) HandleGetCategories(c *fiber.Ctx) error {
	filter := repositories.CategoryFilter{
		Title:       c.Query("title"),
		ParentTitle: c.Query("parent"),
	}
	views, err := h.service.ListCategories(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(views)
}

// HandleGetCategory returns a category with its full path.
func (h *CategoryHandler) HandleGetCategory(c *fiber.Ctx) error {
	id, err := paramID(c, "id", "category")
	if err != nil {
		return respondError(c, err)
	}
	view, err := h.service.GetCategory(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

// HandleCreateCategory creates a category.
func (h *CategoryHandler) HandleCreateCategory(c *fiber.Ctx) error {
	var in services.CreateCategoryInput
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	view, err := h.service.CreateCategory(c.UserContext(), middleware.CurrentUser(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(view)
}

// HandleUpdateCategory patches a category.
func (h *CategoryHandler) HandleUpdateCategory(c *fiber.Ctx) error {
	id, err := paramID(c, "id", "category")
	if err != nil {
		return respondError(c, err)
	}
	var patch services.CategoryPatch
	if err := parseBody(c, &patch); err != nil {
		return respondError(c, err)
	}
	view, err := h.service.UpdateCategory(c.UserContext(), middleware.CurrentUser(c), id, patch)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

// HandleDeleteCategory deletes a category; its children become roots.
func (h *CategoryHandler) HandleDeleteCategory(c *fiber.Ctx) error {
	id, err := paramID(c, "id", "category")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.service.DeleteCategory(c.UserContext(), middleware.CurrentUser(c), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
