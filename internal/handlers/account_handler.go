package handlers

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"shopcatalog/internal/middleware"
	"shopcatalog/internal/permissions"
	"shopcatalog/internal/services"
)

// AccountHandler handles HTTP requests for authentication and user profiles.
type AccountHandler struct {
	authService    *services.AuthService
	profileService *services.ProfileService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(authService *services.AuthService, profileService *services.ProfileService) *AccountHandler {
	return &AccountHandler{
		authService:    authService,
		profileService: profileService,
	}
}

// RegisterRoutes registers the account routes. auth must authenticate the caller.
func (h *AccountHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	accounts := router.Group("/accounts")
	accounts.Post("/login", h.HandleLogin)

	superOnly := middleware.RequirePermission(permissions.IsSuperUser)
	accounts.Post("/signup", auth, superOnly, h.HandleSignup)
	accounts.Get("/profiles", auth, superOnly, h.HandleListProfiles)
	accounts.Get("/profile/:email", auth, h.HandleGetProfile)
	accounts.Patch("/profile/:email", auth, h.HandleUpdateProfile)
	accounts.Delete("/profile/:email", auth, superOnly, h.HandleDeleteProfile)
	accounts.Get("/myprofile", auth, h.HandleGetMyProfile)
	accounts.Patch("/myprofile", auth, h.HandleUpdateMyProfile)
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin authenticates a user and issues a JWT.
func (h *AccountHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	token, err := h.authService.LoginUser(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
	})
}

// HandleSignup registers a new responsible or, with the superuser flag, a superuser.
func (h *AccountHandler) HandleSignup(c *fiber.Ctx) error {
	var in services.RegisterInput
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}

	user, err := h.authService.RegisterUser(c.UserContext(), in, middleware.CurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "You've registered successfully!",
		"user":    user,
	})
}

// HandleListProfiles lists every user.
func (h *AccountHandler) HandleListProfiles(c *fiber.Ctx) error {
	users, err := h.profileService.ListProfiles(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(users)
}

func emailParam(c *fiber.Ctx) string {
	email, err := url.PathUnescape(c.Params("email"))
	if err != nil {
		return c.Params("email")
	}
	return email
}

// HandleGetProfile returns the profile addressed by email.
func (h *AccountHandler) HandleGetProfile(c *fiber.Ctx) error {
	user, err := h.profileService.GetProfile(c.UserContext(), middleware.CurrentUser(c), emailParam(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// HandleUpdateProfile patches the profile addressed by email.
func (h *AccountHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	if err := h.profileService.AuthorizeProfile(middleware.CurrentUser(c), emailParam(c)); err != nil {
		return respondError(c, err)
	}

	var patch services.ProfilePatch
	if err := parseBody(c, &patch); err != nil {
		return respondError(c, err)
	}

	user, err := h.profileService.UpdateProfile(c.UserContext(), middleware.CurrentUser(c), emailParam(c), patch)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// HandleDeleteProfile removes the user addressed by email.
func (h *AccountHandler) HandleDeleteProfile(c *fiber.Ctx) error {
	if err := h.profileService.DeleteProfile(c.UserContext(), emailParam(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleGetMyProfile returns the caller's own profile.
func (h *AccountHandler) HandleGetMyProfile(c *fiber.Ctx) error {
	return c.JSON(middleware.CurrentUser(c))
}

// HandleUpdateMyProfile patches the caller's own profile.
func (h *AccountHandler) HandleUpdateMyProfile(c *fiber.Ctx) error {
	var patch services.ProfilePatch
	if err := parseBody(c, &patch); err != nil {
		return respondError(c, err)
	}

	user, err := h.profileService.UpdateOwnProfile(c.UserContext(), middleware.CurrentUser(c), patch)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}
