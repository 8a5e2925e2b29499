package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"shopcatalog/internal/apperrors"
	"shopcatalog/internal/models"
	"shopcatalog/internal/permissions"
)

const userKey = "user"

// Authenticator resolves a bearer token to a user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// AuthRequired rejects requests without a valid bearer token with 401 and
// requests from inactive users with 403. The resolved user is stored in the
// request locals.
func AuthRequired(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return reject(c, fiber.StatusUnauthorized, "Authorization header is required")
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			return reject(c, fiber.StatusUnauthorized, "Authorization header format must be 'Bearer <token>'")
		}

		user, err := auth.Authenticate(c.UserContext(), parts[1])
		if err != nil {
			log.WithError(err).WithField("request_id", RequestIDFrom(c)).Debug("authentication failed")
			httpErr := apperrors.MapErrorToHTTP(err)
			if httpErr.StatusCode == fiber.StatusUnauthorized {
				return reject(c, fiber.StatusUnauthorized, "Invalid or expired token")
			}
			return c.Status(httpErr.StatusCode).JSON(httpErr.ToErrorResponse())
		}
		if !user.IsActive {
			return reject(c, fiber.StatusForbidden, "user account is inactive")
		}

		c.Locals(userKey, user)
		return c.Next()
	}
}

// RequirePermission rejects the request with 403 unless pred accepts the
// authenticated user.
func RequirePermission(pred permissions.Predicate) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !pred(CurrentUser(c)) {
			return reject(c, fiber.StatusForbidden, apperrors.ErrForbidden.Error())
		}
		return c.Next()
	}
}

// CurrentUser returns the user stored by AuthRequired, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userKey).(*models.User)
	return user
}

func reject(c *fiber.Ctx, status int, message string) error {
	code := "UNAUTHORIZED"
	if status == fiber.StatusForbidden {
		code = "FORBIDDEN"
	}
	return c.Status(status).JSON(apperrors.ErrorResponse{Message: message, Code: code})
}
