package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"shopcatalog/internal/apperrors"
	"shopcatalog/internal/middleware"
)

// respondError writes err as an ErrorResponse with the mapped status code.
func respondError(c *fiber.Ctx, err error) error {
	httpErr := apperrors.MapErrorToHTTP(err)

	entry := log.WithFields(log.Fields{
		"request_id": middleware.RequestIDFrom(c),
		"method":     c.Method(),
		"path":       c.Path(),
		"status":     httpErr.StatusCode,
	}).WithError(err)
	if httpErr.StatusCode >= fiber.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Debug("request rejected")
	}

	return c.Status(httpErr.StatusCode).JSON(httpErr.ToErrorResponse())
}

// parseBody decodes the JSON body into out.
func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.Validation("invalid request body: "+err.Error(), nil)
	}
	return nil
}

// paramID reads a numeric path parameter. Anything else addresses no entity.
func paramID(c *fiber.Ctx, name, entity string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, apperrors.NotFound(entity, raw)
	}
	return uint(id), nil
}
