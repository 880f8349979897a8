package middleware

import (
	"go-backoffice/internal/common/models"

	"github.com/gofiber/fiber/v2"
)

// RequireCapability rejects callers whose actor does not pass the predicate.
func RequireCapability(allowed func(models.Actor) bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := ActorFrom(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		if !allowed(actor) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden: Insufficient permissions",
			})
		}

		return c.Next()
	}
}
