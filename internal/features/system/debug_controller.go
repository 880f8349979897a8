package system

import (
	"go-backoffice/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type DebugController struct{}

func NewDebugController() *DebugController {
	return &DebugController{}
}

// GetCurrentActor godoc
// @Summary      Get current actor
// @Description  Echo the actor decoded from the JWT together with its capabilities
// @Tags         debug
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/debug/me [get]
func (c *DebugController) GetCurrentActor(ctx *fiber.Ctx) error {
	actor, ok := middleware.ActorFrom(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	return ctx.JSON(fiber.Map{
		"actor":        actor,
		"capabilities": actor.Capabilities(),
	})
}
