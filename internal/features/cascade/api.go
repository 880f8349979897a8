package cascade

import (
	"go-backoffice/internal/common/api"
	"go-backoffice/internal/common/models"
	"go-backoffice/internal/config"
	"go-backoffice/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type CascadeApi struct {
	controller *CascadeController
	config     *config.Config
}

func NewCascadeApi(controller *CascadeController, config *config.Config) api.Route {
	return &CascadeApi{controller: controller, config: config}
}

func (h *CascadeApi) Setup(app *fiber.App) {
	group := app.Group("/api/leads", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Patch("/:id", h.controller.UpdateLead)
	group.Put("/:id/vehicle", h.controller.LinkVehicle)
	group.Delete("/:id", middleware.RequireCapability(models.Actor.CanDelete), h.controller.DeleteLead)
}
