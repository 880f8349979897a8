package dealership

import (
	"go-backoffice/internal/common/api"
	"go-backoffice/internal/common/models"
	"go-backoffice/internal/config"
	"go-backoffice/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type DealershipApi struct {
	controller *DealershipController
	config     *config.Config
}

func NewDealershipApi(controller *DealershipController, config *config.Config) api.Route {
	return &DealershipApi{controller: controller, config: config}
}

func (h *DealershipApi) Setup(app *fiber.App) {
	group := app.Group("/api/dealerships", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Get("/", h.controller.List)
	group.Get("/:id", h.controller.Get)
	group.Post("/", middleware.RequireCapability(models.Actor.CanManageStaff), h.controller.Create)
	group.Put("/:id/name", middleware.RequireCapability(models.Actor.CanManageStaff), h.controller.Rename)
}
