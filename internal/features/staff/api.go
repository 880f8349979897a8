package staff

import (
	"go-backoffice/internal/common/api"
	"go-backoffice/internal/common/models"
	"go-backoffice/internal/config"
	"go-backoffice/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type StaffApi struct {
	controller *StaffController
	config     *config.Config
}

func NewStaffApi(controller *StaffController, config *config.Config) api.Route {
	return &StaffApi{
		controller: controller,
		config:     config,
	}
}

func (h *StaffApi) Setup(app *fiber.App) {
	group := app.Group("/api/staff", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Get("/", h.controller.ListStaff)
	group.Get("/:id", h.controller.GetStaff)
	group.Post("/", middleware.RequireCapability(models.Actor.CanManageStaff), h.controller.CreateStaff)
	group.Put("/:id/name", middleware.RequireCapability(models.Actor.CanManageStaff), h.controller.RenameStaff)
}
