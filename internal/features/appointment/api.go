package appointment

import (
	"go-backoffice/internal/common/api"
	"go-backoffice/internal/config"
	"go-backoffice/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AppointmentApi struct {
	controller *AppointmentController
	config     *config.Config
}

func NewAppointmentApi(controller *AppointmentController, config *config.Config) api.Route {
	return &AppointmentApi{controller: controller, config: config}
}

func (h *AppointmentApi) Setup(app *fiber.App) {
	group := app.Group("/api/appointments", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Get("/", h.controller.List)
	group.Post("/", h.controller.Create)
	group.Get("/:id", h.controller.Get)
	group.Delete("/:id", h.controller.Delete)
}
