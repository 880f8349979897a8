package lead

import (
	"go-backoffice/internal/common/api"
	"go-backoffice/internal/config"
	"go-backoffice/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type LeadApi struct {
	controller *LeadController
	config     *config.Config
}

func NewLeadApi(controller *LeadController, config *config.Config) api.Route {
	return &LeadApi{controller: controller, config: config}
}

// Setup registers read and create routes. Mutations are served by the cascade feature.
func (h *LeadApi) Setup(app *fiber.App) {
	group := app.Group("/api/leads", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Get("/", h.controller.ListLeads)
	group.Post("/", h.controller.CreateLead)
	group.Get("/:id", h.controller.GetLead)
	group.Post("/:id/notes", h.controller.AddNote)
}
