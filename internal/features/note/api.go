package note

import (
	"go-backoffice/internal/common/api"
	"go-backoffice/internal/config"
	"go-backoffice/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type NoteApi struct {
	controller *NoteController
	config     *config.Config
}

func NewNoteApi(controller *NoteController, config *config.Config) api.Route {
	return &NoteApi{controller: controller, config: config}
}

func (h *NoteApi) Setup(app *fiber.App) {
	group := app.Group("/api/leads", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Get("/:id/notes", h.controller.ListNotes)
}
