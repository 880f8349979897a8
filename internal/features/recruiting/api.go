package recruiting

import (
	"go-backoffice/internal/common/api"
	"go-backoffice/internal/common/models"
	"go-backoffice/internal/config"
	"go-backoffice/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type RecruitingApi struct {
	controller *RecruitingController
	config     *config.Config
}

func NewRecruitingApi(controller *RecruitingController, config *config.Config) api.Route {
	return &RecruitingApi{controller: controller, config: config}
}

func (h *RecruitingApi) Setup(app *fiber.App) {
	group := app.Group("/api/candidates",
		middleware.AuthMiddleware(h.config.SkipAuth),
		middleware.RequireCapability(models.Actor.CanManageRecruiting),
	)

	group.Get("/", h.controller.ListCandidates)
	group.Post("/", h.controller.CreateCandidate)
	group.Get("/stale", h.controller.ListStale)
	group.Get("/:id", h.controller.GetCandidate)
	group.Post("/:id/transition", h.controller.Transition)
}
