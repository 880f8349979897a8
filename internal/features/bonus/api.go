package bonus

import (
	"go-backoffice/internal/common/api"
	"go-backoffice/internal/config"
	"go-backoffice/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type BonusApi struct {
	controller *BonusController
	config     *config.Config
}

func NewBonusApi(controller *BonusController, config *config.Config) api.Route {
	return &BonusApi{controller: controller, config: config}
}

func (h *BonusApi) Setup(app *fiber.App) {
	auth := middleware.AuthMiddleware(h.config.SkipAuth)

	app.Get("/api/staff/:id/earnings", auth, h.controller.GetEarnings)
	app.Get("/api/bonus/tiers", auth, h.controller.GetTiers)
}
