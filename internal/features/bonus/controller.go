package bonus

import (
	"strconv"
	"time"

	common_api "go-backoffice/internal/common/api"
	"go-backoffice/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type BonusController struct {
	Service EarningsService
	nowFn   func() time.Time
}

func NewBonusController(service EarningsService) *BonusController {
	return &BonusController{Service: service, nowFn: time.Now}
}

// GetEarnings godoc
// @Summary      Sales, commission and bonus for a trailing window
// @Tags         bonus
// @Param        id path string true "Staff ID"
// @Param        days query int false "Window length in days" default(30)
// @Router       /api/staff/{id}/earnings [get]
func (ctrl *BonusController) GetEarnings(c *fiber.Ctx) error {
	days, err := strconv.Atoi(c.Query("days", "30"))
	if err != nil || days < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "days must be a positive integer"})
	}
	actor, _ := middleware.ActorFrom(c)

	to := ctrl.nowFn().UTC()
	from := to.AddDate(0, 0, -days)

	earnings, err := ctrl.Service.ForStaff(c.UserContext(), c.Params("id"), from, to, actor)
	if err != nil {
		return common_api.Fail(c, err)
	}
	return c.JSON(fiber.Map{"data": earnings})
}

// GetTiers godoc
// @Summary      Bonus table in effect
// @Tags         bonus
// @Router       /api/bonus/tiers [get]
func (ctrl *BonusController) GetTiers(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": ctrl.Service.Tiers()})
}
