package dealership

import (
	common_api "go-backoffice/internal/common/api"
	"go-backoffice/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type DealershipController struct {
	Service DealershipService
}

func NewDealershipController(service DealershipService) *DealershipController {
	return &DealershipController{Service: service}
}

func (ctrl *DealershipController) List(c *fiber.Ctx) error {
	items, err := ctrl.Service.ListDealerships(c.UserContext())
	if err != nil {
		return common_api.Fail(c, err)
	}
	return c.JSON(fiber.Map{"data": items, "total": len(items)})
}

func (ctrl *DealershipController) Get(c *fiber.Ctx) error {
	d, err := ctrl.Service.GetDealership(c.UserContext(), c.Params("id"))
	if err != nil {
		return common_api.Fail(c, err)
	}
	return c.JSON(d)
}

func (ctrl *DealershipController) Create(c *fiber.Ctx) error {
	var req DealershipRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	actor, _ := middleware.ActorFrom(c)

	d, err := ctrl.Service.CreateDealership(c.UserContext(), req.Name, actor)
	if err != nil {
		return common_api.Fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(d)
}

func (ctrl *DealershipController) Rename(c *fiber.Ctx) error {
	var req DealershipRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	actor, _ := middleware.ActorFrom(c)

	if err := ctrl.Service.RenameDealership(c.UserContext(), c.Params("id"), req.Name, actor); err != nil {
		return common_api.Fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "success"})
}
