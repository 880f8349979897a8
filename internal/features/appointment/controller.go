package appointment

import (
	"time"

	common_api "go-backoffice/internal/common/api"
	"go-backoffice/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AppointmentController struct {
	Service AppointmentService
}

func NewAppointmentController(service AppointmentService) *AppointmentController {
	return &AppointmentController{Service: service}
}

func (ctrl *AppointmentController) Create(c *fiber.Ctx) error {
	var req CreateAppointmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	actor, _ := middleware.ActorFrom(c)

	a, err := ctrl.Service.CreateAppointment(c.UserContext(), req, actor)
	if err != nil {
		return common_api.Fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(a)
}

func (ctrl *AppointmentController) Get(c *fiber.Ctx) error {
	a, err := ctrl.Service.GetAppointment(c.UserContext(), c.Params("id"))
	if err != nil {
		return common_api.Fail(c, err)
	}
	return c.JSON(a)
}

// List returns the owner's appointments in [from, to); defaults to the coming week.
func (ctrl *AppointmentController) List(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFrom(c)

	from := time.Now().UTC().Truncate(24 * time.Hour)
	to := from.Add(7 * 24 * time.Hour)
	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid from"})
		}
		from = t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid to"})
		}
		to = t
	}

	ownerID := c.Query("owner_id", actor.ID)
	items, err := ctrl.Service.ListForOwner(c.UserContext(), ownerID, from, to, actor)
	if err != nil {
		return common_api.Fail(c, err)
	}
	return c.JSON(fiber.Map{"data": items, "total": len(items)})
}

func (ctrl *AppointmentController) Delete(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFrom(c)
	if err := ctrl.Service.DeleteAppointment(c.UserContext(), c.Params("id"), actor); err != nil {
		return common_api.Fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
