package cascade

import (
	common_api "go-backoffice/internal/common/api"
	"go-backoffice/internal/features/lead"
	"go-backoffice/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type CascadeController struct {
	Service CascadeService
}

func NewCascadeController(service CascadeService) *CascadeController {
	return &CascadeController{Service: service}
}

func respond(c *fiber.Ctx, res *Result) error {
	body := fiber.Map{
		"data":                  res.Lead,
		"appointments_mirrored": res.Appointments,
	}
	if w := common_api.Warnings(res.Warnings); w != nil {
		body["warnings"] = w
	}
	return c.JSON(body)
}

// UpdateLead godoc
// @Summary      Update cascading lead fields
// @Tags         leads
// @Param        id path string true "Lead ID"
// @Router       /api/leads/{id} [patch]
func (ctrl *CascadeController) UpdateLead(c *fiber.Ctx) error {
	var patch lead.Patch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	actor, _ := middleware.ActorFrom(c)

	res, err := ctrl.Service.ApplyLeadMutation(c.UserContext(), c.Params("id"), patch, actor)
	if err != nil {
		return common_api.Fail(c, err)
	}
	return respond(c, res)
}

// LinkVehicle godoc
// @Summary      Set the vehicle a lead is interested in
// @Tags         leads
// @Router       /api/leads/{id}/vehicle [put]
func (ctrl *CascadeController) LinkVehicle(c *fiber.Ctx) error {
	var req VehicleLinkRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	actor, _ := middleware.ActorFrom(c)

	res, err := ctrl.Service.LinkVehicle(c.UserContext(), c.Params("id"), req.VehicleID, actor)
	if err != nil {
		return common_api.Fail(c, err)
	}
	return respond(c, res)
}

// DeleteLead godoc
// @Summary      Delete a lead and its appointments
// @Tags         leads
// @Router       /api/leads/{id} [delete]
func (ctrl *CascadeController) DeleteLead(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFrom(c)

	res, err := ctrl.Service.DeleteLead(c.UserContext(), c.Params("id"), actor)
	if err != nil {
		return common_api.Fail(c, err)
	}
	body := fiber.Map{
		"message":              "Lead deleted",
		"appointments_removed": res.Appointments,
	}
	if w := common_api.Warnings(res.Warnings); w != nil {
		body["warnings"] = w
	}
	return c.JSON(body)
}
