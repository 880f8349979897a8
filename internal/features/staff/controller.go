package staff

import (
	common_api "go-backoffice/internal/common/api"
	"go-backoffice/internal/common/models"
	"go-backoffice/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type StaffController struct {
	Service StaffService
}

func NewStaffController(service StaffService) *StaffController {
	return &StaffController{Service: service}
}

// ListStaff godoc
// @Summary      List staff
// @Tags         staff
// @Param        role query string false "Filter by role"
// @Router       /api/staff [get]
func (ctrl *StaffController) ListStaff(c *fiber.Ctx) error {
	members, err := ctrl.Service.ListStaff(c.UserContext(), models.Role(c.Query("role")))
	if err != nil {
		return common_api.Fail(c, err)
	}
	return c.JSON(fiber.Map{"data": members, "total": len(members)})
}

// GetStaff godoc
// @Summary      Get staff member by ID
// @Tags         staff
// @Router       /api/staff/{id} [get]
func (ctrl *StaffController) GetStaff(c *fiber.Ctx) error {
	member, err := ctrl.Service.GetStaff(c.UserContext(), c.Params("id"))
	if err != nil {
		return common_api.Fail(c, err)
	}
	return c.JSON(member)
}

// CreateStaff godoc
// @Summary      Create staff member
// @Tags         staff
// @Router       /api/staff [post]
func (ctrl *StaffController) CreateStaff(c *fiber.Ctx) error {
	var req CreateStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	actor, _ := middleware.ActorFrom(c)

	member, err := ctrl.Service.CreateStaff(c.UserContext(), req, actor)
	if err != nil {
		return common_api.Fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(member)
}

// RenameStaff godoc
// @Summary      Rename staff member and rewrite cached owner names
// @Tags         staff
// @Router       /api/staff/{id}/name [put]
func (ctrl *StaffController) RenameStaff(c *fiber.Ctx) error {
	var req RenameStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	actor, _ := middleware.ActorFrom(c)

	if err := ctrl.Service.RenameStaff(c.UserContext(), c.Params("id"), req.Name, actor); err != nil {
		return common_api.Fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "success"})
}
