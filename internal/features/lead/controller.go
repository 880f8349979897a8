package lead

import (
	"strconv"

	common_api "go-backoffice/internal/common/api"
	"go-backoffice/internal/common/models"
	"go-backoffice/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type LeadController struct {
	Service LeadService
}

func NewLeadController(service LeadService) *LeadController {
	return &LeadController{Service: service}
}

// ListLeads godoc
// @Summary      List leads
// @Tags         leads
// @Param        page query int false "Page number" default(1)
// @Param        limit query int false "Items per page" default(20)
// @Param        stage query string false "Filter by stage"
// @Router       /api/leads [get]
func (ctrl *LeadController) ListLeads(c *fiber.Ctx) error {
	page, _ := strconv.ParseInt(c.Query("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.Query("limit", "20"), 10, 64)
	actor, _ := middleware.ActorFrom(c)

	filter := Filter{
		OwnerID:      c.Query("owner_id"),
		DealershipID: c.Query("dealership_id"),
		Stage:        models.Stage(c.Query("stage")),
	}

	leads, total, err := ctrl.Service.ListLeads(c.UserContext(), filter, page, limit, actor)
	if err != nil {
		return common_api.Fail(c, err)
	}
	return c.JSON(fiber.Map{
		"data":  leads,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// GetLead godoc
// @Summary      Get lead by ID
// @Tags         leads
// @Router       /api/leads/{id} [get]
func (ctrl *LeadController) GetLead(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFrom(c)
	l, err := ctrl.Service.GetLead(c.UserContext(), c.Params("id"), actor)
	if err != nil {
		return common_api.Fail(c, err)
	}
	return c.JSON(l)
}

// CreateLead godoc
// @Summary      Create lead
// @Tags         leads
// @Router       /api/leads [post]
func (ctrl *LeadController) CreateLead(c *fiber.Ctx) error {
	var req CreateLeadRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	actor, _ := middleware.ActorFrom(c)

	l, err := ctrl.Service.CreateLead(c.UserContext(), req, actor)
	if err != nil {
		return common_api.Fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(l)
}

// AddNote godoc
// @Summary      Append a manual note to the lead history
// @Tags         leads
// @Router       /api/leads/{id}/notes [post]
func (ctrl *LeadController) AddNote(c *fiber.Ctx) error {
	var req ManualNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	actor, _ := middleware.ActorFrom(c)

	if err := ctrl.Service.AddManualNote(c.UserContext(), c.Params("id"), req.Content, actor); err != nil {
		return common_api.Fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success"})
}
