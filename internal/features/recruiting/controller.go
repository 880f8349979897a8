package recruiting

import (
	"strconv"
	"time"

	common_api "go-backoffice/internal/common/api"
	"go-backoffice/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type RecruitingController struct {
	Service RecruitingService
	nowFn   func() time.Time
}

func NewRecruitingController(service RecruitingService) *RecruitingController {
	return &RecruitingController{Service: service, nowFn: time.Now}
}

// CreateCandidate godoc
// @Summary      Register a new applicant
// @Tags         recruiting
// @Router       /api/candidates [post]
func (ctrl *RecruitingController) CreateCandidate(c *fiber.Ctx) error {
	var req CreateCandidateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	actor, _ := middleware.ActorFrom(c)

	candidate, err := ctrl.Service.CreateCandidate(c.UserContext(), req, actor)
	if err != nil {
		return common_api.Fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(candidate)
}

// ListCandidates godoc
// @Summary      List candidates, optionally by status
// @Tags         recruiting
// @Router       /api/candidates [get]
func (ctrl *RecruitingController) ListCandidates(c *fiber.Ctx) error {
	page, _ := strconv.ParseInt(c.Query("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.Query("limit", "20"), 10, 64)

	candidates, err := ctrl.Service.ListCandidates(c.UserContext(), Status(c.Query("status")), page, limit)
	if err != nil {
		return common_api.Fail(c, err)
	}
	return c.JSON(fiber.Map{"data": candidates, "page": page, "limit": limit})
}

// ListStale godoc
// @Summary      Candidates waiting too long in Approved or Onboarding
// @Tags         recruiting
// @Router       /api/candidates/stale [get]
func (ctrl *RecruitingController) ListStale(c *fiber.Ctx) error {
	candidates, err := ctrl.Service.ListStale(c.UserContext(), ctrl.nowFn().UTC())
	if err != nil {
		return common_api.Fail(c, err)
	}
	return c.JSON(fiber.Map{"data": candidates})
}

// GetCandidate godoc
// @Summary      Candidate with its allowed next statuses
// @Tags         recruiting
// @Router       /api/candidates/{id} [get]
func (ctrl *RecruitingController) GetCandidate(c *fiber.Ctx) error {
	candidate, err := ctrl.Service.GetCandidate(c.UserContext(), c.Params("id"))
	if err != nil {
		return common_api.Fail(c, err)
	}
	return c.JSON(fiber.Map{
		"data":     candidate,
		"next":     Targets(candidate.PipelineStatus),
		"is_stale": IsStale(*candidate, ctrl.nowFn().UTC()),
	})
}

// Transition godoc
// @Summary      Move a candidate through the pipeline
// @Tags         recruiting
// @Router       /api/candidates/{id}/transition [post]
func (ctrl *RecruitingController) Transition(c *fiber.Ctx) error {
	var req TransitionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	actor, _ := middleware.ActorFrom(c)

	res, err := ctrl.Service.Transition(c.UserContext(), c.Params("id"), req.Status, actor)
	if err != nil {
		return common_api.Fail(c, err)
	}

	body := fiber.Map{"data": res.Candidate, "from": res.From, "to": res.To}
	if w := common_api.Warnings(res.Warnings); w != nil {
		body["warnings"] = w
	}
	return c.JSON(body)
}
