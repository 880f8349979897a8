package note

import (
	"strconv"

	common_api "go-backoffice/internal/common/api"

	"github.com/gofiber/fiber/v2"
)

type NoteController struct {
	Service NoteService
}

func NewNoteController(service NoteService) *NoteController {
	return &NoteController{Service: service}
}

// ListNotes godoc
// @Summary      Lead history, newest first
// @Tags         notes
// @Router       /api/leads/{id}/notes [get]
func (ctrl *NoteController) ListNotes(c *fiber.Ctx) error {
	limit, _ := strconv.ParseInt(c.Query("limit", "100"), 10, 64)

	entries, err := ctrl.Service.ListForLead(c.UserContext(), c.Params("id"), limit)
	if err != nil {
		return common_api.Fail(c, err)
	}
	return c.JSON(fiber.Map{"data": entries, "total": len(entries)})
}
