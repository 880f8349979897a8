package api

import (
	"go-backoffice/internal/common/errs"

	"github.com/gofiber/fiber/v2"
)

// StatusFor maps an error kind onto an HTTP status.
func StatusFor(err error) int {
	switch errs.KindOf(err) {
	case errs.KindValidation:
		return fiber.StatusBadRequest
	case errs.KindNotFound:
		return fiber.StatusNotFound
	case errs.KindIllegalTransition:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// Fail writes err as a JSON error body with the status derived from its kind.
func Fail(c *fiber.Ctx, err error) error {
	body := fiber.Map{"error": err.Error()}
	if kind := errs.KindOf(err); kind != "" {
		body["kind"] = kind
	}
	return c.Status(StatusFor(err)).JSON(body)
}

// Warnings renders side-effect failures that did not undo the primary write.
func Warnings(warnings []error) []string {
	if len(warnings) == 0 {
		return nil
	}
	out := make([]string, len(warnings))
	for i, w := range warnings {
		out[i] = w.Error()
	}
	return out
}
