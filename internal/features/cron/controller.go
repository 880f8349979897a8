package cron_feature

import (
	"context"
	"time"

	common_api "go-backoffice/internal/common/api"

	"github.com/gofiber/fiber/v2"
)

type CronController struct {
	Service CronService
}

func NewCronController(service CronService) *CronController {
	return &CronController{Service: service}
}

// ListCronJobs godoc
// @Summary List scheduled jobs
// @Tags cron
// @Produce json
// @Router /api/cron-jobs [get]
func (c *CronController) ListCronJobs(ctx *fiber.Ctx) error {
	return ctx.JSON(c.Service.ListJobs())
}

// ExecuteCronJob godoc
// @Summary Execute cron job
// @Description Manually trigger a job execution
// @Tags cron
// @Produce json
// @Param name path string true "Job name"
// @Router /api/cron-jobs/{name}/execute [post]
func (c *CronController) ExecuteCronJob(ctx *fiber.Ctx) error {
	name := ctx.Params("name")

	ctxt, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := c.Service.ExecuteJob(ctxt, name); err != nil {
		return common_api.Fail(ctx, err)
	}

	return ctx.JSON(fiber.Map{"message": "Cron job executed successfully"})
}

// GetCronJobLogs godoc
// @Summary Get cron job logs
// @Tags cron
// @Produce json
// @Param name path string true "Job name"
// @Param limit query int false "Max logs to return"
// @Router /api/cron-jobs/{name}/logs [get]
func (c *CronController) GetCronJobLogs(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", 50)

	ctxt, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logs, err := c.Service.GetJobLogs(ctxt, ctx.Params("name"), limit)
	if err != nil {
		return common_api.Fail(ctx, err)
	}

	return ctx.JSON(logs)
}
