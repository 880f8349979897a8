package notification

import (
	"strconv"

	common_api "go-backoffice/internal/common/api"
	"go-backoffice/internal/common/models"
	"go-backoffice/internal/middleware"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type NotificationController struct {
	service NotificationService
	hub     *Hub
}

func NewNotificationController(service NotificationService, hub *Hub) *NotificationController {
	return &NotificationController{
		service: service,
		hub:     hub,
	}
}

// List godoc
func (c *NotificationController) List(ctx *fiber.Ctx) error {
	actor, _ := middleware.ActorFrom(ctx)

	page, _ := strconv.ParseInt(ctx.Query("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(ctx.Query("limit", "10"), 10, 64)

	notifications, total, err := c.service.GetUserNotifications(ctx.UserContext(), actor.ID, page, limit)
	if err != nil {
		return common_api.Fail(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"data":  notifications,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// GetUnreadCount godoc
func (c *NotificationController) GetUnreadCount(ctx *fiber.Ctx) error {
	actor, _ := middleware.ActorFrom(ctx)

	count, err := c.service.GetUnreadCount(ctx.UserContext(), actor.ID)
	if err != nil {
		return common_api.Fail(ctx, err)
	}
	return ctx.JSON(fiber.Map{"count": count})
}

// MarkAsRead godoc
func (c *NotificationController) MarkAsRead(ctx *fiber.Ctx) error {
	actor, _ := middleware.ActorFrom(ctx)

	if err := c.service.MarkAsRead(ctx.UserContext(), ctx.Params("id"), actor.ID); err != nil {
		return common_api.Fail(ctx, err)
	}
	return ctx.JSON(fiber.Map{"status": "success"})
}

// MarkAllAsRead godoc
func (c *NotificationController) MarkAllAsRead(ctx *fiber.Ctx) error {
	actor, _ := middleware.ActorFrom(ctx)

	if err := c.service.MarkAllAsRead(ctx.UserContext(), actor.ID); err != nil {
		return common_api.Fail(ctx, err)
	}
	return ctx.JSON(fiber.Map{"status": "success"})
}

// RequireUpgrade lets only websocket handshakes through.
func (c *NotificationController) RequireUpgrade(ctx *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(ctx) {
		return ctx.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Stream keeps the connection registered until the client goes away.
func (c *NotificationController) Stream(conn *websocket.Conn) {
	actor, ok := conn.Locals(models.ActorKey).(models.Actor)
	if !ok {
		_ = conn.Close()
		return
	}

	c.hub.Register(actor.ID, conn)
	defer c.hub.Unregister(actor.ID, conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
