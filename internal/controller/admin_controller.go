// FILE: internal/controller/admin_controller.go
package controller

import (
	"crypto/subtle"
	"os"

	"krackenx-chat-be/internal/dto"
	"krackenx-chat-be/internal/pkg/serverutils"
	"krackenx-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	ListUsers(ctx *fiber.Ctx) error
	DeleteUsers(ctx *fiber.Ctx) error
	DeleteMessages(ctx *fiber.Ctx) error
	GetLogs(ctx *fiber.Ctx) error
	SendSupportMessage(ctx *fiber.Ctx) error
}

type adminController struct {
	service service.IAdminService
}

func NewAdminController(service service.IAdminService) IAdminController {
	return &adminController{service: service}
}

// adminPasswordMiddleware gates every admin route on the X-Admin-Password
// header. An unset ADMIN_PASSWORD disables the whole surface.
func adminPasswordMiddleware(ctx *fiber.Ctx) error {
	expected := os.Getenv("ADMIN_PASSWORD")
	if expected == "" {
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"success": false,
			"code":    503,
			"message": "admin interface is not configured",
		})
	}

	provided := ctx.Get("X-Admin-Password")
	if subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) != 1 {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"code":    401,
			"message": "invalid admin password",
		})
	}
	return ctx.Next()
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin", adminPasswordMiddleware)
	h.Get("/users", c.ListUsers)
	h.Delete("/users", c.DeleteUsers)
	h.Delete("/messages", c.DeleteMessages)
	h.Get("/logs", c.GetLogs)
	h.Post("/support-message", c.SendSupportMessage)
}

func (c *adminController) ListUsers(ctx *fiber.Ctx) error {
	users, err := c.service.ListUsers(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"data":    users,
	})
}

func (c *adminController) DeleteUsers(ctx *fiber.Ctx) error {
	var req struct {
		UserIds []uint `json:"userIds"`
	}
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := c.service.DeleteUsers(ctx.Context(), req.UserIds); err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Users deleted",
	})
}

func (c *adminController) DeleteMessages(ctx *fiber.Ctx) error {
	var req dto.DeleteMessagesRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := c.service.DeleteMessages(ctx.Context(), req.RoomId); err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Messages deleted",
	})
}

func (c *adminController) GetLogs(ctx *fiber.Ctx) error {
	var query dto.LogsQuery
	if err := ctx.QueryParser(&query); err != nil {
		return err
	}

	logs, err := c.service.GetLogs(ctx.Context(), &query)
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"data":    logs,
	})
}

func (c *adminController) SendSupportMessage(ctx *fiber.Ctx) error {
	var req dto.SupportMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateStruct(&req); err != nil {
		return err
	}

	if err := c.service.SendSupportMessage(ctx.Context(), req.Message); err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Support message broadcast",
	})
}
