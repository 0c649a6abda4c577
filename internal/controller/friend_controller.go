// FILE: internal/controller/friend_controller.go
package controller

import (
	"krackenx-chat-be/internal/dto"
	"krackenx-chat-be/internal/pkg/serverutils"
	"krackenx-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IFriendController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	PendingRequests(ctx *fiber.Ctx) error
	SendRequest(ctx *fiber.Ctx) error
	Respond(ctx *fiber.Ctx) error
}

type friendController struct {
	service service.IFriendService
}

func NewFriendController(service service.IFriendService) IFriendController {
	return &friendController{service: service}
}

func (c *friendController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/friends", serverutils.JwtMiddleware)
	h.Get("/", c.List)
	h.Get("/requests", c.PendingRequests)
	h.Post("/requests", c.SendRequest)
	h.Post("/requests/respond", c.Respond)
}

func (c *friendController) List(ctx *fiber.Ctx) error {
	userId, ok := serverutils.CurrentUserId(ctx)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "not authenticated")
	}

	friends, err := c.service.ListFriends(ctx.Context(), userId)
	if err != nil {
		return err
	}

	res := make([]dto.FriendResponse, 0, len(friends))
	for _, f := range friends {
		res = append(res, dto.FriendResponse{
			Id:       f.UserId,
			Username: f.Username,
			Status:   string(f.Status),
		})
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"data":    res,
	})
}

func (c *friendController) PendingRequests(ctx *fiber.Ctx) error {
	userId, ok := serverutils.CurrentUserId(ctx)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "not authenticated")
	}

	pending, err := c.service.PendingRequests(ctx.Context(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"data":    pending,
	})
}

func (c *friendController) SendRequest(ctx *fiber.Ctx) error {
	userId, ok := serverutils.CurrentUserId(ctx)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "not authenticated")
	}

	var req dto.SendFriendRequestRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	// The acting user comes from the token, never the body.
	req.FromUserId = userId
	if err := serverutils.ValidateStruct(&req); err != nil {
		return err
	}

	res, err := c.service.SendRequest(ctx.Context(), userId, req.ToUsername)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"code":    400,
			"message": err.Error(),
		})
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"data":    res,
	})
}

func (c *friendController) Respond(ctx *fiber.Ctx) error {
	userId, ok := serverutils.CurrentUserId(ctx)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "not authenticated")
	}

	var req dto.RespondFriendRequestRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.UserId = userId
	if err := serverutils.ValidateStruct(&req); err != nil {
		return err
	}

	if err := c.service.Respond(ctx.Context(), &req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"code":    400,
			"message": err.Error(),
		})
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Request updated",
	})
}
