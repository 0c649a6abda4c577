// FILE: internal/controller/oauth_controller.go
package controller

import (
	"fmt"
	"os"

	"krackenx-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IOAuthController interface {
	RegisterRoutes(r fiber.Router)
	GithubLogin(ctx *fiber.Ctx) error
	GithubCallback(ctx *fiber.Ctx) error
}

type oauthController struct {
	service service.IOAuthService
}

func NewOAuthController(service service.IOAuthService) IOAuthController {
	return &oauthController{service: service}
}

func (c *oauthController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth/github")
	h.Get("/login", c.GithubLogin)
	h.Get("/callback", c.GithubCallback)
}

func (c *oauthController) GithubLogin(ctx *fiber.Ctx) error {
	url, err := c.service.GetLoginURL()
	if err != nil {
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"success": false,
			"code":    503,
			"message": err.Error(),
		})
	}
	return ctx.Redirect(url, fiber.StatusTemporaryRedirect)
}

func (c *oauthController) GithubCallback(ctx *fiber.Ctx) error {
	code := ctx.Query("code")
	if code == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing authorization code")
	}

	res, err := c.service.HandleCallback(ctx.Context(), code)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"code":    401,
			"message": err.Error(),
		})
	}

	// The SPA picks the token off the redirect fragment.
	clientURL := os.Getenv("CLIENT_URL")
	if clientURL == "" {
		return ctx.JSON(fiber.Map{
			"success": true,
			"code":    200,
			"data":    res,
		})
	}
	return ctx.Redirect(fmt.Sprintf("%s/oauth#token=%s", clientURL, res.Token), fiber.StatusTemporaryRedirect)
}
