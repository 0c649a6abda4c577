// FILE: internal/handler/chat_handler.go
package handler

import (
	ws "krackenx-chat-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// ChatHandler upgrades HTTP requests to websocket connections and hands them
// to the gateway. Connections start anonymous; identity arrives over the
// socket via the authenticate event.
type ChatHandler struct {
	gateway *ws.Gateway
}

func NewChatHandler(gateway *ws.Gateway) *ChatHandler {
	return &ChatHandler{gateway: gateway}
}

func (h *ChatHandler) RegisterRoutes(r fiber.Router) {
	r.Use("/ws", func(ctx *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(ctx) {
			return ctx.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	r.Get("/ws", websocket.New(func(conn *websocket.Conn) {
		ws.ServeWs(h.gateway, conn)
	}))
}
