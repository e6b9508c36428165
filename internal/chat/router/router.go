package router

import (
	"messaging_service/internal/chat/handlers"
	"messaging_service/pkg/metrics"
	"messaging_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/gofiber/websocket/v2"
	"github.com/prometheus/client_golang/prometheus"
)

// RegisterRoutes 注册 chat service 的路由
func RegisterRoutes(r *fiber.App, chat *handlers.ChatHandler, ws *handlers.WebsocketHandler, gatherer prometheus.Gatherer) {
	r.Get("/swagger/*", swagger.HandlerDefault)
	r.Get("/", handlers.ConnectCheck)
	r.Post("/debug", handlers.DebugLogFlag)
	r.Get("/metrics", metrics.Handler(gatherer))

	auth := r.Group("/", middlewares.JWTMiddleware())

	auth.Post("/messages", chat.CreateMessage)
	auth.Get("/unread-messages", chat.UnreadMessages)
	auth.Get("/users/:id/all-messages", chat.AllMessages)

	auth.Post("/read-positions", chat.UpdateReadPosition)
	auth.Get("/read-positions", chat.ListReadPositions)

	auth.Post("/groups", chat.CreateGroup)
	auth.Post("/groups/:id/chats", chat.CreateChat)
	auth.Get("/groups/:id/members", chat.ListMembers)
	auth.Post("/groups/:id/members", chat.AddMember)
	auth.Post("/direct-messages", chat.CreateDirectMessage)

	auth.Get("/events", chat.Events)

	auth.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	auth.Get("/ws", websocket.New(ws.HandleConnection))
}
