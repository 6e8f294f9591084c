package routes

import (
	"messenger_backend/internal/handlers"
	"messenger_backend/internal/middleware"
	"messenger_backend/ws"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires the REST surface under /api/v1 and the websocket
// endpoint.
func RegisterRoutes(
	engine *gin.Engine,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	chatHandler *handlers.ChatHandler,
	messageHandler *handlers.MessageHandler,
	wsHandler *ws.Handler,
) {
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := engine.Group("/api/v1")

	authHandler.RegisterRoutes(api.Group("/auth"))

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())

	userHandler.RegisterRoutes(protected.Group("/users"))

	chats := protected.Group("/chats")
	chatHandler.RegisterRoutes(chats)
	messageHandler.RegisterRoutes(chats)

	// The websocket does its own token check inside the handshake so it can
	// answer with typed error events instead of a plain HTTP status.
	engine.GET("/ws", wsHandler.ServeWS)
}
