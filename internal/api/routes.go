package api

import (
	"github.com/gin-gonic/gin"

	"github.com/quantdesk/tradechat-go/internal/api/handlers"
	"github.com/quantdesk/tradechat-go/internal/database"
)

// SetupRoutes mounts the chat endpoint at the root for the widget and under
// /api/v1 for everything else.
func SetupRoutes(router *gin.Engine, chat handlers.ChatAsker, db *database.PostgresDB, redis *database.RedisClient) {
	chatHandler := handlers.NewChatHandler(chat)
	healthHandler := handlers.NewHealthHandler(db, redis)

	router.GET("/health", healthHandler.Health)
	router.POST("/chat", chatHandler.Chat)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/chat", chatHandler.Chat)
		v1.GET("/health", healthHandler.Health)
	}
}
