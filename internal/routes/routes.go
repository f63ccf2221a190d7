package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/pulsechat/pulse-backend/internal/handler"
	"github.com/pulsechat/pulse-backend/internal/middleware"
	"github.com/pulsechat/pulse-backend/pkg/jwt"
)

// Setup configures all API routes
func Setup(
	router *gin.Engine,
	authHandler *handler.AuthHandler,
	messageHandler *handler.MessageHandler,
	directoryHandler *handler.DirectoryHandler,
	jwtManager *jwt.Manager,
) {
	api := router.Group("/api/v1")

	// Authentication endpoints (no auth required)
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.RefreshToken)
	auth.GET("/me", middleware.JWTAuth(jwtManager), authHandler.GetCurrentUser)

	// Direct messages
	messages := api.Group("/messages", middleware.JWTAuth(jwtManager))
	messages.GET("", messageHandler.List) // ?userId=N -> thread, else chat digests
	messages.POST("", messageHandler.Send)
	messages.DELETE("/:id", messageHandler.Delete)

	// Contacts-scoped user directory
	users := api.Group("/users", middleware.JWTAuth(jwtManager))
	users.GET("", directoryHandler.List)
	users.POST("/sync-contacts", directoryHandler.SyncContacts)
	users.POST("/ping", directoryHandler.PingOnline)
}
