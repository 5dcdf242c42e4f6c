package routes

import (
	"agenthub/internal/di"
	"log"

	"github.com/gin-gonic/gin"
)

func SetupAuthRoutes(router *gin.Engine) {
	authHandler, err := di.GetAuthHandler()
	if err != nil {
		log.Fatalf("Failed to get auth handler: %v", err)
	}
	authMiddleware, err := di.GetAuthMiddleware()
	if err != nil {
		log.Fatalf("Failed to get auth middleware: %v", err)
	}

	// Auth routes
	auth := router.Group("/api/auth")
	{
		auth.POST("/signup", authHandler.Signup)
		auth.POST("/login", authHandler.Login)
		// the refresh token is the bearer here, not an access token
		auth.GET("/refresh-token", authHandler.RefreshToken)
	}

	protected := router.Group("/api/auth")
	protected.Use(authMiddleware.Required())
	{
		protected.GET("/", authHandler.GetUser)
		protected.POST("/logout", authHandler.Logout)
	}
}
