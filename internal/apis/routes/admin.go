package routes

import (
	"agenthub/internal/access"
	"agenthub/internal/di"
	"log"

	"github.com/gin-gonic/gin"
)

func SetupAdminRoutes(router *gin.Engine) {
	adminAgentHandler, err := di.GetAdminAgentHandler()
	if err != nil {
		log.Fatalf("Failed to get admin agent handler: %v", err)
	}
	authMiddleware, err := di.GetAuthMiddleware()
	if err != nil {
		log.Fatalf("Failed to get auth middleware: %v", err)
	}

	admin := router.Group("/api/admin")
	admin.Use(authMiddleware.Required(), authMiddleware.RequireRole(access.RoleAdmin))
	{
		admin.GET("/agents", adminAgentHandler.List)
		admin.POST("/agents", adminAgentHandler.Create)
		admin.PUT("/agents/:id", adminAgentHandler.Update)
		admin.DELETE("/agents/:id", adminAgentHandler.Delete)
	}
}
