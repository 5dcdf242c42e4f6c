package routes

import (
	"agenthub/internal/di"
	"log"

	"github.com/gin-gonic/gin"
)

func SetupAgentRoutes(router *gin.Engine) {
	agentHandler, err := di.GetAgentHandler()
	if err != nil {
		log.Fatalf("Failed to get agent handler: %v", err)
	}
	conversationHandler, err := di.GetConversationHandler()
	if err != nil {
		log.Fatalf("Failed to get conversation handler: %v", err)
	}
	authMiddleware, err := di.GetAuthMiddleware()
	if err != nil {
		log.Fatalf("Failed to get auth middleware: %v", err)
	}

	public := router.Group("/api/agents")
	public.Use(authMiddleware.Optional())
	{
		public.GET("", agentHandler.List)
		public.GET("/by-path/*path", agentHandler.GetByPath)
		public.POST("/:id/session", agentHandler.ResolveSession)
	}

	protected := router.Group("/api/agents")
	protected.Use(authMiddleware.Required())
	{
		protected.GET("/:id/conversations", conversationHandler.List)
		protected.GET("/:id/conversations/:conversationId", conversationHandler.Get)
	}

	conversations := router.Group("/api/conversations")
	conversations.Use(authMiddleware.Required())
	{
		conversations.PATCH("/:conversationId", conversationHandler.Rename)
		conversations.DELETE("/:conversationId", conversationHandler.Delete)
	}
}
