package routes

import (
	"agenthub/internal/di"
	"log"

	"github.com/gin-gonic/gin"
)

// SetupChatRoutes registers the endpoints the chat window talks to while a
// conversation is open.
func SetupChatRoutes(router *gin.Engine) {
	proxyHandler, err := di.GetProxyHandler()
	if err != nil {
		log.Fatalf("Failed to get proxy handler: %v", err)
	}
	feedbackHandler, err := di.GetFeedbackHandler()
	if err != nil {
		log.Fatalf("Failed to get feedback handler: %v", err)
	}
	linkPreviewHandler, err := di.GetLinkPreviewHandler()
	if err != nil {
		log.Fatalf("Failed to get link preview handler: %v", err)
	}
	authMiddleware, err := di.GetAuthMiddleware()
	if err != nil {
		log.Fatalf("Failed to get auth middleware: %v", err)
	}

	router.POST("/api/webhook", authMiddleware.Optional(), proxyHandler.Relay)
	router.GET("/api/link-preview", linkPreviewHandler.Preview)
	router.POST("/api/feedback", authMiddleware.Required(), feedbackHandler.Submit)
}
