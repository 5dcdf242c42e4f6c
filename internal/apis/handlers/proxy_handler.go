package handlers

import (
	"agenthub/internal/apis/middlewares"
	"agenthub/internal/constants"
	"agenthub/internal/services"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type ProxyHandler struct {
	proxyService services.ProxyService
}

func NewProxyHandler(proxyService services.ProxyService) *ProxyHandler {
	if proxyService == nil {
		log.Fatal("Proxy service cannot be nil")
	}
	return &ProxyHandler{proxyService: proxyService}
}

// @Summary Webhook Proxy
// @Description Forward a chat message to an agent webhook and stream its reply back
// @Accept multipart/form-data
// @Produce application/x-ndjson
// @Param webhookUrl formData string true "Agent webhook"
// @Param message formData string false "Message text"
// @Param agentId formData string true "Agent ID"
// @Param sessionId formData string false "Session id"
// @Param userEmail formData string false "Sender email"
// @Param videoAnalysis formData string false "\"true\" to request video analysis"
// @Param audio formData file false "Voice message"
// @Success 200 {string} string "agent stream"
func (h *ProxyHandler) Relay(c *gin.Context) {
	err := c.Request.ParseMultipartForm(constants.WebhookMultipartMemory)
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		writeBareError(c, &services.HTTPError{Status: http.StatusInternalServerError, Message: "internal server error", Details: err.Error()})
		return
	}
	if c.Request.MultipartForm != nil {
		defer c.Request.MultipartForm.RemoveAll()
	}

	req := services.ParseProxyForm(c.Request.MultipartForm)
	if err := h.proxyService.Relay(c.Request.Context(), middlewares.Identity(c), req, c.Writer); err != nil {
		if c.Writer.Written() {
			log.Printf("Proxy failed after streaming started: %v", err)
			return
		}
		writeBareError(c, err)
	}
}
