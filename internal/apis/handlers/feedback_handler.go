package handlers

import (
	"agenthub/internal/apis/dtos"
	"agenthub/internal/apis/middlewares"
	"agenthub/internal/services"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type FeedbackHandler struct {
	feedbackService services.FeedbackService
}

func NewFeedbackHandler(feedbackService services.FeedbackService) *FeedbackHandler {
	if feedbackService == nil {
		log.Fatal("Feedback service cannot be nil")
	}
	return &FeedbackHandler{feedbackService: feedbackService}
}

// @Summary Submit Feedback
// @Description Rate an agent message as good or bad
// @Accept json
// @Produce json
// @Param feedbackRequest body dtos.FeedbackRequest true "Feedback"
// @Success 201 {object} dtos.Response
func (h *FeedbackHandler) Submit(c *gin.Context) {
	var req dtos.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}

	feedback, statusCode, err := h.feedbackService.Submit(c.Request.Context(), middlewares.Identity(c), &req)
	if err != nil {
		writeError(c, statusCode, err)
		return
	}
	writeSuccess(c, statusCode, feedback)
}
