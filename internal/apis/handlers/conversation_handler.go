package handlers

import (
	"agenthub/internal/apis/dtos"
	"agenthub/internal/apis/middlewares"
	"agenthub/internal/services"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ConversationHandler struct {
	conversationService services.ConversationService
}

func NewConversationHandler(conversationService services.ConversationService) *ConversationHandler {
	if conversationService == nil {
		log.Fatal("Conversation service cannot be nil")
	}
	return &ConversationHandler{conversationService: conversationService}
}

// @Summary List Conversations
// @Description List the caller's conversations with an agent, newest first, ten per page
// @Produce json
// @Param id path string true "Agent ID"
// @Param search query string false "Title search"
// @Param page query int false "Page, starting at 1"
// @Success 200 {object} dtos.Response
func (h *ConversationHandler) List(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	response, statusCode, err := h.conversationService.List(c.Request.Context(), middlewares.Identity(c), c.Param("id"), c.Query("search"), page)
	if err != nil {
		writeError(c, statusCode, err)
		return
	}
	writeSuccess(c, statusCode, response)
}

// @Summary Get Conversation
// @Produce json
// @Param id path string true "Agent ID"
// @Param conversationId path string true "Conversation ID"
// @Success 200 {object} dtos.Response
func (h *ConversationHandler) Get(c *gin.Context) {
	response, statusCode, err := h.conversationService.Get(c.Request.Context(), middlewares.Identity(c), c.Param("id"), c.Param("conversationId"))
	if err != nil {
		writeError(c, statusCode, err)
		return
	}
	writeSuccess(c, statusCode, response)
}

// @Summary Rename Conversation
// @Accept json
// @Produce json
// @Param conversationId path string true "Conversation ID"
// @Param renameRequest body dtos.RenameConversationRequest true "New title"
// @Success 200 {object} dtos.Response
func (h *ConversationHandler) Rename(c *gin.Context) {
	var req dtos.RenameConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}

	statusCode, err := h.conversationService.Rename(c.Request.Context(), middlewares.Identity(c), c.Param("conversationId"), req.Title)
	if err != nil {
		writeError(c, statusCode, err)
		return
	}
	c.JSON(int(statusCode), dtos.Response{Success: true})
}

// @Summary Delete Conversation
// @Produce json
// @Param conversationId path string true "Conversation ID"
// @Success 200 {object} dtos.Response
func (h *ConversationHandler) Delete(c *gin.Context) {
	statusCode, err := h.conversationService.Delete(c.Request.Context(), middlewares.Identity(c), c.Param("conversationId"))
	if err != nil {
		writeError(c, statusCode, err)
		return
	}
	c.JSON(int(statusCode), dtos.Response{Success: true})
}
