package handlers

import (
	"agenthub/internal/apis/dtos"
	"agenthub/internal/apis/middlewares"
	"agenthub/internal/constants"
	"agenthub/internal/services"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AgentHandler struct {
	agentService   services.AgentService
	sessionService services.SessionService
}

func NewAgentHandler(agentService services.AgentService, sessionService services.SessionService) *AgentHandler {
	if agentService == nil || sessionService == nil {
		log.Fatal("Agent and session services cannot be nil")
	}
	return &AgentHandler{
		agentService:   agentService,
		sessionService: sessionService,
	}
}

// @Summary List Agents
// @Description List the agents the caller may use
// @Produce json
// @Success 200 {object} dtos.Response
func (h *AgentHandler) List(c *gin.Context) {
	agents, statusCode, err := h.agentService.ListVisible(c.Request.Context(), middlewares.Identity(c))
	if err != nil {
		writeError(c, statusCode, err)
		return
	}
	writeSuccess(c, statusCode, agents)
}

// @Summary Get Agent By Path
// @Description Resolve an agent from its route path; 403 when the caller may not use it
// @Produce json
// @Param path path string true "Agent path"
// @Success 200 {object} dtos.Response
func (h *AgentHandler) GetByPath(c *gin.Context) {
	agent, statusCode, err := h.agentService.GetByPath(c.Request.Context(), middlewares.Identity(c), c.Param("path"))
	if err != nil {
		writeError(c, statusCode, err)
		return
	}
	writeSuccess(c, statusCode, agent)
}

// @Summary Resolve Session
// @Description Return the session id to send with the next message to an agent
// @Accept json
// @Produce json
// @Param id path string true "Agent ID"
// @Param X-Client-ID header string false "Anonymous client id"
// @Param sessionRequest body dtos.SessionRequest false "Existing conversation"
// @Success 200 {object} dtos.Response
func (h *AgentHandler) ResolveSession(c *gin.Context) {
	var req dtos.SessionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, http.StatusBadRequest, err)
			return
		}
	}

	session, statusCode, err := h.sessionService.Resolve(
		c.Request.Context(),
		middlewares.Identity(c),
		c.Param("id"),
		req.ConversationID,
		c.GetHeader(constants.ClientIDHeader),
	)
	if err != nil {
		writeError(c, statusCode, err)
		return
	}
	writeSuccess(c, statusCode, session)
}
