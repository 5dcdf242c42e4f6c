package handlers

import (
	"agenthub/internal/apis/dtos"
	"agenthub/internal/services"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// AdminAgentHandler manages the agent catalog
type AdminAgentHandler struct {
	agentService services.AgentService
}

func NewAdminAgentHandler(agentService services.AgentService) *AdminAgentHandler {
	if agentService == nil {
		log.Fatal("Agent service cannot be nil")
	}
	return &AdminAgentHandler{agentService: agentService}
}

// @Summary List All Agents
// @Produce json
// @Success 200 {object} dtos.Response
func (h *AdminAgentHandler) List(c *gin.Context) {
	agents, statusCode, err := h.agentService.ListAll(c.Request.Context())
	if err != nil {
		writeError(c, statusCode, err)
		return
	}
	writeSuccess(c, statusCode, agents)
}

// @Summary Create Agent
// @Accept json
// @Produce json
// @Param createAgentRequest body dtos.CreateAgentRequest true "Agent"
// @Success 201 {object} dtos.Response
func (h *AdminAgentHandler) Create(c *gin.Context) {
	var req dtos.CreateAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}

	agent, statusCode, err := h.agentService.Create(c.Request.Context(), &req)
	if err != nil {
		writeError(c, statusCode, err)
		return
	}
	writeSuccess(c, statusCode, agent)
}

// @Summary Update Agent
// @Accept json
// @Produce json
// @Param id path string true "Agent ID"
// @Param updateAgentRequest body dtos.UpdateAgentRequest true "Agent"
// @Success 200 {object} dtos.Response
func (h *AdminAgentHandler) Update(c *gin.Context) {
	var req dtos.UpdateAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}

	agent, statusCode, err := h.agentService.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		writeError(c, statusCode, err)
		return
	}
	writeSuccess(c, statusCode, agent)
}

// @Summary Delete Agent
// @Produce json
// @Param id path string true "Agent ID"
// @Success 200 {object} dtos.Response
func (h *AdminAgentHandler) Delete(c *gin.Context) {
	statusCode, err := h.agentService.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, statusCode, err)
		return
	}
	writeSuccess(c, statusCode, "Agent deleted")
}
