package dtos

import (
	"agenthub/internal/access"
	"time"
)

type CreateAgentRequest struct {
	Name        string       `json:"name" binding:"required"`
	Description string       `json:"description"`
	WebhookURL  string       `json:"webhookurl" binding:"required,url"`
	Path        string       `json:"path" binding:"omitempty,startswith=/"`
	Color       string       `json:"color"`
	Icon        string       `json:"icon"`
	AccessLevel access.Level `json:"access_level" binding:"required,oneof=public non_client partner admin"`
}

type UpdateAgentRequest = CreateAgentRequest

// AgentResponse is the catalog view; the webhook url is included because
// the browser client posts it back through the proxy.
type AgentResponse struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	WebhookURL  string       `json:"webhookurl"`
	Path        string       `json:"path"`
	Color       string       `json:"color"`
	Icon        string       `json:"icon"`
	AccessLevel access.Level `json:"access_level"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}
