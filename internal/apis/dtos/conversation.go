package dtos

import (
	"agenthub/internal/constants"
	"time"
)

type ConversationSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	AgentID   string    `json:"agent_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ConversationListResponse struct {
	Conversations []ConversationSummary `json:"conversations"`
	Page          int                   `json:"page"`
	HasMore       bool                  `json:"has_more"`
}

type MessageResponse struct {
	ID             string                  `json:"id"`
	Content        string                  `json:"content"`
	Sender         constants.MessageSender `json:"sender"`
	Timestamp      time.Time               `json:"timestamp"`
	AgentID        string                  `json:"agentId"`
	ConversationID string                  `json:"conversationId"`
}

type ConversationDetailResponse struct {
	ConversationSummary
	SessionID string            `json:"session_id"`
	Messages  []MessageResponse `json:"messages"`
}

type RenameConversationRequest struct {
	Title string `json:"title"`
}
