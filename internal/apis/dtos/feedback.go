package dtos

import "agenthub/internal/models"

type FeedbackRequest struct {
	MessageID      *string               `json:"message_id"`
	ConversationID string                `json:"conversation_id" binding:"required"`
	AgentID        string                `json:"agent_id" binding:"required"`
	Rating         models.FeedbackRating `json:"rating" binding:"required,oneof=good bad"`
	FeedbackText   *string               `json:"feedback_text"`
}
