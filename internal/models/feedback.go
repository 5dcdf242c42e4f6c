package models

import (
	"agenthub/internal/constants"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FeedbackRating string

const (
	FeedbackRatingGood FeedbackRating = "good"
	FeedbackRatingBad  FeedbackRating = "bad"
)

// Feedback is write-once, rows are never updated
type Feedback struct {
	ID             string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	MessageID      *string        `gorm:"column:message_id;type:varchar(255)" json:"message_id"`
	ConversationID string         `gorm:"column:conversation_id;type:varchar(255);index;not null" json:"conversation_id"`
	AgentID        string         `gorm:"column:agent_id;type:varchar(36);index;not null" json:"agent_id"`
	Rating         FeedbackRating `gorm:"type:varchar(8);not null" json:"rating"`
	FeedbackText   *string        `gorm:"column:feedback_text;type:text" json:"feedback_text,omitempty"`
	UserID         string         `gorm:"column:user_id;type:varchar(36);index;not null" json:"user_id"`
	CreatedAt      time.Time      `json:"created_at"`
}

func (Feedback) TableName() string { return constants.FeedbackTable }

func (f *Feedback) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

func NewFeedback(userID, agentID, conversationID string, messageID *string, rating FeedbackRating, text *string) *Feedback {
	return &Feedback{
		ID:             uuid.NewString(),
		MessageID:      messageID,
		ConversationID: conversationID,
		AgentID:        agentID,
		Rating:         rating,
		FeedbackText:   text,
		UserID:         userID,
		CreatedAt:      time.Now(),
	}
}
