package models

import (
	"agenthub/internal/constants"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Conversation documents are written by the agent endpoints; field names
// follow their camelCase layout.
type Conversation struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	SessionID         string             `bson:"sessionId" json:"sessionId"`
	Email             string             `bson:"email" json:"email"`
	AgentID           string             `bson:"agentId" json:"agentId"`
	ConversationTitle string             `bson:"conversationTitle,omitempty" json:"conversationTitle"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
	Messages          []StoredMessage    `bson:"messages,omitempty" json:"messages,omitempty"`
}

type StoredMessage struct {
	Type constants.StoredMessageType `bson:"type" json:"type"`
	Data StoredMessageData           `bson:"data" json:"data"`
}

type StoredMessageData struct {
	Content string `bson:"content" json:"content"`
}

func NewConversation(email, agentID, sessionID string) *Conversation {
	now := time.Now()
	return &Conversation{
		ID:        primitive.NewObjectID(),
		SessionID: sessionID,
		Email:     email,
		AgentID:   agentID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Title returns the stored title, or one derived from the first human
// message when none was set.
func (c *Conversation) Title() string {
	if c.ConversationTitle != "" {
		return c.ConversationTitle
	}
	for _, m := range c.Messages {
		if m.Type != constants.StoredMessageTypeHuman || m.Data.Content == "" {
			continue
		}
		runes := []rune(m.Data.Content)
		if len(runes) > constants.ConversationTitleMaxLength {
			return string(runes[:constants.ConversationTitleMaxLength]) + "..."
		}
		return m.Data.Content
	}
	return constants.DefaultConversationTitle
}
