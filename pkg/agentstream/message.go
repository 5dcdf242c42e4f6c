package agentstream

import "time"

type Sender string

const (
	SenderUser  Sender = "user"
	SenderAgent Sender = "agent"
)

type Attachment struct {
	Name string `json:"name"`
	Type string `json:"type"`
	URL  string `json:"url"`
	Size int64  `json:"size"`
}

// Message is one entry of a conversation as rendered by a client
type Message struct {
	ID             string       `json:"id"`
	Content        string       `json:"content"`
	Sender         Sender       `json:"sender"`
	Timestamp      time.Time    `json:"timestamp"`
	AgentID        string       `json:"agentId"`
	ConversationID string       `json:"conversationId,omitempty"`
	Attachments    []Attachment `json:"attachments,omitempty"`
	AudioURL       string       `json:"audioUrl,omitempty"`
}

// Conversation is the ordered message list a stream writes into
type Conversation struct {
	ID       string
	AgentID  string
	Messages []*Message
}

// NextMessageID follows the "<conversationId>-<index>" scheme
func (c *Conversation) NextMessageID() string {
	return messageID(c.ID, len(c.Messages))
}

func (c *Conversation) Append(m *Message) {
	c.Messages = append(c.Messages, m)
}
