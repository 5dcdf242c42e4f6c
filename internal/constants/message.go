package constants

// StoredMessageType is the message type as written by the agent endpoints
type StoredMessageType string

const (
	StoredMessageTypeHuman StoredMessageType = "human"
	StoredMessageTypeAI    StoredMessageType = "ai"
)

// MessageSender is the sender as served to clients
type MessageSender string

const (
	MessageSenderUser  MessageSender = "user"
	MessageSenderAgent MessageSender = "agent"
)
