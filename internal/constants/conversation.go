package constants

const (
	// ConversationPageSize is fixed; a full page is read as "has more"
	ConversationPageSize = 10

	ConversationTitleMaxLength = 50
	DefaultConversationTitle   = "New Chat"

	ConversationNotFoundError = "conversation not found or user does not have permission"
)
