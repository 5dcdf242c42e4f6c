package dtos

type SessionRequest struct {
	ConversationID string `json:"conversation_id"`
}

type SessionResponse struct {
	SessionID string `json:"session_id"`
	ClientID  string `json:"client_id"`
}
