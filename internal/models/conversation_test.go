package models

import (
	"agenthub/internal/constants"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConversationTitle(t *testing.T) {
	human := func(s string) StoredMessage {
		return StoredMessage{Type: constants.StoredMessageTypeHuman, Data: StoredMessageData{Content: s}}
	}
	ai := func(s string) StoredMessage {
		return StoredMessage{Type: constants.StoredMessageTypeAI, Data: StoredMessageData{Content: s}}
	}

	tests := []struct {
		name string
		conv Conversation
		want string
	}{
		{"explicit title wins", Conversation{ConversationTitle: "Billing", Messages: []StoredMessage{human("hi")}}, "Billing"},
		{"first human message", Conversation{Messages: []StoredMessage{ai("welcome"), human("how do I reset?"), human("later")}}, "how do I reset?"},
		{"truncated at fifty", Conversation{Messages: []StoredMessage{human(strings.Repeat("a", 60))}}, strings.Repeat("a", 50) + "..."},
		{"exactly fifty", Conversation{Messages: []StoredMessage{human(strings.Repeat("b", 50))}}, strings.Repeat("b", 50)},
		{"no messages", Conversation{}, "New Chat"},
		{"only ai", Conversation{Messages: []StoredMessage{ai("hello")}}, "New Chat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.conv.Title())
		})
	}
}
