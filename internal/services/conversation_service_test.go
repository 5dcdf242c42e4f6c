package services

import (
	"agenthub/internal/access"
	"agenthub/internal/constants"
	"agenthub/internal/models"
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storedConversation(email, agentID, title string, updated time.Time, messages ...models.StoredMessage) *models.Conversation {
	c := models.NewConversation(email, agentID, "session-"+email)
	c.ConversationTitle = title
	c.UpdatedAt = updated
	c.Messages = messages
	return c
}

func newTestConversationService(repo *fakeConversationRepo) ConversationService {
	agents := NewAgentService(newFakeAgentRepo(
		testAgent("cli", "/clients", access.LevelNonClient),
		testAgent("par", "/partners", access.LevelPartner),
	))
	return NewConversationService(repo, agents)
}

func TestConversationServiceDeleteIsOwnerScoped(t *testing.T) {
	conv := storedConversation(alice.Email, "cli", "Mine", time.Now())
	repo := newFakeConversationRepo(conv)
	svc := newTestConversationService(repo)
	ctx := context.Background()

	status, err := svc.Delete(ctx, bob, conv.ID.Hex())
	assert.EqualError(t, err, constants.ConversationNotFoundError)
	assert.Equal(t, uint(http.StatusNotFound), status)
	assert.NotNil(t, repo.get(conv.ID), "document must survive a foreign delete")

	status, err = svc.Delete(ctx, alice, conv.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, uint(http.StatusOK), status)
	assert.Nil(t, repo.get(conv.ID))
}

func TestConversationServiceRename(t *testing.T) {
	conv := storedConversation(alice.Email, "cli", "Original", time.Now())
	repo := newFakeConversationRepo(conv)
	svc := newTestConversationService(repo)
	ctx := context.Background()

	for _, title := range []string{"", "   ", "\t\n"} {
		status, err := svc.Rename(ctx, alice, conv.ID.Hex(), title)
		assert.ErrorIs(t, err, ErrEmptyTitle)
		assert.Equal(t, uint(http.StatusBadRequest), status)
	}
	assert.Equal(t, "Original", repo.get(conv.ID).ConversationTitle)

	status, err := svc.Rename(ctx, bob, conv.ID.Hex(), "Hijacked")
	assert.ErrorIs(t, err, ErrConversationNotFound)
	assert.Equal(t, uint(http.StatusNotFound), status)

	status, err = svc.Rename(ctx, alice, conv.ID.Hex(), "  Renamed  ")
	require.NoError(t, err)
	assert.Equal(t, uint(http.StatusOK), status)
	assert.Equal(t, "Renamed", repo.get(conv.ID).ConversationTitle)

	status, err = svc.Rename(ctx, alice, "not-an-object-id", "x")
	assert.ErrorIs(t, err, ErrInvalidConversation)
	assert.Equal(t, uint(http.StatusBadRequest), status)
}

func TestConversationServiceList(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	var conversations []*models.Conversation
	for i := 0; i < 12; i++ {
		conversations = append(conversations, storedConversation(alice.Email, "cli", fmt.Sprintf("Topic %02d", i), base.Add(time.Duration(i)*time.Minute)))
	}
	conversations = append(conversations,
		storedConversation(bob.Email, "cli", "Topic bob", base),
		storedConversation(alice.Email, "par", "Other agent", base),
	)
	svc := newTestConversationService(newFakeConversationRepo(conversations...))
	ctx := context.Background()

	first, status, err := svc.List(ctx, alice, "cli", "", 1)
	require.NoError(t, err)
	assert.Equal(t, uint(http.StatusOK), status)
	require.Len(t, first.Conversations, constants.ConversationPageSize)
	assert.True(t, first.HasMore)
	assert.Equal(t, "Topic 11", first.Conversations[0].Title, "newest first")

	second, _, err := svc.List(ctx, alice, "cli", "", 2)
	require.NoError(t, err)
	assert.Len(t, second.Conversations, 2)
	assert.False(t, second.HasMore)
	assert.Equal(t, 2, second.Page)

	searched, _, err := svc.List(ctx, alice, "cli", "topic 03", 1)
	require.NoError(t, err)
	require.Len(t, searched.Conversations, 1)
	assert.Equal(t, "Topic 03", searched.Conversations[0].Title)

	_, status, err = svc.List(ctx, alice, "par", "", 1)
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Equal(t, uint(http.StatusForbidden), status)

	_, status, err = svc.List(ctx, anonymous, "cli", "", 1)
	assert.ErrorIs(t, err, ErrLoginRequired)
	assert.Equal(t, uint(http.StatusUnauthorized), status)
}

func TestConversationServiceGet(t *testing.T) {
	conv := storedConversation(alice.Email, "cli", "", time.Now(),
		models.StoredMessage{Type: constants.StoredMessageTypeHuman, Data: models.StoredMessageData{Content: "What is our refund policy?"}},
		models.StoredMessage{Type: constants.StoredMessageTypeAI, Data: models.StoredMessageData{Content: "Thirty days."}},
	)
	svc := newTestConversationService(newFakeConversationRepo(conv))
	ctx := context.Background()

	detail, status, err := svc.Get(ctx, alice, "cli", conv.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, uint(http.StatusOK), status)
	assert.Equal(t, "What is our refund policy?", detail.Title)
	assert.Equal(t, "session-alice@example.com", detail.SessionID)
	require.Len(t, detail.Messages, 2)
	assert.Equal(t, conv.ID.Hex()+"-0", detail.Messages[0].ID)
	assert.Equal(t, constants.MessageSenderUser, detail.Messages[0].Sender)
	assert.Equal(t, conv.ID.Hex()+"-1", detail.Messages[1].ID)
	assert.Equal(t, constants.MessageSenderAgent, detail.Messages[1].Sender)

	_, status, err = svc.Get(ctx, bob, "cli", conv.ID.Hex())
	assert.ErrorIs(t, err, ErrConversationNotFound)
	assert.Equal(t, uint(http.StatusNotFound), status)
}
