package services

import (
	"agenthub/internal/access"
	"agenthub/internal/repositories"
	"agenthub/pkg/redis"
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSessionService(conversations *fakeConversationRepo, now time.Time) *sessionService {
	agents := NewAgentService(newFakeAgentRepo(
		testAgent("pub", "/welcome", access.LevelPublic),
		testAgent("cli", "/clients", access.LevelNonClient),
	))
	svc := NewSessionService(repositories.NewSessionRepository(redis.NewMemoryRepositories()), conversations, agents, time.Hour).(*sessionService)
	svc.now = func() time.Time { return now }
	return svc
}

func TestSessionServiceResolve(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	conv := storedConversation(alice.Email, "cli", "", now)
	svc := newTestSessionService(newFakeConversationRepo(conv), now)
	ctx := context.Background()

	t.Run("existing conversation keeps its session", func(t *testing.T) {
		session, status, err := svc.Resolve(ctx, alice, "cli", conv.ID.Hex(), "")
		require.NoError(t, err)
		assert.Equal(t, uint(http.StatusOK), status)
		assert.Equal(t, conv.SessionID, session.SessionID)
	})

	t.Run("foreign conversation is not found", func(t *testing.T) {
		_, status, err := svc.Resolve(ctx, bob, "cli", conv.ID.Hex(), "")
		assert.ErrorIs(t, err, ErrConversationNotFound)
		assert.Equal(t, uint(http.StatusNotFound), status)
	})

	t.Run("each new chat gets its own session", func(t *testing.T) {
		first, _, err := svc.Resolve(ctx, alice, "cli", "", "")
		require.NoError(t, err)
		assert.Equal(t, "u-alice-1700000000123", first.SessionID)
		assert.Equal(t, alice.UserID, first.ClientID)

		svc.now = func() time.Time { return now.Add(48 * time.Hour) }
		defer func() { svc.now = func() time.Time { return now } }()
		second, _, err := svc.Resolve(ctx, alice, "cli", "", "other-browser")
		require.NoError(t, err)
		assert.NotEqual(t, first.SessionID, second.SessionID)
		assert.Equal(t, "u-alice-1700172800123", second.SessionID)
	})

	t.Run("new chats are not pinned in the session store", func(t *testing.T) {
		sessions := repositories.NewSessionRepository(redis.NewMemoryRepositories())
		pinned := newTestSessionService(newFakeConversationRepo(), now)
		pinned.sessionRepo = sessions

		_, _, err := pinned.Resolve(ctx, alice, "cli", "", "")
		require.NoError(t, err)
		_, err = sessions.Get(ctx, "cli", alice.UserID)
		assert.ErrorIs(t, err, redis.ErrKeyNotFound)
	})

	t.Run("anonymous callers get a client id", func(t *testing.T) {
		session, _, err := svc.Resolve(ctx, anonymous, "pub", "", "")
		require.NoError(t, err)
		assert.NotEmpty(t, session.ClientID)
		assert.Regexp(t, `^anon-\d+$`, session.SessionID)

		again, _, err := svc.Resolve(ctx, anonymous, "pub", "", session.ClientID)
		require.NoError(t, err)
		assert.Equal(t, session.SessionID, again.SessionID)
	})

	t.Run("access is checked first", func(t *testing.T) {
		_, status, err := svc.Resolve(ctx, anonymous, "cli", "", "client")
		assert.ErrorIs(t, err, ErrAccessDenied)
		assert.Equal(t, uint(http.StatusForbidden), status)
	})
}
