package repositories

import (
	"agenthub/pkg/redis"
	"context"
	"fmt"
	"time"
)

// SessionRepository pins one agent session id per agent and client key.
type SessionRepository interface {
	// Claim stores sessionID unless one already exists and returns the
	// session id that is now current.
	Claim(ctx context.Context, agentID, clientKey, sessionID string, ttl time.Duration) (string, error)
	Get(ctx context.Context, agentID, clientKey string) (string, error)
}

type sessionRepository struct {
	redis redis.IRedisRepositories
}

func NewSessionRepository(redis redis.IRedisRepositories) SessionRepository {
	return &sessionRepository{redis: redis}
}

func sessionKey(agentID, clientKey string) string {
	return fmt.Sprintf("session:%s:%s", agentID, clientKey)
}

func (r *sessionRepository) Claim(ctx context.Context, agentID, clientKey, sessionID string, ttl time.Duration) (string, error) {
	key := sessionKey(agentID, clientKey)
	stored, err := r.redis.SetNX(key, []byte(sessionID), ttl, ctx)
	if err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	if stored {
		return sessionID, nil
	}
	existing, err := r.redis.Get(key, ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read session: %w", err)
	}
	return existing, nil
}

func (r *sessionRepository) Get(ctx context.Context, agentID, clientKey string) (string, error) {
	return r.redis.Get(sessionKey(agentID, clientKey), ctx)
}
