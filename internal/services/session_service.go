package services

import (
	"agenthub/internal/access"
	"agenthub/internal/apis/dtos"
	"agenthub/internal/constants"
	"agenthub/internal/repositories"
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// SessionService hands out the correlation id agents use to tie turns of
// one conversation together.
type SessionService interface {
	Resolve(ctx context.Context, identity access.Identity, agentID, conversationID, clientID string) (*dtos.SessionResponse, uint, error)
}

type sessionService struct {
	sessionRepo      repositories.SessionRepository
	conversationRepo repositories.ConversationRepository
	agentService     AgentService
	ttl              time.Duration
	now              func() time.Time
}

func NewSessionService(sessionRepo repositories.SessionRepository, conversationRepo repositories.ConversationRepository, agentService AgentService, ttl time.Duration) SessionService {
	return &sessionService{
		sessionRepo:      sessionRepo,
		conversationRepo: conversationRepo,
		agentService:     agentService,
		ttl:              ttl,
		now:              time.Now,
	}
}

func (s *sessionService) newSessionID(identity access.Identity) string {
	owner := constants.AnonymousSessionMarker
	if identity.Authenticated && identity.UserID != "" {
		owner = identity.UserID
	}
	return fmt.Sprintf("%s-%d", owner, s.now().UnixMilli())
}

func (s *sessionService) Resolve(ctx context.Context, identity access.Identity, agentID, conversationID, clientID string) (*dtos.SessionResponse, uint, error) {
	if _, status, err := s.agentService.Authorize(ctx, identity, agentID); err != nil {
		return nil, status, err
	}

	clientKey := clientID
	if identity.Authenticated {
		clientKey = identity.UserID
	} else if clientKey == "" {
		clientKey = uuid.NewString()
	}

	// an existing conversation keeps the session it was started with
	if identity.Authenticated && conversationID != "" {
		objectID, err := parseConversationID(conversationID)
		if err != nil {
			return nil, http.StatusBadRequest, err
		}
		conversation, err := s.conversationRepo.FindByIDForOwner(ctx, objectID, identity.Email)
		if err != nil {
			return nil, http.StatusInternalServerError, err
		}
		if conversation == nil || conversation.AgentID != agentID {
			return nil, http.StatusNotFound, ErrConversationNotFound
		}
		if conversation.SessionID != "" {
			return &dtos.SessionResponse{SessionID: conversation.SessionID, ClientID: clientKey}, http.StatusOK, nil
		}
	}

	// every new chat of a signed in user starts its own thread
	if identity.Authenticated {
		return &dtos.SessionResponse{SessionID: s.newSessionID(identity), ClientID: clientKey}, http.StatusOK, nil
	}

	// anonymous callers keep one thread per browser
	sessionID, err := s.sessionRepo.Claim(ctx, agentID, clientKey, s.newSessionID(identity), s.ttl)
	if err != nil {
		log.Printf("Failed to persist session for agent %s: %v", agentID, err)
		return nil, http.StatusInternalServerError, err
	}
	return &dtos.SessionResponse{SessionID: sessionID, ClientID: clientKey}, http.StatusOK, nil
}
