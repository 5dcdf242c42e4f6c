package services

import (
	"agenthub/internal/access"
	"agenthub/internal/apis/dtos"
	"agenthub/internal/constants"
	"agenthub/internal/models"
	"agenthub/internal/repositories"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrConversationNotFound = errors.New(constants.ConversationNotFoundError)
	ErrInvalidConversation  = errors.New("invalid conversation id")
	ErrEmptyTitle           = errors.New("title cannot be empty")
	ErrLoginRequired        = errors.New("authentication required")
)

type ConversationService interface {
	List(ctx context.Context, identity access.Identity, agentID, search string, page int) (*dtos.ConversationListResponse, uint, error)
	Get(ctx context.Context, identity access.Identity, agentID, conversationID string) (*dtos.ConversationDetailResponse, uint, error)
	Rename(ctx context.Context, identity access.Identity, conversationID, title string) (uint, error)
	Delete(ctx context.Context, identity access.Identity, conversationID string) (uint, error)
}

type conversationService struct {
	conversationRepo repositories.ConversationRepository
	agentService     AgentService
}

func NewConversationService(conversationRepo repositories.ConversationRepository, agentService AgentService) ConversationService {
	return &conversationService{
		conversationRepo: conversationRepo,
		agentService:     agentService,
	}
}

func toConversationSummary(c *models.Conversation) dtos.ConversationSummary {
	return dtos.ConversationSummary{
		ID:        c.ID.Hex(),
		Title:     c.Title(),
		AgentID:   c.AgentID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// toMessages renders stored turns in arrival order. Stored messages carry
// no timestamp of their own, so the conversation's last update is used.
func toMessages(c *models.Conversation) []dtos.MessageResponse {
	id := c.ID.Hex()
	messages := make([]dtos.MessageResponse, 0, len(c.Messages))
	for i, m := range c.Messages {
		sender := constants.MessageSenderAgent
		if m.Type == constants.StoredMessageTypeHuman {
			sender = constants.MessageSenderUser
		}
		messages = append(messages, dtos.MessageResponse{
			ID:             fmt.Sprintf("%s-%d", id, i),
			Content:        m.Data.Content,
			Sender:         sender,
			Timestamp:      c.UpdatedAt,
			AgentID:        c.AgentID,
			ConversationID: id,
		})
	}
	return messages
}

func parseConversationID(id string) (primitive.ObjectID, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidConversation
	}
	return objectID, nil
}

func (s *conversationService) List(ctx context.Context, identity access.Identity, agentID, search string, page int) (*dtos.ConversationListResponse, uint, error) {
	if !identity.Authenticated {
		return nil, http.StatusUnauthorized, ErrLoginRequired
	}
	if _, status, err := s.agentService.Authorize(ctx, identity, agentID); err != nil {
		return nil, status, err
	}
	if page < 1 {
		page = 1
	}

	conversations, err := s.conversationRepo.FindByOwnerAndAgent(ctx, identity.Email, agentID, strings.TrimSpace(search), page, constants.ConversationPageSize)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}

	summaries := make([]dtos.ConversationSummary, 0, len(conversations))
	for _, c := range conversations {
		summaries = append(summaries, toConversationSummary(c))
	}
	return &dtos.ConversationListResponse{
		Conversations: summaries,
		Page:          page,
		// a full page may be the last one; the next fetch comes back empty
		HasMore: len(conversations) == constants.ConversationPageSize,
	}, http.StatusOK, nil
}

func (s *conversationService) Get(ctx context.Context, identity access.Identity, agentID, conversationID string) (*dtos.ConversationDetailResponse, uint, error) {
	if !identity.Authenticated {
		return nil, http.StatusUnauthorized, ErrLoginRequired
	}
	objectID, err := parseConversationID(conversationID)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	if _, status, err := s.agentService.Authorize(ctx, identity, agentID); err != nil {
		return nil, status, err
	}

	conversation, err := s.conversationRepo.FindByIDForOwner(ctx, objectID, identity.Email)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	if conversation == nil || conversation.AgentID != agentID {
		return nil, http.StatusNotFound, ErrConversationNotFound
	}

	return &dtos.ConversationDetailResponse{
		ConversationSummary: toConversationSummary(conversation),
		SessionID:           conversation.SessionID,
		Messages:            toMessages(conversation),
	}, http.StatusOK, nil
}

func (s *conversationService) Rename(ctx context.Context, identity access.Identity, conversationID, title string) (uint, error) {
	if !identity.Authenticated {
		return http.StatusUnauthorized, ErrLoginRequired
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return http.StatusBadRequest, ErrEmptyTitle
	}
	objectID, err := parseConversationID(conversationID)
	if err != nil {
		return http.StatusBadRequest, err
	}

	matched, err := s.conversationRepo.UpdateTitleForOwner(ctx, objectID, identity.Email, title)
	if err != nil {
		return http.StatusInternalServerError, err
	}
	if !matched {
		return http.StatusNotFound, ErrConversationNotFound
	}
	return http.StatusOK, nil
}

func (s *conversationService) Delete(ctx context.Context, identity access.Identity, conversationID string) (uint, error) {
	if !identity.Authenticated {
		return http.StatusUnauthorized, ErrLoginRequired
	}
	objectID, err := parseConversationID(conversationID)
	if err != nil {
		return http.StatusBadRequest, err
	}

	deleted, err := s.conversationRepo.DeleteForOwner(ctx, objectID, identity.Email)
	if err != nil {
		return http.StatusInternalServerError, err
	}
	if !deleted {
		return http.StatusNotFound, ErrConversationNotFound
	}
	return http.StatusOK, nil
}
