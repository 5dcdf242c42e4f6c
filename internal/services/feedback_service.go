package services

import (
	"agenthub/internal/access"
	"agenthub/internal/apis/dtos"
	"agenthub/internal/models"
	"agenthub/internal/repositories"
	"context"
	"net/http"
	"strings"
)

type FeedbackService interface {
	Submit(ctx context.Context, identity access.Identity, req *dtos.FeedbackRequest) (*models.Feedback, uint, error)
}

type feedbackService struct {
	feedbackRepo repositories.FeedbackRepository
}

func NewFeedbackService(feedbackRepo repositories.FeedbackRepository) FeedbackService {
	return &feedbackService{feedbackRepo: feedbackRepo}
}

func (s *feedbackService) Submit(ctx context.Context, identity access.Identity, req *dtos.FeedbackRequest) (*models.Feedback, uint, error) {
	if !identity.Authenticated {
		return nil, http.StatusUnauthorized, ErrLoginRequired
	}

	text := req.FeedbackText
	if text != nil {
		trimmed := strings.TrimSpace(*text)
		if trimmed == "" {
			text = nil
		} else {
			text = &trimmed
		}
	}

	feedback := models.NewFeedback(identity.UserID, req.AgentID, req.ConversationID, req.MessageID, req.Rating, text)
	if err := s.feedbackRepo.Create(ctx, feedback); err != nil {
		return nil, http.StatusInternalServerError, err
	}
	return feedback, http.StatusCreated, nil
}
