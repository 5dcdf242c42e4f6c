package repositories

import (
	"agenthub/internal/models"
	"context"
	"fmt"

	"gorm.io/gorm"
)

// FeedbackRepository appends ratings to the feedback sink, which may be a
// separate analytics database.
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *models.Feedback) error
}

type feedbackRepository struct {
	db *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

func (r *feedbackRepository) Create(ctx context.Context, feedback *models.Feedback) error {
	if err := r.db.WithContext(ctx).Create(feedback).Error; err != nil {
		return fmt.Errorf("failed to store feedback: %w", err)
	}
	return nil
}
