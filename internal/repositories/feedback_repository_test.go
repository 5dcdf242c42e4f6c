package repositories

import (
	"agenthub/internal/models"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedbackRepositoryCreate(t *testing.T) {
	db := newTestDB(t)
	repo := NewFeedbackRepository(db)

	messageID := "conv-1-3"
	text := "missed the point"
	feedback := models.NewFeedback("user-1", "agent-1", "conv-1", &messageID, models.FeedbackRatingBad, &text)
	require.NoError(t, repo.Create(context.Background(), feedback))

	var stored models.Feedback
	require.NoError(t, db.First(&stored, "id = ?", feedback.ID).Error)
	assert.Equal(t, models.FeedbackRatingBad, stored.Rating)
	assert.Equal(t, "conv-1-3", *stored.MessageID)
	assert.Equal(t, "missed the point", *stored.FeedbackText)

	withoutText := models.NewFeedback("user-1", "agent-1", "conv-1", nil, models.FeedbackRatingGood, nil)
	require.NoError(t, repo.Create(context.Background(), withoutText))

	var count int64
	require.NoError(t, db.Model(&models.Feedback{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)

	var bare models.Feedback
	require.NoError(t, db.First(&bare, "id = ?", withoutText.ID).Error)
	assert.Nil(t, bare.FeedbackText)
}
