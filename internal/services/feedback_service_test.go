package services

import (
	"agenthub/internal/apis/dtos"
	"agenthub/internal/models"
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedbackServiceSubmit(t *testing.T) {
	repo := &fakeFeedbackRepo{}
	svc := NewFeedbackService(repo)
	ctx := context.Background()

	blank := "   "
	feedback, status, err := svc.Submit(ctx, alice, &dtos.FeedbackRequest{
		ConversationID: "c1",
		AgentID:        "cli",
		Rating:         models.FeedbackRatingGood,
		FeedbackText:   &blank,
	})
	require.NoError(t, err)
	assert.Equal(t, uint(http.StatusCreated), status)
	assert.Equal(t, alice.UserID, feedback.UserID)
	assert.Nil(t, feedback.FeedbackText)
	assert.Nil(t, feedback.MessageID)
	require.Len(t, repo.saved, 1)

	_, status, err = svc.Submit(ctx, anonymous, &dtos.FeedbackRequest{ConversationID: "c1", AgentID: "cli", Rating: models.FeedbackRatingBad})
	assert.ErrorIs(t, err, ErrLoginRequired)
	assert.Equal(t, uint(http.StatusUnauthorized), status)
	assert.Len(t, repo.saved, 1)
}
