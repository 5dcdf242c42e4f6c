package repositories

import (
	"agenthub/internal/access"
	"agenthub/internal/models"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))

	user := &models.User{Email: "dana@example.com", Password: "hash", Role: access.RoleNonClient}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotEmpty(t, user.ID)

	found, err := repo.FindByEmail(ctx, "dana@example.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, user.ID, found.ID)
	assert.Equal(t, access.RoleNonClient, found.Role)

	missing, err := repo.FindByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, repo.UpdateRole(ctx, user.ID, access.RolePartner))
	byID, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, access.RolePartner, byID.Role)

	err = repo.UpdateRole(ctx, "missing", access.RoleAdmin)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	duplicate := models.NewUser("dana@example.com", "other", access.RoleNonClient)
	assert.Error(t, repo.Create(ctx, duplicate))
}
