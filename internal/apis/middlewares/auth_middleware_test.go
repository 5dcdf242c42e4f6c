package middlewares

import (
	"agenthub/config"
	"agenthub/internal/access"
	"agenthub/internal/models"
	"agenthub/internal/repositories"
	"agenthub/internal/utils"
	"agenthub/pkg/redis"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUserRepo struct {
	users map[string]*models.User
}

func (r *stubUserRepo) FindByEmail(context.Context, string) (*models.User, error) {
	return nil, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	return r.users[id], nil
}

func (r *stubUserRepo) Create(context.Context, *models.User) error {
	return nil
}

func (r *stubUserRepo) UpdateRole(context.Context, string, access.Role) error {
	return nil
}

func newTestRouter(t *testing.T) (*gin.Engine, utils.JWTService, repositories.TokenRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.Env.JWTRefreshExpirationMilliseconds = 60_000

	jwt := utils.NewJWTService("secret", time.Minute, time.Hour)
	tokens := repositories.NewTokenRepository(redis.NewMemoryRepositories())
	users := &stubUserRepo{users: map[string]*models.User{
		"u-1": {Email: "dana@example.com", Role: access.RoleNonClient, Base: models.Base{ID: "u-1"}},
		"u-2": {Email: "root@example.com", Role: access.RoleAdmin, Base: models.Base{ID: "u-2"}},
	}}
	auth := NewAuthMiddleware(jwt, tokens, users)

	echo := func(c *gin.Context) {
		identity := Identity(c)
		c.JSON(http.StatusOK, gin.H{"email": identity.Email, "authenticated": identity.Authenticated})
	}
	router := gin.New()
	router.GET("/required", auth.Required(), echo)
	router.GET("/optional", auth.Optional(), echo)
	router.GET("/admin", auth.Required(), auth.RequireRole(access.RoleAdmin), echo)
	return router, jwt, tokens
}

func serve(router *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddleware(t *testing.T) {
	router, jwt, tokens := newTestRouter(t)

	userToken, err := jwt.GenerateToken("u-1")
	require.NoError(t, err)
	adminToken, err := jwt.GenerateToken("u-2")
	require.NoError(t, err)
	ghostToken, err := jwt.GenerateToken("u-404")
	require.NoError(t, err)
	refreshToken, err := jwt.GenerateRefreshToken("u-1")
	require.NoError(t, err)

	t.Run("required", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, serve(router, "/required", "").Code)
		assert.Equal(t, http.StatusUnauthorized, serve(router, "/required", "garbage").Code)
		assert.Equal(t, http.StatusUnauthorized, serve(router, "/required", *ghostToken).Code)
		assert.Equal(t, http.StatusUnauthorized, serve(router, "/required", *refreshToken).Code)

		rec := serve(router, "/required", *userToken)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "dana@example.com")
	})

	t.Run("optional", func(t *testing.T) {
		rec := serve(router, "/optional", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"email":"","authenticated":false}`, rec.Body.String())

		assert.Equal(t, http.StatusUnauthorized, serve(router, "/optional", "garbage").Code)
		assert.Equal(t, http.StatusOK, serve(router, "/optional", *userToken).Code)
	})

	t.Run("admin role", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, serve(router, "/admin", *userToken).Code)
		assert.Equal(t, http.StatusOK, serve(router, "/admin", *adminToken).Code)
	})

	t.Run("revoked token", func(t *testing.T) {
		require.NoError(t, tokens.BlacklistToken(context.Background(), *userToken, time.Minute))
		assert.Equal(t, http.StatusUnauthorized, serve(router, "/required", *userToken).Code)
	})
}
