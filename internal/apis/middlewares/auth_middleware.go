package middlewares

import (
	"agenthub/internal/access"
	"agenthub/internal/apis/dtos"
	"agenthub/internal/repositories"
	"agenthub/internal/utils"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	identityKey = "identity"
	userIDKey   = "userID"
)

// AuthMiddleware resolves bearer tokens into an access.Identity. It gets
// its collaborators at construction, not from the container.
type AuthMiddleware struct {
	jwtService utils.JWTService
	tokenRepo  repositories.TokenRepository
	userRepo   repositories.UserRepository
}

func NewAuthMiddleware(jwtService utils.JWTService, tokenRepo repositories.TokenRepository, userRepo repositories.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		tokenRepo:  tokenRepo,
		userRepo:   userRepo,
	}
}

func abortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, dtos.Response{
		Success: false,
		Error:   &message,
	})
}

// BearerToken extracts the token of an "Authorization: Bearer" header
func BearerToken(c *gin.Context) (string, bool) {
	parts := strings.Split(c.GetHeader("Authorization"), " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// resolve returns the caller identity or the status and message to abort with
func (m *AuthMiddleware) resolve(c *gin.Context, token string) (access.Identity, int, string) {
	if m.tokenRepo.IsTokenBlacklisted(c.Request.Context(), token) {
		return access.Anonymous, http.StatusUnauthorized, "Token has been revoked"
	}

	userID, err := m.jwtService.ValidateToken(token)
	if err != nil {
		return access.Anonymous, http.StatusUnauthorized, "Invalid or expired token"
	}

	user, err := m.userRepo.FindByID(c.Request.Context(), *userID)
	if err != nil {
		log.Printf("Failed to load user %s: %v", *userID, err)
		return access.Anonymous, http.StatusInternalServerError, "Failed to load user"
	}
	if user == nil {
		return access.Anonymous, http.StatusUnauthorized, "User no longer exists"
	}

	return access.Identity{
		UserID:        user.ID,
		Email:         user.Email,
		Role:          user.Role,
		Authenticated: true,
	}, http.StatusOK, ""
}

func setIdentity(c *gin.Context, identity access.Identity) {
	c.Set(identityKey, identity)
	if identity.Authenticated {
		c.Set(userIDKey, identity.UserID)
	}
}

// Required rejects requests without a valid access token
func (m *AuthMiddleware) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header is required")
			return
		}
		token, ok := BearerToken(c)
		if !ok {
			abortWithError(c, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		identity, status, message := m.resolve(c, token)
		if status != http.StatusOK {
			abortWithError(c, status, message)
			return
		}
		setIdentity(c, identity)
		c.Next()
	}
}

// Optional lets anonymous callers through. A token that is present but
// invalid is still rejected so clients learn to refresh it.
func (m *AuthMiddleware) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			setIdentity(c, access.Anonymous)
			c.Next()
			return
		}
		token, ok := BearerToken(c)
		if !ok {
			abortWithError(c, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		identity, status, message := m.resolve(c, token)
		if status != http.StatusOK {
			abortWithError(c, status, message)
			return
		}
		setIdentity(c, identity)
		c.Next()
	}
}

// RequireRole must run after Required
func (m *AuthMiddleware) RequireRole(role access.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if Identity(c).Role != role {
			abortWithError(c, http.StatusForbidden, "access denied")
			return
		}
		c.Next()
	}
}

// Identity returns the caller set by the middleware, anonymous if none
func Identity(c *gin.Context) access.Identity {
	if value, ok := c.Get(identityKey); ok {
		if identity, ok := value.(access.Identity); ok {
			return identity
		}
	}
	return access.Anonymous
}
