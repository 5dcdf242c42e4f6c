package handlers

import (
	"agenthub/internal/apis/dtos"
	"agenthub/internal/apis/middlewares"
	"agenthub/internal/services"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	if authService == nil {
		log.Fatal("Auth service cannot be nil")
	}
	return &AuthHandler{
		authService: authService,
	}
}

// @Summary Signup
// @Description Signup a new user, the role comes from the organisation membership check
// @Accept json
// @Produce json
// @Param signupRequest body dtos.SignupRequest true "Signup request"
// @Success 201 {object} dtos.Response
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dtos.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}

	response, statusCode, err := h.authService.Signup(c.Request.Context(), &req)
	if err != nil {
		writeError(c, statusCode, err)
		return
	}
	writeSuccess(c, statusCode, response)
}

// @Summary Login
// @Description Login a user
// @Accept json
// @Produce json
// @Param loginRequest body dtos.LoginRequest true "Login request"
// @Success 200 {object} dtos.Response
func (h *AuthHandler) Login(c *gin.Context) {
	var req dtos.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}

	response, statusCode, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		writeError(c, statusCode, err)
		return
	}
	writeSuccess(c, statusCode, response)
}

// @Summary Refresh Token
// @Description Refresh a user's access token
// @Accept json
// @Produce json
// @Param refreshToken header string true "Refresh token"
// @Success 200 {object} dtos.Response
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	refreshToken, ok := middlewares.BearerToken(c)
	if !ok {
		writeError(c, http.StatusBadRequest, errors.New("invalid authorization header"))
		return
	}

	response, statusCode, err := h.authService.RefreshToken(c.Request.Context(), refreshToken)
	if err != nil {
		writeError(c, statusCode, err)
		return
	}
	writeSuccess(c, statusCode, response)
}

// @Summary Logout
// @Description Logout a user, revoking both tokens
// @Accept json
// @Produce json
// @Param logoutRequest body dtos.LogoutRequest true "Logout request"
// @Success 200 {object} dtos.Response
func (h *AuthHandler) Logout(c *gin.Context) {
	var req dtos.LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}

	accessToken, ok := middlewares.BearerToken(c)
	if !ok {
		writeError(c, http.StatusBadRequest, errors.New("invalid authorization header"))
		return
	}

	statusCode, err := h.authService.Logout(c.Request.Context(), req.RefreshToken, accessToken)
	if err != nil {
		writeError(c, statusCode, err)
		return
	}
	writeSuccess(c, statusCode, "Successfully logged out")
}

// @Summary Get User
// @Description Get user details
// @Accept json
// @Produce json
// @Success 200 {object} dtos.Response
func (h *AuthHandler) GetUser(c *gin.Context) {
	userID := c.GetString("userID")
	user, statusCode, err := h.authService.GetUser(c.Request.Context(), userID)
	if err != nil {
		writeError(c, statusCode, err)
		return
	}
	writeSuccess(c, statusCode, user)
}
