package services

import (
	"agenthub/config"
	"agenthub/internal/access"
	"agenthub/internal/apis/dtos"
	"agenthub/internal/models"
	"agenthub/internal/repositories"
	"agenthub/internal/utils"
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
)

type AuthService interface {
	Signup(ctx context.Context, req *dtos.SignupRequest) (*dtos.AuthResponse, uint, error)
	Login(ctx context.Context, req *dtos.LoginRequest) (*dtos.AuthResponse, uint, error)
	RefreshToken(ctx context.Context, refreshToken string) (*dtos.RefreshTokenResponse, uint, error)
	Logout(ctx context.Context, refreshToken string, accessToken string) (uint, error)
	GetUser(ctx context.Context, userID string) (*models.User, uint, error)
}

type authService struct {
	userRepo   repositories.UserRepository
	jwtService utils.JWTService
	tokenRepo  repositories.TokenRepository
	membership MembershipService
}

func NewAuthService(userRepo repositories.UserRepository, jwtService utils.JWTService, tokenRepo repositories.TokenRepository, membership MembershipService) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		tokenRepo:  tokenRepo,
		membership: membership,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) isAdminEmail(email string) bool {
	return config.Env.AdminEmail != "" && email == normalizeEmail(config.Env.AdminEmail)
}

func (s *authService) Signup(ctx context.Context, req *dtos.SignupRequest) (*dtos.AuthResponse, uint, error) {
	email := normalizeEmail(req.Email)
	if s.isAdminEmail(email) {
		return nil, http.StatusBadRequest, errors.New("email already exists")
	}

	existingUser, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	if existingUser != nil {
		return nil, http.StatusBadRequest, errors.New("email already exists")
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}

	// an unreachable membership webhook must not block signup
	role, err := s.membership.RoleFor(ctx, email)
	if err != nil {
		log.Printf("Signing up %s as %s after membership error: %v", email, role, err)
	}

	user := models.NewUser(email, hashedPassword, role)
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, http.StatusBadRequest, err
	}

	return s.issueTokens(ctx, user, http.StatusCreated)
}

func (s *authService) Login(ctx context.Context, req *dtos.LoginRequest) (*dtos.AuthResponse, uint, error) {
	email := normalizeEmail(req.Email)

	if s.isAdminEmail(email) && config.Env.AdminPassword != "" {
		log.Println("Admin User Login")
		if req.Password != config.Env.AdminPassword {
			return nil, http.StatusUnauthorized, errors.New("invalid credentials")
		}
		user, err := s.ensureAdmin(ctx, email, req.Password)
		if err != nil {
			return nil, http.StatusInternalServerError, err
		}
		return s.issueTokens(ctx, user, http.StatusOK)
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		log.Println("Failed to find user:" + err.Error())
		return nil, http.StatusInternalServerError, err
	}
	if user == nil || !utils.CheckPasswordHash(req.Password, user.Password) {
		return nil, http.StatusUnauthorized, errors.New("invalid credentials")
	}

	s.refreshRole(ctx, user)
	return s.issueTokens(ctx, user, http.StatusOK)
}

// ensureAdmin creates the bootstrap admin on first login and promotes an
// existing row that lost the role.
func (s *authService) ensureAdmin(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		log.Println("Admin User not found, creating user")
		hashedPassword, err := utils.HashPassword(password)
		if err != nil {
			return nil, err
		}
		user = models.NewUser(email, hashedPassword, access.RoleAdmin)
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to create admin user: %w", err)
		}
		return user, nil
	}
	if user.Role != access.RoleAdmin {
		if err := s.userRepo.UpdateRole(ctx, user.ID, access.RoleAdmin); err != nil {
			return nil, err
		}
		user.Role = access.RoleAdmin
	}
	return user, nil
}

// refreshRole re-runs the membership check on login. Admins are never
// touched and a failed check keeps the stored role.
func (s *authService) refreshRole(ctx context.Context, user *models.User) {
	if user.Role == access.RoleAdmin || !s.membership.Enabled() {
		return
	}
	role, err := s.membership.RoleFor(ctx, user.Email)
	if err != nil || role == user.Role {
		return
	}
	if err := s.userRepo.UpdateRole(ctx, user.ID, role); err != nil {
		log.Printf("Failed to update role for %s: %v", user.Email, err)
		return
	}
	user.Role = role
}

func (s *authService) issueTokens(ctx context.Context, user *models.User, status uint) (*dtos.AuthResponse, uint, error) {
	accessToken, err := s.jwtService.GenerateToken(user.ID)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}

	refreshToken, err := s.jwtService.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}

	if err := s.tokenRepo.StoreRefreshToken(ctx, user.ID, *refreshToken); err != nil {
		return nil, http.StatusInternalServerError, err
	}

	return &dtos.AuthResponse{
		AccessToken:  *accessToken,
		RefreshToken: *refreshToken,
		User:         *user,
	}, status, nil
}

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*dtos.RefreshTokenResponse, uint, error) {
	userID, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, http.StatusUnauthorized, errors.New("invalid refresh token")
	}

	if !s.tokenRepo.ValidateRefreshToken(ctx, *userID, refreshToken) {
		return nil, http.StatusUnauthorized, errors.New("refresh token not found")
	}

	accessToken, err := s.jwtService.GenerateToken(*userID)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}

	return &dtos.RefreshTokenResponse{
		AccessToken: *accessToken,
	}, http.StatusOK, nil
}

func (s *authService) Logout(ctx context.Context, refreshToken string, accessToken string) (uint, error) {
	refreshUserID, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return http.StatusUnauthorized, errors.New("invalid refresh token")
	}
	accessUserID, err := s.jwtService.ValidateToken(accessToken)
	if err != nil {
		return http.StatusUnauthorized, errors.New("invalid access token")
	}
	if *refreshUserID != *accessUserID {
		return http.StatusUnauthorized, errors.New("tokens belong to different users")
	}

	if err := s.tokenRepo.DeleteRefreshToken(ctx, *refreshUserID, refreshToken); err != nil {
		return http.StatusUnauthorized, err
	}

	// keep the access token blacklisted until it would have expired anyway
	remaining, err := s.jwtService.RemainingLifetime(accessToken)
	if err != nil {
		return http.StatusUnauthorized, errors.New("invalid access token")
	}
	if err := s.tokenRepo.BlacklistToken(ctx, accessToken, remaining); err != nil {
		return http.StatusInternalServerError, err
	}

	return http.StatusOK, nil
}

func (s *authService) GetUser(ctx context.Context, userID string) (*models.User, uint, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	if user == nil {
		return nil, http.StatusNotFound, errors.New("user not found")
	}
	return user, http.StatusOK, nil
}
