package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenIssuer      = "agenthub"
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

type JWTService interface {
	GenerateToken(userID string) (*string, error)
	GenerateRefreshToken(userID string) (*string, error)
	// ValidateToken accepts access tokens only
	ValidateToken(token string) (*string, error)
	ValidateRefreshToken(token string) (*string, error)
	// RemainingLifetime reports how long a valid token has until expiry
	RemainingLifetime(token string) (time.Duration, error)
}

type jwtService struct {
	secretKey            string
	accessTokenDuration  time.Duration
	refreshTokenDuration time.Duration
}

func NewJWTService(secretKey string, accessTokenDuration time.Duration, refreshTokenDuration time.Duration) JWTService {
	return &jwtService{
		secretKey:            secretKey,
		accessTokenDuration:  accessTokenDuration,
		refreshTokenDuration: refreshTokenDuration,
	}
}

func (s *jwtService) GenerateToken(userID string) (*string, error) {
	return s.sign(userID, tokenTypeAccess, s.accessTokenDuration)
}

func (s *jwtService) GenerateRefreshToken(userID string) (*string, error) {
	return s.sign(userID, tokenTypeRefresh, s.refreshTokenDuration)
}

func (s *jwtService) sign(userID, tokenType string, lifetime time.Duration) (*string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"typ":     tokenType,
		"iat":     now.Unix(),
		"iss":     tokenIssuer,
		"exp":     now.Add(lifetime).Unix(),
		// two tokens issued in the same second must still differ
		"jti": fmt.Sprintf("%d", now.UnixNano()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.secretKey))
	if err != nil {
		return nil, err
	}
	return &tokenString, nil
}

func (s *jwtService) ValidateToken(tokenString string) (*string, error) {
	return s.validate(tokenString, tokenTypeAccess)
}

func (s *jwtService) ValidateRefreshToken(tokenString string) (*string, error) {
	return s.validate(tokenString, tokenTypeRefresh)
}

func (s *jwtService) parse(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.secretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(tokenIssuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func (s *jwtService) validate(tokenString, tokenType string) (*string, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return nil, err
	}
	if typ, _ := claims["typ"].(string); typ != tokenType {
		return nil, errors.New("unexpected token type")
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return nil, errors.New("token has no subject")
	}
	return &userID, nil
}

func (s *jwtService) RemainingLifetime(tokenString string) (time.Duration, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return 0, err
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return 0, errors.New("token has no expiry")
	}
	return time.Until(exp.Time), nil
}
