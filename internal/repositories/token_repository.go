package repositories

import (
	"agenthub/config"
	"agenthub/pkg/redis"
	"context"
	"errors"
	"fmt"
	"log"
	"time"
)

type TokenRepository interface {
	StoreRefreshToken(ctx context.Context, userID string, refreshToken string) error
	ValidateRefreshToken(ctx context.Context, userID string, refreshToken string) bool
	DeleteRefreshToken(ctx context.Context, userID string, refreshToken string) error
	BlacklistToken(ctx context.Context, token string, expiresIn time.Duration) error
	IsTokenBlacklisted(ctx context.Context, token string) bool
}

type tokenRepository struct {
	redis redis.IRedisRepositories
}

func NewTokenRepository(redis redis.IRedisRepositories) TokenRepository {
	return &tokenRepository{
		redis: redis,
	}
}

func refreshTokenKey(userID, refreshToken string) string {
	return fmt.Sprintf("refresh_token:%s:%s", userID, refreshToken)
}

func (r *tokenRepository) StoreRefreshToken(ctx context.Context, userID string, refreshToken string) error {
	expiration := time.Duration(config.Env.JWTRefreshExpirationMilliseconds) * time.Millisecond
	if err := r.redis.Set(refreshTokenKey(userID, refreshToken), []byte("valid"), expiration, ctx); err != nil {
		log.Printf("Error storing refresh token: %v", err)
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

func (r *tokenRepository) ValidateRefreshToken(ctx context.Context, userID string, refreshToken string) bool {
	value, err := r.redis.Get(refreshTokenKey(userID, refreshToken), ctx)
	if err != nil {
		if !errors.Is(err, redis.ErrKeyNotFound) {
			log.Printf("Refresh token validation failed: %v", err)
		}
		return false
	}
	return value == "valid"
}

func (r *tokenRepository) DeleteRefreshToken(ctx context.Context, userID string, refreshToken string) error {
	key := refreshTokenKey(userID, refreshToken)
	if _, err := r.redis.Get(key, ctx); err != nil {
		return errors.New("refresh token not found")
	}
	if err := r.redis.Del(key, ctx); err != nil {
		log.Printf("Error deleting refresh token: %v", err)
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}
	return nil
}

func (r *tokenRepository) BlacklistToken(ctx context.Context, token string, expiresIn time.Duration) error {
	if expiresIn <= 0 {
		return nil
	}
	if err := r.redis.Set(fmt.Sprintf("blacklist:%s", token), []byte("blacklisted"), expiresIn, ctx); err != nil {
		log.Printf("Error blacklisting token: %v", err)
		return fmt.Errorf("failed to blacklist token: %w", err)
	}
	return nil
}

func (r *tokenRepository) IsTokenBlacklisted(ctx context.Context, token string) bool {
	value, err := r.redis.Get(fmt.Sprintf("blacklist:%s", token), ctx)
	if err != nil {
		return false
	}
	return value == "blacklisted"
}
