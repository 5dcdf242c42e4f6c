package redis

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrKeyNotFound is returned by Get for a missing key
var ErrKeyNotFound = errors.New("redis key does not exist")

type RedisRepositories struct {
	Client *redis.Client
}

type IRedisRepositories interface {
	Set(key string, data []byte, expiredTime time.Duration, ctx context.Context) error
	// SetNX stores the value only when the key is absent and reports whether it did
	SetNX(key string, data []byte, expiredTime time.Duration, ctx context.Context) (bool, error)
	Get(key string, ctx context.Context) (string, error)
	Del(key string, ctx context.Context) error
	TTL(key string, ctx context.Context) (time.Duration, error)
}

func NewRedisRepositories(client *redis.Client) *RedisRepositories {
	log.Println("🚀 Initialized Repository : Redis")
	return &RedisRepositories{
		Client: client,
	}
}

func (r *RedisRepositories) Set(key string, data []byte, expiredTime time.Duration, ctx context.Context) error {
	if err := r.Client.Set(ctx, key, string(data), expiredTime).Err(); err != nil {
		log.Printf("Error setting Redis key %s: %v", key, err)
		return err
	}
	return nil
}

func (r *RedisRepositories) SetNX(key string, data []byte, expiredTime time.Duration, ctx context.Context) (bool, error) {
	ok, err := r.Client.SetNX(ctx, key, string(data), expiredTime).Result()
	if err != nil {
		log.Printf("Error setting Redis key %s: %v", key, err)
		return false, err
	}
	return ok, nil
}

func (r *RedisRepositories) Get(key string, ctx context.Context) (string, error) {
	result, err := r.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrKeyNotFound
	} else if err != nil {
		log.Printf("Error getting Redis key %s: %v", key, err)
		return "", err
	}
	return result, nil
}

func (r *RedisRepositories) Del(key string, ctx context.Context) error {
	if _, err := r.Client.Del(ctx, key).Result(); err != nil {
		log.Printf("Error deleting Redis key %s: %v", key, err)
		return err
	}
	return nil
}

func (r *RedisRepositories) TTL(key string, ctx context.Context) (time.Duration, error) {
	return r.Client.TTL(ctx, key).Result()
}
