package repositories

import (
	"agenthub/internal/apis/dtos"
	"agenthub/pkg/redis"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"
)

// LinkPreviewRepository caches successful previews keyed by url hash.
type LinkPreviewRepository interface {
	Get(ctx context.Context, urlHash string) (*dtos.LinkPreviewResponse, bool)
	Set(ctx context.Context, urlHash string, preview *dtos.LinkPreviewResponse, ttl time.Duration) error
}

type linkPreviewRepository struct {
	redis redis.IRedisRepositories
}

func NewLinkPreviewRepository(redis redis.IRedisRepositories) LinkPreviewRepository {
	return &linkPreviewRepository{redis: redis}
}

func previewKey(urlHash string) string {
	return fmt.Sprintf("link_preview:%s", urlHash)
}

func (r *linkPreviewRepository) Get(ctx context.Context, urlHash string) (*dtos.LinkPreviewResponse, bool) {
	raw, err := r.redis.Get(previewKey(urlHash), ctx)
	if err != nil {
		if !errors.Is(err, redis.ErrKeyNotFound) {
			log.Printf("Link preview cache read failed: %v", err)
		}
		return nil, false
	}
	var preview dtos.LinkPreviewResponse
	if err := json.Unmarshal([]byte(raw), &preview); err != nil {
		log.Printf("Discarding corrupt link preview cache entry: %v", err)
		return nil, false
	}
	return &preview, true
}

func (r *linkPreviewRepository) Set(ctx context.Context, urlHash string, preview *dtos.LinkPreviewResponse, ttl time.Duration) error {
	data, err := json.Marshal(preview)
	if err != nil {
		return err
	}
	return r.redis.Set(previewKey(urlHash), data, ttl, ctx)
}
