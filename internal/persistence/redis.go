package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-deflection/internal/config"
	"github.com/spec-kit/ticket-deflection/internal/domain"
)

// Redis wraps the go-redis client.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects to Redis using the provided configuration.
// A disabled config yields a handle with no client.
func NewRedis(cfg config.RedisConfig, logger *zap.Logger) *Redis {
	if !cfg.Enabled {
		logger.Info("redis disabled; knowledge cache off")
		return &Redis{}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	return &Redis{Client: client}
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Enabled reports whether a client is configured.
func (r *Redis) Enabled() bool {
	return r != nil && r.Client != nil
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if !r.Enabled() {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}

const knowledgeKeyPrefix = "deflection:knowledge:"

// KnowledgeCache stores per-category article snapshots as JSON.
type KnowledgeCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewKnowledgeCache returns nil when Redis is not configured.
func NewKnowledgeCache(r *Redis, ttl time.Duration) *KnowledgeCache {
	if !r.Enabled() {
		return nil
	}
	return &KnowledgeCache{client: r.Client, ttl: ttl}
}

type cachedArticle struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

// Get returns the cached snapshot for a category. The bool is false on a miss.
func (c *KnowledgeCache) Get(ctx context.Context, category domain.TicketCategory) ([]domain.KnowledgeArticle, bool, error) {
	raw, err := c.client.Get(ctx, KnowledgeCacheKey(category)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	articles, err := DecodeArticles(raw)
	if err != nil {
		return nil, false, err
	}
	return articles, true, nil
}

// Set stores a snapshot for a category.
func (c *KnowledgeCache) Set(ctx context.Context, category domain.TicketCategory, articles []domain.KnowledgeArticle) error {
	raw, err := EncodeArticles(articles)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, KnowledgeCacheKey(category), raw, c.ttl).Err()
}

// Invalidate drops the snapshot for a category.
func (c *KnowledgeCache) Invalidate(ctx context.Context, category domain.TicketCategory) error {
	return c.client.Del(ctx, KnowledgeCacheKey(category)).Err()
}

// KnowledgeCacheKey is the Redis key holding one category's snapshot.
func KnowledgeCacheKey(category domain.TicketCategory) string {
	return knowledgeKeyPrefix + string(category)
}

// EncodeArticles serializes a snapshot.
func EncodeArticles(articles []domain.KnowledgeArticle) ([]byte, error) {
	out := make([]cachedArticle, len(articles))
	for i, a := range articles {
		out[i] = cachedArticle{
			ID:        a.ID,
			Title:     a.Title,
			Content:   a.Content,
			Tags:      a.Tags,
			Category:  string(a.Category),
			CreatedAt: a.CreatedAt,
		}
	}
	return json.Marshal(out)
}

// DecodeArticles restores a snapshot written by EncodeArticles.
func DecodeArticles(raw []byte) ([]domain.KnowledgeArticle, error) {
	var in []cachedArticle
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, err
	}
	articles := make([]domain.KnowledgeArticle, len(in))
	for i, a := range in {
		articles[i] = domain.KnowledgeArticle{
			ID:        a.ID,
			Title:     a.Title,
			Content:   a.Content,
			Tags:      a.Tags,
			Category:  domain.TicketCategory(a.Category),
			CreatedAt: a.CreatedAt,
		}
	}
	return articles, nil
}
