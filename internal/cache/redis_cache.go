package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mohitbhaijaan/adi-ki-site-sub000/internal/config"
	"github.com/mohitbhaijaan/adi-ki-site-sub000/internal/domain"
)

// RedisCache backs both the session-list and product-list caches.
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache connects to Redis and returns a cache handle.
func NewRedisCache(cfg config.RedisConfig, prefix string) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisCache{
		client: client,
		prefix: prefix,
	}, nil
}

func (c *RedisCache) sessionListKey() string {
	return c.prefix + ":chat:sessions"
}

// Get returns the cached session list.
func (c *RedisCache) Get(ctx context.Context) ([]domain.ChatSession, error) {
	data, err := c.client.Get(ctx, c.sessionListKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var sessions []domain.ChatSession
	if err := json.Unmarshal(data, &sessions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache data: %w", err)
	}
	return sessions, nil
}

// Set stores the session list.
func (c *RedisCache) Set(ctx context.Context, sessions []domain.ChatSession, ttl time.Duration) error {
	data, err := json.Marshal(sessions)
	if err != nil {
		return fmt.Errorf("failed to marshal cache data: %w", err)
	}
	if err := c.client.Set(ctx, c.sessionListKey(), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set in redis: %w", err)
	}
	return nil
}

// Invalidate drops the cached session list.
func (c *RedisCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, c.sessionListKey()).Err()
}

// BuildKey builds a product-list cache key.
func (c *RedisCache) BuildKey(page, pageSize int, categoryID, query string) string {
	if categoryID == "" {
		categoryID = "all"
	}
	if query == "" {
		query = "none"
	}
	return fmt.Sprintf("%s:products:%d:%d:%s:%s", c.prefix, page, pageSize, categoryID, query)
}

// GetProducts returns a cached product list page.
func (c *RedisCache) GetProducts(ctx context.Context, key string) (*domain.ListProductsResponse, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var resp domain.ListProductsResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache data: %w", err)
	}
	return &resp, nil
}

// SetProducts stores a product list page.
func (c *RedisCache) SetProducts(ctx context.Context, key string, resp *domain.ListProductsResponse, ttl time.Duration) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to marshal cache data: %w", err)
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set in redis: %w", err)
	}
	return nil
}

// InvalidateProducts drops every cached product list page.
func (c *RedisCache) InvalidateProducts(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, c.prefix+":products:*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// Close closes the underlying Redis client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
