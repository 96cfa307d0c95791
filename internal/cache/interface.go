package cache

import (
	"context"
	"errors"
	"time"

	"github.com/mohitbhaijaan/adi-ki-site-sub000/internal/domain"
)

var ErrCacheMiss = errors.New("cache miss")

// SessionListCache caches the admin session-list snapshot.
type SessionListCache interface {
	Get(ctx context.Context) ([]domain.ChatSession, error)
	Set(ctx context.Context, sessions []domain.ChatSession, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}

// ProductListCache caches paginated product list responses.
type ProductListCache interface {
	BuildKey(page, pageSize int, categoryID, query string) string
	GetProducts(ctx context.Context, key string) (*domain.ListProductsResponse, error)
	SetProducts(ctx context.Context, key string, resp *domain.ListProductsResponse, ttl time.Duration) error
	InvalidateProducts(ctx context.Context) error
}
