package service

import (
	"context"

	"github.com/mohitbhaijaan/adi-ki-site-sub000/internal/domain"
	"github.com/mohitbhaijaan/adi-ki-site-sub000/internal/hub"
)

// ChatService is the relay: it validates and persists inbound chat
// messages, manages session lifecycle, and fans events out to the
// right set of live connections.
type ChatService interface {
	CreateSession(ctx context.Context, req *domain.CreateSessionRequest) (*domain.ChatSession, error)
	SubmitMessage(ctx context.Context, req *domain.SubmitMessageRequest) (*domain.ChatMessage, error)
	History(ctx context.Context, sessionID string, limit int) ([]domain.ChatMessage, error)
	ListSessions(ctx context.Context) ([]domain.ChatSession, error)
	DeleteSession(ctx context.Context, id string) error

	HandleJoinSession(ctx context.Context, c *hub.Client, sessionID string) error
	HandleChatMessage(ctx context.Context, c *hub.Client, req *domain.SubmitMessageRequest) error
	HandleAdminJoin(ctx context.Context, c *hub.Client, token string) error
}

// AuthService handles admin console authentication.
type AuthService interface {
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.AuthResponse, error)
	ValidateAccessToken(token string) error
	// SeedAdmin creates the bootstrap admin account when the table is
	// empty and credentials are configured.
	SeedAdmin(ctx context.Context, email, username, password string) error
}

// CatalogService is the routine storefront CRUD surface.
type CatalogService interface {
	CreateProduct(ctx context.Context, req *domain.CreateProductRequest) (*domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	ListProducts(ctx context.Context, req *domain.ListProductsRequest) (*domain.ListProductsResponse, error)
	UpdateProduct(ctx context.Context, id string, req *domain.UpdateProductRequest) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error

	CreateCategory(ctx context.Context, req *domain.CreateCategoryRequest) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	DeleteCategory(ctx context.Context, id string) error

	CreateResource(ctx context.Context, req *domain.CreateResourceRequest) (*domain.Resource, error)
	ListResources(ctx context.Context) ([]domain.Resource, error)
	DeleteResource(ctx context.Context, id string) error

	CreateAnnouncement(ctx context.Context, req *domain.CreateAnnouncementRequest) (*domain.Announcement, error)
	ListAnnouncements(ctx context.Context, publishedOnly bool) ([]domain.Announcement, error)
	DeleteAnnouncement(ctx context.Context, id string) error
}
