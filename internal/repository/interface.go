package repository

import (
	"context"
	"errors"

	"github.com/mohitbhaijaan/adi-ki-site-sub000/internal/domain"
)

var (
	ErrSessionNotFound = errors.New("chat session not found")
	ErrSessionExists   = errors.New("chat session already exists")
	ErrProductNotFound = errors.New("product not found")
	ErrNotFound        = errors.New("record not found")
)

// ChatRepository is the durable record of chat sessions and messages.
// The relay only needs create/read/append/delete keyed by session id.
type ChatRepository interface {
	CreateSession(ctx context.Context, session *domain.ChatSession) error
	GetSession(ctx context.Context, id string) (*domain.ChatSession, error)
	// ListSessions returns all sessions, most recently active first.
	ListSessions(ctx context.Context) ([]domain.ChatSession, error)
	// CreateMessage persists a message and bumps the owning session's
	// last_message_at in the same transaction. The session must exist.
	CreateMessage(ctx context.Context, req *domain.SubmitMessageRequest) (*domain.ChatMessage, error)
	// ListMessages returns up to limit of the newest messages for a
	// session, in chronological order (oldest first).
	ListMessages(ctx context.Context, sessionID string, limit int) ([]domain.ChatMessage, error)
	// DeleteSession removes the session and all of its messages
	// atomically.
	DeleteSession(ctx context.Context, id string) error
}

// AdminRepository stores admin console accounts.
type AdminRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.AdminUserModel, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, admin *domain.AdminUserModel) error
}

// CatalogRepository is the routine storefront CRUD store.
type CatalogRepository interface {
	CreateProduct(ctx context.Context, p *domain.Product) error
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	ListProducts(ctx context.Context, page, pageSize int, categoryID, query string) ([]domain.Product, int, error)
	UpdateProduct(ctx context.Context, p *domain.Product) error
	DeleteProduct(ctx context.Context, id string) error

	CreateCategory(ctx context.Context, cat *domain.Category) error
	ListCategories(ctx context.Context) ([]domain.Category, error)
	DeleteCategory(ctx context.Context, id string) error

	CreateResource(ctx context.Context, res *domain.Resource) error
	ListResources(ctx context.Context) ([]domain.Resource, error)
	DeleteResource(ctx context.Context, id string) error

	CreateAnnouncement(ctx context.Context, a *domain.Announcement) error
	ListAnnouncements(ctx context.Context, publishedOnly bool) ([]domain.Announcement, error)
	DeleteAnnouncement(ctx context.Context, id string) error
}
