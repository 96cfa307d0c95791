package domain

import "time"

// Product is a storefront catalog item.
type Product struct {
	ID          string    `json:"id"`
	CategoryID  string    `json:"category_id,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	PriceCents  int64     `json:"price_cents"`
	ImageURL    string    `json:"image_url,omitempty"`
	IsAvailable bool      `json:"is_available"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Category groups products.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

// Resource is a downloadable or linked resource shown on the site.
type Resource struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Announcement is a site-wide notice managed from the admin console.
type Announcement struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	IsPublished bool      `json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateProductRequest represents a create product request.
type CreateProductRequest struct {
	CategoryID  string `json:"category_id"`
	Name        string `json:"name" binding:"required,min=1,max=200"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents" binding:"required,min=0"`
	ImageURL    string `json:"image_url"`
	IsAvailable bool   `json:"is_available"`
}

// UpdateProductRequest represents an update product request.
type UpdateProductRequest struct {
	CategoryID  *string `json:"category_id"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	PriceCents  *int64  `json:"price_cents"`
	ImageURL    *string `json:"image_url"`
	IsAvailable *bool   `json:"is_available"`
}

// ListProductsRequest represents a list products request.
type ListProductsRequest struct {
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
	CategoryID string `form:"category_id"`
	Query      string `form:"q"`
}

// ListProductsResponse represents a paginated product list.
type ListProductsResponse struct {
	Products   []Product `json:"products"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalPages int       `json:"total_pages"`
}

// CreateCategoryRequest represents a create category request.
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
	Slug string `json:"slug" binding:"required,min=1,max=100"`
}

// CreateResourceRequest represents a create resource request.
type CreateResourceRequest struct {
	Title       string `json:"title" binding:"required,min=1,max=200"`
	URL         string `json:"url" binding:"required,url"`
	Description string `json:"description"`
}

// CreateAnnouncementRequest represents a create announcement request.
type CreateAnnouncementRequest struct {
	Title       string `json:"title" binding:"required,min=1,max=200"`
	Body        string `json:"body" binding:"required"`
	IsPublished bool   `json:"is_published"`
}
