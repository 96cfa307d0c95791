package domain

import "time"

// ProductModel is the GORM model for products table.
type ProductModel struct {
	ID          string    `gorm:"type:varchar(36);primaryKey"`
	CategoryID  string    `gorm:"type:varchar(36);index"`
	Name        string    `gorm:"type:varchar(200);not null"`
	Description string    `gorm:"type:text"`
	PriceCents  int64     `gorm:"not null"`
	ImageURL    string    `gorm:"type:varchar(500)"`
	IsAvailable bool      `gorm:"not null;default:true"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (ProductModel) TableName() string { return "products" }

func (m *ProductModel) ToDomain() *Product {
	return &Product{
		ID:          m.ID,
		CategoryID:  m.CategoryID,
		Name:        m.Name,
		Description: m.Description,
		PriceCents:  m.PriceCents,
		ImageURL:    m.ImageURL,
		IsAvailable: m.IsAvailable,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// ProductToModel converts domain Product to ProductModel.
func ProductToModel(p *Product) *ProductModel {
	return &ProductModel{
		ID:          p.ID,
		CategoryID:  p.CategoryID,
		Name:        p.Name,
		Description: p.Description,
		PriceCents:  p.PriceCents,
		ImageURL:    p.ImageURL,
		IsAvailable: p.IsAvailable,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// CategoryModel is the GORM model for categories table.
type CategoryModel struct {
	ID        string    `gorm:"type:varchar(36);primaryKey"`
	Name      string    `gorm:"type:varchar(100);not null"`
	Slug      string    `gorm:"type:varchar(100);uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (CategoryModel) TableName() string { return "categories" }

func (m *CategoryModel) ToDomain() *Category {
	return &Category{
		ID:        m.ID,
		Name:      m.Name,
		Slug:      m.Slug,
		CreatedAt: m.CreatedAt,
	}
}

// ResourceModel is the GORM model for resources table.
type ResourceModel struct {
	ID          string    `gorm:"type:varchar(36);primaryKey"`
	Title       string    `gorm:"type:varchar(200);not null"`
	URL         string    `gorm:"type:varchar(500);not null"`
	Description string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (ResourceModel) TableName() string { return "resources" }

func (m *ResourceModel) ToDomain() *Resource {
	return &Resource{
		ID:          m.ID,
		Title:       m.Title,
		URL:         m.URL,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
	}
}

// AnnouncementModel is the GORM model for announcements table.
type AnnouncementModel struct {
	ID          string    `gorm:"type:varchar(36);primaryKey"`
	Title       string    `gorm:"type:varchar(200);not null"`
	Body        string    `gorm:"type:text;not null"`
	IsPublished bool      `gorm:"not null;default:false"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (AnnouncementModel) TableName() string { return "announcements" }

func (m *AnnouncementModel) ToDomain() *Announcement {
	return &Announcement{
		ID:          m.ID,
		Title:       m.Title,
		Body:        m.Body,
		IsPublished: m.IsPublished,
		CreatedAt:   m.CreatedAt,
	}
}
