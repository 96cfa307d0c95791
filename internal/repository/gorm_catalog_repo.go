package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mohitbhaijaan/adi-ki-site-sub000/internal/domain"
	"github.com/mohitbhaijaan/adi-ki-site-sub000/pkg/log"
)

// GormCatalogRepository implements CatalogRepository using GORM.
type GormCatalogRepository struct {
	db *gorm.DB
}

// NewGormCatalogRepository creates a new GORM-based catalog repository.
func NewGormCatalogRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db}
}

// CreateProduct creates a new product.
func (r *GormCatalogRepository) CreateProduct(ctx context.Context, p *domain.Product) error {
	l := log.Ctx(ctx)

	p.ID = uuid.New().String()
	model := domain.ProductToModel(p)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		l.Error().Err(err).Msg("failed to create product in db")
		return err
	}

	p.CreatedAt = model.CreatedAt
	p.UpdatedAt = model.UpdatedAt
	return nil
}

// GetProduct retrieves a product by id.
func (r *GormCatalogRepository) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var model domain.ProductModel
	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, result.Error
	}
	return model.ToDomain(), nil
}

// ListProducts retrieves products with pagination, optional category filter
// and LIKE search.
func (r *GormCatalogRepository) ListProducts(ctx context.Context, page, pageSize int, categoryID, query string) ([]domain.Product, int, error) {
	l := log.Ctx(ctx)

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	q := r.db.WithContext(ctx).Model(&domain.ProductModel{})
	if categoryID != "" {
		q = q.Where("category_id = ?", categoryID)
	}
	if query != "" {
		pattern := "%" + query + "%"
		q = q.Where("name LIKE ? OR description LIKE ?", pattern, pattern)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		l.Error().Err(err).Msg("failed to count products")
		return nil, 0, err
	}

	var models []domain.ProductModel
	if err := q.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&models).Error; err != nil {
		l.Error().Err(err).Msg("failed to list products from db")
		return nil, 0, err
	}

	products := make([]domain.Product, len(models))
	for i, model := range models {
		products[i] = *model.ToDomain()
	}
	return products, int(total), nil
}

// UpdateProduct saves an updated product.
func (r *GormCatalogRepository) UpdateProduct(ctx context.Context, p *domain.Product) error {
	model := domain.ProductToModel(p)
	result := r.db.WithContext(ctx).Model(&domain.ProductModel{}).
		Where("id = ?", p.ID).
		Updates(map[string]interface{}{
			"category_id":  model.CategoryID,
			"name":         model.Name,
			"description":  model.Description,
			"price_cents":  model.PriceCents,
			"image_url":    model.ImageURL,
			"is_available": model.IsAvailable,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// DeleteProduct removes a product.
func (r *GormCatalogRepository) DeleteProduct(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&domain.ProductModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// CreateCategory creates a new category.
func (r *GormCatalogRepository) CreateCategory(ctx context.Context, cat *domain.Category) error {
	cat.ID = uuid.New().String()
	model := &domain.CategoryModel{ID: cat.ID, Name: cat.Name, Slug: cat.Slug}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	cat.CreatedAt = model.CreatedAt
	return nil
}

// ListCategories retrieves all categories.
func (r *GormCatalogRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var models []domain.CategoryModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	categories := make([]domain.Category, len(models))
	for i, model := range models {
		categories[i] = *model.ToDomain()
	}
	return categories, nil
}

// DeleteCategory removes a category.
func (r *GormCatalogRepository) DeleteCategory(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&domain.CategoryModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateResource creates a new resource.
func (r *GormCatalogRepository) CreateResource(ctx context.Context, res *domain.Resource) error {
	res.ID = uuid.New().String()
	model := &domain.ResourceModel{
		ID:          res.ID,
		Title:       res.Title,
		URL:         res.URL,
		Description: res.Description,
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	res.CreatedAt = model.CreatedAt
	return nil
}

// ListResources retrieves all resources.
func (r *GormCatalogRepository) ListResources(ctx context.Context) ([]domain.Resource, error) {
	var models []domain.ResourceModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	resources := make([]domain.Resource, len(models))
	for i, model := range models {
		resources[i] = *model.ToDomain()
	}
	return resources, nil
}

// DeleteResource removes a resource.
func (r *GormCatalogRepository) DeleteResource(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&domain.ResourceModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateAnnouncement creates a new announcement.
func (r *GormCatalogRepository) CreateAnnouncement(ctx context.Context, a *domain.Announcement) error {
	a.ID = uuid.New().String()
	model := &domain.AnnouncementModel{
		ID:          a.ID,
		Title:       a.Title,
		Body:        a.Body,
		IsPublished: a.IsPublished,
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	a.CreatedAt = model.CreatedAt
	return nil
}

// ListAnnouncements retrieves announcements, optionally published only.
func (r *GormCatalogRepository) ListAnnouncements(ctx context.Context, publishedOnly bool) ([]domain.Announcement, error) {
	q := r.db.WithContext(ctx).Model(&domain.AnnouncementModel{})
	if publishedOnly {
		q = q.Where("is_published = ?", true)
	}

	var models []domain.AnnouncementModel
	if err := q.Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	announcements := make([]domain.Announcement, len(models))
	for i, model := range models {
		announcements[i] = *model.ToDomain()
	}
	return announcements, nil
}

// DeleteAnnouncement removes an announcement.
func (r *GormCatalogRepository) DeleteAnnouncement(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&domain.AnnouncementModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
