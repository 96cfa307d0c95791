package service

import (
	"context"
	"errors"
	"time"

	"github.com/mohitbhaijaan/adi-ki-site-sub000/internal/cache"
	"github.com/mohitbhaijaan/adi-ki-site-sub000/internal/domain"
	"github.com/mohitbhaijaan/adi-ki-site-sub000/internal/repository"
	"github.com/mohitbhaijaan/adi-ki-site-sub000/pkg/log"
)

var ErrProductNotFound = errors.New("product not found")

type catalogService struct {
	repo     repository.CatalogRepository
	cache    cache.ProductListCache
	cacheTTL time.Duration
}

// NewCatalogService creates the storefront CRUD service.
func NewCatalogService(repo repository.CatalogRepository, productCache cache.ProductListCache, cacheTTL time.Duration) CatalogService {
	return &catalogService{
		repo:     repo,
		cache:    productCache,
		cacheTTL: cacheTTL,
	}
}

func (s *catalogService) CreateProduct(ctx context.Context, req *domain.CreateProductRequest) (*domain.Product, error) {
	p := &domain.Product{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		ImageURL:    req.ImageURL,
		IsAvailable: req.IsAvailable,
	}
	if err := s.repo.CreateProduct(ctx, p); err != nil {
		return nil, err
	}
	s.invalidateProducts(ctx)
	return p, nil
}

func (s *catalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	p, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *catalogService) ListProducts(ctx context.Context, req *domain.ListProductsRequest) (*domain.ListProductsResponse, error) {
	page, pageSize := req.Page, req.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	key := s.cache.BuildKey(page, pageSize, req.CategoryID, req.Query)
	if cached, err := s.cache.GetProducts(ctx, key); err == nil {
		return cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		l := log.Ctx(ctx)
		l.Warn().Err(err).Msg("product list cache get error")
	}

	products, total, err := s.repo.ListProducts(ctx, page, pageSize, req.CategoryID, req.Query)
	if err != nil {
		return nil, err
	}

	resp := &domain.ListProductsResponse{
		Products:   products,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + pageSize - 1) / pageSize,
	}

	go func() {
		cacheCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.cache.SetProducts(cacheCtx, key, resp, s.cacheTTL); err != nil {
			l := log.L()
			l.Warn().Err(err).Msg("product list cache set error")
		}
	}()

	return resp, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, id string, req *domain.UpdateProductRequest) (*domain.Product, error) {
	p, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if req.CategoryID != nil {
		p.CategoryID = *req.CategoryID
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.PriceCents != nil {
		p.PriceCents = *req.PriceCents
	}
	if req.ImageURL != nil {
		p.ImageURL = *req.ImageURL
	}
	if req.IsAvailable != nil {
		p.IsAvailable = *req.IsAvailable
	}

	if err := s.repo.UpdateProduct(ctx, p); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	s.invalidateProducts(ctx)
	return p, nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	s.invalidateProducts(ctx)
	return nil
}

func (s *catalogService) CreateCategory(ctx context.Context, req *domain.CreateCategoryRequest) (*domain.Category, error) {
	cat := &domain.Category{Name: req.Name, Slug: req.Slug}
	if err := s.repo.CreateCategory(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

func (s *catalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *catalogService) DeleteCategory(ctx context.Context, id string) error {
	return s.repo.DeleteCategory(ctx, id)
}

func (s *catalogService) CreateResource(ctx context.Context, req *domain.CreateResourceRequest) (*domain.Resource, error) {
	res := &domain.Resource{Title: req.Title, URL: req.URL, Description: req.Description}
	if err := s.repo.CreateResource(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *catalogService) ListResources(ctx context.Context) ([]domain.Resource, error) {
	return s.repo.ListResources(ctx)
}

func (s *catalogService) DeleteResource(ctx context.Context, id string) error {
	return s.repo.DeleteResource(ctx, id)
}

func (s *catalogService) CreateAnnouncement(ctx context.Context, req *domain.CreateAnnouncementRequest) (*domain.Announcement, error) {
	a := &domain.Announcement{Title: req.Title, Body: req.Body, IsPublished: req.IsPublished}
	if err := s.repo.CreateAnnouncement(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *catalogService) ListAnnouncements(ctx context.Context, publishedOnly bool) ([]domain.Announcement, error) {
	return s.repo.ListAnnouncements(ctx, publishedOnly)
}

func (s *catalogService) DeleteAnnouncement(ctx context.Context, id string) error {
	return s.repo.DeleteAnnouncement(ctx, id)
}

func (s *catalogService) invalidateProducts(ctx context.Context) {
	if err := s.cache.InvalidateProducts(ctx); err != nil {
		l := log.Ctx(ctx)
		l.Warn().Err(err).Msg("product list cache invalidate error")
	}
}
