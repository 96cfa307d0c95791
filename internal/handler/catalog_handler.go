package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/mohitbhaijaan/adi-ki-site-sub000/internal/audit"
	"github.com/mohitbhaijaan/adi-ki-site-sub000/internal/domain"
	"github.com/mohitbhaijaan/adi-ki-site-sub000/internal/service"
	"github.com/mohitbhaijaan/adi-ki-site-sub000/pkg/middleware"
	"github.com/mohitbhaijaan/adi-ki-site-sub000/pkg/response"
)

// CatalogHandler is the routine storefront CRUD surface: products,
// categories, resources, announcements.
type CatalogHandler struct {
	catalogService service.CatalogService
	authMiddleware *middleware.AuthMiddleware
}

func NewCatalogHandler(catalogService service.CatalogService, authMiddleware *middleware.AuthMiddleware) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		authMiddleware: authMiddleware,
	}
}

// RegisterRoutes registers all catalog routes.
func (h *CatalogHandler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		products := api.Group("/products")
		{
			products.GET("", h.ListProducts)
			products.GET("/:id", h.GetProduct)
			products.POST("", h.authMiddleware.RequireAdmin(), h.CreateProduct)
			products.PUT("/:id", h.authMiddleware.RequireAdmin(), h.UpdateProduct)
			products.DELETE("/:id", h.authMiddleware.RequireAdmin(), h.DeleteProduct)
		}

		categories := api.Group("/categories")
		{
			categories.GET("", h.ListCategories)
			categories.POST("", h.authMiddleware.RequireAdmin(), h.CreateCategory)
			categories.DELETE("/:id", h.authMiddleware.RequireAdmin(), h.DeleteCategory)
		}

		resources := api.Group("/resources")
		{
			resources.GET("", h.ListResources)
			resources.POST("", h.authMiddleware.RequireAdmin(), h.CreateResource)
			resources.DELETE("/:id", h.authMiddleware.RequireAdmin(), h.DeleteResource)
		}

		announcements := api.Group("/announcements")
		{
			announcements.GET("", h.ListAnnouncements)
			announcements.POST("", h.authMiddleware.RequireAdmin(), h.CreateAnnouncement)
			announcements.DELETE("/:id", h.authMiddleware.RequireAdmin(), h.DeleteAnnouncement)
		}
	}
}

func (h *CatalogHandler) ListProducts(c *gin.Context) {
	var req domain.ListProductsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.catalogService.ListProducts(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c, "failed to list products")
		return
	}
	response.Success(c, resp)
}

func (h *CatalogHandler) GetProduct(c *gin.Context) {
	p, err := h.catalogService.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			response.NotFound(c, "product not found")
			return
		}
		response.InternalError(c, "failed to get product")
		return
	}
	response.Success(c, p)
}

func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	ctx := c.Request.Context()

	var req domain.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	p, err := h.catalogService.CreateProduct(ctx, &req)
	if err != nil {
		response.InternalError(c, "failed to create product")
		return
	}

	audit.LogWithDetail(ctx, audit.ActionCreateProduct, middleware.GetUserID(c), p.ID, "product created")
	response.Created(c, p)
}

func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	ctx := c.Request.Context()

	var req domain.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	p, err := h.catalogService.UpdateProduct(ctx, c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			response.NotFound(c, "product not found")
			return
		}
		response.InternalError(c, "failed to update product")
		return
	}

	audit.LogWithDetail(ctx, audit.ActionUpdateProduct, middleware.GetUserID(c), p.ID, "product updated")
	response.Success(c, p)
}

func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	if err := h.catalogService.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			response.NotFound(c, "product not found")
			return
		}
		response.InternalError(c, "failed to delete product")
		return
	}

	audit.LogWithDetail(ctx, audit.ActionDeleteProduct, middleware.GetUserID(c), id, "product deleted")
	response.Success(c, gin.H{"id": id})
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalogService.ListCategories(c.Request.Context())
	if err != nil {
		response.InternalError(c, "failed to list categories")
		return
	}
	response.Success(c, categories)
}

func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	ctx := c.Request.Context()

	var req domain.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	cat, err := h.catalogService.CreateCategory(ctx, &req)
	if err != nil {
		response.InternalError(c, "failed to create category")
		return
	}

	audit.LogWithDetail(ctx, audit.ActionCreateCategory, middleware.GetUserID(c), cat.ID, "category created")
	response.Created(c, cat)
}

func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	if err := h.catalogService.DeleteCategory(ctx, id); err != nil {
		response.NotFound(c, "category not found")
		return
	}

	audit.LogWithDetail(ctx, audit.ActionDeleteCategory, middleware.GetUserID(c), id, "category deleted")
	response.Success(c, gin.H{"id": id})
}

func (h *CatalogHandler) ListResources(c *gin.Context) {
	resources, err := h.catalogService.ListResources(c.Request.Context())
	if err != nil {
		response.InternalError(c, "failed to list resources")
		return
	}
	response.Success(c, resources)
}

func (h *CatalogHandler) CreateResource(c *gin.Context) {
	ctx := c.Request.Context()

	var req domain.CreateResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	res, err := h.catalogService.CreateResource(ctx, &req)
	if err != nil {
		response.InternalError(c, "failed to create resource")
		return
	}

	audit.LogWithDetail(ctx, audit.ActionCreateResource, middleware.GetUserID(c), res.ID, "resource created")
	response.Created(c, res)
}

func (h *CatalogHandler) DeleteResource(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	if err := h.catalogService.DeleteResource(ctx, id); err != nil {
		response.NotFound(c, "resource not found")
		return
	}

	audit.LogWithDetail(ctx, audit.ActionDeleteResource, middleware.GetUserID(c), id, "resource deleted")
	response.Success(c, gin.H{"id": id})
}

func (h *CatalogHandler) ListAnnouncements(c *gin.Context) {
	// Visitors see published announcements; the admin console passes all=true.
	publishedOnly := c.Query("all") != "true"

	announcements, err := h.catalogService.ListAnnouncements(c.Request.Context(), publishedOnly)
	if err != nil {
		response.InternalError(c, "failed to list announcements")
		return
	}
	response.Success(c, announcements)
}

func (h *CatalogHandler) CreateAnnouncement(c *gin.Context) {
	ctx := c.Request.Context()

	var req domain.CreateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	a, err := h.catalogService.CreateAnnouncement(ctx, &req)
	if err != nil {
		response.InternalError(c, "failed to create announcement")
		return
	}

	audit.LogWithDetail(ctx, audit.ActionCreateAnnouncement, middleware.GetUserID(c), a.ID, "announcement created")
	response.Created(c, a)
}

func (h *CatalogHandler) DeleteAnnouncement(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	if err := h.catalogService.DeleteAnnouncement(ctx, id); err != nil {
		response.NotFound(c, "announcement not found")
		return
	}

	audit.LogWithDetail(ctx, audit.ActionDeleteAnnouncement, middleware.GetUserID(c), id, "announcement deleted")
	response.Success(c, gin.H{"id": id})
}
