package transport

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"plantstore/internal/domain"
	"plantstore/internal/middleware"
	"plantstore/internal/repository"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID                string   `json:"id"`
	SKU               string   `json:"sku"`
	Name              string   `json:"name"`
	Slug              string   `json:"slug"`
	ImageURL          string   `json:"image_url,omitempty"`
	Description       string   `json:"description"`
	Quantity          int      `json:"quantity"`
	Price             string   `json:"price"`
	Taxable           bool     `json:"taxable"`
	IsActive          bool     `json:"is_active"`
	DifficultyLevel   string   `json:"difficulty_level"`
	LightRequirements string   `json:"light_requirements"`
	Tags              []string `json:"tags"`
	CategoryID        string   `json:"category_id"`
	Created           string   `json:"created"`
}

// ProductListResponse represents a paginated product listing
type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Slug        string   `json:"slug"`
	Description string   `json:"description"`
	IsActive    bool     `json:"is_active"`
	ProductIDs  []string `json:"product_ids"`
	Created     string   `json:"created"`
}

// CatalogHandler serves the read-only catalog API. The importer is the only
// writer; there are no mutation endpoints.
type CatalogHandler struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	logger     *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(products repository.ProductRepository, categories repository.CategoryRepository, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		products:   products,
		categories: categories,
		logger:     logger,
	}
}

// RegisterRoutes registers all catalog routes
func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/categories", h.ListCategories)
		r.Get("/categories/{slug}", h.GetCategory)
		r.Get("/products", h.ListProducts)
		r.Get("/products/{slug}", h.GetProduct)
	})
}

// ListCategories handles listing all categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list categories", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}

	response := make([]CategoryResponse, 0, len(categories))
	for _, category := range categories {
		response = append(response, toCategoryResponse(category))
	}

	middleware.RespondWithJSON(w, http.StatusOK, response)
}

// GetCategory handles fetching a single category by slug
func (h *CatalogHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	category, err := h.categories.FindBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "category not found")
			return
		}
		h.logger.Error("Failed to get category", zap.String("slug", slug), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get category")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toCategoryResponse(category))
}

// ListProducts handles listing products with pagination, sorting, and an
// optional category slug filter
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	if page < 1 {
		page = 1
	}
	pageSize := queryInt(r, "page_size", defaultPageSize)
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}

	sortBy := r.URL.Query().Get("sort")
	sortOrder := repository.SortOrderDesc
	if r.URL.Query().Get("order") == "asc" {
		sortOrder = repository.SortOrderAsc
	}

	var categoryID *uuid.UUID
	if categorySlug := r.URL.Query().Get("category"); categorySlug != "" {
		category, err := h.categories.FindBySlug(r.Context(), categorySlug)
		if err != nil {
			if errors.Is(err, repository.ErrCategoryNotFound) {
				middleware.RespondWithError(w, http.StatusNotFound, "category not found")
				return
			}
			h.logger.Error("Failed to resolve category filter", zap.String("slug", categorySlug), zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
			return
		}
		categoryID = &category.ID
	}

	products, total, err := h.products.List(r.Context(), categoryID, page, pageSize, sortBy, sortOrder)
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	response := ProductListResponse{
		Products: make([]ProductResponse, 0, len(products)),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
	for _, product := range products {
		response.Products = append(response.Products, toProductResponse(product))
	}

	middleware.RespondWithJSON(w, http.StatusOK, response)
}

// GetProduct handles fetching a single product by slug
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	product, err := h.products.FindBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to get product", zap.String("slug", slug), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toProductResponse(product))
}

func toProductResponse(product *domain.Product) ProductResponse {
	return ProductResponse{
		ID:                product.ID.String(),
		SKU:               product.SKU,
		Name:              product.Name,
		Slug:              product.Slug,
		ImageURL:          product.ImageURL,
		Description:       product.Description,
		Quantity:          product.Quantity,
		Price:             product.Price.StringFixed(2),
		Taxable:           product.Taxable,
		IsActive:          product.IsActive,
		DifficultyLevel:   string(product.DifficultyLevel),
		LightRequirements: string(product.LightRequirements),
		Tags:              product.Tags,
		CategoryID:        product.CategoryID.String(),
		Created:           product.Created.UTC().Format(time.RFC3339),
	}
}

func toCategoryResponse(category *domain.Category) CategoryResponse {
	ids := make([]string, 0, len(category.ProductIDs))
	for _, id := range category.ProductIDs {
		ids = append(ids, id.String())
	}
	return CategoryResponse{
		ID:          category.ID.String(),
		Name:        category.Name,
		Slug:        category.Slug,
		Description: category.Description,
		IsActive:    category.IsActive,
		ProductIDs:  ids,
		Created:     category.Created.UTC().Format(time.RFC3339),
	}
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
