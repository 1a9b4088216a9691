package service

import (
	"context"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/redis/go-redis/v9"

	"github.com/Haseeb044/ecommerce-backend-design/internal/cache"
	"github.com/Haseeb044/ecommerce-backend-design/internal/events"
	"github.com/Haseeb044/ecommerce-backend-design/internal/logging"
	"github.com/Haseeb044/ecommerce-backend-design/internal/models"
	"github.com/Haseeb044/ecommerce-backend-design/internal/repo"
	"github.com/Haseeb044/ecommerce-backend-design/internal/service/search"
	"github.com/Haseeb044/ecommerce-backend-design/internal/util"
)

// FeaturedCap bounds the landing-page product list. The reference behavior
// wavered between 7 and 10; 7 is the value this service commits to.
const FeaturedCap = 7

const (
	featuredCacheKey = "featured:products"
	featuredCacheTTL = time.Minute
)

type CatalogService struct {
	Repo     *repo.GormRepo
	Cache    *redis.Client
	Producer *events.Producer
	ES       *elasticsearch.Client
	ESIndex  string
}

type PageMeta struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`
}

type PagedProducts struct {
	Items []models.Product `json:"data"`
	Meta  PageMeta         `json:"meta"`
}

func newPagedProducts(items []models.Product, total int64, page, offset, limit int) *PagedProducts {
	if page < 1 {
		page = 1
	}
	return &PagedProducts{
		Items: items,
		Meta: PageMeta{
			Page:       page,
			Size:       limit,
			Total:      total,
			TotalPages: (total + int64(limit) - 1) / int64(limit),
			HasPrev:    page > 1,
			HasNext:    int64(offset+limit) < total,
		},
	}
}

func (s *CatalogService) List(ctx context.Context) ([]models.Product, error) {
	_, items, err := s.Repo.GetProducts(ctx, 0, -1)
	return items, err
}

func (s *CatalogService) ListPaged(ctx context.Context, page, size int) (*PagedProducts, error) {
	offset, limit := util.Calculate(page, size)
	total, items, err := s.Repo.GetProducts(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	return newPagedProducts(items, total, page, offset, limit), nil
}

func (s *CatalogService) Get(ctx context.Context, id uint) (*models.Product, error) {
	return s.Repo.GetProduct(ctx, id)
}

// Search filters by case-insensitive substring on name or category. An
// empty keyword means "no filter" and falls back to the plain paged list.
func (s *CatalogService) Search(ctx context.Context, keyword string, page, size int) (*PagedProducts, error) {
	if keyword == "" {
		return s.ListPaged(ctx, page, size)
	}
	offset, limit := util.Calculate(page, size)
	total, items, err := s.Repo.SearchProducts(ctx, keyword, offset, limit)
	if err != nil {
		return nil, err
	}
	return newPagedProducts(items, total, page, offset, limit), nil
}

func (s *CatalogService) Featured(ctx context.Context) ([]models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.featured")

	var cached []models.Product
	if hit, err := cache.Get(ctx, s.Cache, featuredCacheKey, &cached); err != nil {
		l.Warn("featured_cache_read_failed", "error", err)
	} else if hit {
		return cached, nil
	}

	items, err := s.Repo.FeaturedProducts(ctx, FeaturedCap)
	if err != nil {
		return nil, err
	}

	if err := cache.Set(ctx, s.Cache, featuredCacheKey, items, featuredCacheTTL); err != nil {
		l.Warn("featured_cache_write_failed", "error", err)
	}
	return items, nil
}

func (s *CatalogService) ByCategory(ctx context.Context, category string) ([]models.Product, error) {
	return s.Repo.ProductsByCategory(ctx, category)
}

func (s *CatalogService) Create(ctx context.Context, prod *models.Product) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.create")

	if prod.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if prod.Price < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}

	created, err := s.Repo.CreateProduct(ctx, prod)
	if err != nil {
		return nil, err
	}

	if err := cache.Delete(ctx, s.Cache, featuredCacheKey); err != nil {
		l.Warn("featured_cache_invalidate_failed", "error", err)
	}

	if s.ES != nil {
		if err := search.IndexProduct(ctx, s.ES, s.ESIndex, created); err != nil {
			l.Warn("es_index_failed", "productID", created.ID, "error", err)
		}
	}

	event := map[string]any{
		"type":      "product_created",
		"productID": created.ID,
		"name":      created.Name,
	}
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Producer.PublishEvent(pubCtx, events.TopicProductEvents, fmt.Sprint(created.ID), event); err != nil {
		l.Error("kafka publish error", "error", err)
	}

	l.Info("create_product_success", "productID", created.ID)
	return created, nil
}
