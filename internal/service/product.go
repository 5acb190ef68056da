package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	pkgcache "github.com/MustMe0430/Must-Me-app-sub000/pkg/cache"
	apperrors "github.com/MustMe0430/Must-Me-app-sub000/pkg/errors"

	"github.com/MustMe0430/Must-Me-app-sub000/internal/domain"
	"github.com/MustMe0430/Must-Me-app-sub000/internal/provider"
)

// ProductConfig holds the tunables for the product service.
type ProductConfig struct {
	SearchTTL       time.Duration
	DefaultPageSize int
	MaxPageSize     int
}

// ProductService serves product search and detail lookups, fronting the
// external provider with a TTL cache. When a fallback source is configured,
// search degrades to it on provider failure instead of failing outright;
// fallback results are never cached so a recovered provider takes over on
// the next miss.
type ProductService struct {
	source   provider.ProductSource
	fallback provider.ProductSource
	cache    *pkgcache.Cache
	cfg      ProductConfig
	logger   *slog.Logger
}

// NewProductService creates a new product service. fallback may be nil; it
// is only consulted when the primary source fails with a provider error.
func NewProductService(source, fallback provider.ProductSource, cache *pkgcache.Cache, cfg ProductConfig, logger *slog.Logger) *ProductService {
	return &ProductService{
		source:   source,
		fallback: fallback,
		cache:    cache,
		cfg:      cfg,
		logger:   logger,
	}
}

// SearchProducts runs a cached product search against the provider.
func (s *ProductService) SearchProducts(ctx context.Context, query domain.SearchQuery) (*domain.SearchPage, error) {
	if strings.TrimSpace(query.Keyword) == "" && query.Category == "" {
		return nil, apperrors.InvalidInput("search requires a keyword or category")
	}
	query.Keyword = strings.TrimSpace(query.Keyword)
	query.Page, query.PageSize = clampPage(query.Page, query.PageSize, s.cfg.DefaultPageSize, s.cfg.MaxPageSize)
	if query.MinPrice > 0 && query.MaxPrice > 0 && query.MinPrice > query.MaxPrice {
		return nil, apperrors.InvalidInput("min price must not exceed max price")
	}

	key := searchCacheKey(query)
	if cached, ok := s.cache.Get(key); ok {
		// A wrong-typed entry is treated as a miss, never a failure.
		if page, ok := cached.(*domain.SearchPage); ok {
			return page, nil
		}
	}

	page, err := s.source.Search(ctx, query)
	if err != nil {
		if s.fallback != nil && errors.Is(err, apperrors.ErrProvider) {
			s.logger.WarnContext(ctx, "provider search failed, serving sample catalog",
				slog.String("keyword", query.Keyword),
				slog.String("error", err.Error()),
			)
			if page, fbErr := s.fallback.Search(ctx, query); fbErr == nil {
				return page, nil
			}
		}
		return nil, fmt.Errorf("search products: %w", err)
	}

	s.cache.Set(key, page, s.cfg.SearchTTL)
	s.logger.DebugContext(ctx, "search result cached",
		slog.String("keyword", query.Keyword),
		slog.Int("results", len(page.Products)),
	)
	return page, nil
}

// GetProductDetails resolves a single product, serving from cache when fresh.
func (s *ProductService) GetProductDetails(ctx context.Context, id string) (*domain.Product, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}

	key := "product:" + id
	if cached, ok := s.cache.Get(key); ok {
		if product, ok := cached.(*domain.Product); ok {
			return product, nil
		}
	}

	product, err := s.source.GetProduct(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product details: %w", err)
	}

	s.cache.Set(key, product, s.cfg.SearchTTL)
	return product, nil
}

// clampPage applies pagination defaults and caps.
func clampPage(page, pageSize, def, max int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = def
	}
	if pageSize > max {
		pageSize = max
	}
	return page, pageSize
}

// searchCacheKey builds a deterministic key from every search parameter so
// distinct queries never collide.
func searchCacheKey(q domain.SearchQuery) string {
	var b strings.Builder
	b.WriteString("search:kw=")
	b.WriteString(q.Keyword)
	b.WriteString("|cat=")
	b.WriteString(q.Category)
	b.WriteString("|min=")
	b.WriteString(strconv.FormatInt(q.MinPrice, 10))
	b.WriteString("|max=")
	b.WriteString(strconv.FormatInt(q.MaxPrice, 10))
	b.WriteString("|sort=")
	b.WriteString(q.Sort)
	b.WriteString("|page=")
	b.WriteString(strconv.Itoa(q.Page))
	b.WriteString("|size=")
	b.WriteString(strconv.Itoa(q.PageSize))
	return b.String()
}
