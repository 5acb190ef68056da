package service

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	pkgcache "github.com/MustMe0430/Must-Me-app-sub000/pkg/cache"
	apperrors "github.com/MustMe0430/Must-Me-app-sub000/pkg/errors"

	"github.com/MustMe0430/Must-Me-app-sub000/internal/domain"
)

// --- Mock Product Source ---

type mockProductSource struct {
	mock.Mock
}

func (m *mockProductSource) Search(ctx context.Context, query domain.SearchQuery) (*domain.SearchPage, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SearchPage), args.Error(1)
}

func (m *mockProductSource) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

// --- Test Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestProductService(source *mockProductSource) *ProductService {
	cfg := ProductConfig{
		SearchTTL:       5 * time.Minute,
		DefaultPageSize: 10,
		MaxPageSize:     50,
	}
	return NewProductService(source, nil, pkgcache.New("test_products"), cfg, newTestLogger())
}

func searchPage(ids ...string) *domain.SearchPage {
	products := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		products = append(products, domain.Product{ID: id, Name: "Product " + id})
	}
	return &domain.SearchPage{Products: products, Total: len(products), Page: 1, PageSize: 10}
}

// --- Tests ---

func TestSearchProductsCachesResults(t *testing.T) {
	source := new(mockProductSource)
	svc := newTestProductService(source)
	source.On("Search", mock.Anything, mock.Anything).Return(searchPage("p1", "p2"), nil).Once()

	first, err := svc.SearchProducts(context.Background(), domain.SearchQuery{Keyword: "mug"})
	require.NoError(t, err)
	require.Len(t, first.Products, 2)

	// Second identical query must be served from cache without another
	// provider call.
	second, err := svc.SearchProducts(context.Background(), domain.SearchQuery{Keyword: "mug"})
	require.NoError(t, err)
	assert.Equal(t, first, second)

	source.AssertNumberOfCalls(t, "Search", 1)
}

func TestSearchProductsDistinctQueriesMissCache(t *testing.T) {
	source := new(mockProductSource)
	svc := newTestProductService(source)
	source.On("Search", mock.Anything, mock.Anything).Return(searchPage("p1"), nil)

	_, err := svc.SearchProducts(context.Background(), domain.SearchQuery{Keyword: "mug"})
	require.NoError(t, err)
	_, err = svc.SearchProducts(context.Background(), domain.SearchQuery{Keyword: "mug", Page: 2})
	require.NoError(t, err)
	_, err = svc.SearchProducts(context.Background(), domain.SearchQuery{Keyword: "kettle"})
	require.NoError(t, err)

	source.AssertNumberOfCalls(t, "Search", 3)
}

func TestSearchProductsAppliesPaginationDefaults(t *testing.T) {
	source := new(mockProductSource)
	svc := newTestProductService(source)
	source.On("Search", mock.Anything, mock.MatchedBy(func(q domain.SearchQuery) bool {
		return q.Page == 1 && q.PageSize == 10
	})).Return(searchPage("p1"), nil).Once()

	_, err := svc.SearchProducts(context.Background(), domain.SearchQuery{Keyword: "mug"})
	require.NoError(t, err)
	source.AssertExpectations(t)
}

func TestSearchProductsCapsPageSize(t *testing.T) {
	source := new(mockProductSource)
	svc := newTestProductService(source)
	source.On("Search", mock.Anything, mock.MatchedBy(func(q domain.SearchQuery) bool {
		return q.PageSize == 50
	})).Return(searchPage("p1"), nil).Once()

	_, err := svc.SearchProducts(context.Background(), domain.SearchQuery{Keyword: "mug", PageSize: 500})
	require.NoError(t, err)
	source.AssertExpectations(t)
}

func TestSearchProductsValidation(t *testing.T) {
	svc := newTestProductService(new(mockProductSource))

	_, err := svc.SearchProducts(context.Background(), domain.SearchQuery{Keyword: "   "})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = svc.SearchProducts(context.Background(), domain.SearchQuery{
		Keyword: "mug", MinPrice: 5000, MaxPrice: 1000,
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestSearchProductsPropagatesProviderError(t *testing.T) {
	source := new(mockProductSource)
	svc := newTestProductService(source)
	source.On("Search", mock.Anything, mock.Anything).Return(nil, apperrors.Provider("upstream down", nil))

	_, err := svc.SearchProducts(context.Background(), domain.SearchQuery{Keyword: "mug"})
	assert.ErrorIs(t, err, apperrors.ErrProvider)
}

func TestSearchProductsDegradesToFallback(t *testing.T) {
	source := new(mockProductSource)
	fallback := new(mockProductSource)
	cfg := ProductConfig{SearchTTL: 5 * time.Minute, DefaultPageSize: 10, MaxPageSize: 50}
	svc := NewProductService(source, fallback, pkgcache.New("test_products_fallback"), cfg, newTestLogger())

	source.On("Search", mock.Anything, mock.Anything).Return(nil, apperrors.Provider("upstream down", nil))
	fallback.On("Search", mock.Anything, mock.Anything).Return(searchPage("sample:1001"), nil)

	page, err := svc.SearchProducts(context.Background(), domain.SearchQuery{Keyword: "mug"})
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "sample:1001", page.Products[0].ID)

	// Degraded results are not cached: the next query goes back to the
	// provider first.
	_, err = svc.SearchProducts(context.Background(), domain.SearchQuery{Keyword: "mug"})
	require.NoError(t, err)
	source.AssertNumberOfCalls(t, "Search", 2)
	fallback.AssertNumberOfCalls(t, "Search", 2)
}

func TestSearchProductsFallbackSkippedForBadInput(t *testing.T) {
	source := new(mockProductSource)
	fallback := new(mockProductSource)
	cfg := ProductConfig{SearchTTL: 5 * time.Minute, DefaultPageSize: 10, MaxPageSize: 50}
	svc := NewProductService(source, fallback, pkgcache.New("test_products_fallback_input"), cfg, newTestLogger())

	_, err := svc.SearchProducts(context.Background(), domain.SearchQuery{Keyword: "   "})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	fallback.AssertNumberOfCalls(t, "Search", 0)
}

func TestGetProductDetailsCachesResult(t *testing.T) {
	source := new(mockProductSource)
	svc := newTestProductService(source)
	source.On("GetProduct", mock.Anything, "p1").Return(&domain.Product{ID: "p1"}, nil).Once()

	first, err := svc.GetProductDetails(context.Background(), "p1")
	require.NoError(t, err)
	second, err := svc.GetProductDetails(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	source.AssertNumberOfCalls(t, "GetProduct", 1)
}

func TestGetProductDetailsRequiresID(t *testing.T) {
	svc := newTestProductService(new(mockProductSource))

	_, err := svc.GetProductDetails(context.Background(), "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}
