package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgcache "github.com/MustMe0430/Must-Me-app-sub000/pkg/cache"
	apperrors "github.com/MustMe0430/Must-Me-app-sub000/pkg/errors"
	"github.com/MustMe0430/Must-Me-app-sub000/pkg/health"

	"github.com/MustMe0430/Must-Me-app-sub000/internal/domain"
	"github.com/MustMe0430/Must-Me-app-sub000/internal/event"
	"github.com/MustMe0430/Must-Me-app-sub000/internal/repository/memory"
	"github.com/MustMe0430/Must-Me-app-sub000/internal/service"
)

// stubSource serves canned products for handler tests.
type stubSource struct {
	page *domain.SearchPage
	err  error
}

func (s *stubSource) Search(context.Context, domain.SearchQuery) (*domain.SearchPage, error) {
	return s.page, s.err
}

func (s *stubSource) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.page.Products {
		if s.page.Products[i].ID == id {
			return &s.page.Products[i], nil
		}
	}
	return nil, apperrors.NotFound("product", id)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRouter(t *testing.T, source *stubSource) http.Handler {
	t.Helper()
	logger := quietLogger()

	productSvc := service.NewProductService(source, nil, pkgcache.New("test_handler_products"), service.ProductConfig{
		SearchTTL:       time.Minute,
		DefaultPageSize: 10,
		MaxPageSize:     50,
	}, logger)

	reviewSvc := service.NewReviewService(memory.NewReviewRepository(), pkgcache.New("test_handler_reviews"), event.NoopPublisher{}, service.ReviewConfig{
		CacheTTL:        time.Minute,
		DefaultPageSize: 10,
		MaxPageSize:     50,
		TrendWindowDays: 30,
		TopTagsLimit:    10,
	}, logger)

	return NewRouter(productSvc, reviewSvc, health.NewHandler(), RouterConfig{ServiceName: "review-service-test"}, logger)
}

func defaultSource() *stubSource {
	return &stubSource{page: &domain.SearchPage{
		Products: []domain.Product{
			{ID: "shop:1", Name: "Ceramic Mug", Category: "kitchen"},
			{ID: "shop:2", Name: "Kettle", Category: "kitchen"},
		},
		Total:    2,
		Page:     1,
		PageSize: 10,
	}}
}

func doRequest(t *testing.T, handler http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, target any) {
	t.Helper()
	var envelope struct {
		Data  json.RawMessage `json:"data"`
		Error json.RawMessage `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NotEmpty(t, envelope.Data, "expected data in response, got error: %s", envelope.Error)
	require.NoError(t, json.Unmarshal(envelope.Data, target))
}

func TestSearchProductsEndpoint(t *testing.T) {
	router := newTestRouter(t, defaultSource())

	rec := doRequest(t, router, http.MethodGet, "/api/v1/products/search?keyword=mug", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var page domain.SearchPage
	decodeData(t, rec, &page)
	assert.Len(t, page.Products, 2)
	assert.Equal(t, 2, page.Total)
}

func TestSearchProductsRequiresCriteria(t *testing.T) {
	router := newTestRouter(t, defaultSource())

	rec := doRequest(t, router, http.MethodGet, "/api/v1/products/search", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchProductsRejectsBadParams(t *testing.T) {
	router := newTestRouter(t, defaultSource())

	for _, target := range []string{
		"/api/v1/products/search?keyword=mug&page=zero",
		"/api/v1/products/search?keyword=mug&page=-1",
		"/api/v1/products/search?keyword=mug&page_size=huge",
		"/api/v1/products/search?keyword=mug&min_price=abc",
		"/api/v1/products/search?keyword=mug&max_price=-5",
	} {
		rec := doRequest(t, router, http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, "target %s", target)
	}
}

func TestSearchProductsProviderFailure(t *testing.T) {
	source := &stubSource{err: apperrors.Provider("upstream down", nil)}
	router := newTestRouter(t, source)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/products/search?keyword=mug", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "PROVIDER_ERROR")
}

func TestGetProductEndpoint(t *testing.T) {
	router := newTestRouter(t, defaultSource())

	rec := doRequest(t, router, http.MethodGet, "/api/v1/products/shop:1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var product domain.Product
	decodeData(t, rec, &product)
	assert.Equal(t, "Ceramic Mug", product.Name)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/products/shop:404", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(t, defaultSource())

	rec := doRequest(t, router, http.MethodGet, "/health/live", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/health/ready", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
