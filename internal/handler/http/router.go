// Package http wires the review service's HTTP surface: product search and
// detail endpoints backed by the external provider, and the review endpoints
// backed by the in-process store.
package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MustMe0430/Must-Me-app-sub000/pkg/health"
	"github.com/MustMe0430/Must-Me-app-sub000/pkg/middleware"

	"github.com/MustMe0430/Must-Me-app-sub000/internal/service"
)

// RouterConfig holds the cross-cutting options for the HTTP router.
type RouterConfig struct {
	ServiceName        string
	CORSAllowedOrigins []string
	TracingEnabled     bool
}

// NewRouter creates a chi router with all review service routes registered.
func NewRouter(
	productService *service.ProductService,
	reviewService *service.ReviewService,
	healthHandler *health.Handler,
	cfg RouterConfig,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	corsCfg := middleware.DefaultCORSConfig()
	if len(cfg.CORSAllowedOrigins) > 0 {
		corsCfg.AllowedOrigins = cfg.CORSAllowedOrigins
	}
	r.Use(middleware.CORS(corsCfg))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics(cfg.ServiceName))
	if cfg.TracingEnabled {
		r.Use(middleware.Tracing(cfg.ServiceName))
	}

	// Health and metrics endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	// Product API endpoints
	productHandler := NewProductHandler(productService, logger)

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/search", productHandler.SearchProducts)
		r.Get("/{productId}", productHandler.GetProduct)
	})

	// Review API endpoints (nested under products)
	reviewHandler := NewReviewHandler(reviewService, logger)

	r.Route("/api/v1/products/{productId}/reviews", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/", reviewHandler.ListReviews)
		r.Post("/", reviewHandler.CreateReview)
		r.Get("/stats", reviewHandler.GetStats)
		r.Get("/trends", reviewHandler.GetTrends)
		r.Get("/tags", reviewHandler.GetTopTags)
	})

	// Review reaction endpoints
	r.Route("/api/v1/reviews/{reviewId}", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Post("/like", reviewHandler.LikeReview)
		r.Post("/helpful", reviewHandler.MarkHelpful)
	})

	return r
}

// ContentTypeJSON sets the response content type for API routes.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}
