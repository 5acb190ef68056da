// Package app wires together all dependencies and runs the review service.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	pkgcache "github.com/MustMe0430/Must-Me-app-sub000/pkg/cache"
	"github.com/MustMe0430/Must-Me-app-sub000/pkg/health"
	"github.com/MustMe0430/Must-Me-app-sub000/pkg/httpclient"
	pkgkafka "github.com/MustMe0430/Must-Me-app-sub000/pkg/kafka"
	"github.com/MustMe0430/Must-Me-app-sub000/pkg/tracing"

	"github.com/MustMe0430/Must-Me-app-sub000/internal/config"
	"github.com/MustMe0430/Must-Me-app-sub000/internal/event"
	handler "github.com/MustMe0430/Must-Me-app-sub000/internal/handler/http"
	"github.com/MustMe0430/Must-Me-app-sub000/internal/provider"
	"github.com/MustMe0430/Must-Me-app-sub000/internal/provider/rakuten"
	"github.com/MustMe0430/Must-Me-app-sub000/internal/provider/sample"
	"github.com/MustMe0430/Must-Me-app-sub000/internal/repository/memory"
	"github.com/MustMe0430/Must-Me-app-sub000/internal/service"
)

// App holds the wired components of the review service.
type App struct {
	cfg             *config.Config
	logger          *slog.Logger
	producer        *pkgkafka.Producer
	httpServer      *http.Server
	tracingShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize tracing.
	tracingShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    "review-service",
		ServiceVersion: "1.0.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	// Kafka producer, or a no-op publisher when events are disabled.
	var (
		producer  *pkgkafka.Producer
		publisher event.Publisher = event.NoopPublisher{}
	)
	if cfg.EventsEnabled {
		kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
		producer = pkgkafka.NewProducer(kafkaCfg, logger)
		publisher = event.NewProducer(producer, logger)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}

	// Product source: the external provider, or the sample catalog when no
	// credentials are configured outside production. Outside production the
	// sample catalog also backs search when the provider is unreachable;
	// reviews never degrade to sample data.
	var source, fallback provider.ProductSource
	var breaker *httpclient.CircuitBreakerClient
	if cfg.DegradedMode() {
		source = sample.New()
		logger.Warn("no provider credentials configured, serving sample catalog")
	} else {
		if cfg.Environment != "production" {
			fallback = sample.New()
		}
		clientCfg := httpclient.DefaultConfig()
		clientCfg.Timeout = cfg.ProviderTimeout()
		clientCfg.MaxAttempts = cfg.MaxRetries
		clientCfg.RetryWait = cfg.RetryWait()
		clientCfg.RateLimitWait = cfg.RateLimitWait()
		clientCfg.PacingInterval = cfg.PacingInterval()
		client := httpclient.New(clientCfg, logger)
		breaker = httpclient.NewCircuitBreakerClient(client, httpclient.DefaultCircuitBreakerConfig("rakuten"), logger)
		source = rakuten.NewClient(rakuten.Config{
			BaseURL:       cfg.RakutenBaseURL,
			ApplicationID: cfg.RakutenAppID,
		}, breaker, logger)
		logger.Info("provider client initialized",
			slog.String("base_url", cfg.RakutenBaseURL),
			slog.Duration("pacing_interval", cfg.PacingInterval()),
		)
	}

	// Build the dependency graph.
	productService := service.NewProductService(source, fallback, pkgcache.New("products"), service.ProductConfig{
		SearchTTL:       cfg.SearchCacheTTL(),
		DefaultPageSize: cfg.DefaultPageSize,
		MaxPageSize:     cfg.MaxPageSize,
	}, logger)

	repo := memory.NewReviewRepository()
	reviewService := service.NewReviewService(repo, pkgcache.New("reviews"), publisher, service.ReviewConfig{
		CacheTTL:        cfg.ReviewCacheTTL(),
		DefaultPageSize: cfg.DefaultPageSize,
		MaxPageSize:     cfg.MaxPageSize,
		TrendWindowDays: cfg.TrendWindowDays,
		TopTagsLimit:    10,
	}, logger)

	// Health checks. Event publishing is never fatal, so kafka only degrades
	// readiness. An open provider breaker is fatal only when there is no
	// sample fallback to serve search from.
	healthHandler := health.NewHandler()
	if breaker != nil {
		breakerCheck := func(context.Context) error {
			if state := breaker.State(); state.String() == "open" {
				return fmt.Errorf("circuit breaker is open")
			}
			return nil
		}
		if fallback != nil {
			healthHandler.RegisterOptional("provider_breaker", breakerCheck)
		} else {
			healthHandler.Register("provider_breaker", breakerCheck)
		}
	}
	if producer != nil {
		healthHandler.RegisterOptional("kafka", func(ctx context.Context) error {
			return producer.Ping(ctx)
		})
	}

	// HTTP router.
	router := handler.NewRouter(productService, reviewService, healthHandler, handler.RouterConfig{
		ServiceName:        "review-service",
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		TracingEnabled:     cfg.OTELEnabled,
	}, logger)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:             cfg,
		logger:          logger,
		producer:        producer,
		httpServer:      httpServer,
		tracingShutdown: tracingShutdown,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		}
	}

	if err := a.tracingShutdown(shutdownCtx); err != nil {
		a.logger.Error("tracing shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
