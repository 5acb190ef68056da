package httpclient

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Config holds HTTP client configuration.
type Config struct {
	// Timeout bounds one logical request including every retry and backoff,
	// so a caller is never left waiting across compounding backoffs.
	Timeout time.Duration

	// MaxAttempts is the total attempt budget for one logical request.
	MaxAttempts int

	// RetryWait is the base backoff after a generic failure; the wait before
	// retrying attempt n is RetryWait × n.
	RetryWait time.Duration

	// RateLimitWait is the base backoff after a 429 response; the wait before
	// retrying attempt n is RateLimitWait × n.
	RateLimitWait time.Duration

	// PacingInterval is the minimum delay between consecutive requests.
	PacingInterval time.Duration

	MaxConnsPerHost int
}

// DefaultConfig returns sensible defaults for talking to a rate-limited
// product provider.
func DefaultConfig() Config {
	return Config{
		Timeout:         30 * time.Second,
		MaxAttempts:     3,
		RetryWait:       time.Second,
		RateLimitWait:   2 * time.Second,
		PacingInterval:  time.Second,
		MaxConnsPerHost: 100,
	}
}

var providerRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "provider_requests_total",
		Help: "Total number of HTTP attempts against the external provider",
	},
	[]string{"outcome"},
)

// Client executes HTTP calls against the external product provider with
// request pacing, bounded retries, and special-cased rate-limit backoff.
// No caching happens at this layer.
type Client struct {
	httpClient *http.Client
	pacer      *Pacer
	config     Config
	logger     *slog.Logger

	// sleep is swapped out in tests to avoid real backoff waits.
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a client with connection pooling and a shared pacer.
func New(cfg Config, logger *slog.Logger) *Client {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   cfg.MaxConnsPerHost,
		MaxConnsPerHost:       cfg.MaxConnsPerHost,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &Client{
		httpClient: &http.Client{Transport: transport},
		pacer:      NewPacer(cfg.PacingInterval),
		config:     cfg,
		logger:     logger,
		sleep:      sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Do executes one logical request, retrying up to the attempt budget. Each
// attempt awaits the pacer first. A 429 response backs off RateLimitWait × n
// before attempt n+1; any other failure backs off RetryWait × n. After the
// budget is exhausted the last failure is returned wrapped in a terminal
// ProviderError. All-or-nothing: no partial result survives cancellation.
func (c *Client) Do(ctx context.Context, req *http.Request) ([]byte, error) {
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	var lastErr *ProviderError

	for attempt := 1; attempt <= c.config.MaxAttempts; attempt++ {
		if err := c.pacer.Wait(ctx); err != nil {
			return nil, fmt.Errorf("await request pacer: %w", err)
		}

		body, provErr := c.attempt(ctx, req, attempt)
		if provErr == nil {
			providerRequestsTotal.WithLabelValues("success").Inc()
			return body, nil
		}
		lastErr = provErr

		wait := c.config.RetryWait * time.Duration(attempt)
		if provErr.StatusCode == http.StatusTooManyRequests {
			providerRequestsTotal.WithLabelValues("rate_limited").Inc()
			wait = c.config.RateLimitWait * time.Duration(attempt)
			c.logger.WarnContext(ctx, "provider rate limited",
				slog.Int("attempt", attempt),
				slog.Duration("backoff", wait),
			)
		} else {
			providerRequestsTotal.WithLabelValues("failure").Inc()
			c.logger.WarnContext(ctx, "provider request failed",
				slog.Int("attempt", attempt),
				slog.Int("status", provErr.StatusCode),
				slog.Duration("backoff", wait),
				slog.String("error", provErr.Error()),
			)
		}

		if attempt == c.config.MaxAttempts {
			break
		}
		if err := c.sleep(ctx, wait); err != nil {
			return nil, fmt.Errorf("retry backoff: %w", err)
		}
	}

	lastErr.Attempts = c.config.MaxAttempts
	return nil, lastErr
}

// attempt performs a single round trip and fully consumes the response.
func (c *Client) attempt(ctx context.Context, req *http.Request, attempt int) ([]byte, *ProviderError) {
	resp, err := c.httpClient.Do(req.Clone(ctx))
	if err != nil {
		return nil, newTransportError(err, attempt)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20)) // 4 MB limit
	if err != nil {
		return nil, newTransportError(fmt.Errorf("read response body: %w", err), attempt)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newStatusError(resp.StatusCode, string(body), attempt)
	}

	return body, nil
}

// Get performs a paced, retried GET request and returns the response body.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create GET request: %w", err)
	}
	return c.Do(ctx, req)
}
