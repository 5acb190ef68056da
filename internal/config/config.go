package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/MustMe0430/Must-Me-app-sub000/pkg/config"
)

// Config holds all configuration for the review service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	// External product provider
	RakutenAppID      string `env:"RAKUTEN_APP_ID"`
	RakutenBaseURL    string `env:"RAKUTEN_BASE_URL" envDefault:"https://app.rakuten.co.jp/services/api/IchibaItem/Search/20220601"`
	PacingIntervalMs  int    `env:"PROVIDER_PACING_INTERVAL_MS" envDefault:"1000"`
	ProviderTimeoutMs int    `env:"PROVIDER_TIMEOUT_MS" envDefault:"10000"`
	MaxRetries        int    `env:"PROVIDER_MAX_RETRIES" envDefault:"3"`
	RetryWaitMs       int    `env:"PROVIDER_RETRY_WAIT_MS" envDefault:"1000"`
	RateLimitWaitMs   int    `env:"PROVIDER_RATE_LIMIT_WAIT_MS" envDefault:"2000"`

	// Pagination
	DefaultPageSize int `env:"DEFAULT_PAGE_SIZE" envDefault:"10"`
	MaxPageSize     int `env:"MAX_PAGE_SIZE" envDefault:"50"`

	// Cache TTLs
	SearchCacheTTLSecs int `env:"SEARCH_CACHE_TTL_SECONDS" envDefault:"300"`
	ReviewCacheTTLSecs int `env:"REVIEW_CACHE_TTL_SECONDS" envDefault:"60"`

	// Review trends
	TrendWindowDays int `env:"TREND_WINDOW_DAYS" envDefault:"30"`

	// Kafka
	EventsEnabled bool     `env:"EVENTS_ENABLED" envDefault:"false"`
	KafkaBrokers  []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load review service config: %w", err)
	}
	return cfg, nil
}

// Validate checks the cross-field rules the env tags cannot express. It is
// invoked by pkgconfig.Load.
func (c *Config) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.Environment == "production" && c.RakutenAppID == "" {
		return fmt.Errorf("RAKUTEN_APP_ID is required in production")
	}
	if c.MaxRetries < 1 {
		return fmt.Errorf("PROVIDER_MAX_RETRIES must be at least 1, got %d", c.MaxRetries)
	}
	if c.DefaultPageSize < 1 || c.DefaultPageSize > c.MaxPageSize {
		return fmt.Errorf("DEFAULT_PAGE_SIZE must be between 1 and %d, got %d", c.MaxPageSize, c.DefaultPageSize)
	}
	if c.EventsEnabled && len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required when events are enabled")
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1.0 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %f", c.OTELSampleRate)
	}
	return nil
}

// DegradedMode reports whether the service should fall back to the sample
// catalog. Only non-production environments may run without provider
// credentials.
func (c *Config) DegradedMode() bool {
	return c.RakutenAppID == "" && c.Environment != "production"
}

func (c *Config) PacingInterval() time.Duration {
	return time.Duration(c.PacingIntervalMs) * time.Millisecond
}

func (c *Config) ProviderTimeout() time.Duration {
	return time.Duration(c.ProviderTimeoutMs) * time.Millisecond
}

func (c *Config) RetryWait() time.Duration {
	return time.Duration(c.RetryWaitMs) * time.Millisecond
}

func (c *Config) RateLimitWait() time.Duration {
	return time.Duration(c.RateLimitWaitMs) * time.Millisecond
}

func (c *Config) SearchCacheTTL() time.Duration {
	return time.Duration(c.SearchCacheTTLSecs) * time.Second
}

func (c *Config) ReviewCacheTTL() time.Duration {
	return time.Duration(c.ReviewCacheTTLSecs) * time.Second
}
