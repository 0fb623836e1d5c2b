package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/utafrali/shopease/pkg/config"
)

// Token store drivers.
const (
	TokenStoreRedis  = "redis"
	TokenStoreFile   = "file"
	TokenStoreMemory = "memory"
)

// Config holds all configuration for the storefront.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort        int           `env:"HTTP_PORT" envDefault:"8080"`
	RequestTimeout  time.Duration `env:"HTTP_REQUEST_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"15s"`
	CacheMaxAge     int           `env:"HTTP_CACHE_MAX_AGE" envDefault:"0"`

	// Remote catalog
	CatalogBaseURL string        `env:"CATALOG_BASE_URL" envDefault:"https://fakestoreapi.com"`
	CatalogTimeout time.Duration `env:"CATALOG_TIMEOUT" envDefault:"10s"`

	// Session token persistence
	TokenStore string `env:"TOKEN_STORE" envDefault:"redis"`
	TokenKey   string `env:"TOKEN_KEY" envDefault:"token"`
	TokenFile  string `env:"TOKEN_FILE" envDefault:".shopease/token"`

	// Redis
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Checkout
	CheckoutDelay time.Duration `env:"CHECKOUT_DELAY" envDefault:"1500ms"`

	// Login rate limiting per client IP
	LoginRateLimitRPS   float64 `env:"LOGIN_RATE_LIMIT_RPS" envDefault:"1"`
	LoginRateLimitBurst int     `env:"LOGIN_RATE_LIMIT_BURST" envDefault:"5"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:5173" envSeparator:","`

	// Kafka; events are disabled when empty
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// EventsEnabled reports whether Kafka brokers are configured.
func (c *Config) EventsEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	switch c.TokenStore {
	case TokenStoreRedis, TokenStoreFile, TokenStoreMemory:
	default:
		return fmt.Errorf("TOKEN_STORE must be one of redis, file, memory: got %q", c.TokenStore)
	}
	if c.TokenStore == TokenStoreFile && c.TokenFile == "" {
		return fmt.Errorf("TOKEN_FILE is required when TOKEN_STORE=file")
	}
	if c.CatalogBaseURL == "" {
		return fmt.Errorf("CATALOG_BASE_URL is required")
	}
	if c.CatalogTimeout <= 0 {
		return fmt.Errorf("CATALOG_TIMEOUT must be positive")
	}
	if c.CheckoutDelay < 0 {
		return fmt.Errorf("CHECKOUT_DELAY must not be negative")
	}
	if c.LoginRateLimitRPS <= 0 || c.LoginRateLimitBurst < 1 {
		return fmt.Errorf("login rate limit must allow at least one request")
	}
	if c.CacheMaxAge < 0 {
		return fmt.Errorf("HTTP_CACHE_MAX_AGE must not be negative")
	}
	if c.OTELSampleRate < 0.0 || c.OTELSampleRate > 1.0 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %f", c.OTELSampleRate)
	}
	return nil
}
