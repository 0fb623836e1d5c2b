package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/utafrali/shopease/internal/catalog"
	"github.com/utafrali/shopease/internal/config"
	"github.com/utafrali/shopease/internal/event"
	handler "github.com/utafrali/shopease/internal/handler/http"
	"github.com/utafrali/shopease/internal/repository"
	filerepo "github.com/utafrali/shopease/internal/repository/file"
	memoryrepo "github.com/utafrali/shopease/internal/repository/memory"
	redisrepo "github.com/utafrali/shopease/internal/repository/redis"
	"github.com/utafrali/shopease/internal/service"
	"github.com/utafrali/shopease/pkg/database"
	"github.com/utafrali/shopease/pkg/health"
	"github.com/utafrali/shopease/pkg/httpclient"
	pkgkafka "github.com/utafrali/shopease/pkg/kafka"
)

// Core holds the stores and services shared by the HTTP server and the CLI.
type Core struct {
	Services handler.Services
	Catalog  *catalog.Client
	Tokens   repository.TokenRepository

	logger    *slog.Logger
	rdb       *redis.Client
	producer  *pkgkafka.Producer
	publisher *event.Publisher
}

// NewCore builds the dependency graph and restores the persisted session.
func NewCore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Core, error) {
	c := &Core{logger: logger}

	tokens, err := c.newTokenRepository(ctx, cfg)
	if err != nil {
		return nil, err
	}
	c.Tokens = tokens

	httpCfg := httpclient.DefaultConfig()
	httpCfg.Timeout = cfg.CatalogTimeout
	breaker := httpclient.NewCircuitBreakerClient(
		httpclient.New(httpCfg),
		httpclient.DefaultCircuitBreakerConfig("catalog"),
		logger,
	)
	catalogClient, err := catalog.NewClient(cfg.CatalogBaseURL, breaker, logger)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Catalog = catalogClient

	cart := service.NewCartService(logger)
	c.Services = handler.Services{
		Catalog:  service.NewCatalogService(catalogClient, logger),
		Cart:     cart,
		Session:  service.NewSessionService(catalogClient, tokens, logger),
		Checkout: service.NewCheckoutService(cart, cfg.CheckoutDelay, logger),
	}

	if cfg.EventsEnabled() {
		c.producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		c.publisher = event.NewPublisher(c.producer, logger, event.DefaultBufferSize)
		cart.Subscribe(c.publisher.CartChanged)
		c.Services.Checkout.OnOrderPlaced(c.publisher.OrderPlaced)
		logger.Info("event publishing enabled", slog.Any("brokers", cfg.KafkaBrokers))
	}

	c.Services.Session.Restore(ctx)
	return c, nil
}

// RegisterHealthChecks adds readiness checks for the dependencies in use.
func (c *Core) RegisterHealthChecks(h *health.Handler) {
	h.Register("catalog", c.Catalog.Available)
	if c.rdb != nil {
		h.Register("token_store", func(ctx context.Context) error {
			return c.rdb.Ping(ctx).Err()
		})
	}
	if c.producer != nil {
		h.Register("kafka", c.producer.Ping)
	}
}

// Close drains pending events and releases connections.
func (c *Core) Close() {
	if c.publisher != nil {
		c.publisher.Close()
	}
	if c.producer != nil {
		if err := c.producer.Close(); err != nil {
			c.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		}
	}
	if c.rdb != nil {
		if err := c.rdb.Close(); err != nil {
			c.logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}
}

func (c *Core) newTokenRepository(ctx context.Context, cfg *config.Config) (repository.TokenRepository, error) {
	switch cfg.TokenStore {
	case config.TokenStoreRedis:
		redisCfg := database.DefaultRedisConfig()
		redisCfg.Addr = cfg.RedisAddr
		redisCfg.Password = cfg.RedisPass
		redisCfg.DB = cfg.RedisDB

		pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		rdb, err := database.NewRedisClient(pingCtx, redisCfg)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		c.rdb = rdb
		c.logger.Info("connected to Redis",
			slog.String("addr", cfg.RedisAddr),
			slog.Int("db", cfg.RedisDB),
		)
		return redisrepo.NewTokenRepository(rdb, cfg.TokenKey), nil
	case config.TokenStoreFile:
		return filerepo.NewTokenRepository(cfg.TokenFile), nil
	case config.TokenStoreMemory:
		return memoryrepo.NewTokenRepository(), nil
	default:
		return nil, fmt.Errorf("unknown token store %q", cfg.TokenStore)
	}
}
