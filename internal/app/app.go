package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/utafrali/shopease/internal/config"
	handler "github.com/utafrali/shopease/internal/handler/http"
	"github.com/utafrali/shopease/pkg/health"
	"github.com/utafrali/shopease/pkg/middleware"
	"github.com/utafrali/shopease/pkg/tracing"
)

// ServiceName labels logs, metrics and traces.
const ServiceName = "storefront"

// App wires together all dependencies and runs the storefront HTTP server.
type App struct {
	cfg             *config.Config
	logger          *slog.Logger
	core            *Core
	loginLimiter    *middleware.RateLimiter
	tracingShutdown tracing.Shutdown
	httpServer      *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
// The persisted session is restored before the server starts listening.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	shutdownTracing, err := tracing.Init(ctx, tracing.Config{
		ServiceName:  ServiceName,
		Environment:  cfg.Environment,
		OTLPEndpoint: cfg.OTELEndpoint,
		SampleRate:   cfg.OTELSampleRate,
		Enabled:      cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	core, err := NewCore(ctx, cfg, logger)
	if err != nil {
		_ = shutdownTracing(context.Background())
		return nil, err
	}

	healthHandler := health.NewHandler()
	core.RegisterHealthChecks(healthHandler)

	loginLimiter := middleware.NewRateLimiter(cfg.LoginRateLimitRPS, cfg.LoginRateLimitBurst, 0, logger)

	router := handler.NewRouter(core.Services, handler.RouterConfig{
		ServiceName:    ServiceName,
		RequestTimeout: cfg.RequestTimeout,
		CacheMaxAge:    cfg.CacheMaxAge,
		CORS:           middleware.DefaultCORSConfig(cfg.CORSAllowedOrigins...),
	}, healthHandler, loginLimiter, logger)

	// WriteTimeout leaves room for the simulated checkout delay.
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + cfg.CheckoutDelay + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &App{
		cfg:             cfg,
		logger:          logger,
		core:            core,
		loginLimiter:    loginLimiter,
		tracingShutdown: shutdownTracing,
		httpServer:      httpServer,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
			slog.String("session", string(a.core.Services.Session.Session().State)),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		_ = a.Shutdown()
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	a.loginLimiter.Close()
	a.core.Close()

	if err := a.tracingShutdown(shutdownCtx); err != nil {
		a.logger.Error("tracing shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
