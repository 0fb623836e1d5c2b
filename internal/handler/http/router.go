package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/shopease/internal/service"
	"github.com/utafrali/shopease/pkg/health"
	"github.com/utafrali/shopease/pkg/middleware"
)

// Services are the stores and services the API exposes.
type Services struct {
	Catalog  *service.CatalogService
	Cart     *service.CartService
	Session  *service.SessionService
	Checkout *service.CheckoutService
}

// RouterConfig holds router-level settings.
type RouterConfig struct {
	ServiceName    string
	RequestTimeout time.Duration
	// CacheMaxAge enables Cache-Control on catalog reads when positive.
	CacheMaxAge int
	CORS        middleware.CORSConfig
}

// NewRouter creates a chi router with all storefront routes registered.
// loginLimiter may be nil.
func NewRouter(
	svcs Services,
	cfg RouterConfig,
	healthHandler *health.Handler,
	loginLimiter *middleware.RateLimiter,
	logger *slog.Logger,
) http.Handler {
	if cfg.ServiceName == "" {
		cfg.ServiceName = "storefront"
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(cfg.RequestTimeout))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics(cfg.ServiceName))
	r.Use(middleware.Tracing(cfg.ServiceName))
	r.Use(middleware.RequestLogger(logger, func(_ context.Context) string {
		return svcs.Session.Username()
	}))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	productHandler := NewProductHandler(svcs.Catalog, logger)
	sessionHandler := NewSessionHandler(svcs.Session, logger)
	cartHandler := NewCartHandler(svcs.Cart, svcs.Catalog, logger)
	checkoutHandler := NewCheckoutHandler(svcs.Checkout, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		// Catalog reads
		r.Group(func(r chi.Router) {
			r.Use(middleware.CacheControl(cfg.CacheMaxAge))
			r.Get("/products", productHandler.ListProducts)
			r.Get("/products/{id}", productHandler.GetProduct)
			r.Get("/categories", productHandler.ListCategories)
		})

		r.Route("/session", func(r chi.Router) {
			r.Use(middleware.NoStore)
			r.Get("/", sessionHandler.GetSession)
			r.With(rateLimited(loginLimiter)).Post("/login", sessionHandler.Login)
			r.Post("/logout", sessionHandler.Logout)
		})

		// Routes behind the session
		r.Group(func(r chi.Router) {
			r.Use(middleware.NoStore)
			r.Use(RequireSession(svcs.Session))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartHandler.GetCart)
				r.Delete("/", cartHandler.ClearCart)
				r.Post("/items", cartHandler.AddItem)
				r.Put("/items/{productId}", cartHandler.UpdateQuantity)
				r.Delete("/items/{productId}", cartHandler.RemoveItem)
			})
			r.Post("/checkout", checkoutHandler.Checkout)
		})
	})

	return r
}

func rateLimited(rl *middleware.RateLimiter) func(http.Handler) http.Handler {
	if rl == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return rl.Middleware
}
