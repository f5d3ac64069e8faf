package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/canvasshub/canvasshub-backend/api/controllers"
	"github.com/canvasshub/canvasshub-backend/api/middleware"
	"github.com/canvasshub/canvasshub-backend/internal/admin"
	"github.com/canvasshub/canvasshub-backend/internal/auth"
	"github.com/canvasshub/canvasshub-backend/internal/canvass"
	"github.com/canvasshub/canvasshub-backend/internal/cart"
	product "github.com/canvasshub/canvasshub-backend/internal/products"
	"github.com/canvasshub/canvasshub-backend/pkg/auth/session"
	"github.com/canvasshub/canvasshub-backend/pkg/config"
	"github.com/canvasshub/canvasshub-backend/pkg/db"
	"github.com/canvasshub/canvasshub-backend/pkg/enums"
	"github.com/canvasshub/canvasshub-backend/pkg/logger"
	"github.com/canvasshub/canvasshub-backend/pkg/metrics"
	"github.com/canvasshub/canvasshub-backend/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

// redisStore is the slice of the Redis client the HTTP layer touches.
type redisStore interface {
	redis.Pinger
	redis.IdempotencyStore
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
	RateLimitKey(scope string) string
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient redisStore,
	gatherer prometheus.Gatherer,
	httpMetrics *metrics.HTTPMetrics,
	limiter *middleware.ClientRateLimiter,
	sessionManager sessionManager,
	authService auth.Service,
	registerService auth.RegisterService,
	productService product.Service,
	cartService cart.Service,
	canvassService canvass.Service,
	adminService admin.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
		httpMetrics.Middleware,
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(limiter, logg))
			r.Use(middleware.Idempotency(redisClient, logg))

			r.Route("/auth", func(r chi.Router) {
				r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(authService, logg))
				r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(registerService, authService, logg))
				r.Post("/logout", controllers.AuthLogout(sessionManager, cfg.JWT, logg))
				r.Post("/refresh", controllers.AuthRefresh(sessionManager, cfg.JWT, logg))
			})

			r.Route("/products", func(r chi.Router) {
				r.Get("/", controllers.ProductList(productService, logg))
				r.Get("/categories", controllers.ProductCategories(productService, logg))
				r.Get("/{productId}", controllers.ProductDetail(productService, logg))
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, sessionManager, logg))
			r.Use(middleware.RateLimit(limiter, logg))
			r.Use(middleware.Idempotency(redisClient, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartGet(cartService, logg))
				r.Delete("/", controllers.CartClear(cartService, logg))
				r.Post("/items", controllers.CartAddItem(cartService, logg))
				r.Patch("/items/{productId}", controllers.CartUpdateItem(cartService, logg))
				r.Delete("/items/{productId}", controllers.CartRemoveItem(cartService, logg))
				r.Post("/submit", controllers.CartSubmit(cartService, logg))
			})

			r.Route("/canvass", func(r chi.Router) {
				r.Post("/", controllers.CanvassCreate(canvassService, logg))
				r.Get("/", controllers.CanvassListMine(canvassService, logg))
				r.Get("/{requestId}", controllers.CanvassDetail(canvassService, logg))
			})
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionManager, logg))
		r.Use(middleware.RequireRole(enums.RoleAdmin, logg))
		r.Use(middleware.RateLimit(limiter, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Get("/stats", controllers.AdminStats(adminService, logg))
		r.Route("/canvass", func(r chi.Router) {
			r.Get("/", controllers.AdminCanvassList(canvassService, logg))
			r.Get("/{requestId}", controllers.CanvassDetail(canvassService, logg))
			r.Patch("/{requestId}", controllers.AdminCanvassUpdateStatus(canvassService, logg))
		})
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.AdminProductList(productService, logg))
			r.Post("/", controllers.AdminProductCreate(productService, logg))
		})
	})

	return r
}
