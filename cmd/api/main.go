package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/canvasshub/canvasshub-backend/api/middleware"
	"github.com/canvasshub/canvasshub-backend/api/routes"
	"github.com/canvasshub/canvasshub-backend/internal/admin"
	"github.com/canvasshub/canvasshub-backend/internal/auth"
	"github.com/canvasshub/canvasshub-backend/internal/canvass"
	"github.com/canvasshub/canvasshub-backend/internal/cart"
	product "github.com/canvasshub/canvasshub-backend/internal/products"
	"github.com/canvasshub/canvasshub-backend/internal/users"
	"github.com/canvasshub/canvasshub-backend/pkg/auth/session"
	"github.com/canvasshub/canvasshub-backend/pkg/config"
	"github.com/canvasshub/canvasshub-backend/pkg/db"
	"github.com/canvasshub/canvasshub-backend/pkg/logger"
	"github.com/canvasshub/canvasshub-backend/pkg/metrics"
	"github.com/canvasshub/canvasshub-backend/pkg/migrate"
	"github.com/canvasshub/canvasshub-backend/pkg/outbox"
	"github.com/canvasshub/canvasshub-backend/pkg/redis"
)

const (
	shutdownTimeout   = 15 * time.Second
	limiterSweepEvery = time.Minute
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}
	cfg.Service.Kind = "api"

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	bootCtx := context.Background()

	dbClient, err := db.New(bootCtx, cfg.DB, logg)
	if err != nil {
		return err
	}
	redisClient, err := redis.New(bootCtx, cfg.Redis, logg)
	if err != nil {
		return multierr.Append(err, dbClient.Close())
	}
	defer func() {
		err = multierr.Combine(err, redisClient.Close(), dbClient.Close())
	}()

	if err := migrate.MaybeRun(bootCtx, cfg, logg, dbClient); err != nil {
		return err
	}

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		return err
	}

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	httpMetrics := metrics.NewHTTPMetrics(promRegistry)
	canvassMetrics := metrics.NewCanvassMetrics(promRegistry)

	conn := dbClient.DB()
	userRepo := users.NewRepository(conn)
	productRepo := product.NewRepository(conn)
	canvassRepo := canvass.NewRepository(conn)

	productService, err := product.NewService(productRepo)
	if err != nil {
		return err
	}
	canvassService, err := canvass.NewService(canvass.ServiceParams{
		Repo:    canvassRepo,
		Catalog: productRepo,
		Tx:      dbClient,
		Outbox:  outbox.NewService(outbox.NewRepository(conn), logg),
		Metrics: canvassMetrics,
		Logger:  logg,
	})
	if err != nil {
		return err
	}
	cartService, err := cart.NewService(cart.ServiceParams{
		Store:    redisClient,
		Products: productService,
		Canvass:  canvassService,
		TTL:      cfg.Cart.SessionTTL,
		Logger:   logg,
	})
	if err != nil {
		return err
	}
	adminService, err := admin.NewService(canvassRepo, productRepo, userRepo)
	if err != nil {
		return err
	}
	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		return err
	}
	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		UserRepo:       userRepo,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	limiter := middleware.NewClientRateLimiter(cfg.RateLimit)
	go sweepLimiter(ctx, limiter)

	handler := routes.NewRouter(
		cfg, logg, dbClient, redisClient, promRegistry, httpMetrics, limiter, sessionManager,
		authService, registerService, productService, cartService, canvassService, adminService,
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":    cfg.App.Env,
		"addr":   addr,
		"driver": cfg.DB.Driver,
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logg.Info(ctx, "api server shutting down gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func sweepLimiter(ctx context.Context, limiter *middleware.ClientRateLimiter) {
	ticker := time.NewTicker(limiterSweepEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			limiter.Sweep()
		}
	}
}
