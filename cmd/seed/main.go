package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/canvasshub/canvasshub-backend/internal/canvass"
	product "github.com/canvasshub/canvasshub-backend/internal/products"
	"github.com/canvasshub/canvasshub-backend/internal/seed"
	"github.com/canvasshub/canvasshub-backend/pkg/config"
	"github.com/canvasshub/canvasshub-backend/pkg/db"
	"github.com/canvasshub/canvasshub-backend/pkg/logger"
	"github.com/canvasshub/canvasshub-backend/pkg/migrate"
	"github.com/canvasshub/canvasshub-backend/pkg/outbox"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx = logg.WithField(ctx, "env", cfg.App.Env)

	if cfg.App.IsProd() {
		fmt.Fprintln(os.Stderr, "refusing to seed a prod environment")
		os.Exit(1)
	}

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	requireResource(ctx, logg, "schema", migrate.MaybeRun(ctx, cfg, logg, dbClient))

	conn := dbClient.DB()
	canvassService, err := canvass.NewService(canvass.ServiceParams{
		Repo:    canvass.NewRepository(conn),
		Catalog: product.NewRepository(conn),
		Tx:      dbClient,
		Outbox:  outbox.NewService(outbox.NewRepository(conn), logg),
		Logger:  logg,
	})
	requireResource(ctx, logg, "canvass service", err)

	res, err := seed.Run(ctx, seed.Params{
		DB:       conn,
		Canvass:  canvassService,
		Seed:     cfg.Seed,
		Password: cfg.Password,
		Logger:   logg,
	})
	requireResource(ctx, logg, "seed", err)

	fmt.Printf("seeded admin=%s user=%s products_created=%d sample_request=%q skipped=%t\n",
		res.AdminID, res.UserID, res.ProductsCreated, res.SampleRequestID, res.SampleWasSkipped)
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
