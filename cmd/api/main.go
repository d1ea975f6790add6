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

	"github.com/mustt-clothing/storefront/api/controllers"
	"github.com/mustt-clothing/storefront/api/routes"
	"github.com/mustt-clothing/storefront/internal/cart"
	"github.com/mustt-clothing/storefront/internal/catalog"
	"github.com/mustt-clothing/storefront/internal/identity"
	"github.com/mustt-clothing/storefront/internal/orders"
	stripewebhook "github.com/mustt-clothing/storefront/internal/webhooks/stripe"
	"github.com/mustt-clothing/storefront/pkg/config"
	"github.com/mustt-clothing/storefront/pkg/db"
	"github.com/mustt-clothing/storefront/pkg/logger"
	"github.com/mustt-clothing/storefront/pkg/metrics"
	"github.com/mustt-clothing/storefront/pkg/migrate"
	"github.com/mustt-clothing/storefront/pkg/outbox"
	"github.com/mustt-clothing/storefront/pkg/redis"
	"github.com/mustt-clothing/storefront/pkg/stripe"
)

const shutdownTimeout = 15 * time.Second

type catalogCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	ProductKey(slug string) string
}

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
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var closers []func() error
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			err = multierr.Append(err, closers[i]())
		}
	}()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	closers = append(closers, dbClient.Close)

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	readiness := map[string]controllers.Pinger{"db": dbClient}

	// Redis is optional in dev. Interfaces stay nil when it is absent.
	var (
		cache            catalogCache
		idempotencyStore redis.IdempotencyStore
		eventDeduper     redis.EventDeduper
	)
	if cfg.Redis.Enabled() {
		redisClient, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return err
		}
		closers = append(closers, redisClient.Close)
		cache = redisClient
		idempotencyStore = redisClient
		eventDeduper = redisClient
		readiness["redis"] = redisClient
	} else {
		logg.Warn(ctx, "redis not configured; product cache, idempotency keys and webhook dedupe disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	httpMetrics := metrics.NewHTTPMetrics(registry)
	cartMetrics := metrics.NewCartMetrics(registry)

	catalogService, err := catalog.NewService(
		catalog.NewRepository(dbClient.DB()),
		dbClient,
		catalog.NewBuilder(identity.NewDeriver(cfg.App.SKUPrefix)),
		cache,
		cfg.Cache.ProductTTL,
		logg,
	)
	if err != nil {
		return err
	}

	cartService, err := cart.NewService(cart.NewRepository(dbClient.DB()), catalogService, cartMetrics, logg)
	if err != nil {
		return err
	}

	// order.placed is written to the outbox with the order; cmd/outbox-publisher delivers it.
	events, err := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)
	if err != nil {
		return err
	}

	ordersService, err := orders.NewService(orders.NewRepository(dbClient.DB()), dbClient, cartService, events, logg)
	if err != nil {
		return err
	}

	var (
		stripeClient *stripe.Client
		webhookSvc   *stripewebhook.Service
		webhookGuard *stripewebhook.IdempotencyGuard
	)
	switch {
	case !cfg.Stripe.Enabled():
		logg.Warn(ctx, "stripe webhook secret not configured; checkout completion disabled")
	case eventDeduper == nil:
		logg.Warn(ctx, "stripe webhook requires redis for event dedupe; checkout completion disabled")
	default:
		if stripeClient, err = stripe.NewClient(ctx, cfg.Stripe, logg); err != nil {
			return err
		}
		if webhookSvc, err = stripewebhook.NewService(ordersService, logg); err != nil {
			return err
		}
		if webhookGuard, err = stripewebhook.NewIdempotencyGuard(eventDeduper, cfg.Cache.WebhookEventTTL); err != nil {
			return err
		}
	}

	addr := ":" + cfg.App.Port
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			readiness,
			registry,
			httpMetrics,
			idempotencyStore,
			catalogService,
			cartService,
			ordersService,
			stripeClient,
			webhookSvc,
			webhookGuard,
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "addr": addr}), "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logg.Info(context.Background(), "api server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
