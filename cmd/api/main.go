package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tradekart/tradekart-backend/api/routes"
	"github.com/tradekart/tradekart-backend/internal/cart"
	"github.com/tradekart/tradekart-backend/internal/checkout"
	"github.com/tradekart/tradekart-backend/internal/instructions"
	"github.com/tradekart/tradekart-backend/internal/orders"
	"github.com/tradekart/tradekart-backend/internal/payments"
	"github.com/tradekart/tradekart-backend/internal/pricing"
	"github.com/tradekart/tradekart-backend/internal/products"
	"github.com/tradekart/tradekart-backend/internal/suppliers"
	"github.com/tradekart/tradekart-backend/pkg/config"
	"github.com/tradekart/tradekart-backend/pkg/db"
	"github.com/tradekart/tradekart-backend/pkg/logger"
	"github.com/tradekart/tradekart-backend/pkg/metrics"
	"github.com/tradekart/tradekart-backend/pkg/migrate"
	"github.com/tradekart/tradekart-backend/pkg/outbox"
	"github.com/tradekart/tradekart-backend/pkg/razorpay"
	"github.com/tradekart/tradekart-backend/pkg/redis"
	"github.com/tradekart/tradekart-backend/pkg/stripe"
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

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	var razorpayClient *razorpay.Client
	if cfg.Razorpay.KeyID != "" {
		razorpayClient, err = razorpay.NewClient(context.Background(), cfg.Razorpay, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to initialize razorpay", err)
			os.Exit(1)
		}
	}
	var stripeClient *stripe.Client
	if cfg.Stripe.APIKey != "" {
		stripeClient, err = stripe.NewClient(context.Background(), cfg.Stripe, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to initialize stripe", err)
			os.Exit(1)
		}
	}

	calc, err := pricing.NewCalculator(cfg.Checkout)
	if err != nil {
		logg.Error(context.Background(), "failed to build pricing calculator", err)
		os.Exit(1)
	}

	checkoutMetrics := metrics.NewCheckoutMetrics(prometheus.DefaultRegisterer)
	emitter := outbox.NewEmitter()

	cartRepo := cart.NewRepository(dbClient.DB())
	checkoutRepo := checkout.NewRepository(dbClient.DB())
	ordersRepo := orders.NewRepository(dbClient.DB())
	paymentsRepo := payments.NewRepository(dbClient.DB())
	productsRepo := products.NewRepository(dbClient.DB())
	suppliersRepo := suppliers.NewRepository(dbClient.DB())

	suppliersService, err := suppliers.NewService(suppliersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create suppliers service", err)
		os.Exit(1)
	}
	cartService, err := cart.NewService(cartRepo, dbClient, productsRepo, suppliersService)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}
	checkoutService, err := checkout.NewService(checkoutRepo, cartRepo, dbClient, calc, emitter, checkoutMetrics, logg, cfg.Checkout)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}
	paymentsService, err := payments.NewService(paymentsRepo, checkoutRepo, dbClient, emitter, razorpayClient, stripeClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create payments service", err)
		os.Exit(1)
	}
	flagTracker, err := instructions.NewFlagTracker(redisClient, cfg.Checkout.MarkPaidTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create mark-paid tracker", err)
		os.Exit(1)
	}
	instructionsService, err := instructions.NewService(checkoutRepo, suppliersRepo, flagTracker, cfg.Checkout)
	if err != nil {
		logg.Error(context.Background(), "failed to create instructions service", err)
		os.Exit(1)
	}
	ordersService, err := orders.NewService(ordersRepo, dbClient, emitter)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			calc,
			cartService,
			checkoutService,
			paymentsService,
			instructionsService,
			ordersService,
			suppliersService,
		),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-stop:
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}
