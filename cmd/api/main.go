package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mpoberly/storefront-backend/api/routes"
	cartsvc "github.com/mpoberly/storefront-backend/internal/cart"
	"github.com/mpoberly/storefront-backend/internal/catalog"
	checkoutsvc "github.com/mpoberly/storefront-backend/internal/checkout"
	couponsvc "github.com/mpoberly/storefront-backend/internal/coupons"
	"github.com/mpoberly/storefront-backend/internal/orders"
	paymentsvc "github.com/mpoberly/storefront-backend/internal/payments"
	shippingsvc "github.com/mpoberly/storefront-backend/internal/shipping"
	"github.com/mpoberly/storefront-backend/internal/stores"
	"github.com/mpoberly/storefront-backend/pkg/auth/session"
	"github.com/mpoberly/storefront-backend/pkg/config"
	"github.com/mpoberly/storefront-backend/pkg/db"
	"github.com/mpoberly/storefront-backend/pkg/logger"
	"github.com/mpoberly/storefront-backend/pkg/migrate"
	"github.com/mpoberly/storefront-backend/pkg/redis"
	"github.com/mpoberly/storefront-backend/pkg/square"
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

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	squareClient, err := square.NewClient(context.Background(), cfg.Square, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap square client", err)
		os.Exit(1)
	}

	gormDB := dbClient.DB()
	availability := stores.NewAvailabilityManager()
	rules := orders.NewRuleSet(
		cartsvc.NewItemAvailabilityRule(availability),
		couponsvc.NewValidityRule(),
	)
	ordersRepo := orders.NewRepository(gormDB, rules)
	storesRepo := stores.NewRepository(gormDB)

	cartService, err := cartsvc.NewService(
		ordersRepo,
		catalog.NewRepository(gormDB),
		catalog.NewChainPriceResolver(),
		stores.NewResolver(),
		availability,
		cartsvc.NewManager(),
		cartsvc.NewDefaultFieldPolicy(),
		dbClient,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	couponService, err := couponsvc.NewService(ordersRepo, couponsvc.NewRepository(gormDB), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create coupon service", err)
		os.Exit(1)
	}

	shippingService, err := shippingsvc.NewService(
		ordersRepo,
		shippingsvc.NewRepository(gormDB),
		shippingsvc.NewSingleShipmentPacker(),
		cfg.Checkout.DefaultPackageType,
		dbClient,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create shipping service", err)
		os.Exit(1)
	}

	paymentsService, err := paymentsvc.NewService(paymentsvc.NewRepository(gormDB), squareClient, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create payments service", err)
		os.Exit(1)
	}

	checkoutService, err := checkoutsvc.NewService(ordersRepo, shippingService, paymentsService, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
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
			sessionManager,
			storesRepo,
			ordersRepo,
			cartService,
			couponService,
			shippingService,
			checkoutService,
			paymentsService,
			prometheus.NewRegistry(),
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
