package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/akaynusantara/marketplace-backend/api/routes"
	"github.com/akaynusantara/marketplace-backend/internal/address"
	"github.com/akaynusantara/marketplace-backend/internal/auth"
	"github.com/akaynusantara/marketplace-backend/internal/checkout"
	"github.com/akaynusantara/marketplace-backend/internal/couriers"
	"github.com/akaynusantara/marketplace-backend/internal/orders"
	"github.com/akaynusantara/marketplace-backend/internal/products"
	"github.com/akaynusantara/marketplace-backend/internal/shipping"
	"github.com/akaynusantara/marketplace-backend/internal/users"
	"github.com/akaynusantara/marketplace-backend/internal/vouchers"
	"github.com/akaynusantara/marketplace-backend/pkg/auth/session"
	"github.com/akaynusantara/marketplace-backend/pkg/config"
	"github.com/akaynusantara/marketplace-backend/pkg/db"
	"github.com/akaynusantara/marketplace-backend/pkg/logger"
	"github.com/akaynusantara/marketplace-backend/pkg/metrics"
	"github.com/akaynusantara/marketplace-backend/pkg/migrate"
	"github.com/akaynusantara/marketplace-backend/pkg/rajaongkir"
	"github.com/akaynusantara/marketplace-backend/pkg/redis"
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

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(dbClient.DB()),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	courierRepo := couriers.NewRepository(dbClient.DB())
	courierService, err := couriers.NewService(courierRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create courier service", err)
		os.Exit(1)
	}

	productRepo := products.NewRepository(dbClient.DB())
	productService, err := products.NewService(productRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	voucherRepo := vouchers.NewRepository(dbClient.DB())
	voucherService, err := vouchers.NewService(voucherRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create voucher service", err)
		os.Exit(1)
	}

	addressRepo := address.NewRepository(dbClient.DB())
	addressService, err := address.NewService(dbClient.DB(), addressRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create address service", err)
		os.Exit(1)
	}

	orderRepo := orders.NewRepository(dbClient.DB())
	orderService, err := orders.NewService(orderRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	shippingMetrics := metrics.NewShippingMetrics(registry)

	var rateLookup shipping.RateLookup
	if cfg.Shipping.Enabled() {
		client, err := rajaongkir.NewClient(
			cfg.Shipping.RajaOngkirAPIKey,
			rajaongkir.WithBaseURL(cfg.Shipping.RajaOngkirBaseURL),
			rajaongkir.WithTimeout(cfg.Shipping.RajaOngkirTimeout),
		)
		if err != nil {
			logg.Error(context.Background(), "failed to create rate client", err)
			os.Exit(1)
		}
		rateLookup = client
	} else {
		logg.Warn(context.Background(), "rate lookup unconfigured, quoting fallback costs only")
	}

	calculator := shipping.NewCalculator(rateLookup, shippingMetrics, logg)

	checkoutService, err := checkout.NewService(
		dbClient,
		productService,
		productRepo,
		courierService,
		voucherService,
		addressService,
		orderRepo,
		calculator,
		cfg.Shipping,
		cfg.Checkout,
		logg,
	)
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
		Handler: routes.NewRouter(routes.Deps{
			Config:    cfg,
			Logger:    logg,
			DB:        dbClient,
			Redis:     redisClient,
			Sessions:  sessionManager,
			Registry:  registry,
			Auth:      authService,
			Couriers:  courierService,
			Products:  productService,
			Vouchers:  voucherService,
			Addresses: addressService,
			Checkout:  checkoutService,
			Orders:    orderService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
