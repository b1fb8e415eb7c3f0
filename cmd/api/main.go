package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/suryakv/ecommerce-backend/api/routes"
	authsvc "github.com/suryakv/ecommerce-backend/internal/auth"
	cartsvc "github.com/suryakv/ecommerce-backend/internal/cart"
	checkoutsvc "github.com/suryakv/ecommerce-backend/internal/checkout"
	"github.com/suryakv/ecommerce-backend/internal/inventory"
	"github.com/suryakv/ecommerce-backend/internal/notifications"
	ordersrepo "github.com/suryakv/ecommerce-backend/internal/orders"
	productsvc "github.com/suryakv/ecommerce-backend/internal/products"
	"github.com/suryakv/ecommerce-backend/internal/users"
	"github.com/suryakv/ecommerce-backend/pkg/config"
	"github.com/suryakv/ecommerce-backend/pkg/db"
	"github.com/suryakv/ecommerce-backend/pkg/logger"
	"github.com/suryakv/ecommerce-backend/pkg/metrics"
	"github.com/suryakv/ecommerce-backend/pkg/migrate"
	"github.com/suryakv/ecommerce-backend/pkg/pubsub"
	"github.com/suryakv/ecommerce-backend/pkg/redis"
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

	productRepo := productsvc.NewRepository(dbClient.DB())
	catalogCache := productsvc.NewCache(redisClient, cfg.Cache.ProductsTTL, logg)
	productService, err := productsvc.NewService(productRepo, catalogCache)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	cartRepo := cartsvc.NewRepository(dbClient.DB())
	cartService, err := cartsvc.NewService(cartRepo, productRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	authService, err := authsvc.NewService(users.NewRepository(dbClient.DB()), cfg.JWT, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	var confirmationPublisher *notifications.PubSubPublisher
	if cfg.GCP.ProjectID != "" && cfg.PubSub.OrderConfirmationTopic != "" {
		pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap pubsub", err)
			os.Exit(1)
		}
		defer func() {
			if err := pubsubClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing pubsub", err)
			}
		}()
		confirmationPublisher = notifications.NewPubSubPublisher(pubsubClient.OrderConfirmationPublisher())
	}

	dispatcher, err := notifications.NewDispatcher(confirmationPublisher, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create notification dispatcher", err)
		os.Exit(1)
	}
	defer dispatcher.Flush()

	registry := prometheus.NewRegistry()
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	orderRepo := ordersrepo.NewRepository(dbClient.DB())
	checkoutService, err := checkoutsvc.NewService(
		dbClient,
		cartRepo,
		inventory.NewStore(dbClient.DB()),
		orderRepo,
		catalogCache,
		dispatcher,
		checkoutMetrics,
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
		Handler: routes.NewRouter(routes.Dependencies{
			Config:          cfg,
			Logger:          logg,
			DBPinger:        dbClient,
			RedisPinger:     redisClient,
			AuthService:     authService,
			ProductService:  productService,
			CartService:     cartService,
			CheckoutService: checkoutService,
			OrdersRepo:      orderRepo,
			MetricsGatherer: registry,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
