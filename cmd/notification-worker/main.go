package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/suryakv/ecommerce-backend/internal/notifications"
	"github.com/suryakv/ecommerce-backend/pkg/config"
	"github.com/suryakv/ecommerce-backend/pkg/logger"
	"github.com/suryakv/ecommerce-backend/pkg/pubsub"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "notification-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "notification-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.PubSub.OrderConfirmationSubscription == "" {
		logg.Error(ctx, "ECOM_PUBSUB_ORDER_CONFIRMATION_SUBSCRIPTION is required", nil)
		os.Exit(1)
	}

	pubsubClient, err := pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap pubsub", err)
		os.Exit(1)
	}
	defer func() {
		if err := pubsubClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing pubsub", err)
		}
	}()

	consumer, err := notifications.NewConsumer(
		pubsubClient.OrderConfirmationSubscription(),
		notifications.NewLogSender(logg),
		logg,
	)
	if err != nil {
		logg.Error(ctx, "failed to create consumer", err)
		os.Exit(1)
	}

	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "consumer stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(context.Background(), "notification worker shut down")
}
