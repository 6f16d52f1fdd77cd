package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"habittrack/internal/config"
	"habittrack/internal/db"
	"habittrack/internal/mq"
	"habittrack/internal/notifier"
	redisclient "habittrack/internal/redis"
	"habittrack/internal/repository"
	"habittrack/internal/service"
	"habittrack/internal/util"
)

func main() {
	cfg := config.Load()

	logger := util.NewLogger()
	defer logger.Sync()

	logger.Info("Starting worker service...")

	// Init Redis
	rdb := redisclient.NewClient(cfg.Redis)
	defer rdb.Close()
	deduper := util.NewDeduper(rdb, time.Hour)

	// Init DB
	dbConn, err := db.NewConnection(cfg.DB, logger)
	if err != nil {
		logger.Fatal("DB initialization failed", zap.Error(err))
	}
	defer dbConn.Close()
	logger.Info("Database connection established")

	userRepo := repository.NewUserRepository(dbConn)

	// Init MQ producer for events emitted by the sweep (none today, but the
	// subscription service requires one).
	producer, err := mq.NewProducer(cfg.MQ.URL)
	if err != nil {
		logger.Fatal("MQ initialization failed", zap.Error(err))
	}
	defer producer.Close()

	subscriptionService := service.NewSubscriptionService(userRepo, producer, logger)

	// Init notifier
	mailer := notifier.NewMailer(cfg.Email, logger)
	n := notifier.New(mailer, deduper, logger)

	// One consumer per routing key, each on its own queue.
	consumers := []struct {
		key     string
		handler mq.MessageHandler
	}{
		{mq.UserRegisteredKey, n.HandleUserRegistered},
		{mq.SubscriptionSubmittedKey, n.HandleSubscriptionSubmitted},
		{mq.SubscriptionApprovedKey, n.HandleSubscriptionApproved},
		{mq.SubscriptionRejectedKey, n.HandleSubscriptionRejected},
	}

	for _, c := range consumers {
		logger.Info("Initializing consumer", zap.String("routing_key", c.key))
		consumer, err := mq.NewConsumer(cfg.MQ.URL, c.key)
		if err != nil {
			logger.Fatal("failed to init consumer", zap.String("routing_key", c.key), zap.Error(err))
		}
		consumer.SetHandler(c.handler)
		defer consumer.Close()

		go func(key string, consumer *mq.Consumer) {
			logger.Info("Starting consumer", zap.String("routing_key", key))
			if err := consumer.StartConsuming(); err != nil {
				logger.Fatal("consumer failed", zap.String("routing_key", key), zap.Error(err))
			}
		}(c.key, consumer)
	}

	// Hourly sweep flips overdue active subscriptions to expired so access is
	// cut even for users who never hit the API.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()

		for {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			count, err := subscriptionService.ExpireOverdue(ctx)
			cancel()
			if err != nil {
				logger.Error("Expiry sweep failed", zap.Error(err))
			} else if count > 0 {
				logger.Info("Expiry sweep", zap.Int64("expired", count))
			}
			<-ticker.C
		}
	}()

	logger.Info("All consumers started, worker is ready to process messages")

	// Keep worker running
	select {}
}
