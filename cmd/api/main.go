package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"habittrack/internal/api"
	"habittrack/internal/config"
	"habittrack/internal/db"
	"habittrack/internal/mq"
	redisclient "habittrack/internal/redis"
	"habittrack/internal/repository"
	"habittrack/internal/service"
	"habittrack/internal/util"
)

func main() {
	cfg := config.Load()

	logger := util.NewLogger()
	defer logger.Sync()

	logger.Info("Starting API service...")

	// Init DB
	dbConn, err := db.NewConnection(cfg.DB, logger)
	if err != nil {
		logger.Fatal("DB initialization failed", zap.Error(err))
	}
	defer dbConn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := db.CreateSchema(ctx, dbConn); err != nil {
		cancel()
		logger.Fatal("Schema creation failed", zap.Error(err))
	}
	cancel()
	logger.Info("Database ready")

	// Init Redis
	rdb := redisclient.NewClient(cfg.Redis)
	defer rdb.Close()
	cache := redisclient.NewCache(rdb)

	// Init MQ producer
	producer, err := mq.NewProducer(cfg.MQ.URL)
	if err != nil {
		logger.Fatal("MQ initialization failed", zap.Error(err))
	}
	defer producer.Close()

	// Init repositories
	userRepo := repository.NewUserRepository(dbConn)
	habitRepo := repository.NewHabitRepository(dbConn, logger)
	overrideRepo := repository.NewOverrideRepository(dbConn)
	trackingRepo := repository.NewTrackingRepository(dbConn, logger)
	sleepRepo := repository.NewSleepRepository(dbConn)
	adminRepo := repository.NewAdminRepository(dbConn)

	// Init services
	verifier := service.NewGoogleVerifier(cfg.Google.ClientID)
	authService := service.NewAuthService(userRepo, habitRepo, verifier, producer, cfg.JWT.Secret, logger)
	habitService := service.NewHabitService(habitRepo, overrideRepo, logger)
	trackingService := service.NewTrackingService(trackingRepo, cache, logger)
	sleepService := service.NewSleepService(sleepRepo)
	subscriptionService := service.NewSubscriptionService(userRepo, producer, logger)
	widgetService := service.NewWidgetService(habitRepo, trackingRepo)
	adminService := service.NewAdminService(adminRepo, userRepo, habitRepo,
		cfg.Admin.Username, cfg.Admin.PasswordHash, cfg.JWT.Secret, logger)

	// Init handlers
	handlers := api.Handlers{
		Auth:         api.NewAuthHandler(authService, logger),
		Habit:        api.NewHabitHandler(habitService, logger),
		Tracking:     api.NewTrackingHandler(trackingService, logger),
		Sleep:        api.NewSleepHandler(sleepService, logger),
		Subscription: api.NewSubscriptionHandler(subscriptionService, logger),
		Widget:       api.NewWidgetHandler(widgetService, logger),
		Admin:        api.NewAdminHandler(adminService, subscriptionService, logger),
	}

	router := api.NewRouter(handlers, subscriptionService, cfg.JWT.Secret, dbConn, logger)

	logger.Info("API listening", zap.String("port", cfg.Server.Port))
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}
