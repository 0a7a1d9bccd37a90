package main

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/odyssey-travel/odyssey-backend/config"
	"github.com/odyssey-travel/odyssey-backend/db"
	"github.com/odyssey-travel/odyssey-backend/handlers"
	"github.com/odyssey-travel/odyssey-backend/internal/email"
	"github.com/odyssey-travel/odyssey-backend/internal/storage"
	"github.com/odyssey-travel/odyssey-backend/internal/store/postgres"
	"github.com/odyssey-travel/odyssey-backend/logger"
	"github.com/odyssey-travel/odyssey-backend/router"
	"github.com/odyssey-travel/odyssey-backend/services"
)

func main() {
	logger.InitLogger()
	log := logger.GetLogger()
	defer func() {
		_ = logger.Close()
	}()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database
	dbURL := cfg.Database.URL()
	if err := db.RunMigrations(dbURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	poolConfig, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		log.Fatalf("Failed to parse database config: %v", err)
	}
	if cfg.IsProduction() {
		poolConfig.ConnConfig.TLSConfig = &tls.Config{
			ServerName: cfg.Database.Host,
			MinVersion: tls.VersionTLS12,
		}
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Redis
	redisOptions := &redis.Options{
		Addr:         cfg.Redis.Address,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}
	if cfg.Redis.UseTLS {
		redisOptions.TLSConfig = &tls.Config{
			ServerName: strings.Split(cfg.Redis.Address, ":")[0],
			MinVersion: tls.VersionTLS12,
		}
	}
	redisClient := redis.NewClient(redisOptions)
	defer func() {
		_ = redisClient.Close()
	}()

	// Stores
	userStore := postgres.NewUserStore(pool)
	tripStore := postgres.NewTripStore(pool)
	shareStore := postgres.NewShareStore(pool)
	achievementStore := postgres.NewAchievementStore(pool)
	activityStore := postgres.NewActivityStore(pool)
	memoryStore := postgres.NewMemoryStore(pool)
	expenseStore := postgres.NewExpenseStore(pool)
	packingStore := postgres.NewPackingStore(pool)
	documentStore := postgres.NewDocumentStore(pool)
	templateStore := postgres.NewTemplateStore(pool)
	statsStore := postgres.NewStatsStore(pool)
	weatherCacheStore := postgres.NewWeatherCacheStore(pool)
	rateStore := postgres.NewRateStore(pool)

	// Optional adapters
	var mailer services.InviteMailer
	if cfg.Email.ResendAPIKey != "" {
		mailer = email.NewResendMailer(&cfg.Email, cfg.Server.FrontendURL)
	} else {
		log.Warn("Resend API key not set, invite emails disabled")
	}

	var objectStorage services.ObjectStorage
	if cfg.Storage.Bucket != "" {
		objectStorage, err = storage.NewS3Storage(cfg.Storage)
		if err != nil {
			log.Fatalf("Failed to initialize object storage: %v", err)
		}
	} else {
		log.Warn("Storage bucket not set, photo and document uploads disabled")
	}

	// Services
	sharingService := services.NewSharingService(shareStore, tripStore, userStore, mailer)
	tripService := services.NewTripService(tripStore, sharingService)
	achievementService := services.NewAchievementService(achievementStore)
	activityService := services.NewActivityService(activityStore, sharingService)
	memoryService := services.NewMemoryService(memoryStore, sharingService, objectStorage)
	expenseService := services.NewExpenseService(expenseStore, sharingService)
	packingService := services.NewPackingService(packingStore, sharingService)
	documentService := services.NewDocumentService(documentStore, sharingService, objectStorage)
	templateService := services.NewTemplateService(templateStore, tripStore, activityStore, packingStore, sharingService)
	statisticsService := services.NewStatisticsService(statsStore)
	weatherService := services.NewWeatherService(weatherCacheStore, tripStore, sharingService, redisClient,
		cfg.ExternalServices.OpenWeatherKey, cfg.ExternalServices.OpenWeatherBaseURL)
	currencyService := services.NewCurrencyService(rateStore, redisClient,
		cfg.ExternalServices.ExchangeRateURL, cfg.ExternalServices.ExchangeFallback)
	healthService := services.NewHealthService(pool, redisClient, cfg.Server.Version)

	r := router.SetupRouter(router.Dependencies{
		Config:             cfg,
		RedisClient:        redisClient,
		TripHandler:        handlers.NewTripHandler(tripService),
		SharingHandler:     handlers.NewSharingHandler(sharingService),
		AchievementHandler: handlers.NewAchievementHandler(achievementService),
		StatisticsHandler:  handlers.NewStatisticsHandler(statisticsService),
		ActivityHandler:    handlers.NewActivityHandler(activityService),
		MemoryHandler:      handlers.NewMemoryHandler(memoryService),
		ExpenseHandler:     handlers.NewExpenseHandler(expenseService),
		PackingHandler:     handlers.NewPackingHandler(packingService),
		DocumentHandler:    handlers.NewDocumentHandler(documentService),
		TemplateHandler:    handlers.NewTemplateHandler(templateService),
		WeatherHandler:     handlers.NewWeatherHandler(weatherService),
		CurrencyHandler:    handlers.NewCurrencyHandler(currencyService),
		HealthHandler:      handlers.NewHealthHandler(healthService),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infow("Server starting",
			"port", cfg.Server.Port,
			"environment", cfg.Server.Environment,
			"version", cfg.Server.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Graceful shutdown failed", "error", err)
	}
	log.Info("Server stopped")
}
