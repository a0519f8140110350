package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eduverse/school-service/internal/config"
	"github.com/eduverse/school-service/internal/events"
	"github.com/eduverse/school-service/internal/handlers"
	"github.com/eduverse/school-service/internal/repositories/mongodb"
	"github.com/eduverse/school-service/internal/services"
	"github.com/eduverse/school-service/internal/utils"
	"github.com/eduverse/school-service/internal/validator"
	"github.com/eduverse/school-service/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	mongoClient, db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(ctx); err != nil {
			logger.Error("Failed to disconnect from database", "error", err)
		}
	}()

	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("Redis unavailable, continuing without cache", "error", err)
		redisClient = nil
	}

	repo := mongodb.NewMongoRepository(mongodb.RepositoryConfig{
		DB:          db,
		RedisClient: redisClient,
	})

	indexCtx, indexCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := repo.EnsureIndexes(indexCtx); err != nil {
		indexCancel()
		logger.Error("Failed to create database indexes", "error", err)
		os.Exit(1)
	}
	indexCancel()

	var publisher events.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher, err := events.NewKafkaEventPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		if err != nil {
			logger.Error("Failed to create Kafka publisher", "error", err)
			os.Exit(1)
		}
		publisher = kafkaPublisher
	} else {
		logger.Info("No Kafka brokers configured, events will be logged only")
		publisher = events.NewMockEventPublisher(logger)
	}

	v := validator.New()

	serviceManager := services.NewServiceManager(repo, logger, v, publisher, services.ServiceManagerConfig{
		JWTSecret: cfg.JWTSecret,
		JWTExpiry: cfg.JWTExpiry,
	})

	initCtx, initCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := serviceManager.Initialize(initCtx); err != nil {
		initCancel()
		logger.Error("Failed to initialize services", "error", err)
		os.Exit(1)
	}
	initCancel()

	appLogger := utils.NewSlogLogger(logger)

	router := gin.New()
	handlers.SetupMiddleware(router, appLogger)

	handlerManager := handlers.NewHandlerManager(serviceManager, appLogger)
	handlerManager.SetupRoutes(router)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", "error", err)
	}
	if err := serviceManager.Shutdown(shutdownCtx); err != nil {
		logger.Error("Service shutdown failed", "error", err)
	}

	logger.Info("Server stopped")
}
