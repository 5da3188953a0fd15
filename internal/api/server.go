package api

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"paytrack/internal/app/config"
	"paytrack/internal/app/dsn"
	"paytrack/internal/app/handler"
	"paytrack/internal/app/middleware"
	"paytrack/internal/app/redis"
	"paytrack/internal/app/repository"
	"paytrack/internal/app/storage"
	"paytrack/internal/pkg"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// StartServer собирает зависимости и запускает HTTP сервер до SIGINT/SIGTERM
func StartServer() error {
	logrus.Info("Starting server")

	cfg, err := config.NewConfig()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	config.SetupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dsnStr := dsn.FromEnv()
	if dsnStr == "" {
		return fmt.Errorf("DSN string is empty, check DB_* variables")
	}
	repo, err := repository.New(dsnStr)
	if err != nil {
		return fmt.Errorf("ошибка инициализации репозитория: %w", err)
	}

	// Redis нужен для blacklist токенов и кэша курсов, без него сервер работает в урезанном режиме
	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		logrus.Warnf("redis unavailable, logout and rate cache disabled: %v", err)
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	var minioClient *storage.MinIOClient
	if cfg.MinIO.Endpoint != "" {
		minioClient, err = storage.NewMinIOClient(cfg.MinIO.Endpoint, cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, cfg.MinIO.Bucket, cfg.MinIO.UseSSL)
		if err != nil {
			logrus.Warnf("minio unavailable, attachments disabled: %v", err)
			minioClient = nil
		}
	} else {
		logrus.Warn("MINIO_ENDPOINT is not set, attachments disabled")
	}

	authHandler := handler.NewAuthHandler(repo, redisClient, cfg)
	apiHandler := handler.NewAPIHandler(repo, minioClient, redisClient, cfg, authHandler)
	authMiddleware := middleware.NewAuthMiddleware(redisClient, cfg)

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	app := pkg.NewApp(cfg, router, apiHandler, authMiddleware)
	return app.RunApp(ctx)
}
