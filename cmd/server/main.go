package main

import (
	"context"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	_ "github.com/AlonaKolesneva/user-service-api/docs" // swagger docs

	"github.com/AlonaKolesneva/user-service-api/internal/auth"
	"github.com/AlonaKolesneva/user-service-api/internal/cache"
	"github.com/AlonaKolesneva/user-service-api/internal/config"
	"github.com/AlonaKolesneva/user-service-api/internal/db"
	"github.com/AlonaKolesneva/user-service-api/internal/handler"
	"github.com/AlonaKolesneva/user-service-api/internal/model"
	"github.com/AlonaKolesneva/user-service-api/internal/notify"
	"github.com/AlonaKolesneva/user-service-api/internal/repository"
	"github.com/AlonaKolesneva/user-service-api/internal/router"
	"github.com/AlonaKolesneva/user-service-api/internal/service"
)

// @title User Service API
// @version 1.0
// @description User account REST service with JWT authentication.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer logger.Sync()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		logger.Fatal("database init", zap.Error(err))
	}

	if err := gormDB.AutoMigrate(&model.User{}); err != nil {
		logger.Fatal("auto-migrate", zap.Error(err))
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	var notifier notify.Notifier = notify.NewLogNotifier(logger)
	if cfg.AMQPURL != "" {
		amqpNotifier, err := notify.NewAMQPNotifier(cfg.AMQPURL)
		if err != nil {
			logger.Fatal("rabbitmq init", zap.Error(err))
		}
		defer amqpNotifier.Close()
		notifier = amqpNotifier
	}

	jwtService := auth.NewJWTService(cfg.JWTSecret)
	hasher := auth.NewPasswordHasher()

	userRepo := repository.NewUserRepository(gormDB)
	userService := service.NewUserService(userRepo, hasher, jwtService, notifier, cacheClient, logger)
	userHandler := handler.NewUserHandler(userService)

	if cfg.SeedTestData {
		if err := seedTestUser(userRepo, hasher); err != nil {
			logger.Warn("test data seed failed", zap.Error(err))
		} else {
			logger.Info("test data seeded")
		}
	}

	e := echo.New()
	router.Register(e, cfg, logger, userHandler, userRepo)

	addr := ":" + cfg.ServerPort
	logger.Info("starting server", zap.String("addr", addr))
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server start", zap.Error(err))
	}
}

// seedTestUser mirrors cmd/seed for deployments that want the well-known test
// record present on boot. Duplicate email means the record already exists.
func seedTestUser(repo repository.UserRepository, hasher *auth.PasswordHasher) error {
	hashed, err := hasher.Hash("password")
	if err != nil {
		return err
	}
	return repo.Create(context.Background(), &model.User{
		Email:        "test@user.com",
		PasswordHash: hashed,
		IsTest:       true,
	})
}
