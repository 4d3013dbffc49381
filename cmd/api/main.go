package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dashunya17/CookingBenefits/config"
	"github.com/dashunya17/CookingBenefits/internal/api"
	"github.com/dashunya17/CookingBenefits/internal/database"
	"github.com/dashunya17/CookingBenefits/internal/logging"
	"github.com/dashunya17/CookingBenefits/internal/middleware"
	"github.com/dashunya17/CookingBenefits/internal/router"
	"github.com/dashunya17/CookingBenefits/internal/server"
	"github.com/dashunya17/CookingBenefits/internal/service"
)

func main() {
	// A local .env is optional; real deployments use the environment.
	_ = godotenv.Load()

	logger, err := logging.New()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	db, err := database.New(cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	var redisClient *redis.Client
	redisClient, err = database.NewRedisClient(cfg)
	if err != nil {
		// The cache and rate limiter degrade gracefully without Redis.
		logger.Warn("redis unavailable, running without cache and rate limiting", zap.Error(err))
		redisClient = nil
	}

	authService := service.NewAuthService(db, cfg.JWTSecret)
	productService := service.NewProductService(db, redisClient, logger)
	recipeService := service.NewRecipeService(db, productService, redisClient, logger)

	var imageService *service.ImageService
	if s3Cfg, err := config.NewS3Config(context.Background(), cfg); err != nil {
		logger.Warn("S3 unavailable, recipe image uploads disabled", zap.Error(err))
	} else {
		imageService = service.NewImageService(s3Cfg, logger)
	}

	var pantryLimiter, adminLimiter *middleware.RateLimiter
	if redisClient != nil {
		pantryLimiter = middleware.NewPantryMutationRateLimiter(redisClient)
		adminLimiter = middleware.NewAdminMutationRateLimiter(redisClient)
	}

	engine := router.SetupRouter(
		logger,
		api.NewHealthHandler(db),
		api.NewAuthHandler(authService),
		api.NewProductHandler(productService, authService, pantryLimiter),
		api.NewRecipeHandler(recipeService, authService, imageService, adminLimiter),
	)

	srv := server.New(engine, cfg.ServerHost, cfg.ServerPort, logger)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	case sig := <-quit:
		logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server shutdown error", zap.Error(err))
	}
	logger.Info("server stopped")
}
