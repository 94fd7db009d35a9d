// @title Exercise Forge API
// @version 1.0
// @description Generates and grades English practice exercises from a knowledge point.
// @host localhost:8090
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_ACCESS_KEY' to authorize.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"

	_ "exercise-forge/cmd/api/docs"
	"exercise-forge/internal/adapter"
	"exercise-forge/internal/cache"
	"exercise-forge/internal/config"
	"exercise-forge/internal/domain"
	"exercise-forge/internal/handler"
	"exercise-forge/internal/logger"
	"exercise-forge/internal/middleware"
	"exercise-forge/internal/protocol"
	"exercise-forge/internal/service"
	"exercise-forge/internal/vendor"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// Redis is optional: without it the completion cache and supersession tracking are off.
	var cacheAdapter domain.Cache
	if cfg.Redis.Address != "" {
		redisClient, err := cache.NewRedisClient(context.Background(), cfg.Redis)
		if err != nil {
			appLogger.Warn("Redis unavailable, continuing without cache", zap.Error(err))
		} else {
			defer redisClient.Close()
			cacheAdapter = adapter.NewRedisCacheAdapter(redisClient)
			appLogger.Info("Connected to Redis", zap.String("address", cfg.Redis.Address))
		}
	}

	provider, err := vendor.New(cfg.Vendor, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to create completion vendor", zap.Error(err))
	}
	appLogger.Info("Completion vendor initialized",
		zap.String("provider", provider.Name()),
		zap.String("multiple_choice_model", cfg.Vendor.MultipleChoice),
		zap.String("gap_fill_model", cfg.Vendor.GapFill))

	completionService := service.NewCompletionService(provider, cacheAdapter, cfg)

	// The exercise API either calls its own completion service or goes through a
	// remote proxy with the request protocol.
	var submitter domain.ExerciseSubmitter
	if cfg.Proxy.URL == "" {
		submitter = service.NewLocalSubmitter(completionService)
	} else {
		client, err := protocol.NewClientFromConfig(cfg.Proxy, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to create proxy client", zap.Error(err))
		}
		submitter = client
		appLogger.Info("Exercises are generated through remote proxy", zap.String("url", cfg.Proxy.URL))
	}

	tracker := service.NewSubmissionTracker(cacheAdapter, cfg)
	exerciseService := service.NewExerciseService(submitter, tracker)

	proxyHandler := handler.NewProxyHandler(completionService)
	exerciseHandler := handler.NewExerciseHandler(exerciseService)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger())

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/swagger/*", swagger.HandlerDefault)

	handler.RegisterRoutes(app.Group("/api"), proxyHandler, exerciseHandler, cfg.Server.AccessKey)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
