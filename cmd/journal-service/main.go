package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang-trading-journal/internal/insight"
	"golang-trading-journal/internal/journal/config"
	delivery "golang-trading-journal/internal/journal/delivery/http"
	_ "golang-trading-journal/internal/journal/docs"
	"golang-trading-journal/internal/journal/repository"
	"golang-trading-journal/internal/journal/service"
	"golang-trading-journal/pkg/logger"
	"golang-trading-journal/pkg/postgres"
	"golang-trading-journal/pkg/ratelimit"
	"golang-trading-journal/pkg/redis"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	swagger "github.com/swaggo/echo-swagger"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the journal service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Journal Service", logger.Field("name", cfg.App.Name))

	// Initialize database
	postgresCfg := postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}
	db, err := postgres.NewDB(postgresCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	// Initialize Redis
	redisCfg := redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	}
	redisClient, err := redis.NewClient(redisCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
	}
	defer redisClient.Close()

	// Initialize repositories
	entryRepo := repository.NewEmotionEntryRepository(db.DB)
	tradeRepo := repository.NewTradeRepository(db.DB)
	insightRepo := repository.NewUserInsightRepository(db.DB)
	noteRepo := repository.NewCoachingNoteRepository(db.DB)

	// Initialize services
	engine := insight.NewEngine()
	emotionSvc := service.NewEmotionService(entryRepo, appLogger)
	tradeSvc := service.NewTradeService(tradeRepo, appLogger)
	patternSvc := service.NewPatternService(cfg, engine, entryRepo, tradeRepo, insightRepo, noteRepo, appLogger)
	schedulerSvc, err := service.NewInsightSchedulerService(cfg, entryRepo, tradeRepo, redisClient.Client, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize insight scheduler", logger.ErrorField(err))
	}

	// Start the insight scheduler
	go schedulerSvc.Start(ctx)

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true

	limiterStore := ratelimit.NewMemoryLimiterStore(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	apiV1 := e.Group("/api/v1", delivery.RateLimitMiddleware(limiterStore))

	// Initialize handlers and routes
	emotionHandler := delivery.NewEmotionHandler(emotionSvc, appLogger)
	emotionsGroup := apiV1.Group("/emotions")
	emotionHandler.RegisterRoutes(emotionsGroup)

	tradeHandler := delivery.NewTradeHandler(tradeSvc, appLogger)
	tradesGroup := apiV1.Group("/trades")
	tradeHandler.RegisterRoutes(tradesGroup)

	patternHandler := delivery.NewPatternHandler(patternSvc, appLogger)
	patternsGroup := apiV1.Group("/patterns")
	patternHandler.RegisterRoutes(patternsGroup)

	e.GET("/swagger/*", swagger.WrapHandler)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop() // trigger shutdown
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	// Gracefully shutdown the server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

// @title Trading Journal API
// @version 1.0
// @description Trading psychology journal with emotion-aware pattern analysis.
// @termsOfService http://swagger.io/terms/
// @contact.name API Support
// @contact.url http://www.swagger.io/support
// @contact.email support@swagger.io
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @BasePath /api/v1
func main() {
	rootCmd := &cobra.Command{Use: "journal-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-journal.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing journal-service CLI: %s\n", err)
		os.Exit(1)
	}
}
