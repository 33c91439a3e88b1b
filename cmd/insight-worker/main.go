package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang-trading-journal/internal/insight"
	"golang-trading-journal/internal/worker/config"
	"golang-trading-journal/internal/worker/delivery/consumer"
	"golang-trading-journal/internal/worker/repository"
	"golang-trading-journal/internal/worker/service"
	"golang-trading-journal/pkg/logger"
	"golang-trading-journal/pkg/postgres"
	"golang-trading-journal/pkg/redis"
	"golang-trading-journal/pkg/telegram"

	"google.golang.org/genai"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the insight worker",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

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

	appLogger.Info("Starting Insight Worker", zap.String("name", cfg.App.Name))

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
		appLogger.Fatal("Failed to initialize database", zap.Error(err))
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
		appLogger.Fatal("Failed to initialize Redis", zap.Error(err))
	}
	defer redisClient.Close()

	// Initialize repositories
	historyRepo := repository.NewHistoryRepository(db.DB)
	userInsightRepo := repository.NewUserInsightRepository(db.DB)
	coachingNoteRepo := repository.NewCoachingNoteRepository(db.DB)

	// Initialize AI provider
	var aiRepo repository.AIRepository
	if cfg.Gemini.Enabled {
		genAiClient, err := genai.NewClient(context.Background(), &genai.ClientConfig{
			APIKey: cfg.Gemini.APIKey,
		})
		if err != nil {
			appLogger.Fatal("Failed to initialize Gemini AI client", zap.Error(err))
		}
		aiRepo, err = repository.NewGeminiAIRepository(cfg, appLogger, genAiClient)
		if err != nil {
			appLogger.Fatal("Failed to initialize Gemini AI repository", zap.Error(err))
		}
	}

	var telegramNotifier telegram.Notifier = telegram.NoopNotifier{}
	if cfg.Telegram.Enabled {
		telegramNotifier, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			appLogger.Fatal("Failed to initialize Telegram notifier", zap.Error(err))
		}
	}

	// Initialize the insight generator service
	engine := insight.NewEngine()
	insightGeneratorSvc := service.NewInsightGeneratorService(cfg, appLogger, redisClient.Client, engine, historyRepo, userInsightRepo, coachingNoteRepo, aiRepo, telegramNotifier)

	// Initialize and start the Redis consumer
	redisConsumer := consumer.NewRedisConsumer(cfg, redisClient.Client, insightGeneratorSvc, appLogger)
	if err := redisConsumer.EnsureGroup(context.Background()); err != nil {
		appLogger.Fatal("Failed to create consumer group", logger.ErrorField(err))
	}
	redisConsumer.Start(ctx)

	appLogger.Info("Insight worker started. Waiting for tasks...")

	// Wait for interrupt signal to gracefully shut down the service
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down insight worker...")
	cancel()
	redisConsumer.Stop()
	appLogger.Info("Insight worker stopped.")
}

func main() {
	rootCmd := &cobra.Command{Use: "insight-worker"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-worker.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing insight-worker CLI: %s\n", err)
		os.Exit(1)
	}
}
