package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-stock-sentiment/internal/queue"
	"go-stock-sentiment/internal/worker/config"
	"go-stock-sentiment/internal/worker/delivery/consumer"
	"go-stock-sentiment/internal/worker/repository"
	"go-stock-sentiment/internal/worker/service"
	"go-stock-sentiment/pkg/logger"
	"go-stock-sentiment/pkg/postgres"
	"go-stock-sentiment/pkg/redis"
	"go-stock-sentiment/pkg/telegram"

	"github.com/spf13/cobra"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the sentiment worker service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Sentiment Worker", logger.Field("name", cfg.App.Name))

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

	mentions := queue.NewRedisMentionQueue(redisClient.Client, queue.Config{
		StreamMaxLen: cfg.Redis.StreamMaxLen,
	}, appLogger)

	classifier, err := repository.NewClassifier(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize classifier", logger.ErrorField(err))
	}
	appLogger.Info("Classifier initialized", logger.StringField("model", classifier.ModelName()))

	eventRepo := repository.NewSentimentEventRepository(db.DB)

	notifier := telegram.NewNoopClient()
	if cfg.Telegram.Enabled {
		notifier, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			appLogger.Fatal("Failed to initialize Telegram notifier", logger.ErrorField(err))
		}
	}

	consumerSvc := service.NewConsumerService(cfg, mentions, classifier, eventRepo, notifier, appLogger)

	redisConsumer := consumer.NewRedisConsumer(cfg, mentions, consumerSvc, appLogger)
	if err := redisConsumer.Start(ctx); err != nil {
		appLogger.Fatal("Failed to start consumer", logger.ErrorField(err))
	}

	<-ctx.Done()
	redisConsumer.Stop()
	appLogger.Info("Worker exiting")
}

func main() {
	rootCmd := &cobra.Command{Use: "worker-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-worker.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing worker-service CLI: %s\n", err)
		os.Exit(1)
	}
}
