package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-stock-sentiment/internal/collector/config"
	"go-stock-sentiment/internal/collector/repository"
	"go-stock-sentiment/internal/collector/service"
	"go-stock-sentiment/internal/queue"
	"go-stock-sentiment/internal/source"
	"go-stock-sentiment/pkg/logger"
	"go-stock-sentiment/pkg/postgres"
	"go-stock-sentiment/pkg/redis"

	"github.com/spf13/cobra"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the collector service",
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

	appLogger.Info("Starting Collector Service", logger.Field("name", cfg.App.Name))

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

	sources := buildSources(cfg)
	runRepo := repository.NewCollectorRunRepository(db.DB)

	collectorSvc := service.NewCollectorService(cfg, sources, mentions, runRepo, appLogger)
	if err := collectorSvc.Start(ctx); err != nil {
		appLogger.Fatal("Collector failed", logger.ErrorField(err))
	}

	appLogger.Info("Collector exiting")
}

// buildSources assembles the configured Reddit and RSS sources. All Reddit
// sources share one rate limiter.
func buildSources(cfg *config.Config) []source.TextSource {
	var sources []source.TextSource

	limiter := source.NewRedditLimiter(cfg.Collector.RedditMaxRequestPerMinute)
	for _, subreddit := range cfg.Collector.Subreddits {
		sources = append(sources, source.NewRedditSource(subreddit, cfg.Collector.RedditBaseURL, limiter))
	}
	for _, feed := range cfg.Collector.RSSFeeds {
		sources = append(sources, source.NewRSSSource(feed.Name, feed.URL, feed.FetchContent))
	}
	return sources
}

func main() {
	rootCmd := &cobra.Command{Use: "collector-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-collector.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing collector-service CLI: %s\n", err)
		os.Exit(1)
	}
}
