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

	"go-stock-sentiment/internal/api/config"
	delivery "go-stock-sentiment/internal/api/delivery/http"
	"go-stock-sentiment/internal/api/repository"
	"go-stock-sentiment/internal/api/service"
	collectorservice "go-stock-sentiment/internal/collector/service"
	"go-stock-sentiment/internal/queue"
	"go-stock-sentiment/internal/source"
	"go-stock-sentiment/internal/universe"
	"go-stock-sentiment/pkg/logger"
	"go-stock-sentiment/pkg/postgres"
	"go-stock-sentiment/pkg/redis"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the API service",
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

	appLogger.Info("Starting API Service", logger.Field("name", cfg.App.Name))

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

	queryRepo := repository.NewSentimentQueryRepository(db.DB)

	targeted := collectorservice.NewTargetedCollector(
		buildSources(cfg), mentions, appLogger, cfg.Collect.SearchLimit, cfg.Collect.MaxResults)

	sentimentSvc := service.NewSentimentService(cfg, queryRepo, targeted, appLogger)

	universeURL := cfg.Universe.ConstituentsURL
	if universeURL == "" {
		universeURL = universe.DefaultConstituentsURL
	}
	universeTTL := cfg.Universe.RefreshTTL
	if universeTTL <= 0 {
		universeTTL = 24 * time.Hour
	}
	universeCache := universe.NewCache(universeURL, universeTTL, appLogger)

	e := echo.New()
	e.HideBanner = true

	sentimentHandler := delivery.NewSentimentHandler(sentimentSvc, universeCache, appLogger)
	apiV1 := e.Group("/api/v1")
	sentimentHandler.RegisterRoutes(apiV1)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop()
		}
	}()

	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

// buildSources assembles the Reddit sources used for on-demand collection.
func buildSources(cfg *config.Config) []source.TextSource {
	var sources []source.TextSource

	limiter := source.NewRedditLimiter(cfg.Collect.RedditMaxRequestPerMinute)
	for _, subreddit := range cfg.Collect.Subreddits {
		sources = append(sources, source.NewRedditSource(subreddit, cfg.Collect.RedditBaseURL, limiter))
	}
	return sources
}

func main() {
	rootCmd := &cobra.Command{Use: "api-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-api.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing api-service CLI: %s\n", err)
		os.Exit(1)
	}
}
