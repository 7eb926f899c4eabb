package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/quantdesk/tradechat-go/internal/api"
	"github.com/quantdesk/tradechat-go/internal/cache"
	"github.com/quantdesk/tradechat-go/internal/chart"
	"github.com/quantdesk/tradechat-go/internal/composer"
	"github.com/quantdesk/tradechat-go/internal/config"
	"github.com/quantdesk/tradechat-go/internal/database"
	"github.com/quantdesk/tradechat-go/internal/executor"
	"github.com/quantdesk/tradechat-go/internal/llm"
	"github.com/quantdesk/tradechat-go/internal/middleware"
	"github.com/quantdesk/tradechat-go/internal/schema"
	"github.com/quantdesk/tradechat-go/internal/services"
	"github.com/quantdesk/tradechat-go/internal/translator"
	"github.com/quantdesk/tradechat-go/internal/tunnel"
)

func main() {
	// Local development reads credentials from .env; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	}
	if cfg.Environment != "development" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
		gin.SetMode(gin.ReleaseMode)
	}

	// Optional SSH tunnel for a remote trading database.
	var dbHost string
	var dbPort int
	if cfg.SSH.Enabled {
		t, err := tunnel.Open(cfg.SSH)
		if err != nil {
			logrus.Fatalf("Failed to open SSH tunnel: %v", err)
		}
		defer t.Close()
		dbHost, dbPort = t.LocalHostPort()
	}

	db, err := database.NewPostgresConnection(cfg.Database, dbHost, dbPort)
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	var redisClient *database.RedisClient
	var translationCache *cache.TranslationCache
	if cfg.Redis.Enabled {
		redisClient, err = database.NewRedisConnection(cfg.Redis)
		if err != nil {
			logrus.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		translationCache = cache.NewTranslationCache(
			redisClient.Client,
			config.Duration(cfg.Redis.TranslationTTL, 15*time.Minute),
		)
	}

	registry := schema.Default()

	llmClient := llm.NewOpenAIClient(
		cfg.OpenAI.APIKey,
		cfg.OpenAI.Model,
		config.Duration(cfg.OpenAI.Timeout, 30*time.Second),
	)

	chatService := services.NewChatService(
		translator.New(llmClient, registry),
		executor.New(db.Pool, cfg.Executor.RowCap, config.Duration(cfg.Executor.StatementTimeout, 15*time.Second)),
		chart.NewSelector(chart.Policy{
			PieMaxRows:           cfg.Chart.PieMaxRows,
			DistributionKeywords: cfg.Chart.DistributionKeywords,
		}),
		composer.NewSummarizer(llmClient),
		translationCache,
	)

	router := gin.Default()
	router.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	api.SetupRoutes(router, chatService, db, redisClient)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logrus.Infof("Server starting on port %d", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Fatalf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}
