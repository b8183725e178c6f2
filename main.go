package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clausecloud/backend/config"
	"github.com/clausecloud/backend/handler"
	"github.com/clausecloud/backend/middleware"
	"github.com/clausecloud/backend/pkg/logger"
	"github.com/clausecloud/backend/pkg/metrics"
	"github.com/clausecloud/backend/service"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.Init(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	slog.Info("configuration loaded successfully")

	if cfg.LLM.APIKey == "" {
		slog.Warn("no completion API key configured; analysis requests will fail")
	}

	// Initialize services
	m := metrics.New()

	contractStore := service.NewContractStore(&cfg.Store)
	chatStore := service.NewChatStore()
	settingsStore := service.NewSettingsStore()
	llmService := service.NewLLMService(&cfg.LLM, cfg.Chat.MaxHistoryTurns, m)

	var archiveService *service.ArchiveService
	if cfg.Archive.Enabled {
		archiveService, err = service.NewArchiveService(&cfg.Archive)
		if err != nil {
			slog.Error("failed to initialize archive service", "error", err)
			os.Exit(1)
		}
		if err := archiveService.EnsureBucket(context.Background()); err != nil {
			slog.Error("failed to ensure archive bucket", "error", err)
			os.Exit(1)
		}
		slog.Info("upload archive enabled", "bucket", cfg.Archive.Bucket)
	}

	// Initialize handlers
	contractHandler := handler.NewContractHandler(contractStore, settingsStore, llmService, archiveService, m, cfg.Upload.MaxSizeMB)
	chatHandler := handler.NewChatHandler(contractStore, chatStore, llmService)
	settingsHandler := handler.NewSettingsHandler(settingsStore)
	portfolioHandler := handler.NewPortfolioHandler(contractStore, llmService)
	authHandler := handler.NewAuthHandler(cfg)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New() // Use New() instead of Default() to avoid default middleware

	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(corsMiddleware())
	router.Use(m.Middleware())
	router.Use(middleware.RateLimit(cfg.RateLimit.Requests, time.Duration(cfg.RateLimit.WindowSeconds)*time.Second))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	router.GET("/metrics", gin.WrapH(m.Handler()))

	api := router.Group("/api")

	if cfg.Auth.Enabled {
		api.POST("/auth/login", authHandler.Login)
		api.Use(middleware.AuthMiddleware(&cfg.Auth))
		api.GET("/auth/me", authHandler.GetCurrentUser)
	}

	contracts := api.Group("/contracts")
	{
		contracts.POST("/analyze", contractHandler.Analyze)
		contracts.POST("/analyze-text", contractHandler.AnalyzeText)
		contracts.GET("", contractHandler.List)
		contracts.GET("/:id", contractHandler.Get)
		contracts.DELETE("/:id", contractHandler.Delete)
		contracts.POST("/compare", contractHandler.Compare)
		contracts.POST("/recommendation", contractHandler.Recommendation)
	}

	chat := api.Group("/chat")
	{
		chat.POST("/message", chatHandler.SendMessage)
		chat.GET("/history/:contractId", chatHandler.GetHistory)
		chat.DELETE("/history/:contractId", chatHandler.ClearHistory)
	}

	portfolio := api.Group("/portfolio")
	{
		portfolio.GET("/metrics", portfolioHandler.Metrics)
		portfolio.POST("/query", portfolioHandler.Query)
	}

	settings := api.Group("/settings")
	{
		settings.GET("", settingsHandler.Get)
		settings.PUT("", settingsHandler.Update)
		settings.PUT("/red-lines", settingsHandler.UpdateRedLines)
	}

	// Create server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 180 * time.Second, // analysis calls can be slow
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited gracefully")
}

// corsMiddleware handles CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
