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

	"github.com/onegreenvn/title-studio-backend/internal/config"
	"github.com/onegreenvn/title-studio-backend/internal/database"
	"github.com/onegreenvn/title-studio-backend/internal/database/repository"
	"github.com/onegreenvn/title-studio-backend/internal/handlers"
	"github.com/onegreenvn/title-studio-backend/internal/middleware"
	"github.com/onegreenvn/title-studio-backend/internal/router"
	"github.com/onegreenvn/title-studio-backend/internal/services"
	"github.com/onegreenvn/title-studio-backend/internal/services/auth"
	"github.com/onegreenvn/title-studio-backend/internal/services/excel"
	"github.com/onegreenvn/title-studio-backend/internal/utils"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	// Import Swagger docs
	_ "github.com/onegreenvn/title-studio-backend/docs"
)

// @title Title Studio API
// @version 1.0
// @description Backend for the Title Studio content-generation tool

// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter `Bearer ` followed by your JWT token

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	configureLogging()

	utils.InitSentry()

	db, err := database.InitDB()
	if err != nil {
		logrus.Fatalf("Failed to initialize database: %v", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	generationLogRepo := repository.NewGenerationLogRepository(db)

	// Auth service and refresh token cleanup
	authService := auth.NewAuthService(userRepo, refreshTokenRepo)
	tokenCleanupService := auth.NewTokenCleanupService(db)
	tokenCleanupService.Start()
	defer tokenCleanupService.Stop()

	// Generation attempt logs are metadata only; sweep old entries daily
	logRetentionService := services.NewLogRetentionService(generationLogRepo)
	logRetentionService.Start()
	defer logRetentionService.Stop()

	// RabbitMQ is optional; generation attempts run without event publishing
	var rabbitMQService *services.RabbitMQService
	if rabbit, err := services.NewRabbitMQService(); err != nil {
		logrus.Warnf("Failed to initialize RabbitMQ, event publishing disabled: %v", err)
	} else {
		rabbitMQService = rabbit
		defer rabbitMQService.Close()
	}

	// Title generation pipeline
	agentConfig := config.GetAgentConfig()
	logrus.Infof("Title agent: %s (agent %s, workflow %s)", agentConfig.BaseURL, agentConfig.AgentID, agentConfig.Workflow)

	agentClient := services.NewAgentClient(agentConfig)
	generationService := services.NewGenerationService(agentConfig, agentClient, generationLogRepo, rabbitMQService)
	excelService := excel.NewExcelService(getEnv("EXPORTS_DIR", "exports"))

	// Handlers and middleware
	authHandler := handlers.NewAuthHandler(authService)
	generationHandler := handlers.NewGenerationHandler(generationService, excelService, generationLogRepo)
	bearerTokenMiddleware := middleware.NewBearerTokenMiddleware(authService, userRepo)

	r := router.SetupRouter(authHandler, generationHandler, bearerTokenMiddleware)

	port := getEnv("PORT", "8080")
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: r,
	}

	go func() {
		logrus.Infof("Server starting on port %s", port)
		logrus.Infof("API Health Check: http://localhost:%s/api/v1/health", port)
		logrus.Infof("Swagger UI: http://localhost:%s/swagger/index.html", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Fatalf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited properly")
}

func configureLogging() {
	logLevel := getEnv("LOG_LEVEL", "info")
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
