package main

import (
	"fmt"
	"os"

	"vaadly/internal/config"
	"vaadly/internal/database"
	"vaadly/internal/handlers"
	"vaadly/internal/logger"
)

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	if appConfig.SchedulerAPIKey == "" {
		log.Warn("SCHEDULER_API_KEY is not set; scheduler endpoints will reject all requests")
	}

	router := handlers.NewRouter(handlers.RouterConfig{
		DB:              dbManager.DB(),
		SchedulerAPIKey: appConfig.SchedulerAPIKey,
	})

	log.Infof("Starting Vaadly backend server on port %s", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
