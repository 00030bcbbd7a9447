package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vaadly/internal/config"
	"vaadly/internal/database"
	"vaadly/internal/logger"
	"vaadly/internal/services"
)

// The generator daemon materializes due recurring entries and rolls over ended
// contract periods on a fixed interval. Both operations are idempotent, so
// overlapping runs (or a cron-triggered scheduler endpoint running alongside)
// are harmless.
func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	db := dbManager.DB()
	generationService := services.NewGenerationService(db)
	projectionService := services.NewProjectionService(db)
	rolloverService := services.NewRolloverService(db, projectionService)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Infow("Generator configured", "interval", appConfig.GeneratorInterval.String())

	// Run once on startup, then on the ticker.
	runSweep(ctx, generationService, rolloverService)

	ticker := time.NewTicker(appConfig.GeneratorInterval)
	defer ticker.Stop()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case sig := <-sigChan:
			log.Infow("Shutdown signal received", "signal", sig.String())
			return nil
		case <-ticker.C:
			runSweep(ctx, generationService, rolloverService)
		}
	}
}

func runSweep(ctx context.Context, generation services.GenerationServicer, rollover services.RolloverServicer) {
	log := logger.Get()
	now := time.Now()

	entries, err := generation.GenerateForDate(ctx, now)
	if err != nil {
		log.Errorw("Generation sweep failed", "error", err.Error())
	} else {
		log.Infow("Generation sweep complete", "date", now.Format(time.DateOnly), "entries_created", len(entries))
	}

	periods, err := rollover.CheckAndRenewAll(now)
	if err != nil {
		log.Errorw("Rollover sweep failed", "error", err.Error())
	} else if len(periods) > 0 {
		log.Infow("Rollover sweep complete", "periods_archived", len(periods))
	}
}
