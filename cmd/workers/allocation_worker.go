package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"greenledger/credit-market/credit-market-backend/internal/allocation"
	"greenledger/credit-market/credit-market-backend/internal/config"
	"greenledger/credit-market/credit-market-backend/internal/market"
)

// The allocation worker runs periodic fulfillment passes so unfulfilled
// orders get matched against supply without an operator hitting the API.
func main() {
	_ = godotenv.Load()

	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := config.LoadConfig(os.Getenv("CONFIG_PATH"))
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// Connect to database
	db, err := sqlx.Connect("postgres", cfg.Database.GetDatabaseURL())
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatal("Failed to ping database", zap.Error(err))
	}
	logger.Info("Connected to database")

	repo := market.NewPostgresRepository(db)
	engine := allocation.NewService(repo, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runPass := func() {
		message, err := engine.UpdateCreditOrderFulfillment(ctx)
		if err != nil {
			logger.Error("Allocation pass failed", zap.Error(err))
			return
		}
		logger.Info("Allocation pass finished", zap.String("result", message))
	}

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.Worker.AllocationSchedule, runPass); err != nil {
		logger.Fatal("Invalid allocation schedule",
			zap.String("schedule", cfg.Worker.AllocationSchedule), zap.Error(err))
	}

	// Run one pass immediately, then on schedule
	runPass()
	scheduler.Start()
	logger.Info("Allocation worker started", zap.String("schedule", cfg.Worker.AllocationSchedule))

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutdown signal received")
	cancel()
	<-scheduler.Stop().Done()
	logger.Info("Allocation worker stopped")
}
