package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"greenledger/credit-market/credit-market-backend/internal/allocation"
	"greenledger/credit-market/credit-market-backend/internal/config"
	"greenledger/credit-market/credit-market-backend/internal/market"
	"greenledger/credit-market/credit-market-backend/internal/transfer"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Logging.Level)
	defer logger.Sync()

	db, err := sqlx.Connect("postgres", cfg.Database.GetDatabaseURL())
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := runMigrations(cfg); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	logger.Info("Connected to database", zap.String("db", cfg.Database.DBName))

	repo := market.NewPostgresRepository(db)

	// ---------------- MARKET ----------------
	marketService := market.NewService(repo, logger)
	marketHandler := market.NewHandler(marketService)

	// ---------------- ALLOCATION ----------------
	allocationService := allocation.NewService(repo, logger)
	allocationHandler := allocation.NewHandler(allocationService)

	// ---------------- TRANSFER ----------------
	transferService := transfer.NewService(repo, logger)
	transferHandler := transfer.NewHandler(transferService)

	r := gin.Default()
	v1 := r.Group("/api/v1")
	marketHandler.RegisterRoutes(v1)
	allocationHandler.RegisterRoutes(v1)
	transferHandler.RegisterRoutes(v1)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "API alive!"})
	})

	addr := cfg.Server.GetServerAddr()
	logger.Info("Server running", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		logger.Fatal("Server stopped", zap.Error(err))
	}
}

func newLogger(level string) *zap.Logger {
	var logger *zap.Logger
	var err error
	if level == "debug" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	return logger
}

func runMigrations(cfg *config.Config) error {
	m, err := migrate.New("file://"+cfg.Database.MigrationsPath, cfg.Database.GetDatabaseURL())
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
