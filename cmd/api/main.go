// cmd/api/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/readnwin/readnwin-backend/internal/config"
	"github.com/readnwin/readnwin-backend/internal/infrastructure/database/postgres"
	"github.com/readnwin/readnwin-backend/internal/infrastructure/database/redis"
	"github.com/readnwin/readnwin-backend/internal/interfaces/http"
	"github.com/readnwin/readnwin-backend/internal/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLog := logger.New(cfg)
	appLog.Infof("🚀 Starting %s v%s in %s mode", cfg.App.Name, cfg.App.Version, cfg.App.Environment)

	// Connect to database
	db, err := postgres.NewConnection(cfg)
	if err != nil {
		appLog.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Connect to Redis
	redisClient, err := redis.NewConnection(cfg)
	if err != nil {
		appLog.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Health check
	if err := db.Health(); err != nil {
		appLog.Fatalf("Database health check failed: %v", err)
	}

	if err := redisClient.Health(); err != nil {
		appLog.Fatalf("Redis health check failed: %v", err)
	}

	// Run database migrations
	migration := postgres.NewMigration(db.GetDB())

	if err := migration.RunAutoMigrations(); err != nil {
		appLog.Fatalf("Database migration failed: %v", err)
	}

	if err := migration.CreateIndexes(); err != nil {
		appLog.Warnf("Index creation failed: %v", err)
	}

	if err := migration.SeedInitialData(); err != nil {
		appLog.Warnf("Data seeding failed: %v", err)
	}

	if cfg.IsDevelopment() {
		if err := migration.SeedDevelopmentData(); err != nil {
			appLog.Warnf("Development data seeding failed: %v", err)
		}
		migration.GetTableInfo()
	}

	appLog.Info("✅ All systems operational!")

	// Create and start HTTP server
	server := http.NewServer(cfg, db.GetDB(), redisClient.GetClient(), appLog)

	go func() {
		if err := server.Start(); err != nil {
			appLog.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLog.Info("👋 Shutting down gracefully...")

	// Give server 30 seconds to shutdown gracefully
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		appLog.Errorf("Failed to shutdown HTTP server gracefully: %v", err)
	}

	appLog.Info("✅ Server shutdown completed")
}
