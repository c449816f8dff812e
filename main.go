package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"travelmap/config"
	"travelmap/db"
	infraredis "travelmap/infrastructure/redis"
	"travelmap/pkg/logger"
	"travelmap/pkg/metrics"
	"travelmap/server"
	"travelmap/server/handlers"
	"travelmap/services/sessions"
	"travelmap/services/tracker"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application failed: %v", err)
	}
}

func run() error {
	// Load environment
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	log.Println("✓ Configuration loaded and validated")
	cfg.PrintSummary()

	appLogger := logger.New(cfg.Log.File, logger.ParseLevel(cfg.Log.Level))
	defer appLogger.Close()
	logger.SetDefault(appLogger)

	// Open the travel database; a failed ping is not fatal since the home
	// page renders an empty view while postgres is unreachable
	sqlDB, err := sql.Open("postgres", cfg.Database.ConnectionString)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}
	defer sqlDB.Close()

	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := sqlDB.PingContext(pingCtx); err != nil {
		appLogger.WithError(err).Warn("PostgreSQL is not reachable yet")
	} else {
		log.Println("✓ Connected to PostgreSQL")
	}
	pingCancel()

	// Current user selection
	var (
		state       sessions.State
		redisClient *redis.Client
		redisHealth redis.UniversalClient
	)

	switch cfg.Session.Backend {
	case config.SessionBackendRedis:
		redisClient, err = infraredis.NewClient(cfg.Redis)
		if err != nil {
			return fmt.Errorf("failed to initialize Redis client: %w", err)
		}
		defer redisClient.Close()
		log.Println("✓ Connected to Redis")

		redisHealth = redisClient
		state = sessions.NewRedisState(redisClient, cfg.Session.Key, cfg.Session.DefaultUserID)
	default:
		state = sessions.NewMemoryState(cfg.Session.DefaultUserID)
	}
	log.Printf("✓ Initialized %s session state", cfg.Session.Backend)

	metrics.RegisterCollectors(sqlDB, redisClient)

	tsrv := tracker.NewService(db.New(sqlDB), state, tracker.WithQueryTimeout(cfg.Database.QueryTimeout))
	health := handlers.NewHealthCheckHandler(sqlDB, redisHealth)

	// Create server
	srv, err := server.NewServer(cfg, appLogger, tsrv, health)
	if err != nil {
		return fmt.Errorf("failed to create server; err: %w", err)
	}

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errChan <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		log.Printf("Received signal: %v. Shutting down gracefully...", sig)
	}

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Println("✓ Server shutdown complete")
	return nil
}
