package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/colonyconnect/colony-api/internal/config"
	"github.com/colonyconnect/colony-api/internal/logger"
	"github.com/colonyconnect/colony-api/internal/server"
	"github.com/colonyconnect/colony-api/internal/storage/postgres"
)

func main() {
	cfg := config.Load()

	logger.Initialize(cfg.Server.LogLevel)
	log := logger.Get()

	log.Info("Starting Colony API", "port", cfg.Server.Port, "gin_mode", cfg.Server.GinMode)

	db, err := postgres.Connect(cfg)
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := postgres.Close(); err != nil {
			log.Error("Failed to close database connection", "error", err)
		}
	}()

	if err := postgres.AutoMigrate(db); err != nil {
		log.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	srv := server.New(cfg, db)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("Server failed", "error", err)
			os.Exit(1)
		}
	case sig := <-quit:
		log.Info("Received shutdown signal", "signal", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := srv.Stop(ctx); err != nil {
			log.Error("Graceful shutdown failed", "error", err)
			os.Exit(1)
		}
	}

	log.Info("Server stopped")
}
