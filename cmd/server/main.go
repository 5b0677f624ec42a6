package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/conduitlabs/conduit/backend/internal/router"
	"github.com/conduitlabs/conduit/backend/pkg/config"
	"github.com/conduitlabs/conduit/backend/pkg/logger"
	"github.com/conduitlabs/conduit/backend/validators"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zl, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zl.Sync()

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		zl.Fatal("Failed to initialize databases", zap.Error(err))
	}
	defer db.CloseDB()

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()

	// Setup global middleware, routes and dependencies
	router.SetupMiddleware(e, zl)
	if err := router.SetupRoutes(e, db.Postgres, db.Mongo, cfg, zl); err != nil {
		zl.Fatal("Failed to set up routes", zap.Error(err))
	}

	// Start server
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil {
			zl.Info("Server stopped", zap.Error(err))
		}
	}()
	zl.Info("Server listening", zap.String("port", cfg.Port))

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		zl.Error("Shutdown error", zap.Error(err))
	}
}
