package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/light-bringer/quote-pricing-service/internal/config"
	"github.com/light-bringer/quote-pricing-service/internal/pkg/logger"
	"github.com/light-bringer/quote-pricing-service/internal/services"
	httptransport "github.com/light-bringer/quote-pricing-service/internal/transport/http"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}

func run() error {
	ctx := context.Background()

	// 1. Load configuration (.env is optional)
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	zl, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = zl.Sync() }()

	zl.Info("Starting Quote Pricing Service...",
		zap.String("spanner_database", cfg.SpannerDatabase),
		zap.String("package_source", cfg.PackageSource),
		zap.String("http_port", cfg.HTTPPort))

	// 2. Initialize service dependencies (DI container)
	serviceOpts, err := services.NewServiceOptions(ctx, cfg, zl)
	if err != nil {
		return fmt.Errorf("failed to initialize service: %w", err)
	}
	defer serviceOpts.Close()

	// 3. Create HTTP server
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := httptransport.NewRouter(serviceOpts.QuoteHandler, httptransport.RouterConfig{
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	}, zl)

	httpServer := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 4. Start HTTP server in background
	errCh := make(chan error, 1)
	go func() {
		zl.Info("HTTP server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// 5. Graceful shutdown handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		zl.Info("Shutting down gracefully...", zap.String("signal", sig.String()))
	case err := <-errCh:
		return fmt.Errorf("HTTP server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zl.Error("HTTP server shutdown error", zap.Error(err))
	}

	stats := serviceOpts.Calculator.Stats()
	zl.Info("Calculation totals",
		zap.Int64("requested", stats.Requested),
		zap.Int64("dispatched", stats.Dispatched),
		zap.Int64("cache_hits", stats.CacheHits),
		zap.Int64("superseded", stats.Superseded),
		zap.Int64("failed", stats.Failed))

	return nil
}
