// Package server wires the catalog HTTP service together. It is shared by
// cmd/server and the CLI's serve command.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/smartbuy360/backend/config"
	httpDelivery "github.com/smartbuy360/backend/internal/delivery/http"
	"github.com/smartbuy360/backend/internal/domain"
	"github.com/smartbuy360/backend/internal/infrastructure/cache"
	"github.com/smartbuy360/backend/internal/infrastructure/catalog"
	"github.com/smartbuy360/backend/internal/infrastructure/metrics"
	"github.com/smartbuy360/backend/internal/usecase"
)

// NewCatalogService builds the in-process catalog from configuration. The
// returned cleanup releases the result cache.
func NewCatalogService(cfg *config.Config, lg *zap.Logger, reg *metrics.Registry) (*usecase.CatalogService, func()) {
	var (
		resultCache domain.CacheRepository
		cleanup     = func() {}
	)
	if cfg.Cache.Type == "memory" {
		mc := cache.NewMemoryCache(time.Minute)
		resultCache = mc
		cleanup = mc.Close
	}

	var latency usecase.LatencyConfig
	if cfg.Catalog.SimulateLatency {
		latency = usecase.DemoLatency()
	}

	svc := usecase.NewCatalogService(
		catalog.NewFixtureCatalog(),
		resultCache,
		usecase.CatalogServiceConfig{
			CacheTTL:       cfg.Cache.TTL,
			Latency:        latency,
			BarcodeResults: cfg.Catalog.BarcodeResults,
			ImageResults:   cfg.Catalog.ImageResults,
			MaxImageBytes:  cfg.Catalog.MaxImageBytes,
		},
		lg,
		reg,
	)
	return svc, cleanup
}

// Run serves the HTTP API until ctx is cancelled, then drains in-flight
// requests for up to cfg.Server.ShutdownTimeout.
func Run(ctx context.Context, cfg *config.Config, lg *zap.Logger) error {
	lg.Info("Starting SmartBuy360 backend",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("cache", cfg.Cache.Type),
		zap.Bool("simulate_latency", cfg.Catalog.SimulateLatency),
	)

	reg := metrics.NewRegistry()
	svc, cleanup := NewCatalogService(cfg, lg, reg)
	defer cleanup()

	handler := httpDelivery.NewHandler(svc, cfg.Catalog.MaxImageBytes, lg)
	router := httpDelivery.SetupRouter(cfg, handler, reg, lg)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		lg.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return errors.Wrap(err, "listen")
		}
		return nil
	case <-ctx.Done():
	}

	timeout := cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	lg.Info("Shutting down server", zap.Duration("timeout", timeout))
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	lg.Info("Server stopped")
	return nil
}
