package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/planbiir/gpxalyzer/internal/config"
	"github.com/planbiir/gpxalyzer/internal/logging"
	"github.com/planbiir/gpxalyzer/internal/metrics"
	"github.com/planbiir/gpxalyzer/internal/server"
)

const shutdownTimeout = 10 * time.Second

// main is the entry point of the analysis service.
func main() {
	// Create a context that will be canceled when an interrupt signal is received.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()
	logger := logging.Setup(cfg.Env, os.Stdout)

	// Separate registry so tests and the CLI never touch the global one
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      server.New(logger, cfg, appMetrics, reg).Routes(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.InfoContext(ctx, "Starting analysis server",
			"port", cfg.Port,
			"window", cfg.Window,
			"earth_radius", cfg.EarthRadius,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorContext(ctx, "Analysis server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.InfoContext(ctx, "Shutdown signal received. Stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorContext(shutdownCtx, "Graceful shutdown failed", "error", err)
		return
	}

	logger.InfoContext(shutdownCtx, "Server stopped gracefully.")
}
