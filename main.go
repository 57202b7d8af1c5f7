package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := config()
	cfg.logger.Debug("configuration loaded")

	if cfg.registry.Len() == 0 {
		cfg.logger.Error("location registry is empty")
		os.Exit(1)
	}
	if err := cfg.ConnectDB(); err != nil {
		os.Exit(1)
	}
	if err := cfg.ConnectCache(); err != nil {
		os.Exit(1)
	}

	scheduler := NewScheduler(cfg)
	cfg.logger.Info("starting scheduler",
		"cycle_interval", cfg.cycleInterval.String(),
		"max_concurrent_fetches", cfg.maxConcurrentFetches,
	)
	scheduler.Start()

	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/arduino/{id}/data", cfg.handlerArduinoData)
	mux.HandleFunc("GET /api/arduino/v2/{id}/data", cfg.handlerArduinoDataV2)
	mux.HandleFunc("GET /api/arduino/status", cfg.handlerArduinoStatus)
	mux.Handle("/metrics", promhttp.Handler())

	if cfg.devMode {
		cfg.logger.Debug("development mode enabled, registering /dev endpoints")
		mux.HandleFunc("/dev/reset-db", cfg.handlerResetDB)
		mux.HandleFunc("/dev/conditions", cfg.handlerListConditions)
		mux.HandleFunc("/dev/runschedulerjobs", scheduler.handlerRunSchedulerJobs)
		mux.HandleFunc("/api/config", cfg.handlerConfig)
	}

	server := &http.Server{
		Addr:    ":" + cfg.port,
		Handler: metricsMiddleware(corsMiddleware(mux)),
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		cfg.logger.Info("starting server", "port", cfg.port)
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		cfg.logger.Error("server startup failed", "error", err)
		scheduler.Stop()
		os.Exit(1)
	case <-shutdownCtx.Done():
	}

	cfg.logger.Info("shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		cfg.logger.Warn("server shutdown error", "error", err)
	}
	scheduler.Stop()
	cfg.logger.Info("shutdown complete")
}
