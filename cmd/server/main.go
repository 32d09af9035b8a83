package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"cohort/internal/platform/config"
	"cohort/internal/platform/httpserver"
	"cohort/internal/platform/logger"
	"cohort/internal/platform/metrics"
)

// main wires dependencies, serves the ops surface and keeps the server
// lifecycle small. Participant logic lives in internal/participant.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := metrics.NewRegistry()
	platformMetrics := metrics.New(reg)

	app, err := build(ctx, cfg, log, reg)
	if err != nil {
		log.Error("failed to initialize", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	router := httpserver.NewOpsRouter(httpserver.OpsConfig{
		Registry: reg,
		Metrics:  platformMetrics,
		Logger:   log,
		Checks:   app.checks,
	})
	srv := httpserver.New(cfg.Server.Addr, router)

	go func() {
		log.Info("starting cohort", "addr", cfg.Server.Addr, "backends", app.backendSummary())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}
