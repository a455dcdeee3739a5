package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/curricula/internal/api"
	"github.com/dgallion1/curricula/internal/app"
	"github.com/dgallion1/curricula/internal/config"
	"github.com/dgallion1/curricula/internal/pipeline"
)

func main() {
	cfg := config.Load()
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := app.New(cfg, log)
	if err != nil {
		log.Error("startup failed", "error", err)
		os.Exit(1)
	}

	// Initialize pipeline.
	orch := a.Orchestrator()
	orch.Start(ctx)

	var sched *pipeline.Scheduler
	if cfg.RefreshSchedule != "" {
		sched, err = pipeline.NewScheduler(cfg.RefreshSchedule, orch, a.Catalog.Programs, log)
		if err != nil {
			log.Error("startup failed", "error", err)
			os.Exit(1)
		}
		sched.Start()
		log.Info("scheduled refresh enabled", "schedule", cfg.RefreshSchedule)
	}

	// Initialize HTTP server.
	srv := api.NewServer(orch, a.Classifier, a.Catalog, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		if sched != nil {
			sched.Stop()
		}
		orch.Stop()
		a.Close()
	}()

	log.Info("starting curricula", "port", cfg.Port, "workers", cfg.WorkerCount)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
