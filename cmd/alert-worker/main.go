package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"plata/internal/amqp"
	"plata/internal/config"
	"plata/internal/log"
	"plata/internal/storage"
	"plata/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	logger.Info("Starting alert-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	store, err := storage.New(cfg.SQLiteDBPath, logger)
	if err != nil {
		logger.Error("Failed to initialize storage", log.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer store.Close()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	w := worker.NewAlertWorker(store, amqpClient, cfg.AlertDaysAhead, cfg.WorkerConcurrency, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Run one pass on startup so a restart never skips the day's alerts.
	if err := w.Run(ctx); err != nil {
		logger.Error("Initial alert pass failed", log.FieldError, err)
	}

	scheduler := cron.New()
	_, err = scheduler.AddFunc(cfg.AlertSchedule, func() {
		if err := w.Run(ctx); err != nil {
			logger.Error("Scheduled alert pass failed", log.FieldError, err)
		}
	})
	if err != nil {
		logger.Error("Failed to schedule alert pass", log.FieldError, err, "schedule", cfg.AlertSchedule)
		os.Exit(1)
	}
	scheduler.Start()
	logger.Info("Alert worker scheduled",
		"schedule", cfg.AlertSchedule,
		"days_ahead", cfg.AlertDaysAhead,
		"concurrency", cfg.WorkerConcurrency)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	logger.Info("Shutdown signal received", "signal", sig.String())

	cancel()
	stopCtx := scheduler.Stop()
	select {
	case <-stopCtx.Done():
		logger.Info("Alert worker shutdown complete")
	case <-time.After(30 * time.Second):
		logger.Warn("Shutdown timeout reached")
	}
}
