package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"plata/internal/amqp"
	"plata/internal/config"
	"plata/internal/log"
	"plata/internal/storage"
)

// republishAge is how long an alert may sit PENDING before the dispatcher
// assumes its original publish was lost and puts it back on the queue.
const republishAge = time.Hour

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	logger.Info("Starting alert-dispatcher")

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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := republishStale(ctx, store, amqpClient, logger); err != nil {
		logger.Error("Failed to republish stale alerts", log.FieldError, err)
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())
		cancel()
	}()

	logger.Info("Consuming alerts", "queue", cfg.AMQPQueue)
	err = amqpClient.ConsumeAlerts(ctx, func(msg *amqp.AlertMessage) error {
		// Delivery to the user's channel happens outside this service;
		// the dispatcher records that the alert left the system.
		logger.Info("Alert dispatched",
			log.FieldUserID, msg.UserID,
			log.FieldAlertType, msg.Type,
			"alert_id", msg.AlertID)

		if err := store.MarkAlertStatus(ctx, msg.AlertID, storage.AlertSent); err != nil {
			logger.Error("Failed to mark alert sent", log.FieldError, err, "alert_id", msg.AlertID)
			return err
		}
		return nil
	})
	if err != nil && ctx.Err() == nil {
		logger.Error("Consumer stopped", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Alert-dispatcher shutdown complete")
}

// republishStale puts long-pending alerts back on the queue. An alert stays
// PENDING when the worker persisted it but its publish never reached the
// broker.
func republishStale(ctx context.Context, store *storage.Store, client *amqp.Client, logger *log.Logger) error {
	pending, err := store.ListPendingAlerts(ctx)
	if err != nil {
		return err
	}

	cutoff := time.Now().Add(-republishAge)
	republished := 0
	for _, a := range pending {
		if a.ScheduledAt.After(cutoff) {
			continue
		}
		msg := amqp.NewAlertMessage(a.ID, a.UserID, a.Type, a.Message)
		if err := client.PublishAlert(ctx, msg); err != nil {
			logger.Error("Failed to republish alert", log.FieldError, err, "alert_id", a.ID)
			continue
		}
		republished++
	}
	if republished > 0 {
		logger.Info("Republished stale alerts", "count", republished)
	}
	return nil
}
