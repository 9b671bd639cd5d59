package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"kazanc/internal/amqp"
	"kazanc/internal/config"
	"kazanc/internal/ledger"
	applog "kazanc/internal/log"
	"kazanc/internal/storage"
	"kazanc/internal/worker"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := applog.New("kazanc-reminder", cfg.LogLevel)
	applog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("configuration validation failed", "error", err)
		os.Exit(1)
	}

	store, closer, err := storage.Open(storage.Options{
		Backend:       cfg.DataBackend,
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		RedisDB:       cfg.RedisDB,
		SQLiteDBPath:  cfg.SQLiteDBPath,
	}, logger)
	if err != nil {
		logger.Error("failed to open store", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer closer.Close()

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("failed to connect to AMQP", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	clock, err := config.ReminderClock(cfg.ReminderTime)
	if err != nil {
		logger.Error("invalid reminder time", "error", err)
		os.Exit(1)
	}

	repo := ledger.NewRepository(store, logger, cfg.FetchBatchSize)
	reminder := worker.NewReminder(repo, client, clock, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting reminder worker", "at", cfg.ReminderTime, "queue", cfg.AMQPQueue)
	if err := reminder.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("reminder worker stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("reminder worker stopped gracefully")
}
