package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"kazanc/internal/config"
	"kazanc/internal/currency"
	apphttp "kazanc/internal/http"
	"kazanc/internal/ledger"
	applog "kazanc/internal/log"
	"kazanc/internal/storage"
)

func main() {
	// .env is for local development; absence is fine.
	_ = godotenv.Load()

	cfg := config.Load()
	logger := applog.New("kazanc", cfg.LogLevel)
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

	formatter, err := currency.NewFormatter(cfg.CurrencyLocale)
	if err != nil {
		logger.Error("failed to build currency formatter", "error", err, "locale", cfg.CurrencyLocale)
		os.Exit(1)
	}

	repo := ledger.NewRepository(store, logger, cfg.FetchBatchSize)
	srv := apphttp.NewServer(":"+cfg.Port, repo, formatter, logger)

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("starting kazanc server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("server stopped gracefully")
}
