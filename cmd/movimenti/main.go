package main

import (
	"context"
	"errors"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"movimenti/internal/amqp"
	"movimenti/internal/config"
	apphttp "movimenti/internal/http"
	"movimenti/internal/log"
	"movimenti/internal/remote"
	"movimenti/internal/services"
	"movimenti/internal/storage"
)

func main() {
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", log.FieldError, err)
		os.Exit(1)
	}

	client, err := remote.NewClient(&nethttp.Client{Timeout: cfg.RemoteTimeout}, cfg.RemoteBaseURL, logger)
	if err != nil {
		logger.Error("Failed to create remote client", log.FieldError, err)
		os.Exit(1)
	}

	snapshots, err := storage.Open(cfg.SQLiteDBPath, logger)
	if err != nil {
		logger.Error("Failed to open local cache", log.FieldError, err, log.FieldPath, cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer func() {
		if err := snapshots.Close(); err != nil {
			logger.Error("Failed to close local cache", log.FieldError, err)
		}
	}()

	var events *amqp.Client
	if cfg.AMQPURL != "" {
		events, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			// the event stream is optional, run without it
			logger.Warn("AMQP unavailable, mutation events disabled", log.FieldError, err)
			events = nil
		} else {
			defer func() {
				if err := events.Close(); err != nil {
					logger.Error("Failed to close AMQP client", log.FieldError, err)
				}
			}()
		}
	}

	categories := services.NewCategoryStore(client, cfg.CategoryCacheTTL, logger)
	transactions := services.NewTransactionStore(client, snapshots, categories, events, cfg.PageSize, logger)

	hydrateCtx, cancelHydrate := context.WithTimeout(context.Background(), 2*cfg.RemoteTimeout)
	defer cancelHydrate()

	g, gctx := errgroup.WithContext(hydrateCtx)
	g.Go(func() error {
		if err := transactions.Hydrate(gctx); err != nil {
			logger.Warn("Started with an empty transaction cache",
				log.FieldOperation, log.OpHydrate,
				log.FieldError, err)
		}
		return nil
	})
	g.Go(func() error {
		if _, err := categories.Load(gctx); err != nil {
			logger.Warn("Started with an empty category taxonomy",
				log.FieldOperation, log.OpHydrate,
				log.FieldError, err)
		}
		return nil
	})
	_ = g.Wait()

	srv := apphttp.NewServer(":"+cfg.Port, transactions, categories, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received",
			log.FieldOperation, log.OpShutdown,
			"signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		cancel()
	}()

	logger.Info("Starting movimenti server",
		log.FieldOperation, log.OpStartup,
		"port", cfg.Port,
		log.FieldState, transactions.State().String())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully", log.FieldOperation, log.OpShutdown)
}
