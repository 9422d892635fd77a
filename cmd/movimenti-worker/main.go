package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"movimenti/internal/amqp"
	"movimenti/internal/config"
	"movimenti/internal/log"
)

// movimenti-worker tails the mutation event stream. Its main job is making
// remote write failures visible outside the server process: every failed
// event means the local cache and the remote system disagree until the
// transaction is touched again.
func main() {
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", log.FieldError, err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to AMQP", log.FieldError, err)
		os.Exit(1)
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.Error("Failed to close AMQP client", log.FieldError, err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received",
			log.FieldOperation, log.OpShutdown,
			"signal", sig.String())
		cancel()
	}()

	worker := logger.WithComponent(log.ComponentAMQP)
	worker.Info("Tailing mutation events",
		log.FieldOperation, log.OpStartup,
		"exchange", cfg.AMQPExchange,
		"queue", cfg.AMQPQueue)

	err = client.ConsumeMutations(ctx, func(ev *amqp.MutationEvent) error {
		switch ev.Remote {
		case amqp.RemoteFailed:
			worker.Error("Remote write failed, stores have diverged",
				log.FieldTransactionID, ev.TransactionID,
				log.FieldCatCode, ev.CatCode,
				log.FieldError, ev.RemoteError,
				"kind", ev.Kind)
		default:
			worker.Info("Mutation settled",
				log.FieldTransactionID, ev.TransactionID,
				log.FieldCatCode, ev.CatCode,
				"kind", ev.Kind,
				"remote", ev.Remote)
		}
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Consumer stopped", log.FieldError, err)
		os.Exit(1)
	}

	logger.Info("Worker stopped gracefully", log.FieldOperation, log.OpShutdown)
}
