package main

import (
	"context"
	"errors"
	"os"

	"partypay/internal/amqp"
	"partypay/internal/backend"
	"partypay/internal/cli"
	"partypay/internal/log"
	"partypay/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentWorker)

	logger.Info("Starting partypay-worker", log.FieldOperation, log.OpStartup)

	cfg := cli.LoadAndValidateConfig(logger)
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the sync worker")
		os.Exit(1)
	}

	ctx, stop := cli.SignalContext()
	defer stop()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}
	result, err := backend.NewFactory(logger).Open(backendCfg)
	if err != nil {
		logger.Error("Failed to open ledger backend", log.FieldError, err, log.FieldBackend, cfg.LedgerBackend)
		os.Exit(1)
	}
	defer func() {
		if err := result.Close(); err != nil {
			logger.Error("Ledger backend close failed", log.FieldError, err)
		}
	}()

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		logger.Error("Failed to connect to AMQP", log.FieldError, err)
		os.Exit(1)
	}
	defer client.Close()

	syncWorker := worker.NewSyncWorker(result.Store, 0, logger)

	logger.Info("Consuming master sync messages",
		"queue", cfg.AMQPQueue,
		log.FieldBackend, cfg.LedgerBackend)

	err = client.ConsumeMasterSync(ctx, func(msg *amqp.MasterSyncMessage) error {
		return syncWorker.HandleMasterSync(ctx, msg)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Consumer stopped", log.FieldError, err)
		os.Exit(1)
	}

	logger.Info("Worker stopped", log.FieldOperation, log.OpShutdown)
}
