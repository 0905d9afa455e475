package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"partypay/internal/amqp"
	"partypay/internal/backend"
	"partypay/internal/cache"
	"partypay/internal/cli"
	"partypay/internal/directory"
	apphttp "partypay/internal/http"
	"partypay/internal/log"
	"partypay/internal/services"
	gsheet "partypay/internal/sheets/google"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentApp)

	logger.Info("Starting partypay", log.FieldOperation, log.OpStartup)

	cfg := cli.LoadAndValidateConfig(logger)

	ctx, stop := cli.SignalContext()
	defer stop()

	// Ledger backend
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

	// Local party master directory
	dir := directory.NewStore(cfg.DirectoryPath)

	// AMQP publisher (optional)
	var publisher services.MasterPublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			logger.Warn("AMQP unavailable, imports will not be queued", log.FieldError, err)
		} else {
			defer client.Close()
			publisher = client
			logger.Info("AMQP publisher ready",
				"exchange", cfg.AMQPExchange,
				"queue", cfg.AMQPQueue)
		}
	}

	// Google Sheets master source (optional)
	var opts apphttp.Options
	opts.Sessions = result.Sessions
	if cfg.GoogleSpreadsheetID != "" {
		source, err := gsheet.New(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName, logger)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets source", log.FieldError, err)
			os.Exit(1)
		}
		opts.Source = source
		logger.Info("Google Sheets source ready", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	}

	entries := services.NewEntryService(result.Store, logger)
	imports := services.NewImportService(dir, result.Store, publisher, cfg.ImportConcurrency, logger)

	janitor := cache.NewJanitor(entries.Caches()...)
	go janitor.Run(ctx, time.Minute)

	srv := apphttp.NewServer(":"+cfg.Port, entries, imports, opts, logger)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err, log.FieldOperation, log.OpShutdown)
		}
	}()

	logger.Info("Listening",
		"port", cfg.Port,
		log.FieldBackend, cfg.LedgerBackend,
		"sheets_source", opts.Source != nil,
		"amqp", publisher != nil)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err)
		os.Exit(1)
	}

	logger.Info("Server stopped", log.FieldOperation, log.OpShutdown)
}
