// partypay-import runs the master import pipeline once, from an xlsx file or
// the configured Google Sheet, and prints the outcome. With -dry-run it only
// parses and reports, nothing is written.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"partypay/internal/amqp"
	"partypay/internal/backend"
	"partypay/internal/cli"
	"partypay/internal/config"
	"partypay/internal/directory"
	"partypay/internal/excel"
	"partypay/internal/log"
	"partypay/internal/services"
	gsheet "partypay/internal/sheets/google"
)

func main() {
	var (
		filePath = flag.String("file", "", "path to an xlsx file to import; empty means the configured Google Sheet")
		dryRun   = flag.Bool("dry-run", false, "parse and report without writing anywhere")
	)
	flag.Parse()

	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentImport)
	cfg := cli.LoadAndValidateConfig(logger)

	ctx, stop := cli.SignalContext()
	defer stop()

	if *dryRun {
		if err := runDryRun(ctx, *filePath, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName, logger); err != nil {
			logger.Error("Dry run failed", log.FieldError, err)
			os.Exit(1)
		}
		return
	}

	if err := runImport(ctx, cfg, *filePath, logger); err != nil {
		logger.Error("Import failed", log.FieldError, err)
		os.Exit(1)
	}
}

func runDryRun(ctx context.Context, filePath, spreadsheetID, sheetName string, logger *log.Logger) error {
	var (
		res *excel.Result
		err error
	)
	if filePath != "" {
		var data []byte
		data, err = os.ReadFile(filePath)
		if err != nil {
			return err
		}
		res, err = excel.Parse(data)
	} else {
		if spreadsheetID == "" {
			return fmt.Errorf("no -file given and no GOOGLE_SPREADSHEET_ID configured")
		}
		var src *gsheet.Client
		src, err = gsheet.New(ctx, spreadsheetID, sheetName, logger)
		if err != nil {
			return err
		}
		masters, warnings, readErr := src.ReadPartyMasters(ctx)
		if readErr != nil {
			return readErr
		}
		res = &excel.Result{Masters: masters, Warnings: warnings}
	}
	if err != nil {
		if res != nil {
			printWarnings(res.Warnings)
		}
		return err
	}

	fmt.Printf("Would import %d party masters\n", len(res.Masters))
	printWarnings(res.Warnings)
	for _, m := range res.Masters {
		fmt.Printf("  %-30s due %s\n", m.PartyName, m.DueAmount)
	}
	return nil
}

func runImport(ctx context.Context, cfg *config.Config, filePath string, logger *log.Logger) error {
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	result, err := backend.NewFactory(logger).Open(backendCfg)
	if err != nil {
		return err
	}
	defer result.Close()

	dir := directory.NewStore(cfg.DirectoryPath)

	var publisher services.MasterPublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			logger.Warn("AMQP unavailable, import will not be queued", log.FieldError, err)
		} else {
			defer client.Close()
			publisher = client
		}
	}

	imports := services.NewImportService(dir, result.Store, publisher, cfg.ImportConcurrency, logger)

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	var outcome *services.ImportOutcome
	if filePath != "" {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return err
		}
		outcome, err = imports.ImportFile(ctx, data)
		if err != nil {
			if outcome != nil {
				printWarnings(outcome.Warnings)
			}
			return err
		}
	} else {
		if cfg.GoogleSpreadsheetID == "" {
			return fmt.Errorf("no -file given and no GOOGLE_SPREADSHEET_ID configured")
		}
		src, err := gsheet.New(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName, logger)
		if err != nil {
			return err
		}
		outcome, err = imports.ImportFromSource(ctx, src)
		if err != nil {
			if outcome != nil {
				printWarnings(outcome.Warnings)
			}
			return err
		}
	}

	out, _ := json.MarshalIndent(outcome, "", "  ")
	fmt.Println(string(out))
	return nil
}

func printWarnings(warnings []string) {
	for _, w := range warnings {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}
}
