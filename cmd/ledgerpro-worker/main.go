package main

import (
	"context"
	"errors"
	"os"
	"time"

	"ledgerpro/internal/amqp"
	"ledgerpro/internal/backend"
	"ledgerpro/internal/cli"
	"ledgerpro/internal/log"
	"ledgerpro/internal/sheets"
	gsheet "ledgerpro/internal/sheets/google"
	"ledgerpro/internal/sheets/memory"
	"ledgerpro/internal/worker"

	"golang.org/x/sync/errgroup"
)

// reconcileInterval paces the periodic mirror reconciliation that catches
// events lost in transit.
const reconcileInterval = time.Hour

func main() {
	cli.LoadEnvFile()

	bootstrap := cli.SetupLogger(os.Getenv("LOG_LEVEL"), log.ComponentWorker, nil)
	cfg := cli.LoadAndValidateConfig(bootstrap)
	logger := cli.SetupLogger(cfg.LogLevel, log.ComponentWorker, nil)

	if err := cfg.ValidateWorker(); err != nil {
		logger.Error("Worker configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Starting ledgerpro-worker")

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	store, err := backend.NewFactory(logger.Logger).CreateStore(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to open storage", log.FieldError, err, "backend", backendCfg.Type)
		os.Exit(1)
	}
	defer store.Close()

	var mirror sheets.RecordMirror
	if cfg.GoogleSpreadsheetID != "" {
		client, err := gsheet.New(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
			os.Exit(1)
		}
		mirror = client
		logger.Info("Google Sheets mirror initialized",
			"spreadsheet_id", cfg.GoogleSpreadsheetID,
			"sheet", cfg.GoogleSheetName)
	} else {
		mirror = memory.New()
		logger.Warn("GOOGLE_SPREADSHEET_ID not set, mirroring into memory only")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	mw := worker.NewMirrorWorker(store, mirror)

	// Recover events lost while the worker was down. Failures are not fatal.
	logger.Info("Performing startup sync check", log.FieldOperation, log.OpStartup)
	if res, err := mw.StartupSyncCheck(ctx); err != nil {
		logger.Error("Startup sync check failed", log.FieldError, err)
	} else {
		logger.Info("Startup sync check complete",
			"appended", res.Appended,
			"removed", res.Removed,
			"errors", res.Errors)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return amqpClient.Consume(gctx, mw.HandleEvent)
	})
	g.Go(func() error {
		ticker := time.NewTicker(reconcileInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case <-ticker.C:
				if _, err := mw.StartupSyncCheck(gctx); err != nil {
					logger.Error("Periodic reconciliation failed", log.FieldError, err)
				}
			}
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", log.FieldError, err)
		os.Exit(1)
	}
	if ctx.Err() != nil {
		cli.WaitForShutdown(ctx, done)
	}
	logger.Info("Worker shutdown complete", log.FieldOperation, log.OpShutdown)
}
