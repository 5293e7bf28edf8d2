package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"ledgerpro/internal/backend"
	"ledgerpro/internal/cli"
	"ledgerpro/internal/core"
	apphttp "ledgerpro/internal/http"
	"ledgerpro/internal/log"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cli.LoadEnvFile()

	bootstrap := cli.SetupLogger(os.Getenv("LOG_LEVEL"), log.ComponentApp, nil)
	cfg := cli.LoadAndValidateConfig(bootstrap)
	logger := cli.SetupLogger(cfg.LogLevel, log.ComponentApp, nil)

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}

	res, err := backend.NewFactory(logger.Logger).CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to create backend", log.FieldError, err, "backend", backendCfg.Type)
		os.Exit(1)
	}

	srv := apphttp.NewServer(":"+cfg.Port, res.Service, apphttp.Options{
		CORSOrigins:       cfg.CORSOrigins,
		DefaultLocale:     core.ParseLocale(cfg.DefaultLocale),
		Logger:            logger,
		RequestsPerMinute: 120,
	})

	ctx, done := cli.GracefulShutdown(logger, shutdownTimeout, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("Shutting down server", log.FieldOperation, log.OpShutdown)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown failed", log.FieldError, err)
		}
	})

	logger.Info("Starting ledgerpro server",
		"port", cfg.Port,
		"backend", backendCfg.Type,
		"cache", backendCfg.Cache)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		res.Cleanup()
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	if err := res.Cleanup(); err != nil {
		logger.Error("Cleanup failed", log.FieldError, err)
	}
	logger.Info("Server stopped gracefully")
}
