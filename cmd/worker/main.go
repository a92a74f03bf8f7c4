package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/odyssey-erp/salesdesk/internal/app"
	"github.com/odyssey-erp/salesdesk/internal/backend"
	jobmetrics "github.com/odyssey-erp/salesdesk/internal/jobs"
	"github.com/odyssey-erp/salesdesk/internal/platform/cache"
	"github.com/odyssey-erp/salesdesk/internal/salesreport"
	"github.com/odyssey-erp/salesdesk/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg).With(slog.String("component", "worker"))

	redisOpts := cfg.RedisOptions()
	redisClient, err := cache.New(ctx, redisOpts)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	pool, auditLogger, err := app.OpenAudit(ctx, cfg)
	if err != nil {
		logger.Error("connect audit store", slog.Any("error", err))
		os.Exit(1)
	}
	if pool != nil {
		defer pool.Close()
	}

	var exporterOpts []salesreport.ExporterOption
	if auditLogger != nil {
		exporterOpts = append(exporterOpts, salesreport.WithAuditor(auditLogger))
	}
	backendClient := backend.NewClient(cfg.BackendURL, cfg.BackendToken, cfg.BackendTimeout)
	documents, err := app.NewDocuments(cfg, backendClient, logger, exporterOpts...)
	if err != nil {
		logger.Error("init documents", slog.Any("error", err))
		os.Exit(1)
	}

	exportJob := jobs.NewReportExportJob(
		documents.Exporter,
		salesreport.NewExportStore(redisClient, cfg.ExportTTL),
		logger,
		jobmetrics.NewMetrics(nil),
	)

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts:   redisOpts.AsynqOpts(),
		Logger:      logger,
		Concurrency: cfg.WorkerConcurrency,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskReportExport, Handler: exportJob.Handle},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("starting worker", slog.String("pdf_engine", documents.Engine.Name()))
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker stopped", slog.Any("error", err))
		os.Exit(1)
	}
}
