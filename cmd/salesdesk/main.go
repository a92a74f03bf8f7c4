package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/odyssey-erp/salesdesk/internal/app"
	"github.com/odyssey-erp/salesdesk/internal/backend"
	"github.com/odyssey-erp/salesdesk/internal/catalog"
	"github.com/odyssey-erp/salesdesk/internal/observability"
	"github.com/odyssey-erp/salesdesk/internal/platform/cache"
	"github.com/odyssey-erp/salesdesk/internal/sales"
	"github.com/odyssey-erp/salesdesk/internal/salesreport"
	"github.com/odyssey-erp/salesdesk/jobs"
	"github.com/odyssey-erp/salesdesk/report"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

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

	metrics := observability.NewMetrics()
	backendClient := backend.NewClient(cfg.BackendURL, cfg.BackendToken, cfg.BackendTimeout)

	catalogCache := catalog.NewCache(redisClient, cfg.CatalogTTL)
	catalogService := catalog.NewService(backendClient, catalogCache, logger)
	catalogCache.ListenForInvalidation(ctx, func(version int64) {
		logger.Debug("catalog version bumped", slog.Int64("version", version))
	})

	exporterOpts := []salesreport.ExporterOption{salesreport.WithObserver(metrics)}
	var salesAuditor sales.Auditor
	if auditLogger != nil {
		exporterOpts = append(exporterOpts, salesreport.WithAuditor(auditLogger))
		salesAuditor = auditLogger
	}
	documents, err := app.NewDocuments(cfg, backendClient, logger, exporterOpts...)
	if err != nil {
		logger.Error("init documents", slog.Any("error", err))
		os.Exit(1)
	}
	if err := documents.Engine.Ping(ctx); err != nil {
		logger.Warn("pdf engine unavailable", slog.String("engine", documents.Engine.Name()), slog.Any("error", err))
	}

	salesService := sales.NewService(
		sales.NewDraftStore(redisClient, cfg.DraftTTL),
		sales.NewSubmitGuard(redisClient, cfg.SubmitLockTTL),
		backendClient,
		catalogService,
		salesAuditor,
		logger,
	)

	jobClient, err := jobs.NewClient(redisOpts.AsynqOpts())
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()
	inspector := asynq.NewInspector(redisOpts.AsynqOpts())
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	exportStore := salesreport.NewExportStore(redisClient, cfg.ExportTTL)
	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		CatalogHandler: catalog.NewHandler(logger, catalogService),
		SalesHandler:   sales.NewHandler(logger, salesService, documents.Exporter),
		ReportsHandler: salesreport.NewHandler(logger, documents.Exporter, exportStore, jobClient),
		ReportHandler:  report.NewHandler(documents.Engine, logger),
		JobHandler:     jobs.NewHandler(inspector, logger),
		Metrics:        metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr), slog.String("pdf_engine", documents.Engine.Name()))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
