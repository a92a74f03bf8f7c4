package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/odyssey-erp/salesdesk/internal/document"
	"github.com/odyssey-erp/salesdesk/internal/money"
	"github.com/odyssey-erp/salesdesk/internal/platform/cache"
	"github.com/odyssey-erp/salesdesk/internal/platform/db"
	"github.com/odyssey-erp/salesdesk/internal/salesreport"
	"github.com/odyssey-erp/salesdesk/internal/shared"
	"github.com/odyssey-erp/salesdesk/report"
)

// Documents bundles the PDF engine and the exporter built on top of it.
type Documents struct {
	Engine   report.Engine
	Exporter *salesreport.Exporter
}

// NewDocuments wires the configured PDF engine, letterhead and currency
// formatter into a report exporter.
func NewDocuments(cfg *Config, source salesreport.Source, logger *slog.Logger, opts ...salesreport.ExporterOption) (*Documents, error) {
	engine, err := report.NewEngine(report.EngineConfig{
		Kind:         cfg.PDFEngine,
		GotenbergURL: cfg.GotenbergURL,
		ChromePath:   cfg.ChromePath,
		Timeout:      cfg.PDFTimeout,
	})
	if err != nil {
		return nil, err
	}
	renderer, err := document.NewRenderer(engine)
	if err != nil {
		return nil, fmt.Errorf("document renderer: %w", err)
	}
	branding := salesreport.DefaultBranding()
	if cfg.BrandingFile != "" {
		branding, err = salesreport.LoadBranding(cfg.BrandingFile)
		if err != nil {
			return nil, err
		}
	}
	builder := salesreport.NewBuilder(money.NewFormatter(cfg.CurrencyLocale, cfg.CurrencySymbol), branding, cfg.Location())
	return &Documents{
		Engine:   engine,
		Exporter: salesreport.NewExporter(source, builder, renderer, logger, opts...),
	}, nil
}

// OpenAudit connects the optional Postgres audit store. It returns a nil
// pool and logger when PG_DSN is unset.
func OpenAudit(ctx context.Context, cfg *Config) (*pgxpool.Pool, *shared.AuditLogger, error) {
	if !cfg.AuditEnabled() {
		return nil, nil, nil
	}
	pool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
	if err != nil {
		return nil, nil, err
	}
	if err := db.EnsureAuditSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return pool, shared.NewAuditLogger(pool), nil
}

// RedisOptions returns the shared Redis connection settings.
func (c *Config) RedisOptions() cache.Options {
	return cache.Options{Addr: c.RedisAddr, Password: c.RedisPassword, DB: c.RedisDB}
}
