package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"billing-reconciliation/internal/config"
	"billing-reconciliation/internal/gateway"
	"billing-reconciliation/internal/history"
	"billing-reconciliation/internal/reconcile"
	"billing-reconciliation/internal/usecase"
)

type appOptions struct {
	configPath string
	envFiles   []string
}

// app holds the wired dependencies shared by the subcommands.
type app struct {
	cfg     config.Config
	logger  *slog.Logger
	history *history.Store
	uc      *usecase.ReconciliationUseCase
}

// newApp wires the application by hand: config, logger, sources, engine,
// sinks and finally the usecase.
func newApp(ctx context.Context, opts appOptions) (*app, error) {
	if err := config.LoadDotEnv(opts.envFiles...); err != nil {
		return nil, err
	}
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	logger, err := cfg.Log.NewLogger(os.Stderr)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	a := &app{cfg: cfg, logger: logger}

	var (
		drafts  usecase.DraftRepository
		actuals usecase.ActualRepository
		sinks   []usecase.ReportSink
		bucket  *gateway.S3Store
	)

	if cfg.Sources.S3.Bucket != "" {
		bucket, err = gateway.NewS3StoreFromEnv(ctx, cfg.Sources.S3.Region, cfg.Sources.S3.Bucket, cfg.Sources.S3.Prefix)
		if err != nil {
			return nil, err
		}
	}

	switch {
	case bucket != nil:
		drafts = bucket
	default:
		drafts = gateway.NewFileStore(cfg.Sources.DraftDir)
	}
	switch {
	case cfg.Sources.ActualURL != "":
		actuals = gateway.NewHTTPActualRepository(cfg.Sources.ActualURL, cfg.Sources.ActualAPIKey, cfg.Sources.Timeout)
	case bucket != nil:
		actuals = bucket
	default:
		actuals = gateway.NewFileStore(cfg.Sources.ActualDir)
	}

	if cfg.History.Path != "" {
		a.history, err = history.Open(ctx, cfg.History.Path)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, a.history)
	}
	if cfg.Sources.ReportDir != "" {
		sinks = append(sinks, gateway.NewFileStore(cfg.Sources.ReportDir))
	}
	if bucket != nil && cfg.Sources.S3.ArchiveReports {
		sinks = append(sinks, bucket)
	}

	engine := reconcile.NewEngine(cfg.EngineOptions())
	a.uc = usecase.NewReconciliationUseCase(drafts, actuals, engine, logger, sinks...)

	logger.Debug("reconciler configured",
		"drafts", fmt.Sprintf("%T", drafts),
		"actuals", fmt.Sprintf("%T", actuals),
		"sinks", len(sinks),
	)
	return a, nil
}

// Close releases the history database, if open.
func (a *app) Close() {
	if a.history == nil {
		return
	}
	if err := a.history.Close(); err != nil {
		a.logger.Warn("could not close history", "error", err)
	}
}
