package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"billing-reconciliation/internal/domain"
	"billing-reconciliation/internal/metrics"
	"billing-reconciliation/internal/reconcile"
)

// Result is a completed run: the archived payload plus the full detail
// the payload was assembled from.
type Result struct {
	Run    domain.Run
	Detail *domain.Reconciliation
}

// ReconciliationUseCase orchestrates one reconciliation run: fetch both
// sides, reconcile, assemble the payload and hand it to every sink.
type ReconciliationUseCase struct {
	drafts  DraftRepository
	actuals ActualRepository
	engine  *reconcile.Engine
	sinks   []ReportSink
	logger  *slog.Logger
	now     func() time.Time
}

// NewReconciliationUseCase creates a new instance of the usecase.
func NewReconciliationUseCase(drafts DraftRepository, actuals ActualRepository, engine *reconcile.Engine, logger *slog.Logger, sinks ...ReportSink) *ReconciliationUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReconciliationUseCase{
		drafts:  drafts,
		actuals: actuals,
		engine:  engine,
		sinks:   sinks,
		logger:  logger,
		now:     time.Now,
	}
}

// Reconcile runs the reconciliation for a bill-through period. A source that
// cannot be fetched is reconciled as empty and flagged unavailable in the
// payload; only cancellation of ctx fails the run.
func (uc *ReconciliationUseCase) Reconcile(ctx context.Context, period string) (*Result, error) {
	if period == "" {
		return nil, domain.ErrNoPeriod
	}

	runID := uuid.NewString()
	started := uc.now()
	logger := uc.logger.With("run_id", runID, "period", period)
	logger.Info("reconciliation started")

	// Step 1: fetch both sides concurrently
	var (
		wg                  sync.WaitGroup
		drafts, actuals     []domain.Record
		draftErr, actualErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		drafts, draftErr = uc.drafts.GetDrafts(ctx, period)
	}()
	go func() {
		defer wg.Done()
		actuals, actualErr = uc.actuals.GetActuals(ctx, period)
	}()
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("could not reconcile %s: %w", period, err)
	}
	if draftErr != nil {
		logger.Warn("draft source unavailable, reconciling without drafts", "error", draftErr)
		metrics.SourceFailures.WithLabelValues("draft").Inc()
		drafts = nil
	}
	if actualErr != nil {
		logger.Warn("actual source unavailable, reconciling without actuals", "error", actualErr)
		metrics.SourceFailures.WithLabelValues("actual").Inc()
		actuals = nil
	}

	// Step 2: reconcile and assemble
	rec := uc.engine.Reconcile(drafts, actuals)
	rec.Draft.Available = draftErr == nil
	rec.Actual.Available = actualErr == nil
	payload := reconcile.Assemble(period, rec, uc.engine.Options().Caps)

	run := domain.Run{
		ID:        runID,
		Period:    period,
		CreatedAt: started.UTC(),
		Payload:   payload,
	}

	elapsed := uc.now().Sub(started)
	metrics.ObserveRun(rec, elapsed)
	logger.Info("reconciliation finished",
		"clients", rec.Firm.TotalClients,
		"drafts", rec.Firm.TotalDrafts,
		"drafts_unchanged", rec.Firm.DraftsUnchanged,
		"auto_acceptance_rate", payload.FirmSummary.AutoAcceptanceRate,
		"draft_records", rec.Draft.Records,
		"draft_dropped", rec.Draft.Dropped,
		"draft_malformed", rec.Draft.Malformed,
		"actual_records", rec.Actual.Records,
		"actual_dropped", rec.Actual.Dropped,
		"actual_malformed", rec.Actual.Malformed,
		"elapsed", elapsed,
	)

	// Step 3: publish; a failing sink never fails the run
	for _, sink := range uc.sinks {
		if err := sink.SaveReport(ctx, run); err != nil {
			logger.Error("could not save report", "sink", fmt.Sprintf("%T", sink), "error", err)
			metrics.SinkFailures.Inc()
		}
	}

	return &Result{Run: run, Detail: rec}, nil
}
