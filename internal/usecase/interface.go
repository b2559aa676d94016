package usecase

import (
	"context"

	"billing-reconciliation/internal/domain"
)

// DraftRepository fetches the automated billing draft for a bill-through period.
// The usecase layer depends on these interfaces, not on concrete sources.
//
//go:generate mockgen -destination=mocks/mock_repository.go -source=interface.go
type DraftRepository interface {
	GetDrafts(ctx context.Context, period string) ([]domain.Record, error)
}

// ActualRepository fetches the invoices actually sent for a billing period.
type ActualRepository interface {
	GetActuals(ctx context.Context, period string) ([]domain.Record, error)
}

// ReportSink receives every completed run, e.g. the run history or an archive bucket.
type ReportSink interface {
	SaveReport(ctx context.Context, run domain.Run) error
}
