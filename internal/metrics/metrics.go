// Package metrics holds the Prometheus collectors for reconciliation runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"billing-reconciliation/internal/domain"
)

const (
	namespace = "billing"
	subsystem = "reconciliation"
)

var (
	RunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "runs_total",
		Help:      "Reconciliation runs by outcome.",
	}, []string{"outcome"})

	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "run_duration_seconds",
		Help:      "Wall time of a reconciliation run, fetch included.",
		Buckets:   prometheus.DefBuckets,
	})

	SourceFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "source_failures_total",
		Help:      "Failed fetches per source side.",
	}, []string{"side"})

	SinkFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "sink_failures_total",
		Help:      "Reports that could not be delivered to a sink.",
	})

	DroppedRecords = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "dropped_records_total",
		Help:      "Records dropped for lacking a client identifier.",
	}, []string{"side"})

	MalformedFields = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "malformed_fields_total",
		Help:      "Amounts or nested summaries that could not be decoded.",
	}, []string{"side"})

	LineClassifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "line_classifications_total",
		Help:      "Classified draft lines by change kind.",
	}, []string{"kind"})

	AutoAcceptanceRate = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "auto_acceptance_rate",
		Help:      "Client-level auto-acceptance rate of the latest run.",
	})
)

// ObserveRun records the outcome of one completed run.
func ObserveRun(rec *domain.Reconciliation, elapsed time.Duration) {
	outcome := "ok"
	if !rec.Draft.Available || !rec.Actual.Available {
		outcome = "degraded"
	}
	RunsTotal.WithLabelValues(outcome).Inc()
	RunDuration.Observe(elapsed.Seconds())

	DroppedRecords.WithLabelValues("draft").Add(float64(rec.Draft.Dropped))
	DroppedRecords.WithLabelValues("actual").Add(float64(rec.Actual.Dropped))
	MalformedFields.WithLabelValues("draft").Add(float64(rec.Draft.Malformed))
	MalformedFields.WithLabelValues("actual").Add(float64(rec.Actual.Malformed))

	LineClassifications.WithLabelValues(string(domain.ChangeUnchanged)).Add(float64(rec.Firm.Lines.Unchanged))
	LineClassifications.WithLabelValues(string(domain.ChangeAmount)).Add(float64(rec.Firm.Lines.AmountChanged))
	LineClassifications.WithLabelValues(string(domain.ChangeVerbiage)).Add(float64(rec.Firm.Lines.VerbiageChanged))

	rate, _ := rec.Firm.AutoAcceptanceRate.Float64()
	AutoAcceptanceRate.Set(rate)
}
