package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricSchedulesTotal   = "turncost.batch.schedules.total"
	metricScheduleTurns    = "turncost.batch.schedule.turns"
	metricComparisonsTotal = "turncost.compare.rows.total"
	metricMissingTotal     = "turncost.compare.missing.total"

	attrBatch   = "batch"
	attrOutcome = "outcome"

	// OutcomeOK marks a schedule whose result file was written.
	OutcomeOK = "ok"
	// OutcomeFailed marks a schedule that could not be processed.
	OutcomeFailed = "failed"
)

// turnBucketBoundaries covers schedules from a handful of agents up to large benchmark maps.
var turnBucketBoundaries = []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000}

// BatchMetrics holds OTel instruments for batch runs and comparisons.
type BatchMetrics struct {
	schedulesTotal   metric.Int64Counter
	scheduleTurns    metric.Int64Histogram
	comparisonsTotal metric.Int64Counter
	missingTotal     metric.Int64Counter
}

// NewBatchMetrics creates batch metric instruments from the given meter.
func NewBatchMetrics(mt metric.Meter) (*BatchMetrics, error) {
	schedules, err := mt.Int64Counter(metricSchedulesTotal,
		metric.WithDescription("Schedules processed by outcome"),
		metric.WithUnit("{schedule}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricSchedulesTotal, err)
	}

	turns, err := mt.Int64Histogram(metricScheduleTurns,
		metric.WithDescription("Total turns per schedule"),
		metric.WithUnit("{turn}"),
		metric.WithExplicitBucketBoundaries(turnBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricScheduleTurns, err)
	}

	rows, err := mt.Int64Counter(metricComparisonsTotal,
		metric.WithDescription("Comparison report rows written"),
		metric.WithUnit("{row}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricComparisonsTotal, err)
	}

	missing, err := mt.Int64Counter(metricMissingTotal,
		metric.WithDescription("Original results without a changed counterpart"),
		metric.WithUnit("{file}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricMissingTotal, err)
	}

	return &BatchMetrics{
		schedulesTotal:   schedules,
		scheduleTurns:    turns,
		comparisonsTotal: rows,
		missingTotal:     missing,
	}, nil
}

// RecordSchedule records one processed schedule. Turns are only recorded on success.
// Safe to call on a nil receiver (no-op).
func (bm *BatchMetrics) RecordSchedule(ctx context.Context, batch, outcome string, total int) {
	if bm == nil {
		return
	}

	bm.schedulesTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrBatch, batch),
		attribute.String(attrOutcome, outcome),
	))

	if outcome == OutcomeOK {
		bm.scheduleTurns.Record(ctx, int64(total), metric.WithAttributes(attribute.String(attrBatch, batch)))
	}
}

// RecordComparison records the row and missing-counterpart counts of one comparison.
// Safe to call on a nil receiver (no-op).
func (bm *BatchMetrics) RecordComparison(ctx context.Context, rows, missing int) {
	if bm == nil {
		return
	}

	bm.comparisonsTotal.Add(ctx, int64(rows))
	bm.missingTotal.Add(ctx, int64(missing))
}
