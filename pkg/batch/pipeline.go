package batch

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/turncost/pkg/observability"
)

// Batch names used as labels by [Pipeline].
const (
	BatchOriginal = "original"
	BatchChanged  = "changed"
)

// Stage names the input and output directories of one batch.
type Stage struct {
	Schedules string
	Results   string
}

// Pipeline counts turns for the original and changed batches, compares the
// results and writes the report.
type Pipeline struct {
	Original Stage
	Changed  Stage
	Report   string

	Logger  *slog.Logger
	Tracer  trace.Tracer
	Metrics *observability.BatchMetrics
	OnError ErrorPolicy
	Prefix  string
}

// PipelineResult is everything a [Pipeline.Run] produced.
type PipelineResult struct {
	Original   RunSummary  `json:"original"`
	Changed    RunSummary  `json:"changed"`
	Comparison *Comparison `json:"comparison"`
}

// Run executes both batches, then the comparison. The report is written only
// when every step succeeded.
func (p *Pipeline) Run(ctx context.Context) (*PipelineResult, error) {
	ctx, span := tracerOrDefault(p.Tracer).Start(ctx, "turncost.pipeline")
	defer span.End()

	result := &PipelineResult{}

	original, err := p.runner(BatchOriginal).Run(ctx, p.Original.Schedules, p.Original.Results)
	result.Original = original

	if err != nil {
		return result, fmt.Errorf("%s batch: %w", BatchOriginal, err)
	}

	changed, err := p.runner(BatchChanged).Run(ctx, p.Changed.Schedules, p.Changed.Results)
	result.Changed = changed

	if err != nil {
		return result, fmt.Errorf("%s batch: %w", BatchChanged, err)
	}

	comparator := &Comparator{Logger: p.Logger, Tracer: p.Tracer, Metrics: p.Metrics}

	cmp, err := comparator.Compare(ctx, p.Original.Results, p.Changed.Results)
	if err != nil {
		return result, err
	}

	result.Comparison = cmp

	err = cmp.WriteReport(p.Report)
	if err != nil {
		return result, err
	}

	observability.Component(p.Logger, "pipeline").InfoContext(ctx, "comparison is complete",
		"rows", len(cmp.Rows), "missing", len(cmp.Missing), "report", p.Report)

	return result, nil
}

func (p *Pipeline) runner(name string) *Runner {
	return &Runner{
		Name:    name,
		Logger:  p.Logger,
		Tracer:  p.Tracer,
		Metrics: p.Metrics,
		OnError: p.OnError,
		Prefix:  p.Prefix,
	}
}
