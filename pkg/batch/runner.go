package batch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/turncost/pkg/observability"
	"github.com/Sumatoshi-tech/turncost/pkg/report"
	"github.com/Sumatoshi-tech/turncost/pkg/schedule"
	"github.com/Sumatoshi-tech/turncost/pkg/turns"
)

const resultDirPerm = 0o755

// Runner turns a directory of schedule files into a directory of result files.
type Runner struct {
	// Name labels the batch in logs, spans and metrics (e.g. "original").
	Name string

	// Logger receives per-file progress and skipped failures.
	// When nil, falls back to slog.Default().
	Logger *slog.Logger

	// Tracer is the OTel tracer for batch and file spans.
	// When nil, falls back to otel.Tracer("turncost").
	Tracer trace.Tracer

	// Metrics records per-schedule outcomes. Nil disables recording.
	Metrics *observability.BatchMetrics

	// OnError selects abort or skip behaviour. Empty means PolicyAbort.
	OnError ErrorPolicy

	// Prefix is prepended to each result file name. Empty means DefaultResultPrefix.
	Prefix string
}

// FileResult is the outcome of one successfully processed schedule.
type FileResult struct {
	Name   string       `json:"name"`
	Output string       `json:"output"`
	Result turns.Result `json:"result"`
}

// FileFailure is a schedule that could not be processed under PolicySkip.
type FileFailure struct {
	Name string `json:"name"`
	Err  error  `json:"-"`
}

// RunSummary reports what a [Runner.Run] call did.
type RunSummary struct {
	Processed int           `json:"processed"`
	Files     []FileResult  `json:"files"`
	Failed    []FileFailure `json:"failed,omitempty"`
}

// Run processes every regular file in srcDir in name order and writes
// dstDir/<prefix><name> for each. dstDir is created when missing.
func (r *Runner) Run(ctx context.Context, srcDir, dstDir string) (RunSummary, error) {
	var summary RunSummary

	names, err := regularFiles(srcDir)
	if err != nil {
		return summary, fmt.Errorf("list schedules: %w", err)
	}

	err = os.MkdirAll(dstDir, resultDirPerm)
	if err != nil {
		return summary, fmt.Errorf("create results directory: %w", err)
	}

	ctx, span := tracerOrDefault(r.Tracer).Start(ctx, "turncost.batch.run",
		trace.WithAttributes(
			attribute.String("batch.name", r.Name),
			attribute.String("batch.source", srcDir),
			attribute.Int("batch.files", len(names)),
		))
	defer span.End()

	logger := observability.Component(r.Logger, "runner").With("batch", r.Name)

	for _, name := range names {
		if ctxErr := ctx.Err(); ctxErr != nil {
			span.SetStatus(codes.Error, ctxErr.Error())

			return summary, ctxErr
		}

		output := filepath.Join(dstDir, r.prefix()+name)

		res, procErr := r.processFile(ctx, filepath.Join(srcDir, name), output)
		if procErr != nil {
			r.Metrics.RecordSchedule(ctx, r.Name, observability.OutcomeFailed, 0)

			if r.OnError != PolicySkip {
				span.RecordError(procErr)
				span.SetStatus(codes.Error, "schedule failed")

				return summary, fmt.Errorf("process %s: %w", name, procErr)
			}

			logger.WarnContext(ctx, "skipping schedule", "file", name, "error", procErr)
			summary.Failed = append(summary.Failed, FileFailure{Name: name, Err: procErr})

			continue
		}

		r.Metrics.RecordSchedule(ctx, r.Name, observability.OutcomeOK, res.Total)
		logger.DebugContext(ctx, "schedule processed", "file", name, "turns", res.Total, "agents", len(res.Agents))

		summary.Processed++
		summary.Files = append(summary.Files, FileResult{Name: name, Output: output, Result: res})
	}

	span.SetAttributes(
		attribute.Int("batch.processed", summary.Processed),
		attribute.Int("batch.failed", len(summary.Failed)),
	)

	logger.InfoContext(ctx, "batch complete", "processed", summary.Processed, "failed", len(summary.Failed))

	return summary, nil
}

func (r *Runner) processFile(ctx context.Context, schedulePath, resultPath string) (turns.Result, error) {
	_, span := tracerOrDefault(r.Tracer).Start(ctx, "turncost.batch.file",
		trace.WithAttributes(attribute.String("file", filepath.Base(schedulePath))))
	defer span.End()

	sched, err := schedule.LoadFile(schedulePath)
	if err != nil {
		span.RecordError(err)

		return turns.Result{}, err
	}

	res := turns.Aggregate(sched)

	err = report.WriteResultFile(resultPath, res)
	if err != nil {
		span.RecordError(err)

		return turns.Result{}, err
	}

	span.SetAttributes(attribute.Int("turns.total", res.Total))

	return res, nil
}

func (r *Runner) prefix() string {
	if r.Prefix == "" {
		return DefaultResultPrefix
	}

	return r.Prefix
}
