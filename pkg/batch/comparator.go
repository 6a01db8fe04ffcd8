package batch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/turncost/pkg/observability"
	"github.com/Sumatoshi-tech/turncost/pkg/report"
)

// Comparator matches result files of two batches by name and reports the
// difference of their totals.
type Comparator struct {
	// Logger receives missing-counterpart warnings.
	// When nil, falls back to slog.Default().
	Logger *slog.Logger

	// Tracer is the OTel tracer for the comparison span.
	// When nil, falls back to otel.Tracer("turncost").
	Tracer trace.Tracer

	// Metrics records row and missing counts. Nil disables recording.
	Metrics *observability.BatchMetrics
}

// Comparison holds one row per name present in both batches, in name order,
// and the original names that had no changed counterpart.
type Comparison struct {
	Rows    []report.Row `json:"rows"`
	Missing []string     `json:"missing,omitempty"`
}

// Summary aggregates a [Comparison] for console and JSON output.
type Summary struct {
	Matched       int `json:"matched"`
	Missing       int `json:"missing"`
	OriginalTotal int `json:"original_total"`
	ChangedTotal  int `json:"changed_total"`
	NetDelta      int `json:"net_delta"`
	Improved      int `json:"improved"`
	Worsened      int `json:"worsened"`
	Unchanged     int `json:"unchanged"`
}

// Compare reads the first line of every regular file in origDir and of its
// namesake in changedDir. A malformed first line aborts the comparison.
func (c *Comparator) Compare(ctx context.Context, origDir, changedDir string) (*Comparison, error) {
	names, err := regularFiles(origDir)
	if err != nil {
		return nil, fmt.Errorf("list original results: %w", err)
	}

	ctx, span := tracerOrDefault(c.Tracer).Start(ctx, "turncost.batch.compare",
		trace.WithAttributes(
			attribute.String("compare.original", origDir),
			attribute.String("compare.changed", changedDir),
		))
	defer span.End()

	logger := observability.Component(c.Logger, "comparator")
	cmp := &Comparison{}

	for _, name := range names {
		changedPath := filepath.Join(changedDir, name)

		found, statErr := fileExists(changedPath)
		if statErr != nil {
			span.SetStatus(codes.Error, "stat failed")

			return nil, fmt.Errorf("compare %s: %w", name, statErr)
		}

		if !found {
			logger.WarnContext(ctx, "result not found in changed batch", "file", name)
			cmp.Missing = append(cmp.Missing, name)

			continue
		}

		row, rowErr := compareFiles(name, filepath.Join(origDir, name), changedPath)
		if rowErr != nil {
			span.RecordError(rowErr)
			span.SetStatus(codes.Error, "malformed result")

			return nil, fmt.Errorf("compare %s: %w", name, rowErr)
		}

		cmp.Rows = append(cmp.Rows, row)
	}

	c.Metrics.RecordComparison(ctx, len(cmp.Rows), len(cmp.Missing))
	span.SetAttributes(
		attribute.Int("compare.rows", len(cmp.Rows)),
		attribute.Int("compare.missing", len(cmp.Missing)),
	)

	return cmp, nil
}

func compareFiles(name, origPath, changedPath string) (report.Row, error) {
	original, err := report.ReadTotalFile(origPath)
	if err != nil {
		return report.Row{}, fmt.Errorf("original: %w", err)
	}

	changed, err := report.ReadTotalFile(changedPath)
	if err != nil {
		return report.Row{}, fmt.Errorf("changed: %w", err)
	}

	return report.NewRow(name, original, changed), nil
}

// WriteReport writes the comparison report to path, one line per row.
func (cmp *Comparison) WriteReport(path string) error {
	return report.WriteReportFile(path, cmp.Rows)
}

// Summary computes totals and improvement counts over the rows.
func (cmp *Comparison) Summary() Summary {
	s := Summary{Matched: len(cmp.Rows), Missing: len(cmp.Missing)}

	for _, row := range cmp.Rows {
		s.OriginalTotal += row.Original
		s.ChangedTotal += row.Changed
		s.NetDelta += row.Delta

		switch {
		case row.Delta > 0:
			s.Improved++
		case row.Delta < 0:
			s.Worsened++
		default:
			s.Unchanged++
		}
	}

	return s
}
