package mcp

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/turncost/pkg/batch"
	"github.com/Sumatoshi-tech/turncost/pkg/schedule"
	"github.com/Sumatoshi-tech/turncost/pkg/turns"
)

// CountOutput is the data returned by turncost_count.
type CountOutput struct {
	Result     turns.Result         `json:"result"`
	Statistics *schedule.Statistics `json:"statistics,omitempty"`
}

// CompareOutput is the data returned by turncost_compare.
type CompareOutput struct {
	Comparison *batch.Comparison `json:"comparison"`
	Summary    batch.Summary     `json:"summary"`
	ReportPath string            `json:"report_path,omitempty"`
}

// handleCount processes turncost_count tool calls.
func handleCount(
	_ context.Context,
	_ *mcpsdk.CallToolRequest,
	input CountInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	err := validateScheduleInput(input.Schedule)
	if err != nil {
		return errorResult(err)
	}

	sched, err := schedule.Decode(strings.NewReader(input.Schedule))
	if err != nil {
		return errorResult(err)
	}

	return jsonResult(CountOutput{Result: turns.Aggregate(sched), Statistics: sched.Stats})
}

// handleCompare processes turncost_compare tool calls.
func (s *Server) handleCompare(
	ctx context.Context,
	_ *mcpsdk.CallToolRequest,
	input CompareInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	err := validateCompareInput(input)
	if err != nil {
		return errorResult(err)
	}

	comparator := &batch.Comparator{Logger: s.logger, Tracer: s.tracer, Metrics: s.batchMetrics}

	cmp, err := comparator.Compare(ctx, input.OriginalResults, input.ChangedResults)
	if err != nil {
		return errorResult(err)
	}

	if input.ReportPath != "" {
		err = cmp.WriteReport(input.ReportPath)
		if err != nil {
			return errorResult(fmt.Errorf("write report: %w", err))
		}
	}

	return jsonResult(CompareOutput{Comparison: cmp, Summary: cmp.Summary(), ReportPath: input.ReportPath})
}

func validateCompareInput(input CompareInput) error {
	err := validateDir("original_results", input.OriginalResults)
	if err != nil {
		return err
	}

	err = validateDir("changed_results", input.ChangedResults)
	if err != nil {
		return err
	}

	if input.ReportPath != "" && !filepath.IsAbs(input.ReportPath) {
		return fmt.Errorf("%w: report_path", ErrPathNotAbsolute)
	}

	return nil
}

// handleValidate processes turncost_validate tool calls.
func handleValidate(
	_ context.Context,
	_ *mcpsdk.CallToolRequest,
	input ValidateInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	err := validateScheduleInput(input.Schedule)
	if err != nil {
		return errorResult(err)
	}

	report, err := schedule.Validate(strings.NewReader(input.Schedule))
	if err != nil {
		return errorResult(err)
	}

	return jsonResult(report)
}
