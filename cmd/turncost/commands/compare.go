package commands

import (
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/turncost/pkg/batch"
	"github.com/Sumatoshi-tech/turncost/pkg/observability"
)

type compareOptions struct {
	output string
	format string
}

type compareJSON struct {
	Comparison *batch.Comparison `json:"comparison"`
	Summary    batch.Summary     `json:"summary"`
	Report     string            `json:"report"`
}

func newCompareCommand(globals *Globals) *cobra.Command {
	opts := &compareOptions{}

	cmd := &cobra.Command{
		Use:   "compare <original-results> <changed-results>",
		Short: "Compare two directories of result files",
		Long: `Compare result files present in both directories by name and write the
report (one line per scenario: original, changed and original - changed).
Results without a changed counterpart are reported and skipped.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd, globals, opts, args[0], args[1])
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "report file path (default from config)")
	cmd.Flags().StringVar(&opts.format, "format", formatText, "output format: text or json")

	return cmd
}

func runCompare(cmd *cobra.Command, globals *Globals, opts *compareOptions, origDir, changedDir string) error {
	err := checkFormat(opts.format)
	if err != nil {
		return err
	}

	rt, err := globals.setup(cmd, observability.ModeCLI)
	if err != nil {
		return err
	}
	defer rt.close()

	reportPath := opts.output
	if reportPath == "" {
		reportPath = rt.cfg.Report
	}

	comparator := &batch.Comparator{Logger: rt.logger, Tracer: rt.providers.Tracer, Metrics: rt.metrics}

	cmp, err := comparator.Compare(cmd.Context(), origDir, changedDir)
	if err != nil {
		return err
	}

	err = cmp.WriteReport(reportPath)
	if err != nil {
		return err
	}

	if opts.format == formatJSON {
		return writeJSON(cmd.OutOrStdout(), compareJSON{Comparison: cmp, Summary: cmp.Summary(), Report: reportPath})
	}

	renderComparison(cmd.OutOrStdout(), cmp)

	return nil
}
