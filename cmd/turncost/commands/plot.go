package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/turncost/pkg/batch"
	"github.com/Sumatoshi-tech/turncost/pkg/observability"
	"github.com/Sumatoshi-tech/turncost/pkg/plot"
)

const defaultPlotOutput = "compare_results.html"

// ErrUnknownTheme is returned for an unsupported --theme value.
var ErrUnknownTheme = errors.New("unknown theme")

type plotOptions struct {
	output string
	theme  string
}

func newPlotCommand(globals *Globals) *cobra.Command {
	opts := &plotOptions{}

	cmd := &cobra.Command{
		Use:   "plot <original-results> <changed-results>",
		Short: "Render a comparison as an HTML chart page",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlot(cmd, globals, opts, args[0], args[1])
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", defaultPlotOutput, "HTML output path")
	cmd.Flags().StringVar(&opts.theme, "theme", string(plot.ThemeLight), "chart theme: light or dark")

	return cmd
}

func runPlot(cmd *cobra.Command, globals *Globals, opts *plotOptions, origDir, changedDir string) error {
	theme := plot.Theme(opts.theme)
	if theme != plot.ThemeLight && theme != plot.ThemeDark {
		return fmt.Errorf("%w: %q", ErrUnknownTheme, opts.theme)
	}

	rt, err := globals.setup(cmd, observability.ModeCLI)
	if err != nil {
		return err
	}
	defer rt.close()

	comparator := &batch.Comparator{Logger: rt.logger, Tracer: rt.providers.Tracer, Metrics: rt.metrics}

	cmp, err := comparator.Compare(cmd.Context(), origDir, changedDir)
	if err != nil {
		return err
	}

	err = plot.WriteHTML(opts.output, plot.ComparisonPage(cmp, plot.Options{Theme: theme}))
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d scenarios)\n", opts.output, len(cmp.Rows))

	return nil
}
