package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/turncost/pkg/batch"
	"github.com/Sumatoshi-tech/turncost/pkg/observability"
)

const completionMessage = "Comparison is complete"

type runOptions struct {
	onError string
	format  string
}

func newRunCommand(globals *Globals) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Count both batches and compare them",
		Long: `Count turns for the original and the changed schedule directories, then
compare the results and write the report. All paths come from the
configuration (original.*, changed.*, report).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPipeline(cmd, globals, opts)
		},
	}

	cmd.Flags().StringVar(&opts.onError, "on-error", "", "abort or skip on a malformed schedule (default from config)")
	cmd.Flags().StringVar(&opts.format, "format", formatText, "output format: text or json")

	return cmd
}

func runPipeline(cmd *cobra.Command, globals *Globals, opts *runOptions) error {
	err := checkFormat(opts.format)
	if err != nil {
		return err
	}

	rt, err := globals.setup(cmd, observability.ModeCLI)
	if err != nil {
		return err
	}
	defer rt.close()

	runner, err := rt.newRunner(opts.onError, "")
	if err != nil {
		return err
	}

	pipeline := &batch.Pipeline{
		Original: batch.Stage{Schedules: rt.cfg.Original.Schedules, Results: rt.cfg.Original.Results},
		Changed:  batch.Stage{Schedules: rt.cfg.Changed.Schedules, Results: rt.cfg.Changed.Results},
		Report:   rt.cfg.Report,
		Logger:   rt.logger,
		Tracer:   rt.providers.Tracer,
		Metrics:  rt.metrics,
		OnError:  runner.OnError,
		Prefix:   runner.Prefix,
	}

	result, err := pipeline.Run(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if opts.format == formatJSON {
		return writeJSON(out, result)
	}

	if !globals.Quiet {
		renderComparison(out, result.Comparison)
	}

	fmt.Fprintln(out, completionMessage)

	return nil
}
