package commands

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/turncost/pkg/batch"
	"github.com/Sumatoshi-tech/turncost/pkg/observability"
)

type countOptions struct {
	name    string
	onError string
	prefix  string
	format  string
}

func newCountCommand(globals *Globals) *cobra.Command {
	opts := &countOptions{}

	cmd := &cobra.Command{
		Use:   "count <schedules-dir> <results-dir>",
		Short: "Count turns for every schedule in a directory",
		Long: `Count turns for every schedule file in <schedules-dir> and write one result
file per schedule into <results-dir> (created when missing). Result files are
named <prefix><schedule-name>.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCount(cmd, globals, opts, args[0], args[1])
		},
	}

	cmd.Flags().StringVar(&opts.name, "name", "", "batch label for logs, spans and metrics (default: schedules directory name)")
	cmd.Flags().StringVar(&opts.onError, "on-error", "", "abort or skip on a malformed schedule (default from config)")
	cmd.Flags().StringVar(&opts.prefix, "prefix", "", "result file name prefix (default from config)")
	cmd.Flags().StringVar(&opts.format, "format", formatText, "output format: text or json")

	return cmd
}

func runCount(cmd *cobra.Command, globals *Globals, opts *countOptions, srcDir, dstDir string) error {
	err := checkFormat(opts.format)
	if err != nil {
		return err
	}

	rt, err := globals.setup(cmd, observability.ModeCLI)
	if err != nil {
		return err
	}
	defer rt.close()

	runner, err := rt.newRunner(opts.onError, opts.prefix)
	if err != nil {
		return err
	}

	runner.Name = opts.name
	if runner.Name == "" {
		runner.Name = filepath.Base(filepath.Clean(srcDir))
	}

	summary, err := runner.Run(cmd.Context(), srcDir, dstDir)
	if err != nil {
		return err
	}

	if opts.format == formatJSON {
		return writeJSON(cmd.OutOrStdout(), summary)
	}

	renderRunSummary(cmd.OutOrStdout(), summary)

	return nil
}

// newRunner builds a Runner from configuration, with flag values taking precedence.
func (rt *runtime) newRunner(onError, prefix string) (*batch.Runner, error) {
	policy := rt.cfg.ErrorPolicy()

	if onError != "" {
		parsed, err := batch.ParseErrorPolicy(onError)
		if err != nil {
			return nil, err
		}

		policy = parsed
	}

	if prefix == "" {
		prefix = rt.cfg.Batch.ResultPrefix
	}

	return &batch.Runner{
		Logger:  rt.logger,
		Tracer:  rt.providers.Tracer,
		Metrics: rt.metrics,
		OnError: policy,
		Prefix:  prefix,
	}, nil
}
