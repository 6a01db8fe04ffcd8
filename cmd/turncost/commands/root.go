// Package commands implements the turncost cobra commands.
package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/turncost/internal/config"
	"github.com/Sumatoshi-tech/turncost/pkg/observability"
	"github.com/Sumatoshi-tech/turncost/pkg/version"
)

const (
	exitCodeFailure           = 1
	exitCodeValidationFailure = 2

	formatText = "text"
	formatJSON = "json"
)

// ErrInvalidSchedule is returned by validate when the schedule has schema violations.
var ErrInvalidSchedule = errors.New("schedule is invalid")

// ErrUnknownFormat is returned for an unsupported --format value.
var ErrUnknownFormat = errors.New("unknown output format")

// ExitCode maps a command error to a process exit code.
func ExitCode(err error) int {
	if errors.Is(err, ErrInvalidSchedule) {
		return exitCodeValidationFailure
	}

	return exitCodeFailure
}

// Globals holds the persistent root flags.
type Globals struct {
	ConfigPath  string
	Verbose     bool
	Quiet       bool
	LogJSON     bool
	MetricsFile string
	DebugTrace  bool
}

// NewRootCommand builds the turncost command tree.
func NewRootCommand() *cobra.Command {
	globals := &Globals{}

	rootCmd := &cobra.Command{
		Use:   "turncost",
		Short: "Count agent turns in multi-agent path schedules and compare batches",
		Long: `turncost counts direction changes ("turns") in multi-agent schedules.

Commands:
  count     Count turns for every schedule in a directory
  compare   Compare two directories of result files
  run       Count both batches and compare them, using the configuration
  inspect   Show per-agent directions and turns for one schedule
  validate  Validate a schedule against the schedule schema
  diff      Show a line diff of two result files
  plot      Render a comparison as an HTML chart page
  mcp       Start the MCP server on stdio`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&globals.ConfigPath, "config", "", "config file (default: .turncost.yaml in CWD or $HOME)")
	flags.BoolVarP(&globals.Verbose, "verbose", "v", false, "verbose output")
	flags.BoolVarP(&globals.Quiet, "quiet", "q", false, "suppress informational output")
	flags.BoolVar(&globals.LogJSON, "log-json", false, "emit logs as JSON")
	flags.StringVar(&globals.MetricsFile, "metrics-file", "", "write Prometheus metrics to this textfile on exit")
	flags.BoolVar(&globals.DebugTrace, "debug-trace", false, "sample every trace regardless of telemetry.sample_ratio")

	rootCmd.AddCommand(
		newCountCommand(globals),
		newCompareCommand(globals),
		newRunCommand(globals),
		newInspectCommand(),
		newValidateCommand(),
		newDiffCommand(),
		newPlotCommand(globals),
		newMCPCommand(globals),
		newVersionCommand(),
	)

	return rootCmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Get().String())
		},
	}
}

// runtime bundles what a batch command needs: configuration, telemetry and metrics.
type runtime struct {
	cfg       *config.Config
	providers observability.Providers
	metrics   *observability.BatchMetrics
	logger    *slog.Logger
}

func (g *Globals) setup(cmd *cobra.Command, mode observability.AppMode) (*runtime, error) {
	cfg, err := config.LoadConfig(g.ConfigPath)
	if err != nil {
		return nil, err
	}

	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Mode = mode
	obsCfg.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	obsCfg.OTLPInsecure = cfg.Telemetry.OTLPInsecure
	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"))
	obsCfg.MetricsFile = cfg.Telemetry.MetricsFile
	obsCfg.Environment = cfg.Telemetry.Environment
	obsCfg.SampleRatio = cfg.Telemetry.SampleRatio
	obsCfg.DebugTrace = g.DebugTrace
	obsCfg.LogLevel = cfg.LogLevel()
	obsCfg.LogJSON = cfg.Logging.JSON || g.LogJSON
	obsCfg.LogWriter = cmd.ErrOrStderr()

	if g.MetricsFile != "" {
		obsCfg.MetricsFile = g.MetricsFile
	}

	switch {
	case g.Verbose:
		obsCfg.LogLevel = slog.LevelDebug
	case g.Quiet:
		obsCfg.LogLevel = slog.LevelWarn
	}

	providers, err := observability.Init(obsCfg)
	if err != nil {
		return nil, fmt.Errorf("init observability: %w", err)
	}

	metrics, err := observability.NewBatchMetrics(providers.Meter)
	if err != nil {
		return nil, errors.Join(err, providers.Shutdown(context.Background()))
	}

	return &runtime{cfg: cfg, providers: providers, metrics: metrics, logger: providers.Logger}, nil
}

func (rt *runtime) close() {
	err := rt.providers.Shutdown(context.Background())
	if err != nil {
		rt.logger.Warn("observability shutdown failed", "error", err)
	}
}

func checkFormat(format string) error {
	if format != formatText && format != formatJSON {
		return fmt.Errorf("%w: %q (use %s or %s)", ErrUnknownFormat, format, formatText, formatJSON)
	}

	return nil
}
