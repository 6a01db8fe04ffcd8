package commands

import (
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/turncost/pkg/mcp"
	"github.com/Sumatoshi-tech/turncost/pkg/observability"
)

func newMCPCommand(globals *Globals) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Start the MCP server on stdio",
		Long: `Start a Model Context Protocol server over stdin/stdout exposing the
turncost_count, turncost_compare and turncost_validate tools.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := globals.setup(cmd, observability.ModeMCP)
			if err != nil {
				return err
			}
			defer rt.close()

			red, err := observability.NewREDMetrics(rt.providers.Meter)
			if err != nil {
				return err
			}

			server := mcp.NewServer(mcp.ServerDeps{
				Logger:       rt.logger,
				Metrics:      red,
				BatchMetrics: rt.metrics,
				Tracer:       rt.providers.Tracer,
			})

			rt.logger.Info("mcp server starting", "tools", server.ListToolNames())

			return server.Run(cmd.Context())
		},
	}
}
