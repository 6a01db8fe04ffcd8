package commands

import (
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/turncost/pkg/schedule"
	"github.com/Sumatoshi-tech/turncost/pkg/turns"
)

type inspectJSON struct {
	Schedule *schedule.Schedule `json:"schedule"`
	Result   turns.Result       `json:"result"`
}

func newInspectCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "inspect <schedule-file>",
		Short: "Show per-agent directions and turns for one schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := checkFormat(format)
			if err != nil {
				return err
			}

			sched, err := schedule.LoadFile(args[0])
			if err != nil {
				return err
			}

			if format == formatJSON {
				return writeJSON(cmd.OutOrStdout(), inspectJSON{Schedule: sched, Result: turns.Aggregate(sched)})
			}

			renderInspect(cmd.OutOrStdout(), sched)

			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", formatText, "output format: text or json")

	return cmd
}
