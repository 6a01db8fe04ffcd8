package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/turncost/pkg/schedule"
)

const stdinArg = "-"

func newValidateCommand() *cobra.Command {
	var colorize, nocolor, printSchema bool

	cmd := &cobra.Command{
		Use:   "validate <schedule-file|->",
		Short: "Validate a schedule against the schedule schema",
		Long: `Validate a YAML schedule against the embedded JSON schema and list every
violation. Exits with status 2 when the schedule is invalid.

Examples:
  turncost validate map_8by8_obst12_agents10_ex0.yaml
  turncost validate - < schedule.yaml
  turncost validate --schema`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if nocolor {
				color.NoColor = true
			} else if colorize {
				color.NoColor = false
			}

			if printSchema {
				_, err := cmd.OutOrStdout().Write(schedule.SchemaJSON())

				return err
			}

			if len(args) == 0 {
				return fmt.Errorf("%w: missing schedule file", ErrInvalidSchedule)
			}

			return runValidate(cmd.OutOrStdout(), cmd.InOrStdin(), args[0])
		},
	}

	cmd.Flags().BoolVar(&colorize, "color", false, "force colored output")
	cmd.Flags().BoolVar(&nocolor, "no-color", false, "disable colored output")
	cmd.Flags().BoolVar(&printSchema, "schema", false, "print the schedule JSON schema and exit")

	return cmd
}

func runValidate(out io.Writer, stdin io.Reader, path string) error {
	input := stdin
	label := "stdin"

	if path != stdinArg {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open schedule: %w", err)
		}
		defer f.Close()

		input = f
		label = path
	}

	report, err := schedule.Validate(input)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidSchedule, label, err)
	}

	if report.Valid() {
		colorGood.Fprintf(out, "schedule is valid (%s)\n", label)

		return nil
	}

	colorBad.Fprintf(out, "schedule validation failed (%s)\n", label)
	fmt.Fprintf(out, "\nErrors:\n")

	for _, v := range report.Violations {
		colorBad.Fprintf(out, "  - %s: %s\n", v.Field, v.Description)
	}

	return fmt.Errorf("%w: %d violation(s)", ErrInvalidSchedule, len(report.Violations))
}
