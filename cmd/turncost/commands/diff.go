package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/turncost/pkg/report"
)

func newDiffCommand() *cobra.Command {
	var showEqual bool

	cmd := &cobra.Command{
		Use:   "diff <original-result> <changed-result>",
		Short: "Show a line diff of two result files",
		Long: `Show which agent lines differ between two result files of the same scenario,
followed by the total delta (original - changed).`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(cmd.OutOrStdout(), args[0], args[1], showEqual)
		},
	}

	cmd.Flags().BoolVar(&showEqual, "context", false, "also print unchanged lines")

	return cmd
}

func runDiff(out io.Writer, origPath, changedPath string, showEqual bool) error {
	origText, err := os.ReadFile(origPath)
	if err != nil {
		return fmt.Errorf("read original: %w", err)
	}

	changedText, err := os.ReadFile(changedPath)
	if err != nil {
		return fmt.Errorf("read changed: %w", err)
	}

	origRes, err := report.ReadResult(strings.NewReader(string(origText)))
	if err != nil {
		return fmt.Errorf("original: %w", err)
	}

	changedRes, err := report.ReadResult(strings.NewReader(string(changedText)))
	if err != nil {
		return fmt.Errorf("changed: %w", err)
	}

	changes := 0

	for _, d := range lineDiff(string(origText), string(changedText)) {
		for _, line := range splitLines(d.Text) {
			switch d.Type {
			case diffmatchpatch.DiffDelete:
				changes++

				colorBad.Fprintf(out, "- %s\n", line)
			case diffmatchpatch.DiffInsert:
				changes++

				colorGood.Fprintf(out, "+ %s\n", line)
			case diffmatchpatch.DiffEqual:
				if showEqual {
					fmt.Fprintf(out, "  %s\n", line)
				}
			}
		}
	}

	if changes == 0 {
		fmt.Fprintln(out, "results are identical")
	}

	row := report.NewRow("", origRes.Total, changedRes.Total)
	fmt.Fprintf(out, "original=%d changed=%d compared=%s\n", row.Original, row.Changed, colorDelta(row.Delta))

	return nil
}

func lineDiff(a, b string) []diffmatchpatch.Diff {
	dmp := diffmatchpatch.New()
	runesA, runesB, lines := dmp.DiffLinesToRunes(a, b)
	diffs := dmp.DiffMainRunes(runesA, runesB, false)

	return dmp.DiffCharsToLines(diffs, lines)
}

func splitLines(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}

	return strings.Split(text, "\n")
}
