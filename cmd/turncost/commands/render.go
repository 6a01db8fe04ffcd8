package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/Sumatoshi-tech/turncost/pkg/batch"
	"github.com/Sumatoshi-tech/turncost/pkg/grid"
	"github.com/Sumatoshi-tech/turncost/pkg/schedule"
	"github.com/Sumatoshi-tech/turncost/pkg/turns"
)

// maxDirectionsShown caps the direction sequence printed by inspect.
const maxDirectionsShown = 40

var (
	colorGood = color.New(color.FgGreen)
	colorBad  = color.New(color.FgRed)
	colorWarn = color.New(color.FgYellow)
)

func newTable(w io.Writer) table.Writer {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Format.Footer = text.FormatDefault

	return tbl
}

func writeJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	err := enc.Encode(value)
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}

	return nil
}

func renderRunSummary(w io.Writer, summary batch.RunSummary) {
	tbl := newTable(w)
	tbl.AppendHeader(table.Row{"Schedule", "Agents", "Turns"})

	total := 0

	for _, file := range summary.Files {
		total += file.Result.Total
		tbl.AppendRow(table.Row{file.Name, len(file.Result.Agents), humanize.Comma(int64(file.Result.Total))})
	}

	for _, failed := range summary.Failed {
		tbl.AppendRow(table.Row{failed.Name, "-", colorBad.Sprint("failed")})
	}

	tbl.AppendFooter(table.Row{
		fmt.Sprintf("%d processed, %d failed", summary.Processed, len(summary.Failed)),
		"",
		humanize.Comma(int64(total)),
	})
	tbl.Render()

	for _, failed := range summary.Failed {
		colorBad.Fprintf(w, "  - %s: %v\n", failed.Name, failed.Err)
	}
}

func renderComparison(w io.Writer, cmp *batch.Comparison) {
	tbl := newTable(w)
	tbl.AppendHeader(table.Row{"Scenario", "Original", "Changed", "Delta"})

	for _, row := range cmp.Rows {
		tbl.AppendRow(table.Row{
			row.Name,
			humanize.Comma(int64(row.Original)),
			humanize.Comma(int64(row.Changed)),
			colorDelta(row.Delta),
		})
	}

	s := cmp.Summary()

	tbl.AppendFooter(table.Row{
		fmt.Sprintf("%d matched", s.Matched),
		humanize.Comma(int64(s.OriginalTotal)),
		humanize.Comma(int64(s.ChangedTotal)),
		colorDelta(s.NetDelta),
	})
	tbl.Render()

	fmt.Fprintf(w, "improved %d, worsened %d, unchanged %d\n", s.Improved, s.Worsened, s.Unchanged)

	for _, name := range cmp.Missing {
		colorWarn.Fprintf(w, "missing in changed batch: %s\n", name)
	}
}

func colorDelta(delta int) string {
	text := humanize.Comma(int64(delta))

	switch {
	case delta > 0:
		return colorGood.Sprint("+" + text)
	case delta < 0:
		return colorBad.Sprint(text)
	default:
		return text
	}
}

func renderInspect(w io.Writer, sched *schedule.Schedule) {
	res := turns.Aggregate(sched)

	tbl := newTable(w)
	tbl.AppendHeader(table.Row{"#", "Agent", "Steps", "Turns", "Directions"})

	for i, agent := range sched.Agents {
		tbl.AppendRow(table.Row{
			i,
			agent.ID,
			len(agent.Path),
			res.Agents[i].Turns,
			formatDirections(turns.Directions(agent.Path)),
		})
	}

	tbl.AppendFooter(table.Row{"", fmt.Sprintf("%d agents", len(sched.Agents)), "", res.Total, ""})
	tbl.Render()

	if sched.Stats == nil {
		return
	}

	stats := newTable(w)
	stats.AppendHeader(table.Row{"Statistic", "Value"})
	stats.AppendRows([]table.Row{
		{"cost", humanize.Comma(int64(sched.Stats.Cost))},
		{"makespan", humanize.Comma(int64(sched.Stats.Makespan))},
		{"runtime", fmt.Sprintf("%.4fs", sched.Stats.Runtime)},
		{"high-level expanded", humanize.Comma(int64(sched.Stats.HighLevelExpanded))},
		{"low-level expanded", humanize.Comma(int64(sched.Stats.LowLevelExpanded))},
	})
	stats.Render()
}

func formatDirections(dirs []grid.Direction) string {
	shown := dirs
	if len(shown) > maxDirectionsShown {
		shown = shown[:maxDirectionsShown]
	}

	parts := make([]string, len(shown))
	for i, d := range shown {
		parts[i] = directionSymbol(d)
	}

	out := strings.Join(parts, "")
	if len(dirs) > maxDirectionsShown {
		out += fmt.Sprintf("… (+%d)", len(dirs)-maxDirectionsShown)
	}

	return out
}

func directionSymbol(d grid.Direction) string {
	switch d {
	case grid.Up:
		return "U"
	case grid.Down:
		return "D"
	case grid.Left:
		return "L"
	case grid.Right:
		return "R"
	default:
		return "."
	}
}
