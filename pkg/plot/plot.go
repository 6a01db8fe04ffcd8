// Package plot renders a batch comparison as an HTML page of echarts charts.
package plot

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Sumatoshi-tech/turncost/pkg/batch"
)

const (
	pageTitle   = "Turn count comparison"
	chartWidth  = "100%"
	chartHeight = "500px"
)

// Options configures [ComparisonPage].
type Options struct {
	Theme Theme
}

// ComparisonPage builds a page with a grouped bar chart of original and changed
// totals per scenario and a bar chart of the per-scenario delta colored by sign.
func ComparisonPage(cmp *batch.Comparison, options Options) *components.Page {
	co := chartOpts{p: paletteFor(options.Theme)}

	labels := make([]string, len(cmp.Rows))
	original := make([]opts.BarData, len(cmp.Rows))
	changed := make([]opts.BarData, len(cmp.Rows))
	deltas := make([]opts.BarData, len(cmp.Rows))

	for i, row := range cmp.Rows {
		labels[i] = row.Name
		original[i] = opts.BarData{Value: row.Original}
		changed[i] = opts.BarData{Value: row.Changed}
		deltas[i] = opts.BarData{Value: row.Delta, ItemStyle: &opts.ItemStyle{Color: co.deltaColor(row.Delta)}}
	}

	summary := cmp.Summary()

	page := components.NewPage()
	page.PageTitle = pageTitle
	page.AddCharts(
		totalsChart(co, labels, original, changed, summary),
		deltaChart(co, labels, deltas, summary),
	)

	return page
}

func totalsChart(co chartOpts, labels []string, original, changed []opts.BarData, s batch.Summary) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(co.init(chartWidth, chartHeight)),
		charts.WithTitleOpts(co.title("Turns per scenario", fmt.Sprintf("original %s, changed %s",
			humanize.Comma(int64(s.OriginalTotal)), humanize.Comma(int64(s.ChangedTotal))))),
		charts.WithTooltipOpts(co.tooltip()),
		charts.WithDataZoomOpts(co.dataZoom()...),
		charts.WithXAxisOpts(co.xAxis()),
		charts.WithYAxisOpts(co.yAxis("turns")),
		charts.WithLegendOpts(co.legend()),
	)

	bar.SetXAxis(labels)
	bar.AddSeries(batch.BatchOriginal, original, charts.WithItemStyleOpts(opts.ItemStyle{Color: co.p.original}))
	bar.AddSeries(batch.BatchChanged, changed, charts.WithItemStyleOpts(opts.ItemStyle{Color: co.p.changed}))

	return bar
}

func deltaChart(co chartOpts, labels []string, deltas []opts.BarData, s batch.Summary) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(co.init(chartWidth, chartHeight)),
		charts.WithTitleOpts(co.title("Turns saved (original - changed)", fmt.Sprintf(
			"net %s: %d improved, %d worsened, %d unchanged",
			humanize.Comma(int64(s.NetDelta)), s.Improved, s.Worsened, s.Unchanged))),
		charts.WithTooltipOpts(co.tooltip()),
		charts.WithDataZoomOpts(co.dataZoom()...),
		charts.WithXAxisOpts(co.xAxis()),
		charts.WithYAxisOpts(co.yAxis("delta")),
		charts.WithLegendOpts(co.legend()),
	)

	bar.SetXAxis(labels)
	bar.AddSeries("delta", deltas)

	return bar
}

func (c chartOpts) deltaColor(delta int) string {
	switch {
	case delta > 0:
		return c.p.improved
	case delta < 0:
		return c.p.worsened
	default:
		return c.p.axis
	}
}

// Render writes page as a standalone HTML document.
func Render(w io.Writer, page *components.Page) error {
	err := page.Render(w)
	if err != nil {
		return fmt.Errorf("render page: %w", err)
	}

	return nil
}

// WriteHTML renders page into the file at path.
func WriteHTML(path string, page *components.Page) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create html file: %w", err)
	}

	defer func() {
		closeErr := f.Close()
		if err == nil && closeErr != nil {
			err = fmt.Errorf("close html file: %w", closeErr)
		}
	}()

	return Render(f, page)
}
