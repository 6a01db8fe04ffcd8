package plot_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/turncost/pkg/batch"
	"github.com/Sumatoshi-tech/turncost/pkg/plot"
	"github.com/Sumatoshi-tech/turncost/pkg/report"
)

func sampleComparison() *batch.Comparison {
	return &batch.Comparison{Rows: []report.Row{
		report.NewRow("outputmap_a.yaml", 14, 9),
		report.NewRow("outputmap_b.yaml", 3, 5),
	}}
}

func TestComparisonPage_HasTwoCharts(t *testing.T) {
	t.Parallel()

	page := plot.ComparisonPage(sampleComparison(), plot.Options{})

	require.NotNil(t, page)
	assert.Len(t, page.Charts, 2)
	assert.Equal(t, "Turn count comparison", page.PageTitle)
}

func TestRender_ContainsScenarioNames(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	page := plot.ComparisonPage(sampleComparison(), plot.Options{Theme: plot.ThemeDark})
	require.NoError(t, plot.Render(&buf, page))

	html := buf.String()
	assert.Contains(t, html, "<html")
	assert.Contains(t, html, "outputmap_a.yaml")
	assert.Contains(t, html, "outputmap_b.yaml")
}

func TestWriteHTML_EmptyComparison(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "compare.html")

	require.NoError(t, plot.WriteHTML(path, plot.ComparisonPage(&batch.Comparison{}, plot.Options{})))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
