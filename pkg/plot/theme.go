package plot

import "github.com/go-echarts/go-echarts/v2/opts"

// Theme represents a color theme for the comparison page.
type Theme string

const (
	// ThemeLight is the light color theme.
	ThemeLight Theme = "light"
	// ThemeDark is the dark color theme.
	ThemeDark Theme = "dark"
)

// dataZoomEndPercent shows the whole x range initially.
const dataZoomEndPercent = 100

type palette struct {
	background string
	grid       string
	axis       string
	text       string
	textMuted  string
	original   string
	changed    string
	improved   string
	worsened   string
	echarts    string
}

var lightPalette = palette{
	background: "transparent",
	grid:       "#e7e5e4",
	axis:       "#a8a29e",
	text:       "#44403c",
	textMuted:  "#78716c",
	original:   "#a16207",
	changed:    "#2563eb",
	improved:   "#16a34a",
	worsened:   "#dc2626",
}

var darkPalette = palette{
	background: "#1c1917",
	grid:       "#44403c",
	axis:       "#78716c",
	text:       "#e7e5e4",
	textMuted:  "#a8a29e",
	original:   "#f59e0b",
	changed:    "#60a5fa",
	improved:   "#4ade80",
	worsened:   "#f87171",
	echarts:    "dark",
}

func paletteFor(theme Theme) palette {
	if theme == ThemeDark {
		return darkPalette
	}

	return lightPalette
}

// chartOpts provides themed go-echarts option values.
type chartOpts struct {
	p palette
}

func (c chartOpts) init(width, height string) opts.Initialization {
	return opts.Initialization{
		Width:           width,
		Height:          height,
		BackgroundColor: c.p.background,
		Theme:           c.p.echarts,
	}
}

func (c chartOpts) title(title, subtitle string) opts.Title {
	return opts.Title{
		Title:         title,
		Subtitle:      subtitle,
		Left:          "center",
		TitleStyle:    &opts.TextStyle{Color: c.p.text},
		SubtitleStyle: &opts.TextStyle{Color: c.p.textMuted},
	}
}

func (c chartOpts) legend() opts.Legend {
	return opts.Legend{
		Show:      opts.Bool(true),
		Type:      "scroll",
		Top:       "10%",
		Left:      "center",
		TextStyle: &opts.TextStyle{Color: c.p.textMuted},
	}
}

func (c chartOpts) xAxis() opts.XAxis {
	return opts.XAxis{
		AxisLabel: &opts.AxisLabel{Color: c.p.textMuted, Rotate: 30},
		AxisLine:  &opts.AxisLine{LineStyle: &opts.LineStyle{Color: c.p.axis}},
	}
}

func (c chartOpts) yAxis(name string) opts.YAxis {
	return opts.YAxis{
		Name:      name,
		AxisLabel: &opts.AxisLabel{Color: c.p.textMuted},
		AxisLine:  &opts.AxisLine{LineStyle: &opts.LineStyle{Color: c.p.axis}},
		SplitLine: &opts.SplitLine{
			Show:      opts.Bool(true),
			LineStyle: &opts.LineStyle{Color: c.p.grid},
		},
	}
}

func (c chartOpts) dataZoom() []opts.DataZoom {
	return []opts.DataZoom{
		{Type: "slider", Start: 0, End: dataZoomEndPercent},
		{Type: "inside"},
	}
}

func (c chartOpts) tooltip() opts.Tooltip {
	return opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}
}
