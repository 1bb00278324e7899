// Package charts renders base-stat charts as standalone HTML pages.
package charts

import (
	"errors"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/ramonehamilton/fangame-dex/internal/dex/dataset"
)

// ChartConfig holds configuration for charts.
type ChartConfig struct {
	Title      string   // Chart title
	Subtitle   string   // Chart subtitle
	Width      string   // Chart width (e.g., "900px")
	Height     string   // Chart height (e.g., "500px")
	Theme      string   // Chart theme
	ShowLegend bool     // Show legend
	ShowLabels bool     // Print values on the bars
	Colors     []string // Series colors, cycled
}

// DefaultChartConfig returns default chart configuration.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Width:      "900px",
		Height:     "500px",
		Theme:      "light",
		ShowLegend: true,
		ShowLabels: true,
		Colors:     []string{"#5470C6", "#91CC75", "#FAC858", "#EE6666", "#73C0DE", "#3BA272", "#FC8452", "#9A60B4", "#EA7CCC"},
	}
}

// Series is one species' stats.
type Series struct {
	Name  string
	Stats []dataset.Stat
}

// ErrNoStats is returned when there is nothing to plot.
var ErrNoStats = errors.New("no stats to chart")

// StatValue parses a stat value. Non-numeric values chart as zero.
func StatValue(s dataset.Stat) float64 {
	v, err := strconv.ParseFloat(s.Value, 64)
	if err != nil {
		return 0
	}
	return v
}

// Total sums the numeric stat values.
func Total(stats []dataset.Stat) float64 {
	var total float64
	for _, s := range stats {
		total += StatValue(s)
	}
	return total
}

// RenderStats writes a bar chart of one or more species' base stats. The
// x axis follows the first series' stat order.
func RenderStats(w io.Writer, series []Series, config ChartConfig) error {
	if len(series) == 0 || len(series[0].Stats) == 0 {
		return ErrNoStats
	}
	if len(config.Colors) == 0 {
		config.Colors = DefaultChartConfig().Colors
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  config.Width,
			Height: config.Height,
			Theme:  config.Theme,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    config.Title,
			Subtitle: config.Subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(config.ShowLegend && len(series) > 1),
		}),
	)

	labels := make([]string, len(series[0].Stats))
	for i, s := range series[0].Stats {
		labels[i] = s.Name
	}
	bar.SetXAxis(labels)

	for i, s := range series {
		byName := make(map[string]float64, len(s.Stats))
		for _, st := range s.Stats {
			byName[st.Name] = StatValue(st)
		}
		data := make([]opts.BarData, len(labels))
		for j, label := range labels {
			data[j] = opts.BarData{Value: byName[label]}
		}

		bar.AddSeries(s.Name, data).
			SetSeriesOptions(
				charts.WithLabelOpts(opts.Label{
					Show:     opts.Bool(config.ShowLabels),
					Position: "top",
				}),
				charts.WithItemStyleOpts(opts.ItemStyle{
					Color: config.Colors[i%len(config.Colors)],
				}),
			)
	}

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

// SpeciesSeries builds a chart series from a species record.
func SpeciesSeries(s dataset.Species) Series {
	return Series{Name: s.Name, Stats: s.Stats}
}

// OpenInBrowser opens the given file path in the default web browser.
func OpenInBrowser(filePath string) error {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", absPath)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", absPath)
	case "linux":
		cmd = exec.Command("xdg-open", absPath)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
