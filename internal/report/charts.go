package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"pingprobe/internal/models"
)

var (
	chartPadding = chart.Style{
		Padding: chart.Box{
			Top:    20,
			Left:   20,
			Right:  20,
			Bottom: 20,
		},
	}
	axisStyle = chart.Style{
		StrokeColor: drawing.ColorBlack,
		FontSize:    10,
	}
	gridStyle = chart.Style{
		StrokeColor: drawing.Color{R: 200, G: 200, B: 200, A: 255},
		StrokeWidth: 1.0,
	}
)

func (g *Generator) generateLatencyCharts(outputDir string, series map[string]*targetSeries) error {
	for target, data := range series {
		// charts need at least two points to draw a line
		if len(data.timestamps) < 2 {
			continue
		}

		graph := chart.Chart{
			Title:      fmt.Sprintf("Network Latency - %s", target),
			TitleStyle: chart.Style{FontSize: 16},
			Background: chartPadding,
			Width:      1200,
			Height:     400,
			XAxis: chart.XAxis{
				Name:           "Time",
				NameStyle:      chart.Style{FontSize: 12},
				Style:          axisStyle,
				ValueFormatter: chart.TimeMinuteValueFormatter,
			},
			YAxis: chart.YAxis{
				Name:           "Latency (ms)",
				NameStyle:      chart.Style{FontSize: 12},
				Style:          axisStyle,
				Range:          upperRange(data.rtt),
				GridMajorStyle: gridStyle,
			},
			Series: []chart.Series{
				chart.TimeSeries{
					Name: target,
					Style: chart.Style{
						StrokeColor: chart.GetDefaultColor(0),
						StrokeWidth: 2,
					},
					XValues: data.timestamps,
					YValues: data.rtt,
				},
			},
		}

		// Add moving average
		if len(data.rtt) > 10 {
			ts := graph.Series[0].(chart.TimeSeries)
			graph.Series = append(graph.Series, chart.SMASeries{
				Name: "Moving Avg",
				Style: chart.Style{
					StrokeColor:     chart.GetDefaultColor(1),
					StrokeWidth:     2,
					StrokeDashArray: []float64{5, 5},
				},
				InnerSeries: ts,
				Period:      10,
			})
		}

		filename := filepath.Join(outputDir, fmt.Sprintf("latency_%s.png", sanitizeFilename(target)))
		if err := renderPNG(filename, graph.Render); err != nil {
			return err
		}
	}

	return nil
}

func (g *Generator) generateLossChart(outputDir string, series map[string]*targetSeries) error {
	var allSeries []chart.Series
	colorIndex := 0

	targets := make([]string, 0, len(series))
	for target := range series {
		targets = append(targets, target)
	}
	sort.Strings(targets)

	for _, target := range targets {
		data := series[target]
		if len(data.timestamps) < 2 {
			continue
		}
		allSeries = append(allSeries, chart.TimeSeries{
			Name: target,
			Style: chart.Style{
				StrokeColor: chart.GetDefaultColor(colorIndex),
				StrokeWidth: 2,
			},
			XValues: data.timestamps,
			YValues: data.loss,
		})
		colorIndex++
	}
	if len(allSeries) == 0 {
		return nil
	}

	graph := chart.Chart{
		Title:      "Packet Loss",
		TitleStyle: chart.Style{FontSize: 16},
		Background: chartPadding,
		Width:      1200,
		Height:     400,
		XAxis: chart.XAxis{
			Name:           "Time",
			Style:          axisStyle,
			ValueFormatter: chart.TimeHourValueFormatter,
		},
		YAxis: chart.YAxis{
			Name:  "Loss %",
			Style: axisStyle,
			Range: &chart.ContinuousRange{
				Min: 0,
				Max: 100,
			},
			GridMajorStyle: gridStyle,
		},
		Series: allSeries,
	}
	graph.Elements = []chart.Renderable{
		chart.Legend(&graph),
	}

	return renderPNG(filepath.Join(outputDir, "packet_loss.png"), graph.Render)
}

// generateErrorChart draws probe failures per hour as a bar chart
func (g *Generator) generateErrorChart(outputDir string, records []models.Record) error {
	hourly := errorsByHour(records)
	if len(hourly) == 0 {
		return nil
	}

	hours := make([]string, 0, len(hourly))
	for hour := range hourly {
		hours = append(hours, hour)
	}
	sort.Strings(hours)

	values := make([]chart.Value, 0, len(hours))
	for _, hour := range hours {
		values = append(values, chart.Value{
			Label: hour,
			Value: float64(hourly[hour]),
		})
	}
	counts := make([]float64, len(values))
	for i, v := range values {
		counts[i] = v.Value
	}

	graph := chart.BarChart{
		Title:      "Probe Failures by Hour",
		TitleStyle: chart.Style{FontSize: 16},
		Background: chartPadding,
		Width:      1200,
		Height:     400,
		YAxis: chart.YAxis{
			Style: axisStyle,
			Range: upperRange(counts),
		},
		Bars:     values,
		BarWidth: 40,
	}

	return renderPNG(filepath.Join(outputDir, "probe_failures.png"), graph.Render)
}

// upperRange spans zero to just above the largest value. go-chart refuses
// to render a flat series with an automatic range.
func upperRange(values []float64) *chart.ContinuousRange {
	top := 1.0
	for _, v := range values {
		if v > top {
			top = v
		}
	}
	return &chart.ContinuousRange{Min: 0, Max: top * 1.1}
}

func errorsByHour(records []models.Record) map[string]int {
	hourly := make(map[string]int)
	for _, r := range records {
		if r.Measurement == models.MeasurementError {
			hourly[r.Timestamp.Truncate(time.Hour).Format("2006-01-02 15:00")]++
		}
	}
	return hourly
}

func renderPNG(filename string, render func(chart.RendererProvider, io.Writer) error) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}

	if err := render(chart.PNG, file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
