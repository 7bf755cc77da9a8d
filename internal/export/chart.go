// Package export turns finished runs into the artifacts operators actually
// hand around: a two-sheet workbook, a PNG chart and portable file names.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"thermocycle"
	"thermocycle/internal/engine"
)

// ErrNoSpan is returned when a profile has no drawable extent: no points, or
// a schedule that collapses to a single instant or temperature.
var ErrNoSpan = errors.New("profile has no drawable span")

const (
	defaultChartWidth  = 1400
	defaultChartHeight = 900
)

var (
	gridColor      = drawing.Color{R: 210, G: 210, B: 210, A: 255}
	guideColor     = drawing.Color{R: 128, G: 128, B: 128, A: 180}
	timeLabelColor = drawing.Color{R: 139, G: 0, B: 0, A: 255}
	tempLabelColor = drawing.Color{R: 0, G: 100, B: 0, A: 255}
)

// ChartConfig sizes and titles one render. Zero values fall back to the
// defaults, so handlers can pass config values straight through.
type ChartConfig struct {
	Width  int
	Height int
	Title  string
}

// Render rasterizes a run as a PNG: the temperature curve, a marker and a
// pair of dashed crosshair guides per key point, and the two annotation
// labels at their laid-out coordinates. Each call builds its own drawing
// context, so concurrent renders never share state.
func Render(run thermocycle.ProfileRun, placements []thermocycle.LabelPlacement, cfg ChartConfig) ([]byte, error) {
	p := run.Profile
	b := engine.PlotBounds(p)
	if len(p) == 0 || b.XMax <= b.XMin || b.YMax <= b.YMin {
		return nil, ErrNoSpan
	}

	width, height := cfg.Width, cfg.Height
	if width <= 0 {
		width = defaultChartWidth
	}
	if height <= 0 {
		height = defaultChartHeight
	}
	title := cfg.Title
	if title == "" {
		title = run.Name
	}
	if title == "" {
		title = "Temperature profile"
	}

	series := []chart.Series{
		chart.ContinuousSeries{
			Name:    "Temperature",
			XValues: p.Times(),
			YValues: p.Temps(),
			Style:   chart.Style{StrokeColor: chart.ColorBlue, StrokeWidth: 2},
		},
	}
	if len(placements) > 0 {
		xs := make([]float64, len(placements))
		ys := make([]float64, len(placements))
		for i, pl := range placements {
			xs[i] = pl.TimeH
			ys[i] = pl.TempC
		}
		series = append(series, chart.ContinuousSeries{
			Name:    "Key points",
			XValues: xs,
			YValues: ys,
			Style:   chart.Style{StrokeWidth: 0, DotWidth: 5, DotColor: chart.ColorRed},
		})
	}
	series = append(series, annotationSeries(placements)...)

	gridStyle := chart.Style{StrokeColor: gridColor, StrokeWidth: 1}
	guideStyle := chart.Style{StrokeColor: guideColor, StrokeWidth: 1, StrokeDashArray: []float64{5, 5}}

	xTicks := niceTicks(b.XMin, b.XMax, 10)
	yTicks := niceTicks(b.YMin, b.YMax, 8)

	xGrid := chart.GenerateGridLines(xTicks, gridStyle, gridStyle)
	yGrid := chart.GenerateGridLines(yTicks, gridStyle, gridStyle)
	for _, pl := range placements {
		xGrid = append(xGrid, chart.GridLine{Value: pl.TimeH, Style: guideStyle})
		yGrid = append(yGrid, chart.GridLine{Value: pl.TempC, Style: guideStyle})
	}

	ch := chart.Chart{
		Title:      title,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 24, Left: 16, Right: 16, Bottom: 24}},
		XAxis: chart.XAxis{
			Name:           "Time (h)",
			Range:          &chart.ContinuousRange{Min: b.XMin, Max: b.XMax},
			Ticks:          xTicks,
			GridLines:      xGrid,
			GridMajorStyle: gridStyle,
			GridMinorStyle: gridStyle,
		},
		YAxis: chart.YAxis{
			Name:           "Temperature (°C)",
			Range:          &chart.ContinuousRange{Min: b.YMin, Max: b.YMax},
			Ticks:          yTicks,
			GridLines:      yGrid,
			GridMajorStyle: gridStyle,
			GridMinorStyle: gridStyle,
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buf.Bytes(), nil
}

// annotationSeries builds the two label families: time labels along the
// bottom edge, temperature labels along the left edge.
func annotationSeries(placements []thermocycle.LabelPlacement) []chart.Series {
	if len(placements) == 0 {
		return nil
	}
	timeVals := make([]chart.Value2, 0, len(placements))
	tempVals := make([]chart.Value2, 0, len(placements))
	for _, pl := range placements {
		timeVals = append(timeVals, chart.Value2{XValue: pl.TimeH, YValue: pl.TimeLabelY, Label: pl.TimeLabel})
		tempVals = append(tempVals, chart.Value2{XValue: pl.TempLabelX, YValue: pl.TempC, Label: pl.TempLabel})
	}
	return []chart.Series{
		chart.AnnotationSeries{
			Annotations: timeVals,
			Style: chart.Style{
				StrokeColor: timeLabelColor,
				FillColor:   chart.ColorWhite,
				FontColor:   timeLabelColor,
				FontSize:    9,
			},
		},
		chart.AnnotationSeries{
			Annotations: tempVals,
			Style: chart.Style{
				StrokeColor: tempLabelColor,
				FillColor:   chart.ColorWhite,
				FontColor:   tempLabelColor,
				FontSize:    9,
			},
		},
	}
}

// niceTicks builds ticks on round steps (1, 2, 2.5 or 5 times a power of
// ten) covering [min, max] with about n intervals.
func niceTicks(min, max float64, n int) []chart.Tick {
	if n < 2 || max <= min {
		return nil
	}
	raw := (max - min) / float64(n)
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	step := 10 * mag
	for _, m := range []float64{1, 2, 2.5, 5} {
		if m*mag >= raw {
			step = m * mag
			break
		}
	}
	var ticks []chart.Tick
	for v := math.Ceil(min/step) * step; v <= max+step/1e6; v += step {
		ticks = append(ticks, chart.Tick{Value: v, Label: tickLabel(v)})
	}
	return ticks
}

func tickLabel(v float64) string {
	if v == 0 {
		return "0"
	}
	return fmt.Sprintf("%.4g", v)
}
