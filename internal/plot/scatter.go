package plot

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/openoceanspp/oopp/internal/scores"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNothingToPlot is returned when a chart has no data.
var ErrNothingToPlot = errors.New("plot: nothing to plot")

// Default scatter labels and geometry.
const (
	DefaultScatterTitle = "Prediction comparison"
	DefaultYAxisLabel   = "Score"
	DefaultLegendTitle  = "Model"
	DefaultWidth        = 1400
	DefaultHeight       = 720

	legendWidth      = 180
	legendGap        = 16
	legendLineHeight = 16
	legendMaxRunes   = 24
)

// ScatterOptions configures WriteScatter.
type ScatterOptions struct {
	Title       string
	XAxisLabel  string
	YAxisLabel  string
	LegendTitle string
	Width       int
	Height      int
}

func (o ScatterOptions) withDefaults() ScatterOptions {
	if o.Title == "" {
		o.Title = DefaultScatterTitle
	}
	if o.YAxisLabel == "" {
		o.YAxisLabel = DefaultYAxisLabel
	}
	if o.LegendTitle == "" {
		o.LegendTitle = DefaultLegendTitle
	}
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	return o
}

// pointStyle returns a style that renders points only (no connecting line)
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    4,
		DotColor:    col,
	}
}

// WriteScatter draws one point series per model against the sample ids of
// t, in the table's row order, and PNG-encodes the chart to w.
func WriteScatter(w io.Writer, t *scores.Table, opts ScatterOptions) error {
	if t == nil || t.Len() == 0 || len(t.Models) == 0 {
		return ErrNothingToPlot
	}
	opts = opts.withDefaults()

	f, err := chart.GetDefaultFont()
	if err != nil {
		return fmt.Errorf("loading chart font: %w", err)
	}

	n := t.Len()
	xs := make([]float64, n)
	ticks := make([]chart.Tick, n)
	for i, id := range t.IDs {
		xs[i] = float64(i)
		ticks[i] = chart.Tick{Value: float64(i), Label: id}
	}

	series := make([]chart.Series, 0, len(t.Models))
	for m, model := range t.Models {
		series = append(series, chart.ContinuousSeries{
			Name:    model,
			XValues: xs,
			YValues: t.Scores[m],
			Style:   pointStyle(chart.GetDefaultColor(m)),
		})
	}

	yMin, yMax := paddedRange(t.Scores)

	ch := chart.Chart{
		Title:  opts.Title,
		Width:  opts.Width,
		Height: opts.Height,
		Font:   f,
		Background: chart.Style{
			Padding: chart.Box{Top: 48, Left: 24, Right: legendWidth, Bottom: 24},
		},
		XAxis: chart.XAxis{
			Name:      opts.XAxisLabel,
			Ticks:     ticks,
			TickStyle: chart.Style{TextRotationDegrees: 45.0},
			Range:     &chart.ContinuousRange{Min: -0.5, Max: float64(n) - 0.5},
		},
		YAxis: chart.YAxis{
			Name:  opts.YAxisLabel,
			Range: &chart.ContinuousRange{Min: yMin, Max: yMax},
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{titledLegend(&ch, opts.LegendTitle, t.Models)}

	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("rendering scatter: %w", err)
	}
	return nil
}

// paddedRange returns a y range covering every value with 5% headroom. A
// flat series gets a unit-wide window so the axis is never degenerate.
func paddedRange(columns [][]float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, col := range columns {
		for _, v := range col {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return 0, 1
	}
	if hi-lo < 1e-9 {
		return lo - 0.5, hi + 0.5
	}
	pad := (hi - lo) * 0.05
	return lo - pad, hi + pad
}

// titledLegend draws a legend with a heading to the right of the plot area.
// Entry colours follow the default series palette, matching the series order.
func titledLegend(c *chart.Chart, title string, names []string) chart.Renderable {
	return func(r chart.Renderer, cb chart.Box, defaults chart.Style) {
		x := cb.Right + legendGap
		y := cb.Top + legendLineHeight

		r.SetFont(defaults.GetFont(c.GetFont()))
		r.SetFontColor(drawing.ColorBlack)
		r.SetFontSize(11)
		r.Text(title, x, y)

		r.SetFontSize(9)
		for i, name := range names {
			y += legendLineHeight
			col := chart.GetDefaultColor(i)
			r.SetFillColor(col)
			r.SetStrokeColor(col)
			r.SetStrokeWidth(1)
			r.Circle(4, x+4, y-4)
			r.FillStroke()

			r.SetFontColor(drawing.ColorBlack)
			r.Text(truncate(name, legendMaxRunes), x+14, y)
		}
	}
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-2]) + ".."
}
