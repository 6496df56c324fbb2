// Package plot renders the comparison charts as PNG images.
package plot

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/openoceanspp/oopp/internal/statistics"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Default heatmap labels and geometry.
const (
	DefaultHeatmapTitle = "Model prediction correlation"
	DefaultCellSize     = 72

	heatmapMargin = 16
	titleHeight   = 32
	colorBarWidth = 18
	colorBarGap   = 20
	tickGap       = 6
)

var (
	background = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	gridColor  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	axisText   = color.RGBA{R: 40, G: 40, B: 40, A: 255}
	labelFace  = basicfont.Face7x13
)

// HeatmapOptions configures RenderHeatmap.
type HeatmapOptions struct {
	Title    string
	CellSize int
	Scale    ColorScale
}

func (o HeatmapOptions) withDefaults() HeatmapOptions {
	if o.Title == "" {
		o.Title = DefaultHeatmapTitle
	}
	if o.CellSize <= 0 {
		o.CellSize = DefaultCellSize
	}
	if len(o.Scale) == 0 {
		o.Scale = BlueRedReversed
	}
	return o
}

// FormatCell renders a coefficient the way heatmap cells show it.
func FormatCell(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%.2f", v)
}

// heatmapLayout holds the pixel geometry of a rendered heatmap.
type heatmapLayout struct {
	n        int
	cell     int
	gridLeft int
	gridTop  int
	barLeft  int
	width    int
	height   int
}

func layoutHeatmap(m *statistics.CorrelationMatrix, cell int) heatmapLayout {
	maxLabel := 0
	for _, l := range m.Labels {
		if w := textWidth(l); w > maxLabel {
			maxLabel = w
		}
	}

	n := m.Size()
	l := heatmapLayout{n: n, cell: cell}
	l.gridLeft = heatmapMargin + maxLabel + tickGap
	l.gridTop = heatmapMargin + titleHeight
	l.barLeft = l.gridLeft + n*cell + colorBarGap
	l.width = l.barLeft + colorBarWidth + tickGap + textWidth("-1.00") + heatmapMargin
	l.height = l.gridTop + n*cell + tickGap + labelFace.Height + heatmapMargin
	return l
}

// cellRect returns the pixel rectangle of cell (row, col).
func (l heatmapLayout) cellRect(row, col int) image.Rectangle {
	x := l.gridLeft + col*l.cell
	y := l.gridTop + row*l.cell
	return image.Rect(x, y, x+l.cell, y+l.cell)
}

// RenderHeatmap draws the correlation matrix as a labelled grid on a fixed
// [-1, 1] colour domain.
func RenderHeatmap(m *statistics.CorrelationMatrix, opts HeatmapOptions) *image.RGBA {
	opts = opts.withDefaults()
	l := layoutHeatmap(m, opts.CellSize)

	img := image.NewRGBA(image.Rect(0, 0, l.width, l.height))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	drawText(img, heatmapMargin, heatmapMargin+labelFace.Ascent, opts.Title, axisText)

	for row := 0; row < l.n; row++ {
		for col := 0; col < l.n; col++ {
			v := m.At(row, col)
			fill := opts.Scale.Map(v, -1, 1)
			rect := l.cellRect(row, col)
			draw.Draw(img, rect, image.NewUniform(fill), image.Point{}, draw.Src)
			strokeRect(img, rect, gridColor)

			label := FormatCell(v)
			cx := rect.Min.X + (l.cell-textWidth(label))/2
			cy := rect.Min.Y + (l.cell+labelFace.Ascent)/2
			drawText(img, cx, cy, label, textColorFor(fill))
		}
	}

	// Row labels on the left, column labels underneath.
	for i, name := range m.Labels {
		rect := l.cellRect(i, 0)
		drawText(img, l.gridLeft-tickGap-textWidth(name), rect.Min.Y+(l.cell+labelFace.Ascent)/2, name, axisText)

		rect = l.cellRect(l.n-1, i)
		short := fitText(name, l.cell)
		drawText(img, rect.Min.X+(l.cell-textWidth(short))/2, rect.Max.Y+tickGap+labelFace.Ascent, short, axisText)
	}

	drawColorBar(img, l, opts.Scale)
	return img
}

// WriteHeatmap renders the matrix and PNG-encodes it to w.
func WriteHeatmap(w io.Writer, m *statistics.CorrelationMatrix, opts HeatmapOptions) error {
	if m == nil || m.Size() == 0 {
		return ErrNothingToPlot
	}
	if err := png.Encode(w, RenderHeatmap(m, opts)); err != nil {
		return fmt.Errorf("encoding heatmap: %w", err)
	}
	return nil
}

func drawColorBar(img *image.RGBA, l heatmapLayout, scale ColorScale) {
	top := l.gridTop
	height := l.n * l.cell
	if height <= 1 {
		return
	}
	for y := 0; y < height; y++ {
		// Top of the bar is +1.
		v := 1 - 2*float64(y)/float64(height-1)
		line := image.Rect(l.barLeft, top+y, l.barLeft+colorBarWidth, top+y+1)
		draw.Draw(img, line, image.NewUniform(scale.Map(v, -1, 1)), image.Point{}, draw.Src)
	}

	x := l.barLeft + colorBarWidth + tickGap
	for _, tick := range []float64{1, 0.5, 0, -0.5, -1} {
		y := top + int(math.Round((1-tick)/2*float64(height-1)))
		drawText(img, x, y+labelFace.Ascent/2, FormatCell(tick), axisText)
	}
}

func strokeRect(img *image.RGBA, r image.Rectangle, c color.Color) {
	u := image.NewUniform(c)
	draw.Draw(img, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1), u, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
}

func drawText(img draw.Image, x, y int, s string, c color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: labelFace,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

func textWidth(s string) int {
	return font.MeasureString(labelFace, s).Ceil()
}

// fitText shortens s with a trailing ".." until it fits in width pixels.
func fitText(s string, width int) string {
	if textWidth(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 {
		r = r[:len(r)-1]
		if candidate := string(r) + ".."; textWidth(candidate) <= width {
			return candidate
		}
	}
	return ""
}
