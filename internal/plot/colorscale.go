package plot

import (
	"image/color"
	"math"
)

// ColorStop anchors a colour at a normalised position in [0, 1].
type ColorStop struct {
	Pos   float64
	Color color.RGBA
}

// ColorScale linearly interpolates between ordered stops.
type ColorScale []ColorStop

// BlueRedReversed runs red at the low end to blue at the high end, so
// negative correlation is red and positive correlation is blue.
var BlueRedReversed = ColorScale{
	{Pos: 0, Color: color.RGBA{R: 255, A: 255}},
	{Pos: 1, Color: color.RGBA{B: 255, A: 255}},
}

// NaNColor fills cells with an undefined value.
var NaNColor = color.RGBA{R: 200, G: 200, B: 200, A: 255}

// At returns the colour at position t, clamped to [0, 1].
func (s ColorScale) At(t float64) color.RGBA {
	if len(s) == 0 {
		return NaNColor
	}
	if math.IsNaN(t) {
		return NaNColor
	}
	t = math.Max(0, math.Min(1, t))
	if t <= s[0].Pos {
		return s[0].Color
	}
	for i := 1; i < len(s); i++ {
		lo, hi := s[i-1], s[i]
		if t <= hi.Pos {
			span := hi.Pos - lo.Pos
			if span <= 0 {
				return hi.Color
			}
			return lerp(lo.Color, hi.Color, (t-lo.Pos)/span)
		}
	}
	return s[len(s)-1].Color
}

// Map places v on the scale for the domain [lo, hi].
func (s ColorScale) Map(v, lo, hi float64) color.RGBA {
	if math.IsNaN(v) || hi <= lo {
		return NaNColor
	}
	return s.At((v - lo) / (hi - lo))
}

func lerp(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}

// textColorFor picks black or white text for legibility on bg.
func textColorFor(bg color.RGBA) color.RGBA {
	luma := 0.299*float64(bg.R) + 0.587*float64(bg.G) + 0.114*float64(bg.B)
	if luma < 110 {
		return color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	return color.RGBA{A: 255}
}
