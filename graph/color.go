package graph

import (
	"image/color"
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

var (
	white     = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	black     = color.NRGBA{A: 0xff}
	gridGray  = color.NRGBA{R: 200, G: 200, B: 200, A: 0xff}
	lineGray  = color.NRGBA{R: 100, G: 100, B: 100, A: 0xff}
	stripGray = color.NRGBA{R: 60, G: 60, B: 60, A: 30}
)

// seriesColors cycles across series in multi-series data.
var seriesColors = []color.NRGBA{
	{R: 0x06, G: 0x5f, B: 0x46, A: 0xff}, //#065f46
	{R: 0x07, G: 0x59, B: 0x85, A: 0xff}, //#075985
	{R: 0xa4, G: 0x63, B: 0x3a, A: 0xff}, //#a4633a
	{R: 0x72, G: 0x6c, B: 0xae, A: 0xff}, //#726cae
	{R: 0x97, G: 0x5f, B: 0x91, A: 0xff}, //#975f91
	{R: 0x85, G: 0x76, B: 0x25, A: 0xff}, //#857625
}

// SeriesColor returns the palette color of the i-th series.
func SeriesColor(i int) color.NRGBA {
	return seriesColors[i%len(seriesColors)]
}

// palette holds the resolved colors of one marker or block.
type palette struct {
	fill, stroke, gradientTop, gradientBottom color.NRGBA
}

var (
	markerPalette = palette{
		fill:           mustHex("#065f46"),
		stroke:         mustHex("#065f46"),
		gradientTop:    mustHex("#f0fdf4"),
		gradientBottom: mustHex("#bbf7d0"),
	}
	blockPalette = palette{
		fill:           mustHex("#075985"),
		stroke:         mustHex("#075985"),
		gradientTop:    mustHex("#f0f9ff"),
		gradientBottom: mustHex("#7dd3fc"),
	}
)

// resolve overlays the parsable overrides in c on top of p.
func (p palette) resolve(c Colors) palette {
	pick := func(s string, def color.NRGBA) color.NRGBA {
		if v, ok := ParseHex(s); ok {
			return v
		}
		return def
	}
	return palette{
		fill:           pick(c.Fill, p.fill),
		stroke:         pick(c.Stroke, p.stroke),
		gradientTop:    pick(c.GradientTop, p.gradientTop),
		gradientBottom: pick(c.GradientBottom, p.gradientBottom),
	}
}

// ParseHex parses "#rgb" or "#rrggbb". The leading '#' is optional.
func ParseHex(s string) (color.NRGBA, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 3 && len(s) != 6 {
		return color.NRGBA{}, false
	}
	for _, r := range s {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return color.NRGBA{}, false
		}
	}
	c := drawing.ColorFromHex(s)
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xff}, true
}

func mustHex(s string) color.NRGBA {
	c, ok := ParseHex(s)
	if !ok {
		panic("graph: bad palette color " + s)
	}
	return c
}
