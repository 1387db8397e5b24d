package graph

import (
	"image/color"
	"math"

	"gioui.org/f32"
)

const (
	calloutPadding = 10
	calloutRadius  = 5
	// pulseGrowth caps the hover growth at half the base diameter.
	pulseGrowth = 0.5
)

// Circle is a round point marker of the series.
type Circle struct {
	Center f32.Point
	// Diameter is the rendered size at rest.
	Diameter float32
	// HoverDiameter is the size of the hover hit area.
	HoverDiameter float32
	Label         string
	LabelSize     float32
	Color         color.NRGBA
}

func (c Circle) IsMouseOver(p f32.Point) bool {
	return distance(c.Center, p) < c.HoverDiameter/2
}

// Draw paints the circle grown by the given pulse.
func (c Circle) Draw(cv Canvas, pulse Pulse) {
	cv.Circle(c.Center, c.Diameter+pulse.Extra, Style{
		Fill:        c.Color,
		Stroke:      c.Color,
		StrokeWidth: 1,
	})
}

// DrawCallout paints the label callout when p hovers the circle.
func (c Circle) DrawCallout(cv Canvas, p f32.Point) {
	if c.Label != "" && c.IsMouseOver(p) {
		drawCallout(cv, c.Label, c.LabelSize, p)
	}
}

// Square is a rounded square point marker inside a swimlane.
type Square struct {
	Center        f32.Point
	Side          float32
	HoverDiameter float32
	Radius        float32
	Label         string
	LabelSize     float32
	Fill, Stroke  color.NRGBA
}

func (s Square) IsMouseOver(p f32.Point) bool {
	return distance(s.Center, p) < s.HoverDiameter/2
}

// Bounds is the painted extent of the square.
func (s Square) Bounds() Rect {
	return RectXYWH(s.Center.X-s.Side/2, s.Center.Y-s.Side/2, s.Side, s.Side)
}

// Draw paints the square. When hovered the label moves into a callout,
// otherwise it is printed on the square itself.
func (s Square) Draw(cv Canvas, p f32.Point) {
	cv.Rect(s.Bounds(), Style{
		Fill:        s.Fill,
		Stroke:      s.Stroke,
		StrokeWidth: 1,
		Radius:      s.Radius,
	})
	if s.Label == "" {
		return
	}
	if s.IsMouseOver(p) {
		drawCallout(cv, s.Label, s.LabelSize, p)
		return
	}
	cv.Text(s.Label, s.Center, TextStyle{
		Size:   s.LabelSize,
		Color:  white,
		HAlign: AlignCenter,
		VAlign: AlignMiddle,
	})
}

// Block is an interval bar inside a swimlane.
type Block struct {
	X, Width float32
	// Y is the top of the lane; the bar starts MarginTop below it.
	Y, Height, MarginTop float32
	Radius               float32
	Label                string
	LabelSize            float32
	Fill, Stroke         color.NRGBA
}

// Top is the y of the painted bar.
func (b Block) Top() float32 {
	return b.Y + b.MarginTop
}

func (b Block) Bounds() Rect {
	return RectXYWH(b.X, b.Top(), b.Width, b.Height)
}

func (b Block) IsMouseOver(p f32.Point) bool {
	return b.Bounds().Contains(p)
}

func (b Block) Draw(cv Canvas, p f32.Point) {
	cv.Rect(b.Bounds(), Style{
		Fill:        b.Fill,
		Stroke:      b.Stroke,
		StrokeWidth: 1,
		Radius:      b.Radius,
	})
	if b.Label != "" && b.IsMouseOver(p) {
		drawCallout(cv, b.Label, b.LabelSize, p)
	}
}

// Line connects two consecutive series points.
type Line struct {
	A, B  f32.Point
	Width float32
	Color color.NRGBA
}

func (l Line) Draw(cv Canvas) {
	cv.Line(l.A, l.B, l.Width, l.Color)
}

// Pulse is the eased hover growth of a marker.
type Pulse struct {
	Extra float32
}

// Step advances the pulse by one tick for a shape of the given base
// diameter.
func (p Pulse) Step(base float32, hovered bool) Pulse {
	limit := base * pulseGrowth
	switch {
	case hovered && p.Extra < limit:
		p.Extra = min(p.Extra+1, limit)
	case !hovered && p.Extra > 0:
		p.Extra = max(p.Extra-1, 0)
	}
	return p
}

// Settled reports whether another Step would leave the pulse unchanged.
func (p Pulse) Settled(base float32, hovered bool) bool {
	return p.Step(base, hovered) == p
}

// calloutRect is the rounded box drawn above the pointer for a label of
// the given text width.
func calloutRect(p f32.Point, textWidth, ascent, descent float32) Rect {
	w := textWidth + calloutPadding
	return RectXYWH(p.X-w/2, p.Y-ascent-calloutPadding, w, ascent+descent+5)
}

func drawCallout(cv Canvas, label string, size float32, p f32.Point) {
	ascent, descent := cv.TextMetrics(size)
	r := calloutRect(p, cv.TextWidth(label, size), ascent, descent)
	cv.Rect(r, Style{
		Fill:        white,
		Stroke:      lineGray,
		StrokeWidth: 1,
		Radius:      calloutRadius,
	})
	cv.Text(label, f32.Pt(p.X, p.Y-calloutPadding), TextStyle{
		Size:   size,
		Color:  black,
		HAlign: AlignCenter,
		VAlign: AlignMiddle,
	})
}

func distance(a, b f32.Point) float32 {
	d := a.Sub(b)
	return float32(math.Hypot(float64(d.X), float64(d.Y)))
}
