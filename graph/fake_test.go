package graph

import (
	"image"
	"image/color"

	"gioui.org/f32"
)

type drawKind uint8

const (
	kindBegin drawKind = iota
	kindEnd
	kindRect
	kindCircle
	kindLine
	kindPolygon
	kindGradient
	kindText
)

type drawOp struct {
	kind     drawKind
	rect     Rect
	style    Style
	center   f32.Point
	diameter float32
	a, b     f32.Point
	color    color.NRGBA
	pts      []f32.Point
	text     string
	ts       TextStyle
}

// fakeCanvas records drawing calls and measures text as half its size per
// character.
type fakeCanvas struct {
	size     image.Point
	fonts    map[string]bool
	font     string
	ops      []drawOp
	begins   int
	released bool
}

func newFakeCanvas(fonts ...string) *fakeCanvas {
	c := &fakeCanvas{fonts: map[string]bool{}}
	for _, f := range fonts {
		c.fonts[f] = true
	}
	return c
}

func (c *fakeCanvas) TextWidth(s string, size float32) float32 {
	return float32(len(s)) * size / 2
}

func (c *fakeCanvas) TextMetrics(size float32) (float32, float32) {
	return size * .75, size * .25
}

func (c *fakeCanvas) Size() image.Point        { return c.size }
func (c *fakeCanvas) Resize(width, height int) { c.size = image.Pt(width, height) }
func (c *fakeCanvas) HasFont(name string) bool { return c.fonts[name] }
func (c *fakeCanvas) SetFont(name string)      { c.font = name }

func (c *fakeCanvas) End() {
	c.ops = append(c.ops, drawOp{kind: kindEnd})
}

func (c *fakeCanvas) Release() {
	c.released = true
	c.ops = nil
}

func (c *fakeCanvas) Rect(r Rect, s Style) {
	c.ops = append(c.ops, drawOp{kind: kindRect, rect: r, style: s})
}

func (c *fakeCanvas) Polygon(p []f32.Point, fill color.NRGBA) {
	c.ops = append(c.ops, drawOp{kind: kindPolygon, pts: p, color: fill})
}

func (c *fakeCanvas) Begin(bg color.NRGBA) {
	c.begins++
	c.ops = []drawOp{{kind: kindBegin, color: bg}}
}

func (c *fakeCanvas) Circle(center f32.Point, d float32, s Style) {
	c.ops = append(c.ops, drawOp{kind: kindCircle, center: center, diameter: d, style: s})
}

func (c *fakeCanvas) Line(a, b f32.Point, width float32, col color.NRGBA) {
	c.ops = append(c.ops, drawOp{kind: kindLine, a: a, b: b, diameter: width, color: col})
}

func (c *fakeCanvas) VerticalGradient(r Rect, top, bottom color.NRGBA) {
	c.ops = append(c.ops, drawOp{kind: kindGradient, rect: r, color: top, style: Style{Fill: bottom}})
}

func (c *fakeCanvas) Text(s string, at f32.Point, ts TextStyle) {
	c.ops = append(c.ops, drawOp{kind: kindText, text: s, a: at, ts: ts})
}

// ofKind returns the recorded operations of kind k.
func (c *fakeCanvas) ofKind(k drawKind) []drawOp {
	var out []drawOp
	for _, op := range c.ops {
		if op.kind == k {
			out = append(out, op)
		}
	}
	return out
}

// indexOf returns the position of the first operation matching f, or -1.
func (c *fakeCanvas) indexOf(f func(drawOp) bool) int {
	for i, op := range c.ops {
		if f(op) {
			return i
		}
	}
	return -1
}

// fakeContainer is a Container whose size the test drives.
type fakeContainer struct {
	size      image.Point
	observer  ResizeObserver
	cancelled int
	// onObserve, when set, is reported to observers as soon as they
	// subscribe.
	onObserve image.Point
}

func (c *fakeContainer) Size() image.Point { return c.size }

func (c *fakeContainer) Observe(o ResizeObserver) func() {
	c.observer = o
	if c.onObserve != (image.Point{}) {
		c.size = c.onObserve
		o.OnResize(c.size.X, c.size.Y)
	}
	return func() {
		c.cancelled++
		c.observer = nil
	}
}

// resize changes the size and notifies the observer like a host would.
func (c *fakeContainer) resize(w, h int) {
	c.size = image.Pt(w, h)
	if c.observer != nil {
		c.observer.OnResize(w, h)
	}
}
