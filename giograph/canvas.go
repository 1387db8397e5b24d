// Package giograph renders graph.Graph with Gio. Canvas records the
// drawing of the latest frame into its own operation list so that frames
// which need no repaint can replay it for free; Widget embeds that canvas
// in a Gio layout and acts as the graph's resizable container.
package giograph

import (
	"image"
	"image/color"
	"math"

	"gioui.org/f32"
	"gioui.org/font"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"

	"git.sr.ht/~whereswaldon/swimgraph/graph"
)

// unbounded is the constraint used when measuring single-line text.
const unbounded = 1 << 24

type measureKey struct {
	s    string
	size float32
}

// Canvas implements graph.Canvas on top of Gio operations. Sizes are in
// pixels; text sizes are interpreted with one pixel per Sp.
type Canvas struct {
	shaper *text.Shaper
	faces  []font.FontFace
	font   font.Font
	size   image.Point

	// ops holds the most recent frame, frame is its recorded call.
	ops       op.Ops
	macro     op.MacroOp
	frame     op.CallOp
	recording bool
	released  bool

	scratch op.Ops
	widths  map[measureKey]float32
}

var _ graph.Canvas = (*Canvas)(nil)

// NewCanvas returns a canvas shaping text with shaper. faces should be the
// collection the shaper was built from; it backs HasFont.
func NewCanvas(shaper *text.Shaper, faces []font.FontFace) *Canvas {
	return &Canvas{
		shaper: shaper,
		faces:  faces,
		widths: make(map[measureKey]float32),
	}
}

func (c *Canvas) Size() image.Point {
	return c.size
}

func (c *Canvas) Resize(width, height int) {
	c.size = image.Pt(width, height)
}

func (c *Canvas) HasFont(name string) bool {
	for _, f := range c.faces {
		if string(f.Font.Typeface) == name {
			return true
		}
	}
	return false
}

func (c *Canvas) SetFont(name string) {
	c.font = font.Font{Typeface: font.Typeface(name)}
	clear(c.widths)
}

func (c *Canvas) labelContext(ops *op.Ops) layout.Context {
	return layout.Context{
		Ops:    ops,
		Metric: unit.Metric{PxPerDp: 1, PxPerSp: 1},
		Constraints: layout.Constraints{
			Max: image.Pt(unbounded, unbounded),
		},
	}
}

// label records s as a single line and returns its dimensions with the
// call that paints it.
func (c *Canvas) label(ops *op.Ops, s string, size float32, col color.NRGBA) (layout.Dimensions, op.CallOp) {
	gtx := c.labelContext(ops)
	colMacro := op.Record(ops)
	paint.ColorOp{Color: col}.Add(ops)
	material := colMacro.Stop()

	macro := op.Record(ops)
	dims := widget.Label{MaxLines: 1}.Layout(gtx, c.shaper, c.font, unit.Sp(size), s, material)
	return dims, macro.Stop()
}

func (c *Canvas) TextWidth(s string, size float32) float32 {
	key := measureKey{s: s, size: size}
	if w, ok := c.widths[key]; ok {
		return w
	}
	c.scratch.Reset()
	dims, _ := c.label(&c.scratch, s, size, color.NRGBA{})
	w := float32(dims.Size.X)
	c.widths[key] = w
	return w
}

func (c *Canvas) TextMetrics(size float32) (ascent, descent float32) {
	c.scratch.Reset()
	dims, _ := c.label(&c.scratch, "Mg", size, color.NRGBA{})
	return float32(dims.Size.Y - dims.Baseline), float32(dims.Baseline)
}

func (c *Canvas) Begin(bg color.NRGBA) {
	if c.released {
		return
	}
	c.ops.Reset()
	c.macro = op.Record(&c.ops)
	c.recording = true
	paint.FillShape(&c.ops, bg, clip.Rect{Max: c.size}.Op())
}

func (c *Canvas) End() {
	if !c.recording {
		return
	}
	c.frame = c.macro.Stop()
	c.recording = false
}

// Add replays the most recent frame into ops.
func (c *Canvas) Add(ops *op.Ops) {
	if c.released {
		return
	}
	c.frame.Add(ops)
}

func (c *Canvas) Release() {
	c.released = true
	c.recording = false
	c.frame = op.CallOp{}
	c.ops.Reset()
	c.scratch.Reset()
	clear(c.widths)
}

func (c *Canvas) Rect(r graph.Rect, s graph.Style) {
	if !c.recording {
		return
	}
	rad := int(math.Round(float64(s.Radius)))
	rr := clip.RRect{Rect: toRect(r), SE: rad, SW: rad, NW: rad, NE: rad}
	if s.Fill.A != 0 {
		paint.FillShape(&c.ops, s.Fill, rr.Op(&c.ops))
	}
	if s.Stroke.A != 0 && s.StrokeWidth > 0 {
		paint.FillShape(&c.ops, s.Stroke, clip.Stroke{
			Path:  rr.Path(&c.ops),
			Width: s.StrokeWidth,
		}.Op())
	}
}

func (c *Canvas) Circle(center f32.Point, diameter float32, s graph.Style) {
	if !c.recording {
		return
	}
	r := diameter / 2
	e := clip.Ellipse(toRect(graph.Rect{
		Min: f32.Pt(center.X-r, center.Y-r),
		Max: f32.Pt(center.X+r, center.Y+r),
	}))
	if s.Fill.A != 0 {
		paint.FillShape(&c.ops, s.Fill, e.Op(&c.ops))
	}
	if s.Stroke.A != 0 && s.StrokeWidth > 0 {
		paint.FillShape(&c.ops, s.Stroke, clip.Stroke{
			Path:  e.Path(&c.ops),
			Width: s.StrokeWidth,
		}.Op())
	}
}

func (c *Canvas) Line(a, b f32.Point, width float32, col color.NRGBA) {
	if !c.recording {
		return
	}
	var p clip.Path
	p.Begin(&c.ops)
	p.MoveTo(a)
	p.LineTo(b)
	paint.FillShape(&c.ops, col, clip.Stroke{
		Path:  p.End(),
		Width: width,
	}.Op())
}

func (c *Canvas) Polygon(pts []f32.Point, fill color.NRGBA) {
	if !c.recording || len(pts) < 3 {
		return
	}
	var p clip.Path
	p.Begin(&c.ops)
	p.MoveTo(pts[0])
	for _, pt := range pts[1:] {
		p.LineTo(pt)
	}
	p.Close()
	paint.FillShape(&c.ops, fill, clip.Outline{Path: p.End()}.Op())
}

func (c *Canvas) VerticalGradient(r graph.Rect, top, bottom color.NRGBA) {
	if !c.recording || r.Dy() <= 0 || r.Dx() <= 0 {
		return
	}
	defer clip.Rect(toRect(r)).Push(&c.ops).Pop()
	paint.LinearGradientOp{
		Stop1:  f32.Pt(r.Min.X, r.Min.Y),
		Color1: top,
		Stop2:  f32.Pt(r.Min.X, r.Max.Y),
		Color2: bottom,
	}.Add(&c.ops)
	paint.PaintOp{}.Add(&c.ops)
}

func (c *Canvas) Text(s string, at f32.Point, ts graph.TextStyle) {
	if !c.recording || s == "" {
		return
	}
	dims, call := c.label(&c.ops, s, ts.Size, ts.Color)
	x, y := at.X, at.Y
	switch ts.HAlign {
	case graph.AlignCenter:
		x -= float32(dims.Size.X) / 2
	case graph.AlignRight:
		x -= float32(dims.Size.X)
	}
	if ts.VAlign == graph.AlignMiddle {
		y -= float32(dims.Size.Y) / 2
	}
	defer op.Offset(image.Pt(int(math.Round(float64(x))), int(math.Round(float64(y))))).Push(&c.ops).Pop()
	call.Add(&c.ops)
}

// toRect rounds r to whole pixels.
func toRect(r graph.Rect) image.Rectangle {
	return image.Rect(
		int(math.Round(float64(r.Min.X))),
		int(math.Round(float64(r.Min.Y))),
		int(math.Round(float64(r.Max.X))),
		int(math.Round(float64(r.Max.Y))),
	)
}
