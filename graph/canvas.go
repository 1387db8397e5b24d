package graph

import (
	"image"
	"image/color"

	"gioui.org/f32"
)

// Measurer reports the extent of rendered text.
type Measurer interface {
	// TextWidth returns the width in pixels of s at the given size.
	TextWidth(s string, size float32) float32
	// TextMetrics returns the ascent and descent of the current font.
	TextMetrics(size float32) (ascent, descent float32)
}

// HAlign is the horizontal anchoring of text.
type HAlign uint8

const (
	AlignLeft HAlign = iota
	AlignCenter
	AlignRight
)

// VAlign is the vertical anchoring of text.
type VAlign uint8

const (
	AlignTop VAlign = iota
	AlignMiddle
)

// Rect is an axis aligned rectangle in pixels.
type Rect struct {
	Min, Max f32.Point
}

// RectXYWH builds a Rect from its origin and size.
func RectXYWH(x, y, w, h float32) Rect {
	return Rect{Min: f32.Pt(x, y), Max: f32.Pt(x+w, y+h)}
}

func (r Rect) Dx() float32 { return r.Max.X - r.Min.X }
func (r Rect) Dy() float32 { return r.Max.Y - r.Min.Y }

// Contains reports whether p lies strictly inside r.
func (r Rect) Contains(p f32.Point) bool {
	return p.X > r.Min.X && p.X < r.Max.X && p.Y > r.Min.Y && p.Y < r.Max.Y
}

// Style describes how a shape is filled and outlined. A zero alpha
// disables the corresponding part.
type Style struct {
	Fill        color.NRGBA
	Stroke      color.NRGBA
	StrokeWidth float32
	Radius      float32
}

// TextStyle describes how a run of text is placed.
type TextStyle struct {
	Size   float32
	Color  color.NRGBA
	HAlign HAlign
	VAlign VAlign
}

// Canvas is the drawing surface a Graph renders onto. Drawing calls are
// only valid between Begin and End.
type Canvas interface {
	Measurer
	Size() image.Point
	Resize(width, height int)
	// HasFont reports whether the named typeface is available.
	HasFont(name string) bool
	// SetFont selects the typeface for subsequent text. An empty name
	// selects the canvas default.
	SetFont(name string)
	// Begin discards the previous frame and clears to bg.
	Begin(bg color.NRGBA)
	End()
	// Release frees everything the canvas holds. The canvas is unusable
	// afterwards.
	Release()

	Rect(r Rect, s Style)
	Circle(center f32.Point, diameter float32, s Style)
	Line(a, b f32.Point, width float32, c color.NRGBA)
	Polygon(pts []f32.Point, fill color.NRGBA)
	// VerticalGradient fills r interpolating from top to bottom.
	VerticalGradient(r Rect, top, bottom color.NRGBA)
	Text(s string, at f32.Point, ts TextStyle)
}

// Container is the sized element a Graph is embedded in.
type Container interface {
	Size() image.Point
	// Observe subscribes o to size changes until cancel is invoked.
	Observe(o ResizeObserver) (cancel func())
}

// ResizeObserver is notified of container size changes. Implementations
// of Container must deliver exactly one call per observed change, with the
// new size; batching multiple regions into one notification is not
// allowed.
type ResizeObserver interface {
	OnResize(width, height int)
}
