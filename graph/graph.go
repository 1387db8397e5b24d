// Package graph lays out and draws a timeline chart: one or more value
// series above a time axis, with swimlanes of markers and interval blocks
// beneath it. It draws through a Canvas and follows the size of a
// Container; both are supplied by the host.
package graph

import (
	"fmt"
	"image"
	"log/slog"
	"time"

	"gioui.org/f32"
)

// State is the lifecycle stage of a Graph.
type State uint8

const (
	StateUninitialized State = iota
	StateReady
	StateDisposed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateDisposed:
		return "disposed"
	default:
		return "unknown"
	}
}

// tick is what the redraw check compares between frames.
type tick struct {
	size    image.Point
	pointer f32.Point
	// valid is false until the first tick has been seen.
	valid bool
}

// needsRedraw decides whether a frame tick has to repaint. It is pure:
// last is the state at the previous repaint (size is refreshed every
// tick), cur the state now.
func needsRedraw(last, cur tick, overMarker, animating bool) bool {
	if !last.valid || last.size != cur.size {
		return true
	}
	if overMarker || animating {
		return true
	}
	p := cur.pointer
	if p.X < 0 || p.Y < 0 || p.X > float32(cur.size.X) || p.Y > float32(cur.size.Y) {
		return false
	}
	return p != last.pointer
}

// Graph owns a canvas and keeps its drawing in sync with the data, the
// container size and the pointer. It must only be used from the UI
// goroutine.
type Graph struct {
	state     State
	opts      Options
	canvas    Canvas
	container Container
	unobserve func()
	data      Data

	frame *frame
	// pulses mirrors frame.circles.
	pulses [][]Pulse
	last   tick
}

// New builds a Graph drawing data onto cv and following the size of c.
// A nil opts uses DefaultOptions.
func New(c Container, cv Canvas, opts *Options, data Data) (*Graph, error) {
	if err := data.Validate(); err != nil {
		return nil, fmt.Errorf("creating graph: %w", err)
	}
	o := DefaultOptions()
	if opts != nil {
		o = *opts
	}
	g := &Graph{
		opts:      o.normalized(),
		canvas:    cv,
		container: c,
		data:      data,
	}
	cv.SetFont(g.resolveFont())
	size := c.Size()
	cv.Resize(size.X, size.Y)
	g.rebuild()
	// Containers may report a size from inside Observe.
	g.state = StateReady
	g.unobserve = c.Observe(g)
	return g, nil
}

// resolveFont returns the first candidate the canvas provides, or the
// empty default.
func (g *Graph) resolveFont() string {
	for _, f := range g.opts.Fonts {
		if g.canvas.HasFont(f) {
			return f
		}
	}
	return ""
}

func (g *Graph) State() State {
	return g.state
}

// Layout returns the current horizontal and vertical layout.
func (g *Graph) Layout() (XCalc, YCalc) {
	if g.frame == nil {
		return XCalc{}, YCalc{}
	}
	return g.frame.x, g.frame.y
}

// OnResize implements ResizeObserver. It recomputes the layout for the
// new size. Calls after Dispose are ignored.
func (g *Graph) OnResize(width, height int) {
	if g.state != StateReady {
		return
	}
	g.canvas.Resize(width, height)
	g.rebuild()
}

// SetData replaces the dataset and rebuilds the layout.
func (g *Graph) SetData(d Data) error {
	if g.state == StateDisposed {
		return ErrDisposed
	}
	if err := d.Validate(); err != nil {
		return fmt.Errorf("replacing graph data: %w", err)
	}
	g.data = d
	g.rebuild()
	return nil
}

// rebuild discards the current frame and derives a new one. The next
// Render always repaints.
func (g *Graph) rebuild() {
	g.frame = buildFrame(g.canvas, g.opts, g.canvas.Size(), g.data)
	g.last.valid = false
	g.pulses = make([][]Pulse, len(g.frame.circles))
	for i, s := range g.frame.circles {
		g.pulses[i] = make([]Pulse, len(s))
	}
	g.opts.Logger.Debug("graph layout rebuilt",
		slog.Int("width", g.frame.size.X),
		slog.Int("height", g.frame.size.Y),
		slog.Int("ticks", len(g.frame.x.Positions)),
	)
}

// Animating reports whether a pulse is still easing towards its rest
// size, in which case the host should schedule another tick.
func (g *Graph) Animating() bool {
	if g.state != StateReady {
		return false
	}
	return g.animating(g.last.pointer)
}

func (g *Graph) animating(p f32.Point) bool {
	for si, s := range g.frame.circles {
		for ci, c := range s {
			if !g.pulses[si][ci].Settled(c.Diameter, c.IsMouseOver(p)) {
				return true
			}
		}
	}
	return false
}

// Render is the per-frame entry point. It repaints the canvas when the
// size or pointer demand it and reports whether it did.
func (g *Graph) Render(now time.Time, pointer f32.Point) bool {
	if g.state != StateReady {
		return false
	}
	cur := tick{size: g.canvas.Size(), pointer: pointer, valid: true}
	over := g.frame.hovered(pointer)
	anim := g.animating(pointer)
	redraw := needsRedraw(g.last, cur, over, anim)
	if g.last.size != cur.size {
		g.opts.Logger.Debug("redraw: canvas size changed", slog.Time("at", now))
	}
	g.last.size = cur.size
	g.last.valid = true
	if !redraw {
		return false
	}
	if over {
		g.opts.Logger.Debug("redraw: cursor is hovering a point", slog.Time("at", now))
	}
	g.last.pointer = pointer
	g.draw(pointer)
	return true
}

// draw paints every layer bottom to top.
func (g *Graph) draw(p f32.Point) {
	cv, f, o := g.canvas, g.frame, g.opts
	width := float32(f.size.X)
	cv.Begin(white)
	defer cv.End()

	// Paint lanes bottom-up so the first row ends on top.
	for i := len(f.lanes) - 1; i >= 0; i-- {
		f.lanes[i].Draw(cv, p)
	}
	f.axis.Draw(cv)
	if len(f.mask) > 0 {
		cv.Polygon(f.mask, white)
	}

	for i, y := range f.y.Lines {
		cv.Line(f32.Pt(f.y.LabelWidth+20, y), f32.Pt(width, y), 1, gridGray)
		cv.Text(f.y.Labels[i], f32.Pt(10, y), TextStyle{
			Size:   o.BaseTextSize,
			Color:  black,
			HAlign: AlignLeft,
			VAlign: AlignMiddle,
		})
	}

	for i, y := range f.y.Lanes {
		cv.Line(f32.Pt(0, y), f32.Pt(width, y), 1, gridGray)
		cv.Text(f.lanes[i].Label, f32.Pt(10, y+o.SwimlaneHeight/2), TextStyle{
			Size:   o.BaseTextSize,
			Color:  black,
			HAlign: AlignLeft,
			VAlign: AlignMiddle,
		})
		if i == len(f.y.Lanes)-1 {
			bottom := y + o.SwimlaneHeight
			cv.Line(f32.Pt(0, bottom), f32.Pt(width, bottom), 1, gridGray)
		}
	}

	for _, s := range f.lines {
		for _, l := range s {
			l.Draw(cv)
		}
	}
	for si, s := range f.circles {
		for ci, c := range s {
			g.pulses[si][ci] = g.pulses[si][ci].Step(c.Diameter, c.IsMouseOver(p))
			c.Draw(cv, g.pulses[si][ci])
		}
	}
	// Callouts go last so neighbouring points never cover them.
	for _, s := range f.circles {
		for _, c := range s {
			c.DrawCallout(cv, p)
		}
	}
}

// Dispose stops following the container and releases the canvas. It is
// safe to call more than once.
func (g *Graph) Dispose() {
	if g.state == StateDisposed {
		return
	}
	if g.unobserve != nil {
		g.unobserve()
		g.unobserve = nil
	}
	g.state = StateDisposed
	g.canvas.Release()
	g.frame = nil
	g.pulses = nil
}
