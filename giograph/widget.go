package giograph

import (
	"image"

	"gioui.org/f32"
	"gioui.org/font"
	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/text"

	"git.sr.ht/~whereswaldon/swimgraph/graph"
)

type (
	C = layout.Context
	D = layout.Dimensions
)

// outside is reported as the pointer position while it is not over the
// widget.
var outside = f32.Pt(-1, -1)

// Widget hosts a graph.Graph in a Gio layout. It is the graph's
// Container: every frame whose constraints differ from the previous size
// produces exactly one resize notification.
type Widget struct {
	Canvas *Canvas

	size      image.Point
	observers map[int]graph.ResizeObserver
	nextID    int

	// hover gesture state
	pos       f32.Point
	isHovered bool
}

var _ graph.Container = (*Widget)(nil)

// NewWidget returns a widget drawing with a fresh Canvas.
func NewWidget(shaper *text.Shaper, faces []font.FontFace) *Widget {
	return &Widget{
		Canvas:    NewCanvas(shaper, faces),
		observers: make(map[int]graph.ResizeObserver),
	}
}

func (w *Widget) Size() image.Point {
	return w.size
}

func (w *Widget) Observe(o graph.ResizeObserver) (cancel func()) {
	id := w.nextID
	w.nextID++
	w.observers[id] = o
	return func() {
		delete(w.observers, id)
	}
}

// setSize records the size and notifies observers when it changed.
func (w *Widget) setSize(sz image.Point) {
	if sz == w.size {
		return
	}
	w.size = sz
	for _, o := range w.observers {
		o.OnResize(sz.X, sz.Y)
	}
}

// Pointer returns the pointer position relative to the widget.
func (w *Widget) Pointer() f32.Point {
	if !w.isHovered {
		return outside
	}
	return w.pos
}

func (w *Widget) Update(gtx C) {
	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target: w,
			Kinds:  pointer.Enter | pointer.Leave | pointer.Move | pointer.Drag,
		})
		if !ok {
			break
		}
		if ev, ok := ev.(pointer.Event); ok {
			w.handle(ev)
		}
	}
}

// handle tracks the hover position. A pressed pointer reports Drag
// instead of Move.
func (w *Widget) handle(ev pointer.Event) {
	switch ev.Kind {
	case pointer.Enter:
		w.isHovered = true
		w.pos = ev.Position
	case pointer.Leave, pointer.Cancel:
		w.isHovered = false
	case pointer.Move, pointer.Drag:
		w.pos = ev.Position
	}
}

// Layout sizes the widget to the maximum constraints, ticks g and paints
// its latest frame. A nil g lays out an empty area.
func (w *Widget) Layout(gtx C, g *graph.Graph) D {
	w.Update(gtx)
	w.setSize(gtx.Constraints.Max)
	if g != nil && g.State() == graph.StateReady {
		g.Render(gtx.Now, w.Pointer())
		if g.Animating() {
			gtx.Execute(op.InvalidateCmd{})
		}
	}
	defer clip.Rect{Max: w.size}.Push(gtx.Ops).Pop()
	event.Op(gtx.Ops, w)
	if g != nil && g.State() == graph.StateReady {
		w.Canvas.Add(gtx.Ops)
	}
	return D{Size: w.size}
}
