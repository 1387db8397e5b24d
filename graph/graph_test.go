package graph

import (
	"errors"
	"image"
	"reflect"
	"strconv"
	"testing"
	"time"

	"gioui.org/f32"
)

var epoch = time.Date(2022, 9, 6, 0, 0, 0, 0, time.UTC)

// rampData returns ticks "0".."n-1" with one series valued step*i.
func rampData(n int, step float64) Data {
	d := Data{Ticks: makeTicks(n)}
	var s Series
	for i := 0; i < n; i++ {
		s = append(s, Point{ID: strconv.Itoa(i), Value: float64(i) * step})
	}
	d.Series = []Series{s}
	return d
}

func newTestGraph(t *testing.T, d Data, w, h int) (*Graph, *fakeCanvas, *fakeContainer) {
	t.Helper()
	cv := newFakeCanvas()
	c := &fakeContainer{size: image.Pt(w, h)}
	g, err := New(c, cv, nil, d)
	if err != nil {
		t.Fatalf("failed creating graph: %v", err)
	}
	return g, cv, c
}

func TestNewValidation(t *testing.T) {
	c := &fakeContainer{size: image.Pt(100, 100)}
	_, err := New(c, newFakeCanvas(), nil, Data{Series: []Series{{{ID: "a", Value: 1}}}})
	if !errors.Is(err, ErrNoAxis) {
		t.Errorf("expected ErrNoAxis, got %v", err)
	}
	if c.observer != nil {
		t.Errorf("a failed construction must not observe the container")
	}
	_, err = New(c, newFakeCanvas(), nil, Data{Ticks: []AxisTick{{ID: "a"}, {ID: "a"}}})
	if !errors.Is(err, ErrDuplicateTick) {
		t.Errorf("expected ErrDuplicateTick, got %v", err)
	}
}

func TestResizeDuringObserve(t *testing.T) {
	c := &fakeContainer{size: image.Pt(100, 100), onObserve: image.Pt(600, 300)}
	cv := newFakeCanvas()
	g, err := New(c, cv, nil, rampData(5, 1))
	if err != nil {
		t.Fatalf("failed creating graph: %v", err)
	}
	if cv.size != image.Pt(600, 300) {
		t.Errorf("size reported while subscribing should reach the canvas, got %v", cv.size)
	}
	xc, _ := g.Layout()
	if expected := float32(600-20) / 5; !near(xc.Spacing, expected) {
		t.Errorf("expected spacing %f for the reported size, got %f", expected, xc.Spacing)
	}
}

func TestLifecycle(t *testing.T) {
	g, cv, c := newTestGraph(t, rampData(5, 1), 400, 300)
	if g.State() != StateReady {
		t.Fatalf("expected ready, got %v", g.State())
	}
	if c.observer == nil {
		t.Fatalf("graph should observe its container")
	}
	if cv.size != image.Pt(400, 300) {
		t.Errorf("canvas should take the container size, got %v", cv.size)
	}

	c.resize(800, 200)
	if cv.size != image.Pt(800, 200) {
		t.Errorf("canvas should follow resizes, got %v", cv.size)
	}
	xc, _ := g.Layout()
	if expected := float32(800-20) / 5; !near(xc.Spacing, expected) {
		t.Errorf("expected spacing %f after resize, got %f", expected, xc.Spacing)
	}

	if err := g.SetData(Data{}); !errors.Is(err, ErrNoAxis) {
		t.Errorf("expected ErrNoAxis replacing with empty data, got %v", err)
	}
	if err := g.SetData(rampData(8, 2)); err != nil {
		t.Fatalf("failed replacing data: %v", err)
	}
	if xc, _ := g.Layout(); len(xc.Positions) != 8 {
		t.Errorf("expected layout for the new data, got %d ticks", len(xc.Positions))
	}

	g.Dispose()
	if g.State() != StateDisposed {
		t.Errorf("expected disposed, got %v", g.State())
	}
	if c.cancelled != 1 || c.observer != nil {
		t.Errorf("dispose should cancel the resize subscription once, got %d", c.cancelled)
	}
	if !cv.released {
		t.Errorf("dispose should release the canvas")
	}
}

func TestDisposeSafe(t *testing.T) {
	g, cv, c := newTestGraph(t, rampData(5, 1), 400, 300)
	g.Dispose()
	g.Dispose()
	if c.cancelled != 1 {
		t.Errorf("expected a single cancellation, got %d", c.cancelled)
	}
	if g.Render(time.Now(), f32.Pt(10, 10)) {
		t.Errorf("render after dispose should do nothing")
	}
	g.OnResize(10, 10)
	if cv.size == image.Pt(10, 10) {
		t.Errorf("resize after dispose should be ignored")
	}
	if g.Animating() {
		t.Errorf("a disposed graph never animates")
	}
	if err := g.SetData(rampData(3, 1)); !errors.Is(err, ErrDisposed) {
		t.Errorf("expected ErrDisposed, got %v", err)
	}
	if cv.begins != 0 {
		t.Errorf("nothing should have been drawn, got %d frames", cv.begins)
	}
}

func TestResizeIdempotent(t *testing.T) {
	d := rampData(12, 3)
	d.Lanes = []Lane{{Label: "lane", Markers: []Marker{{ID: "3", Value: "x"}}}}
	g, _, c := newTestGraph(t, d, 100, 100)
	c.resize(640, 360)
	x1, y1 := g.Layout()
	c.resize(640, 360)
	x2, y2 := g.Layout()
	if !reflect.DeepEqual(x1, x2) || !reflect.DeepEqual(y1, y2) {
		t.Errorf("identical resizes should yield identical layouts")
	}
}

func TestNeedsRedraw(t *testing.T) {
	size := image.Pt(100, 100)
	seen := tick{size: size, pointer: f32.Pt(50, 50), valid: true}
	for _, tc := range []struct {
		name       string
		last, cur  tick
		over, anim bool
		expected   bool
	}{
		{name: "first tick", cur: seen, expected: true},
		{name: "size changed", last: seen, cur: tick{size: image.Pt(200, 100), pointer: seen.pointer, valid: true}, expected: true},
		{name: "unchanged", last: seen, cur: seen, expected: false},
		{name: "unchanged over marker", last: seen, cur: seen, over: true, expected: true},
		{name: "unchanged while animating", last: seen, cur: seen, anim: true, expected: true},
		{name: "moved", last: seen, cur: tick{size: size, pointer: f32.Pt(51, 50), valid: true}, expected: true},
		{name: "outside", last: seen, cur: tick{size: size, pointer: f32.Pt(-1, 50), valid: true}, expected: false},
		{name: "outside right", last: seen, cur: tick{size: size, pointer: f32.Pt(101, 50), valid: true}, expected: false},
		{name: "outside over marker", last: seen, cur: tick{size: size, pointer: f32.Pt(-1, 50), valid: true}, over: true, expected: true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got := needsRedraw(tc.last, tc.cur, tc.over, tc.anim); got != tc.expected {
				t.Errorf("expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestRenderDirtyCheck(t *testing.T) {
	g, cv, c := newTestGraph(t, rampData(10, 5), 400, 300)
	now := epoch
	away := f32.Pt(5, 5)
	if !g.Render(now, away) {
		t.Fatalf("first tick should draw")
	}
	if g.Render(now, away) {
		t.Errorf("identical tick should not draw")
	}
	if !g.Render(now, f32.Pt(6, 5)) {
		t.Errorf("moving the pointer should draw")
	}
	if g.Render(now, f32.Pt(-10, -10)) {
		t.Errorf("pointer outside the canvas should not draw")
	}
	c.resize(500, 300)
	if !g.Render(now, f32.Pt(-10, -10)) {
		t.Errorf("a resized canvas should draw")
	}

	xc, yc := g.Layout()
	over := f32.Pt(xc.Positions[4].X+1, yc.ValueY(20))
	frames := cv.begins
	for i := 0; i < 3; i++ {
		if !g.Render(now, over) {
			t.Errorf("hovering a point should draw every tick (tick %d)", i)
		}
		// A 3px point grows by 1px per tick up to 1.5px.
		if i == 0 && !g.Animating() {
			t.Errorf("hovered point should still be growing")
		}
	}
	if cv.begins != frames+3 {
		t.Errorf("expected 3 new frames, got %d", cv.begins-frames)
	}
	if g.Animating() {
		t.Errorf("hovered point should have reached its full size")
	}

	// Leaving keeps drawing until the pulse settles.
	redraws := 0
	for i := 0; i < 10 && g.Render(now, away); i++ {
		redraws++
	}
	if redraws == 0 || g.Animating() {
		t.Errorf("pulse should shrink back and settle, redraws=%d", redraws)
	}
	if g.Render(now, away) {
		t.Errorf("settled graph with a still pointer should not draw")
	}
	if err := g.SetData(rampData(6, 2)); err != nil {
		t.Fatalf("failed replacing data: %v", err)
	}
	if !g.Render(now, away) {
		t.Errorf("new data should draw even with a still pointer")
	}
}

func TestRenderEndToEnd(t *testing.T) {
	g, cv, _ := newTestGraph(t, rampData(10, 5), 400, 300)
	g.Render(epoch, f32.Pt(-1, -1))
	o := DefaultOptions()
	plotHeight := float32(300) - o.MarginTop - o.SpaceBetweenGraphAndSwimlanes - o.MarginBottom

	circles := cv.ofKind(kindCircle)
	if len(circles) != 10 {
		t.Fatalf("expected 10 points drawn, got %d", len(circles))
	}
	top, bottom := circles[0], circles[0]
	for _, c := range circles {
		if c.center.Y < top.center.Y {
			top = c
		}
		if c.center.Y > bottom.center.Y {
			bottom = c
		}
	}
	xc, _ := g.Layout()
	if top.center.X != xc.Positions[9].X || !near(top.center.Y, o.MarginTop) {
		t.Errorf("expected the top point at tick 9, y=%f; got %v", o.MarginTop, top.center)
	}
	if bottom.center.X != xc.Positions[0].X || !near(bottom.center.Y, o.MarginTop+plotHeight) {
		t.Errorf("expected the bottom point at tick 0, y=%f; got %v", o.MarginTop+plotHeight, bottom.center)
	}
	if lines := cv.ofKind(kindLine); len(lines) == 0 {
		t.Errorf("expected lines to be drawn")
	}
	if cv.ops[len(cv.ops)-1].kind != kindEnd {
		t.Errorf("frame should be closed")
	}
}

func TestRenderOrder(t *testing.T) {
	d := rampData(6, 10)
	d.Lanes = []Lane{
		{Label: "first", Markers: []Marker{{ID: "1", Value: "a"}}},
		{Label: "second", Blocks: []Interval{{StartID: "2", EndID: "4", Label: "b"}}},
	}
	g, cv, _ := newTestGraph(t, d, 400, 300)
	g.Render(epoch, f32.Pt(-1, -1))

	xc, _ := g.Layout()
	firstStrip := cv.indexOf(func(op drawOp) bool {
		return op.kind == kindRect && op.style.Fill == stripGray && op.rect.Min.X == xc.Positions[1].X-markerSide/2
	})
	secondStrip := cv.indexOf(func(op drawOp) bool {
		return op.kind == kindRect && op.style.Fill == stripGray && op.rect.Min.X == xc.Positions[2].X
	})
	mask := cv.indexOf(func(op drawOp) bool { return op.kind == kindPolygon })
	grid := cv.indexOf(func(op drawOp) bool { return op.kind == kindText && op.text == "50" })
	laneLabel := cv.indexOf(func(op drawOp) bool { return op.kind == kindText && op.text == "first" })
	seriesLine := cv.indexOf(func(op drawOp) bool { return op.kind == kindLine && op.diameter == seriesLineWidth })
	point := cv.indexOf(func(op drawOp) bool { return op.kind == kindCircle })

	order := []int{secondStrip, firstStrip, mask, grid, laneLabel, seriesLine, point}
	for i, idx := range order {
		if idx < 0 {
			t.Fatalf("layer %d missing from the frame", i)
		}
		if i > 0 && idx <= order[i-1] {
			t.Errorf("layer %d drawn at %d, before layer %d at %d", i, idx, i-1, order[i-1])
		}
	}
	if cv.ops[0].kind != kindBegin || cv.ops[0].color != white {
		t.Errorf("frame should start with a white clear")
	}
}

func TestMaskMultiSeries(t *testing.T) {
	d := Data{Ticks: makeTicks(3)}
	d.Series = []Series{
		{{ID: "0", Value: 10}, {ID: "1", Value: 2}, {ID: "2", Value: 8}},
		{{ID: "0", Value: 4}, {ID: "1", Value: 6}},
	}
	g, cv, _ := newTestGraph(t, d, 300, 200)
	g.Render(epoch, f32.Pt(-1, -1))
	masks := cv.ofKind(kindPolygon)
	if len(masks) != 1 {
		t.Fatalf("expected one mask, got %d", len(masks))
	}
	xc, yc := g.Layout()
	expected := []f32.Point{
		f32.Pt(0, 0),
		f32.Pt(0, yc.ValueY(4)),
		f32.Pt(xc.Positions[0].X, yc.ValueY(4)),
		f32.Pt(xc.Positions[1].X, yc.ValueY(2)),
		f32.Pt(xc.Positions[2].X, yc.ValueY(8)),
		f32.Pt(300, yc.ValueY(8)),
		f32.Pt(300, 0),
	}
	if !reflect.DeepEqual(masks[0].pts, expected) {
		t.Errorf("expected mask %v, got %v", expected, masks[0].pts)
	}
	if circles := cv.ofKind(kindCircle); len(circles) != 5 || circles[3].style.Fill != SeriesColor(1) {
		t.Errorf("expected 5 points with per-series colors, got %+v", circles)
	}
}

func TestNoSeriesNoMask(t *testing.T) {
	g, cv, _ := newTestGraph(t, Data{Ticks: makeTicks(4)}, 300, 200)
	g.Render(epoch, f32.Pt(-1, -1))
	if masks := cv.ofKind(kindPolygon); len(masks) != 0 {
		t.Errorf("expected no mask without points, got %d", len(masks))
	}
}

func TestUnknownReferencesSkipped(t *testing.T) {
	d := rampData(4, 1)
	d.Series[0] = append(d.Series[0], Point{ID: "missing", Value: 100})
	d.Lanes = []Lane{{
		Label:   "lane",
		Markers: []Marker{{ID: "missing"}, {ID: "1"}},
		Blocks:  []Interval{{StartID: "0", EndID: "missing"}, {StartID: "1", EndID: "3"}},
	}}
	g, _, _ := newTestGraph(t, d, 300, 200)
	if n := len(g.frame.circles[0]); n != 4 {
		t.Errorf("expected 4 resolved points, got %d", n)
	}
	lane := g.frame.lanes[0]
	if len(lane.Squares) != 1 || len(lane.Blocks) != 1 {
		t.Errorf("expected one marker and one block, got %d and %d", len(lane.Squares), len(lane.Blocks))
	}
	xc, _ := g.Layout()
	if w := lane.Blocks[0].Width; !near(w, xc.Positions[3].X-xc.Positions[1].X) {
		t.Errorf("block width should span its ticks, got %f", w)
	}
}

func TestLaneColors(t *testing.T) {
	d := rampData(4, 1)
	d.Lanes = []Lane{{
		Label: "lane",
		Markers: []Marker{
			{ID: "0", Colors: Colors{Fill: "#ff0000", GradientTop: "#0f0"}},
			{ID: "1", Colors: Colors{Fill: "nonsense"}},
		},
	}}
	g, cv, _ := newTestGraph(t, d, 300, 200)
	lane := g.frame.lanes[0]
	if c := lane.Squares[0].Fill; c.R != 0xff || c.G != 0 || c.B != 0 {
		t.Errorf("expected red override, got %v", c)
	}
	if c := lane.Squares[1].Fill; c != markerPalette.fill {
		t.Errorf("expected default fill for a bad override, got %v", c)
	}
	g.Render(epoch, f32.Pt(-1, -1))
	gradients := cv.ofKind(kindGradient)
	if len(gradients) != 2 {
		t.Fatalf("expected a glow per marker, got %d", len(gradients))
	}
	if c := gradients[0].color; c.G != 0xff || c.R != 0 {
		t.Errorf("expected green glow top, got %v", c)
	}
	if c := gradients[1].color; c != markerPalette.gradientTop {
		t.Errorf("expected default glow top, got %v", c)
	}
}

func TestFontResolution(t *testing.T) {
	d := rampData(3, 1)
	for _, tc := range []struct {
		name     string
		have     []string
		want     []string
		expected string
	}{
		{name: "first available", have: []string{"Go", "Mono"}, want: []string{"Missing", "Mono", "Go"}, expected: "Mono"},
		{name: "none available", have: []string{"Go"}, want: []string{"Missing"}, expected: ""},
		{name: "no candidates", have: []string{"Go"}, expected: ""},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cv := newFakeCanvas(tc.have...)
			o := DefaultOptions()
			o.Fonts = tc.want
			if _, err := New(&fakeContainer{size: image.Pt(100, 100)}, cv, &o, d); err != nil {
				t.Fatalf("failed creating graph: %v", err)
			}
			if cv.font != tc.expected {
				t.Errorf("expected font %q, got %q", tc.expected, cv.font)
			}
		})
	}
}

func TestCalloutOnHover(t *testing.T) {
	g, cv, _ := newTestGraph(t, rampData(5, 10), 400, 300)
	xc, yc := g.Layout()
	p := f32.Pt(xc.Positions[2].X, yc.ValueY(20)+2)
	g.Render(epoch, p)
	texts := cv.ofKind(kindText)
	last := texts[len(texts)-1]
	if last.text != "20" || last.a != f32.Pt(p.X, p.Y-calloutPadding) {
		t.Errorf("expected the hovered value callout last, got %+v", last)
	}
	circles := cv.ofKind(kindCircle)
	if circles[2].diameter <= pointDiameter {
		t.Errorf("hovered point should grow, got %f", circles[2].diameter)
	}
	if circles[1].diameter != pointDiameter {
		t.Errorf("other points keep their size, got %f", circles[1].diameter)
	}
}
