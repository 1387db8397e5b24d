package graph

import (
	"image"
	"log/slog"

	"gioui.org/f32"
)

const (
	pointDiameter      = 3
	pointHoverDiameter = 20
	seriesLineWidth    = 2
)

// frame is the complete, read-only geometry of one layout generation.
type frame struct {
	size    image.Point
	x       XCalc
	y       YCalc
	circles [][]Circle
	lines   [][]Line
	lanes   []Swimlane
	axis    XAxis
	// mask outlines the area above every series.
	mask []f32.Point
}

// buildFrame derives a fresh frame from the data and the canvas size.
func buildFrame(m Measurer, o Options, size image.Point, d Data) *frame {
	f := &frame{
		size: size,
		x:    CalcX(m, o, float32(size.X), d.Ticks, d.Lanes),
		y:    CalcY(m, o, float32(size.Y), d.Series, d.Lanes),
	}
	ticks := d.tickIndex()
	xOf := func(id string) (float32, bool) {
		i, ok := ticks[id]
		if !ok {
			return 0, false
		}
		return f.x.Positions[i].X, true
	}

	// cols tracks the lowest on-screen y of every tick column.
	cols := make(map[int]float32)
	for si, s := range d.Series {
		var circles []Circle
		for _, p := range s {
			x, ok := xOf(p.ID)
			if !ok {
				o.Logger.Debug("skipping point with unknown tick", slog.String("id", p.ID), slog.Int("series", si))
				continue
			}
			if !finite(p.Value) {
				o.Logger.Debug("skipping point with non-finite value", slog.String("id", p.ID), slog.Int("series", si))
				continue
			}
			c := Circle{
				Center:        f32.Pt(x, f.y.ValueY(p.Value)),
				Diameter:      pointDiameter,
				HoverDiameter: pointHoverDiameter,
				Label:         formatValue(p.Value),
				LabelSize:     o.LabelTextSize,
				Color:         SeriesColor(si),
			}
			circles = append(circles, c)
			col := ticks[p.ID]
			if y, ok := cols[col]; !ok || c.Center.Y > y {
				cols[col] = c.Center.Y
			}
		}
		var lines []Line
		for i := 1; i < len(circles); i++ {
			lines = append(lines, Line{
				A:     circles[i-1].Center,
				B:     circles[i].Center,
				Width: seriesLineWidth,
				Color: lineGray,
			})
		}
		f.circles = append(f.circles, circles)
		f.lines = append(f.lines, lines)
	}
	f.mask = maskOutline(f.x, cols, float32(size.X))

	for i, l := range d.Lanes {
		g := LaneGeometry{
			Label:     l.Label,
			Y:         f.y.Lanes[i],
			Height:    o.SwimlaneHeight,
			PlotTop:   f.y.PlotTop(),
			D:         markerSide,
			LabelSize: o.LabelTextSize,
		}
		var markers []ResolvedMarker
		for _, mk := range l.Markers {
			x, ok := xOf(mk.ID)
			if !ok {
				o.Logger.Debug("skipping marker with unknown tick", slog.String("id", mk.ID), slog.String("lane", l.Label))
				continue
			}
			markers = append(markers, ResolvedMarker{X: x, Value: mk.Value, Colors: mk.Colors})
		}
		var blocks []ResolvedInterval
		for _, b := range l.Blocks {
			x1, ok1 := xOf(b.StartID)
			x2, ok2 := xOf(b.EndID)
			if !ok1 || !ok2 {
				o.Logger.Debug("skipping block with unknown tick", slog.String("start", b.StartID), slog.String("end", b.EndID), slog.String("lane", l.Label))
				continue
			}
			blocks = append(blocks, ResolvedInterval{X1: x1, X2: x2, Label: b.Label, Colors: b.Colors})
		}
		f.lanes = append(f.lanes, NewSwimlane(g, markers, blocks))
	}

	f.axis = XAxis{
		Y:        f.y.PlotBottom(),
		Calc:     f.x,
		TextSize: o.LabelTextSize,
	}
	return f
}

// maskOutline traces the polygon covering everything above the series:
// down the left edge, along the per-column lowest points, up the right
// edge. It is nil when there are no points.
func maskOutline(xc XCalc, cols map[int]float32, width float32) []f32.Point {
	var trace []f32.Point
	for i, p := range xc.Positions {
		if y, ok := cols[i]; ok {
			trace = append(trace, f32.Pt(p.X, y))
		}
	}
	if len(trace) == 0 {
		return nil
	}
	outline := make([]f32.Point, 0, len(trace)+4)
	outline = append(outline, f32.Pt(0, 0), f32.Pt(0, trace[0].Y))
	outline = append(outline, trace...)
	outline = append(outline, f32.Pt(width, trace[len(trace)-1].Y), f32.Pt(width, 0))
	return outline
}

// hovered reports whether p is over any series point.
func (f *frame) hovered(p f32.Point) bool {
	for _, s := range f.circles {
		for _, c := range s {
			if c.IsMouseOver(p) {
				return true
			}
		}
	}
	return false
}
