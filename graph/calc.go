package graph

import (
	"math"
	"strconv"

	"golang.org/x/exp/constraints"
)

// XPosition is the resolved horizontal position of one axis tick.
type XPosition struct {
	X float32
	// Marked ticks get a tick mark and a visible label.
	Marked bool
	Label  string
}

// XCalc is the horizontal layout of the plot.
type XCalc struct {
	// MarginLeft is the x of the first tick; the space before it holds
	// the swimlane labels.
	MarginLeft float32
	Spacing    float32
	Positions  []XPosition
}

// YCalc is the vertical layout of the plot.
type YCalc struct {
	// Scale is the number of pixels per unit of value. It is zero when
	// the data has no positive maximum.
	Scale    float32
	MaxValue float64
	// MarginBottom is the space below the plot, swimlanes included.
	MarginBottom float32
	// LabelWidth is the width of the widest gridline label.
	LabelWidth float32
	// Labels and Lines describe the top, middle and bottom gridlines.
	Labels [3]string
	Lines  [3]float32
	// Lanes holds the top y of every swimlane row.
	Lanes []float32
}

// markStride is the distance between marked ticks for n ticks, producing
// three or four visible labels whatever the density.
func markStride(n int) int {
	return max(int(ceil(float64(n)/3)), 1)
}

// CalcX lays out the axis ticks across width.
func CalcX(m Measurer, o Options, width float32, ticks []AxisTick, lanes []Lane) XCalc {
	o = o.normalized()
	var maxLabel float32
	for _, l := range lanes {
		maxLabel = max(maxLabel, m.TextWidth(l.Label, o.BaseTextSize))
	}
	xc := XCalc{
		MarginLeft: maxLabel + o.MarginLeft,
	}
	n := len(ticks)
	if n == 0 {
		return xc
	}
	xc.Spacing = (width - (xc.MarginLeft + o.MarginRight)) / float32(n)
	stride := markStride(n)
	xc.Positions = make([]XPosition, n)
	for i, t := range ticks {
		xc.Positions[i] = XPosition{
			X:      xc.MarginLeft + float32(i)*xc.Spacing,
			Marked: i%stride == 0 || i == n-1,
			Label:  o.AxisLabelFormatter(t.Label),
		}
	}
	return xc
}

// CalcY lays out the gridlines, the value scale and the swimlane rows
// across height.
func CalcY(m Measurer, o Options, height float32, series []Series, lanes []Lane) YCalc {
	o = o.normalized()
	yc := YCalc{
		MarginBottom: o.SpaceBetweenGraphAndSwimlanes + float32(len(lanes))*o.SwimlaneHeight + o.MarginBottom,
		MaxValue:     Data{Series: series}.maxValue(),
	}
	plotHeight := max(height-o.MarginTop-yc.MarginBottom, 0)
	if yc.MaxValue > 0 {
		yc.Scale = plotHeight / float32(yc.MaxValue)
	}

	top := o.MarginTop
	bottom := o.MarginTop + plotHeight
	middle := round((bottom-top)/2) + top
	yc.Lines = [3]float32{top, middle, bottom}
	yc.Labels = [3]string{
		formatValue(yc.MaxValue),
		formatValue(yc.MaxValue / 2),
		formatValue(0),
	}
	for _, l := range yc.Labels {
		yc.LabelWidth = max(yc.LabelWidth, m.TextWidth(l, o.BaseTextSize))
	}

	yc.Lanes = make([]float32, len(lanes))
	for i := range lanes {
		yc.Lanes[i] = height - yc.MarginBottom + o.SpaceBetweenGraphAndSwimlanes + o.SwimlaneHeight*float32(i)
	}
	return yc
}

// ValueY maps a series value to its pixel row.
func (y YCalc) ValueY(v float64) float32 {
	return y.Lines[2] - float32(v)*y.Scale
}

// PlotTop is the y of the top gridline.
func (y YCalc) PlotTop() float32 {
	return y.Lines[0]
}

// PlotBottom is the y of the zero gridline, where the axis sits.
func (y YCalc) PlotBottom() float32 {
	return y.Lines[2]
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func ceil[T constraints.Integer | constraints.Float](a T) T {
	return T(math.Ceil(float64(a)))
}

func round[T constraints.Integer | constraints.Float](a T) T {
	return T(math.Round(float64(a)))
}
