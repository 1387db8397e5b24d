package graph

import (
	"io"
	"log/slog"
)

// Options configures the spacing, fonts and label formatting of a Graph.
// All distances are in canvas pixels.
type Options struct {
	MarginTop    float32
	MarginRight  float32
	MarginBottom float32
	// MarginLeft is added to the width of the widest swimlane label to
	// form the left edge of the plot.
	MarginLeft float32
	// SpaceBetweenGraphAndSwimlanes is the vertical gap between the axis
	// and the first swimlane row.
	SpaceBetweenGraphAndSwimlanes float32
	SwimlaneHeight                float32
	// AxisLabelFormatter maps a raw tick label to the displayed text.
	AxisLabelFormatter func(AxisLabel) string
	// BaseTextSize is used for gridline and lane labels.
	BaseTextSize float32
	// LabelTextSize is used for axis labels and hover callouts.
	LabelTextSize float32
	// Fonts lists candidate typefaces. The first one the canvas provides
	// is used; otherwise the canvas default applies.
	Fonts []string
	// Logger receives debug records about redraws and skipped data. Nil
	// discards them.
	Logger *slog.Logger
}

// DefaultOptions returns the options used when New is given nil.
func DefaultOptions() Options {
	return Options{
		MarginTop:                     20,
		MarginRight:                   10,
		MarginBottom:                  20,
		MarginLeft:                    10,
		SpaceBetweenGraphAndSwimlanes: 30,
		SwimlaneHeight:                20,
		AxisLabelFormatter:            FormatAxisLabel,
		BaseTextSize:                  16,
		LabelTextSize:                 12,
		Fonts:                         []string{"ui-sans-serif"},
	}
}

// FormatAxisLabel renders dates as 2006-01-02 and text as is.
func FormatAxisLabel(l AxisLabel) string {
	return l.String()
}

// normalized fills in the options that cannot sensibly be zero. Margins
// are taken as given.
func (o Options) normalized() Options {
	def := DefaultOptions()
	if o.AxisLabelFormatter == nil {
		o.AxisLabelFormatter = def.AxisLabelFormatter
	}
	if o.BaseTextSize <= 0 {
		o.BaseTextSize = def.BaseTextSize
	}
	if o.LabelTextSize <= 0 {
		o.LabelTextSize = def.LabelTextSize
	}
	if o.SwimlaneHeight < 0 {
		o.SwimlaneHeight = 0
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}
