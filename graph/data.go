package graph

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	// ErrNoAxis is returned when a dataset carries no axis ticks.
	ErrNoAxis = errors.New("graph: axis tick sequence is required")
	// ErrDuplicateTick is returned when two ticks share an identifier.
	ErrDuplicateTick = errors.New("graph: duplicate axis tick identifier")
	// ErrNonFinite is returned when a series value is NaN or infinite.
	ErrNonFinite = errors.New("graph: series value is not finite")
	// ErrDisposed is returned by operations invoked after Dispose.
	ErrDisposed = errors.New("graph: disposed")
)

// AxisLabel is the raw source of a tick label: either free text or a
// point in time.
type AxisLabel struct {
	Text string
	Time time.Time
}

// TextLabel returns a label backed by free text.
func TextLabel(s string) AxisLabel {
	return AxisLabel{Text: s}
}

// DateLabel returns a label backed by a point in time.
func DateLabel(t time.Time) AxisLabel {
	return AxisLabel{Time: t}
}

func (l AxisLabel) String() string {
	if !l.Time.IsZero() {
		return l.Time.Format(time.DateOnly)
	}
	return l.Text
}

// AxisTick is one evenly spaced position on the horizontal domain.
type AxisTick struct {
	ID    string
	Label AxisLabel
}

// Point is one value of a series, anchored to the tick with the same ID.
type Point struct {
	ID    string
	Value float64
}

// Series is an ordered run of points.
type Series []Point

// Colors overrides the palette of a marker or block. Each field is a hex
// color such as "#065f46"; empty fields use the defaults.
type Colors struct {
	Fill           string
	Stroke         string
	GradientTop    string
	GradientBottom string
}

// Marker is a point annotation in a swimlane.
type Marker struct {
	ID     string
	Value  string
	Colors Colors
}

// Interval is a block annotation in a swimlane spanning two ticks.
type Interval struct {
	StartID string
	EndID   string
	Label   string
	Colors  Colors
}

// Lane is a horizontal annotation row beneath the series.
type Lane struct {
	Label   string
	Markers []Marker
	Blocks  []Interval
}

// Data is the full input of a Graph. It is replaced wholesale.
type Data struct {
	Ticks  []AxisTick
	Series []Series
	Lanes  []Lane
}

// Validate reports configuration errors that make the data unusable.
func (d Data) Validate() error {
	if len(d.Ticks) == 0 {
		return ErrNoAxis
	}
	seen := make(map[string]struct{}, len(d.Ticks))
	for i, t := range d.Ticks {
		if _, ok := seen[t.ID]; ok {
			return fmt.Errorf("tick %d %q: %w", i, t.ID, ErrDuplicateTick)
		}
		seen[t.ID] = struct{}{}
	}
	for si, s := range d.Series {
		for _, p := range s {
			if !finite(p.Value) {
				return fmt.Errorf("series %d point %q: %w", si, p.ID, ErrNonFinite)
			}
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// maxValue returns the largest finite value across all series, never below
// zero.
func (d Data) maxValue() float64 {
	var m float64
	for _, s := range d.Series {
		for _, p := range s {
			if finite(p.Value) {
				m = max(m, p.Value)
			}
		}
	}
	return m
}

// tickIndex maps tick identifiers to their position.
func (d Data) tickIndex() map[string]int {
	idx := make(map[string]int, len(d.Ticks))
	for i, t := range d.Ticks {
		idx[t.ID] = i
	}
	return idx
}
