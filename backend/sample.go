package backend

import (
	"math"
	"math/rand"
	"strconv"
	"time"

	"git.sr.ht/~whereswaldon/swimgraph/graph"
)

const (
	sampleFirstID = 6
	sampleLastID  = 44
	sampleMax     = 40
)

// sampleStart is the date of day zero of the sample axis.
var sampleStart = time.Date(2022, time.September, 0, 0, 0, 0, 0, time.UTC)

// RandomData returns a demonstration dataset: a dated axis, one series of
// random values and two lanes holding campaign markers and a sale period.
func RandomData(r *rand.Rand) graph.Data {
	var d graph.Data
	series := make(graph.Series, 0, sampleLastID-sampleFirstID+1)
	for i := sampleFirstID; i <= sampleLastID; i++ {
		id := strconv.Itoa(i)
		d.Ticks = append(d.Ticks, graph.AxisTick{
			ID:    id,
			Label: graph.DateLabel(sampleStart.AddDate(0, 0, i)),
		})
		series = append(series, graph.Point{
			ID:    id,
			Value: math.Round(r.Float64() * sampleMax),
		})
	}
	d.Series = []graph.Series{series}
	d.Lanes = []graph.Lane{
		{
			Label: "Lane 1",
			Markers: []graph.Marker{
				{ID: "9", Value: "1"},
				{ID: "24", Value: "2"},
			},
		},
		{
			Label: "Lane 2",
			Markers: []graph.Marker{
				{ID: "13", Value: "3", Colors: graph.Colors{Fill: "#9d174d", Stroke: "#fdf2f8"}},
				{ID: "25", Value: "4"},
			},
			Blocks: []graph.Interval{
				{StartID: "15", EndID: "20", Label: "Sale"},
			},
		},
	}
	return d
}
