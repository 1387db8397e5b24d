package backend

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"git.sr.ht/~whereswaldon/swimgraph/graph"
)

// ErrUnknownFormat is returned for dataset files that are neither JSON nor
// CSV.
var ErrUnknownFormat = errors.New("unknown dataset format")

type jsonTick struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Date  string `json:"date,omitempty"`
}

type jsonPoint struct {
	ID    string  `json:"id"`
	Value float64 `json:"value"`
}

type jsonColors struct {
	FillColor           string `json:"fillColor"`
	StrokeColor         string `json:"strokeColor"`
	GradientTopColor    string `json:"gradientTopColor"`
	GradientBottomColor string `json:"gradientBottomColor"`
}

func (c jsonColors) colors() graph.Colors {
	return graph.Colors{
		Fill:           c.FillColor,
		Stroke:         c.StrokeColor,
		GradientTop:    c.GradientTopColor,
		GradientBottom: c.GradientBottomColor,
	}
}

type jsonSquare struct {
	ID    string `json:"id"`
	Value string `json:"value"`
	jsonColors
}

type jsonBlock struct {
	ID1   string `json:"id1"`
	ID2   string `json:"id2"`
	Label string `json:"label"`
	jsonColors
}

type jsonLane struct {
	Label   string       `json:"label"`
	Squares []jsonSquare `json:"squares"`
	Blocks  []jsonBlock  `json:"blocks"`
}

// jsonDataset is the on-disk JSON layout. GraphData is the single-series
// form and is drawn first; Series holds any number of further series.
type jsonDataset struct {
	Axis      []jsonTick    `json:"axis"`
	GraphData []jsonPoint   `json:"graphData"`
	Series    [][]jsonPoint `json:"series"`
	Swimlanes []jsonLane    `json:"swimlanes"`
}

// DecodeJSON reads a JSON dataset.
func DecodeJSON(r io.Reader) (graph.Data, error) {
	var raw jsonDataset
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return graph.Data{}, fmt.Errorf("failed decoding JSON dataset: %w", err)
	}
	var d graph.Data
	for i, t := range raw.Axis {
		label := graph.TextLabel(t.Label)
		if t.Date != "" {
			label = parseLabel(t.Date)
			if label.Time.IsZero() {
				return graph.Data{}, fmt.Errorf("axis entry %d: invalid date %q", i, t.Date)
			}
		} else if t.Label == "" {
			label = graph.TextLabel(t.ID)
		}
		d.Ticks = append(d.Ticks, graph.AxisTick{ID: t.ID, Label: label})
	}
	series := raw.Series
	if len(raw.GraphData) > 0 {
		series = append([][]jsonPoint{raw.GraphData}, series...)
	}
	for _, s := range series {
		points := make(graph.Series, 0, len(s))
		for _, p := range s {
			points = append(points, graph.Point{ID: p.ID, Value: p.Value})
		}
		d.Series = append(d.Series, points)
	}
	for _, l := range raw.Swimlanes {
		lane := graph.Lane{Label: l.Label}
		for _, sq := range l.Squares {
			lane.Markers = append(lane.Markers, graph.Marker{ID: sq.ID, Value: sq.Value, Colors: sq.colors()})
		}
		for _, b := range l.Blocks {
			lane.Blocks = append(lane.Blocks, graph.Interval{StartID: b.ID1, EndID: b.ID2, Label: b.Label, Colors: b.colors()})
		}
		d.Lanes = append(d.Lanes, lane)
	}
	if err := d.Validate(); err != nil {
		return graph.Data{}, err
	}
	return d, nil
}

// parseLabel recognizes dates in the label column.
func parseLabel(s string) graph.AxisLabel {
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return graph.DateLabel(t)
		}
	}
	return graph.TextLabel(s)
}

// DecodeCSV reads a CSV dataset whose header is "id, label, <series>...".
// Each row is one tick; empty value cells leave the tick out of that
// series. Only newline-terminated rows are read, so a file caught in the
// middle of a write never yields a torn row.
func DecodeCSV(r io.Reader) (graph.Data, error) {
	csvReader := csv.NewReader(NewLineReader(r))
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1
	headings, err := csvReader.Read()
	if err != nil {
		return graph.Data{}, fmt.Errorf("failed reading CSV headings: %w", err)
	}
	if len(headings) < 2 {
		return graph.Data{}, fmt.Errorf("CSV headings %q: need at least id and label columns", headings)
	}
	d := graph.Data{
		Series: make([]graph.Series, len(headings)-2),
	}
	for line := 2; ; line++ {
		rec, err := csvReader.Read()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return graph.Data{}, fmt.Errorf("failed reading CSV row %d: %w", line, err)
		}
		if len(rec) < 2 {
			return graph.Data{}, fmt.Errorf("CSV row %d: need at least id and label columns", line)
		}
		id := strings.TrimSpace(rec[0])
		d.Ticks = append(d.Ticks, graph.AxisTick{ID: id, Label: parseLabel(strings.TrimSpace(rec[1]))})
		for i := 2; i < len(rec) && i < len(headings); i++ {
			cell := strings.TrimSpace(rec[i])
			if len(cell) < 1 {
				// Skip null cells.
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return graph.Data{}, fmt.Errorf("CSV row %d, column %q: %w", line, headings[i], err)
			}
			d.Series[i-2] = append(d.Series[i-2], graph.Point{ID: id, Value: v})
		}
	}
	if err := d.Validate(); err != nil {
		return graph.Data{}, err
	}
	return d, nil
}

// Decode picks the decoder from the extension of name.
func Decode(name string, r io.Reader) (graph.Data, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return DecodeJSON(r)
	case ".csv":
		return DecodeCSV(r)
	default:
		return graph.Data{}, fmt.Errorf("%q: %w", name, ErrUnknownFormat)
	}
}
