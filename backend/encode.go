package backend

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"git.sr.ht/~whereswaldon/swimgraph/graph"
)

func encodeTick(t graph.AxisTick) jsonTick {
	if !t.Label.Time.IsZero() {
		return jsonTick{ID: t.ID, Date: t.Label.Time.Format(time.DateOnly)}
	}
	return jsonTick{ID: t.ID, Label: t.Label.Text}
}

func encodeColors(c graph.Colors) jsonColors {
	return jsonColors{
		FillColor:           c.Fill,
		StrokeColor:         c.Stroke,
		GradientTopColor:    c.GradientTop,
		GradientBottomColor: c.GradientBottom,
	}
}

// EncodeJSON writes d in the layout DecodeJSON reads.
func EncodeJSON(w io.Writer, d graph.Data) error {
	var raw jsonDataset
	for _, t := range d.Ticks {
		raw.Axis = append(raw.Axis, encodeTick(t))
	}
	for _, s := range d.Series {
		points := make([]jsonPoint, 0, len(s))
		for _, p := range s {
			points = append(points, jsonPoint{ID: p.ID, Value: p.Value})
		}
		raw.Series = append(raw.Series, points)
	}
	for _, l := range d.Lanes {
		lane := jsonLane{Label: l.Label}
		for _, m := range l.Markers {
			lane.Squares = append(lane.Squares, jsonSquare{ID: m.ID, Value: m.Value, jsonColors: encodeColors(m.Colors)})
		}
		for _, b := range l.Blocks {
			lane.Blocks = append(lane.Blocks, jsonBlock{ID1: b.StartID, ID2: b.EndID, Label: b.Label, jsonColors: encodeColors(b.Colors)})
		}
		raw.Swimlanes = append(raw.Swimlanes, lane)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(raw); err != nil {
		return fmt.Errorf("failed encoding JSON dataset: %w", err)
	}
	return nil
}

// EncodeCSV writes the axis and series of d in the layout DecodeCSV reads.
// Lanes cannot be expressed in CSV and are dropped.
func EncodeCSV(w io.Writer, d graph.Data) error {
	csvWriter := csv.NewWriter(w)
	headings := []string{"id", "label"}
	values := make([]map[string]float64, len(d.Series))
	for i, s := range d.Series {
		headings = append(headings, "series "+strconv.Itoa(i+1))
		values[i] = make(map[string]float64, len(s))
		for _, p := range s {
			values[i][p.ID] = p.Value
		}
	}
	if err := csvWriter.Write(headings); err != nil {
		return fmt.Errorf("failed writing CSV headings: %w", err)
	}
	for _, t := range d.Ticks {
		label := t.Label.Text
		if !t.Label.Time.IsZero() {
			label = t.Label.Time.Format(time.DateOnly)
		}
		record := make([]string, len(headings))
		record[0] = t.ID
		record[1] = label
		for i := range values {
			if v, ok := values[i][t.ID]; ok {
				record[i+2] = strconv.FormatFloat(v, 'f', -1, 64)
			}
		}
		if err := csvWriter.Write(record); err != nil {
			return fmt.Errorf("failed writing CSV row %q: %w", t.ID, err)
		}
	}
	csvWriter.Flush()
	return csvWriter.Error()
}
