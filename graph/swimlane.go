package graph

import "gioui.org/f32"

const (
	markerSide   = 16
	cornerRadius = 5
)

// LaneGeometry locates a swimlane row on the canvas.
type LaneGeometry struct {
	Label string
	// Y is the top of the row.
	Y, Height float32
	// PlotTop is where highlight glows start.
	PlotTop float32
	// D is the marker side and block height.
	D         float32
	LabelSize float32
}

// ResolvedMarker is a marker whose tick has been mapped to a pixel x.
type ResolvedMarker struct {
	X     float32
	Value string
	Colors
}

// ResolvedInterval is a block whose ticks have been mapped to pixel x.
type ResolvedInterval struct {
	X1, X2 float32
	Label  string
	Colors
}

// Swimlane is one annotation row and the shapes it owns.
type Swimlane struct {
	LaneGeometry
	Squares []Square
	Blocks  []Block

	squareGlow []palette
	blockGlow  []palette
}

// NewSwimlane builds the shapes of a row from resolved coordinates.
func NewSwimlane(g LaneGeometry, markers []ResolvedMarker, blocks []ResolvedInterval) Swimlane {
	s := Swimlane{LaneGeometry: g}
	for _, m := range markers {
		p := markerPalette.resolve(m.Colors)
		s.Squares = append(s.Squares, Square{
			Center:        f32.Pt(m.X, g.Y+g.Height/2),
			Side:          g.D,
			HoverDiameter: g.D,
			Radius:        cornerRadius,
			Label:         m.Value,
			LabelSize:     g.LabelSize,
			Fill:          p.fill,
			Stroke:        p.stroke,
		})
		s.squareGlow = append(s.squareGlow, p)
	}
	for _, b := range blocks {
		p := blockPalette.resolve(b.Colors)
		s.Blocks = append(s.Blocks, Block{
			X:         b.X1,
			Width:     b.X2 - b.X1,
			Y:         g.Y,
			Height:    g.D,
			MarginTop: (g.Height - g.D) / 2,
			Radius:    cornerRadius,
			Label:     b.Label,
			LabelSize: g.LabelSize,
			Fill:      p.fill,
			Stroke:    p.stroke,
		})
		s.blockGlow = append(s.blockGlow, p)
	}
	return s
}

// Draw paints the highlight strips, glows and shapes of the row.
func (s Swimlane) Draw(cv Canvas, p f32.Point) {
	for i, sq := range s.Squares {
		b := sq.Bounds()
		s.highlight(cv, b.Min.X, b.Dx(), b.Max.Y, s.squareGlow[i])
		sq.Draw(cv, p)
	}
	for i, bl := range s.Blocks {
		b := bl.Bounds()
		s.highlight(cv, b.Min.X, b.Dx(), b.Max.Y, s.blockGlow[i])
		bl.Draw(cv, p)
	}
}

// highlight paints the faint strip from the canvas top down to bottom and
// the gradient glow from the plot top down to the row.
func (s Swimlane) highlight(cv Canvas, x, w, bottom float32, p palette) {
	cv.Rect(RectXYWH(x, 0, w, bottom), Style{Fill: stripGray})
	if s.Y > s.PlotTop {
		cv.VerticalGradient(Rect{
			Min: f32.Pt(x, s.PlotTop),
			Max: f32.Pt(x+w, s.Y),
		}, p.gradientTop, p.gradientBottom)
	}
}

// IsMouseOver reports whether p hovers any shape of the row.
func (s Swimlane) IsMouseOver(p f32.Point) bool {
	for _, sq := range s.Squares {
		if sq.IsMouseOver(p) {
			return true
		}
	}
	for _, b := range s.Blocks {
		if b.IsMouseOver(p) {
			return true
		}
	}
	return false
}
