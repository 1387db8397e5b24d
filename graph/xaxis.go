package graph

import "gioui.org/f32"

const (
	tickLength = 5
	labelGap   = 8
)

// XAxis draws the baseline, tick marks and labels of the time axis.
type XAxis struct {
	Y        float32
	Calc     XCalc
	TextSize float32
}

// labelAlign keeps the first and last labels inside the canvas.
func labelAlign(i, n int) HAlign {
	switch i {
	case 0:
		return AlignLeft
	case n - 1:
		return AlignRight
	default:
		return AlignCenter
	}
}

func (a XAxis) Draw(cv Canvas) {
	pos := a.Calc.Positions
	if len(pos) == 0 {
		return
	}
	cv.Line(f32.Pt(pos[0].X, a.Y), f32.Pt(pos[len(pos)-1].X, a.Y), 1, black)
	for i, p := range pos {
		if !p.Marked {
			continue
		}
		cv.Line(f32.Pt(p.X, a.Y), f32.Pt(p.X, a.Y+tickLength), 1, black)
		cv.Text(p.Label, f32.Pt(p.X, a.Y+labelGap), TextStyle{
			Size:   a.TextSize,
			Color:  black,
			HAlign: labelAlign(i, len(pos)),
			VAlign: AlignTop,
		})
	}
}
