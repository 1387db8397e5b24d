package main

import (
	"errors"
	"image"
	"image/color"
	"math/rand"
	"strconv"
	"time"

	"gioui.org/app"
	"gioui.org/font/gofont"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/component"
	"gioui.org/x/explorer"
	"git.sr.ht/~gioverse/skel/stream"
	"golang.org/x/exp/shiny/materialdesign/icons"

	"git.sr.ht/~whereswaldon/swimgraph/backend"
	"git.sr.ht/~whereswaldon/swimgraph/giograph"
	"git.sr.ht/~whereswaldon/swimgraph/graph"
)

type (
	C = layout.Context
	D = layout.Dimensions
)

var openIcon = func() *widget.Icon {
	icon, _ := widget.NewIcon(icons.FileFolderOpen)
	return icon
}()

var shuffleIcon = func() *widget.Icon {
	icon, _ := widget.NewIcon(icons.AVShuffle)
	return icon
}()

var errorColor = color.NRGBA{R: 150, A: 255}

// UI is responsible for holding the state of and drawing the top-level UI.
type UI struct {
	ws   backend.WindowState
	expl *explorer.Explorer
	win  *app.Window
	th   *material.Theme
	opts graph.Options

	canvas *giograph.Widget
	graph  *graph.Graph

	sessions *stream.Stream[backend.Session]
	session  backend.Session
	// data is what the graph currently shows.
	data   graph.Data
	status string
	// asyncErrs carries failures from file choosers running off the
	// frame loop.
	asyncErrs chan error

	openBtn   widget.Clickable
	randomBtn widget.Clickable
	legend    component.GridState
}

func NewUI(ws backend.WindowState, expl *explorer.Explorer, win *app.Window, opts graph.Options) *UI {
	faces := gofont.Collection()
	th := material.NewTheme()
	th.Shaper = text.NewShaper(text.WithCollection(faces), text.NoSystemFonts())
	return &UI{
		ws:        ws,
		expl:      expl,
		win:       win,
		th:        th,
		opts:      opts,
		canvas:    giograph.NewWidget(th.Shaper, faces),
		sessions:  stream.New(ws.Controller, ws.Bundle.Datasource.Sessions),
		asyncErrs: make(chan error, 1),
	}
}

// applySession hands the dataset of s to the graph, creating the graph for
// the first usable dataset.
func (ui *UI) applySession(s backend.Session) {
	ui.session = s
	ui.status = s.Name
	if s.Err != nil {
		ui.status = s.Err.Error()
	}
	if len(s.Data.Ticks) == 0 {
		return
	}
	var err error
	if ui.graph == nil {
		ui.graph, err = graph.New(ui.canvas, ui.canvas.Canvas, &ui.opts, s.Data)
	} else {
		err = ui.graph.SetData(s.Data)
	}
	if err != nil {
		ui.status = err.Error()
		return
	}
	ui.data = s.Data
}

func (ui *UI) reportAsync(err error) {
	select {
	case ui.asyncErrs <- err:
	default:
	}
	ui.win.Invalidate()
}

// Update the state of the UI from its inputs and the backend.
func (ui *UI) Update(gtx C) {
	if s, ok := ui.sessions.ReadNew(gtx); ok {
		ui.applySession(s)
	}
	select {
	case err := <-ui.asyncErrs:
		ui.status = err.Error()
	default:
	}
	ds := ui.ws.Bundle.Datasource
	if ui.openBtn.Clicked(gtx) {
		go func() {
			if err := ds.LoadFromFile(ui.expl); err != nil && !errors.Is(err, explorer.ErrUserDecline) {
				ui.reportAsync(err)
			}
		}()
	}
	if ui.randomBtn.Clicked(gtx) {
		go func() {
			d := backend.RandomData(rand.New(rand.NewSource(time.Now().UnixNano())))
			if err := ds.LoadData("random", d); err != nil {
				ui.reportAsync(err)
			}
		}()
	}
}

func (ui *UI) layoutToolbar(gtx C) D {
	return layout.UniformInset(4).Layout(gtx, func(gtx C) D {
		return layout.Flex{Alignment: layout.Middle}.Layout(gtx,
			layout.Rigid(material.IconButton(ui.th, &ui.openBtn, openIcon, "Open dataset").Layout),
			layout.Rigid(layout.Spacer{Width: 4}.Layout),
			layout.Rigid(material.IconButton(ui.th, &ui.randomBtn, shuffleIcon, "Random dataset").Layout),
			layout.Rigid(layout.Spacer{Width: 8}.Layout),
			layout.Flexed(1, func(gtx C) D {
				l := material.Body1(ui.th, ui.status)
				l.MaxLines = 1
				if ui.session.Err != nil {
					l.Color = errorColor
				}
				return l.Layout(gtx)
			}),
		)
	})
}

func (ui *UI) layoutGraph(gtx C) D {
	if ui.graph == nil {
		return layout.Center.Layout(gtx, material.Body1(ui.th, "No data yet.").Layout)
	}
	return ui.canvas.Layout(gtx, ui.graph)
}

// legendRows lists the series followed by the lanes.
func (ui *UI) legendRows() int {
	return len(ui.data.Series) + len(ui.data.Lanes)
}

func (ui *UI) layoutLegend(gtx C) D {
	if ui.legendRows() == 0 {
		return D{}
	}
	gtx.Constraints.Max.Y = min(gtx.Constraints.Max.Y, gtx.Dp(140))
	table := component.Table(ui.th, &ui.legend)
	table.HScrollbarStyle.Indicator.MinorWidth = 0
	table.HScrollbarStyle.Track.MinorPadding = 0
	colorColWidth := gtx.Dp(50)
	countColWidth := gtx.Dp(100)
	nameColWidth := gtx.Constraints.Max.X - colorColWidth - 2*countColWidth - gtx.Dp(table.VScrollbarStyle.Width())
	rowHeight := gtx.Sp(20)
	const (
		colorCol = iota
		nameCol
		pointsCol
		blocksCol
		numCols
	)
	data := ui.data
	return table.Layout(gtx, ui.legendRows(), numCols,
		func(axis layout.Axis, index, constraint int) int {
			if axis == layout.Vertical {
				return min(constraint, rowHeight)
			}
			var size int
			switch index {
			case colorCol:
				size = colorColWidth
			case nameCol:
				size = nameColWidth
			case pointsCol, blocksCol:
				size = countColWidth
			}
			return min(size, constraint)
		},
		func(gtx C, index int) D {
			var l material.LabelStyle
			switch index {
			case colorCol:
				l = material.Body1(ui.th, "Color")
			case nameCol:
				l = material.Body1(ui.th, "Name")
			case pointsCol:
				l = material.Body1(ui.th, "Points")
				l.Alignment = text.End
			case blocksCol:
				l = material.Body1(ui.th, "Blocks")
				l.Alignment = text.End
			}
			l.Color = ui.th.ContrastFg
			return layout.Background{}.Layout(gtx,
				func(gtx C) D {
					paint.FillShape(gtx.Ops, ui.th.ContrastBg, clip.Rect{Max: gtx.Constraints.Max}.Op())
					return D{Size: gtx.Constraints.Min}
				}, l.Layout,
			)
		},
		func(gtx C, row, col int) (dims D) {
			defer func() {
				dims.Size = gtx.Constraints.Constrain(dims.Size)
			}()
			isSeries := row < len(data.Series)
			return layout.UniformInset(2).Layout(gtx, func(gtx C) D {
				var s string
				switch col {
				case colorCol:
					if !isSeries {
						return D{Size: gtx.Constraints.Min}
					}
					size := image.Pt(gtx.Constraints.Max.X, gtx.Constraints.Max.Y)
					paint.FillShape(gtx.Ops, graph.SeriesColor(row), clip.Rect{Max: size}.Op())
					return D{Size: size}
				case nameCol:
					if isSeries {
						s = "Series " + strconv.Itoa(row+1)
					} else {
						s = data.Lanes[row-len(data.Series)].Label
					}
				case pointsCol:
					if isSeries {
						s = strconv.Itoa(len(data.Series[row]))
					} else {
						s = strconv.Itoa(len(data.Lanes[row-len(data.Series)].Markers))
					}
				case blocksCol:
					if !isSeries {
						s = strconv.Itoa(len(data.Lanes[row-len(data.Series)].Blocks))
					}
				}
				l := material.Body2(ui.th, s)
				if col != nameCol {
					l.Alignment = text.End
				}
				return l.Layout(gtx)
			})
		},
	)
}

// Layout the UI into the provided context.
func (ui *UI) Layout(gtx C) D {
	ui.Update(gtx)
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(ui.layoutToolbar),
		layout.Flexed(1, func(gtx C) D {
			return layout.UniformInset(unit.Dp(8)).Layout(gtx, ui.layoutGraph)
		}),
		layout.Rigid(ui.layoutLegend),
	)
}

// Dispose releases the graph.
func (ui *UI) Dispose() {
	if ui.graph != nil {
		ui.graph.Dispose()
	}
}
