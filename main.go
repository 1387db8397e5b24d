package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"strings"
	"time"

	"gioui.org/app"
	"gioui.org/op"
	"gioui.org/unit"
	"gioui.org/x/explorer"
	"git.sr.ht/~gioverse/skel/stream"

	"git.sr.ht/~whereswaldon/swimgraph/backend"
	"git.sr.ht/~whereswaldon/swimgraph/graph"
)

// splitFonts turns a comma-separated list into font candidates.
func splitFonts(s string) []string {
	var fonts []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			fonts = append(fonts, f)
		}
	}
	return fonts
}

func main() {
	dataPath := flag.String("data", "", "Dataset file (.json or .csv) to display and reload on change; random data is shown when empty")
	fonts := flag.String("fonts", "", "Comma-separated font candidates for graph text, first available wins")
	laneHeight := flag.Float64("swimlane-height", float64(graph.DefaultOptions().SwimlaneHeight), "Height of each swimlane in pixels")
	seed := flag.Int64("seed", time.Now().UnixNano(), "Seed for the random dataset")
	verbose := flag.Bool("v", false, "Log graph redraw decisions")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	opts := graph.DefaultOptions()
	opts.SwimlaneHeight = float32(*laneHeight)
	if f := splitFonts(*fonts); len(f) > 0 {
		opts.Fonts = f
	}
	opts.Logger = logger

	ctx, cancel := context.WithCancel(context.Background())
	mutator := stream.NewMutator(ctx, time.Second)
	bundle := backend.NewBundle(mutator, logger)
	ds := bundle.Datasource
	go func() {
		var err error
		if *dataPath != "" {
			err = ds.LoadPath(*dataPath)
		} else {
			err = ds.LoadData("random", backend.RandomData(rand.New(rand.NewSource(*seed))))
		}
		if err != nil {
			log.Printf("failed loading initial dataset: %v", err)
		}
	}()

	go func() {
		w := app.NewWindow(
			app.Title("swimgraph"),
			app.Size(unit.Dp(900), unit.Dp(600)),
		)
		if err := loop(ctx, w, bundle, opts); err != nil {
			log.Fatal(err)
		}
		cancel()
		if err := mutator.Shutdown(); err != nil {
			logger.Warn("mutator shutdown", "err", err)
		}
		os.Exit(0)
	}()
	app.Main()
}

func loop(ctx context.Context, w *app.Window, bundle backend.Bundle, opts graph.Options) error {
	expl := explorer.NewExplorer(w)
	ws := backend.NewWindowState(ctx, bundle, w)
	ui := NewUI(ws, expl, w, opts)
	defer ui.Dispose()
	var ops op.Ops
	for {
		ev := w.NextEvent()
		expl.ListenEvents(ev)
		switch ev := ev.(type) {
		case app.DestroyEvent:
			return ev.Err
		case app.FrameEvent:
			gtx := app.NewContext(&ops, ev)
			ui.Layout(gtx)
			ev.Frame(gtx.Ops)
		}
	}
}
