package backend

import (
	"context"
	"log/slog"

	"gioui.org/app"
	"git.sr.ht/~gioverse/skel/stream"
)

// WindowState carries the per-window handles the UI reads from.
type WindowState struct {
	Bundle
	Controller *stream.Controller
}

func NewWindowState(ctx context.Context, bundle Bundle, win *app.Window) WindowState {
	return WindowState{
		Bundle:     bundle,
		Controller: stream.NewController(ctx, win.Invalidate),
	}
}

// Bundle holds the application-wide backend services.
type Bundle struct {
	Datasource *Datasource
}

func NewBundle(mutator *stream.Mutator, logger *slog.Logger) Bundle {
	return Bundle{
		Datasource: NewDatasource(mutator, logger),
	}
}
